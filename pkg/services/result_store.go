package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"trajectory-assessment-api/pkg/models"
	"trajectory-assessment-api/pkg/scoring"
)

var (
	// ErrSubmissionNotFound は指定IDの提出が存在しない場合に返されます。
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrStoreUnavailable は保存先に到達できない場合に返されます。
	ErrStoreUnavailable = errors.New("result store unavailable")
)

// MaxSimilarResults は類似検索で返す最大件数
const MaxSimilarResults = 20

// ResultStore は採点結果の保存先です。
type ResultStore interface {
	Save(ctx context.Context, s *models.Submission) error
	Get(ctx context.Context, id string) (*models.Submission, error)
	// List は新しい順に最大 limit 件を返します。limit <= 0 は全件。
	List(ctx context.Context, limit int) ([]*models.Submission, error)
	// Similar はドメインスコアのプロファイルが近い提出を距離の昇順で返します（自身は除く）。
	Similar(ctx context.Context, id string, limit int) ([]models.SimilarSubmission, error)
	Close() error
}

// profileVector はドメインスコアを固定順のベクトルに変換します。
func profileVector(scores scoring.DomainScores) []float32 {
	domains := scoring.Domains()
	vec := make([]float32, len(domains))
	for i, d := range domains {
		vec[i] = float32(scores[d])
	}
	return vec
}

func euclidean(a, b scoring.DomainScores) float64 {
	var sum float64
	for _, d := range scoring.Domains() {
		diff := a[d] - b[d]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

func clampSimilarLimit(limit int) int {
	if limit <= 0 || limit > MaxSimilarResults {
		return MaxSimilarResults
	}
	return limit
}

// MemoryResultStore はプロセス内に保存するResultStoreです。
type MemoryResultStore struct {
	mu    sync.RWMutex
	byID  map[string]*models.Submission
	order []string
}

// NewMemoryResultStore は空のMemoryResultStoreを生成します。
func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{byID: make(map[string]*models.Submission)}
}

func (s *MemoryResultStore) Save(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[sub.ID]; !exists {
		s.order = append(s.order, sub.ID)
	}
	s.byID[sub.ID] = sub
	return nil
}

func (s *MemoryResultStore) Get(_ context.Context, id string) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.byID[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	return sub, nil
}

func (s *MemoryResultStore) List(_ context.Context, limit int) ([]*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.order)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*models.Submission, 0, n)
	for i := len(s.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.byID[s.order[i]])
	}
	return out, nil
}

func (s *MemoryResultStore) Similar(_ context.Context, id string, limit int) ([]models.SimilarSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target, ok := s.byID[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}

	matches := make([]models.SimilarSubmission, 0, len(s.byID)-1)
	for otherID, other := range s.byID {
		if otherID == id {
			continue
		}
		matches = append(matches, models.SimilarSubmission{
			Submission: other,
			Distance:   euclidean(target.Result.DomainScores, other.Result.DomainScores),
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Submission.ID < matches[j].Submission.ID
	})

	if limit = clampSimilarLimit(limit); len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *MemoryResultStore) Close() error { return nil }
