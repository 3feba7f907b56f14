package services

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"trajectory-assessment-api/pkg/models"
	"trajectory-assessment-api/pkg/scoring"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const (
	submissionCollection = "assessment_submissions"
	payloadSubmissionKey = "submission"
	scrollPageSize       = uint32(256)
	maxScrolledPoints    = 10000
)

// QdrantResultStore は提出をQdrantのポイントとして保存します。
// ベクトルは6ドメインのスコアなので、類似プロファイル検索がそのまま使えます。
type QdrantResultStore struct {
	conn        *grpc.ClientConn
	points      qdrant.PointsClient
	collections qdrant.CollectionsClient
	logger      *zap.Logger
}

// NewQdrantResultStore はQdrantへ接続し、コレクションがなければ作成します。
func NewQdrantResultStore(ctx context.Context, qdrantURL, qdrantAPIKey string, logger *zap.Logger) (*QdrantResultStore, error) {
	var dialOpts []grpc.DialOption

	// APIキーの有無で、Cloud接続(TLS+APIキー)とローカル接続(非セキュア)を切り替える
	if qdrantAPIKey != "" {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{})))
		authInterceptor := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			ctx = metadata.AppendToOutgoingContext(ctx, "api-key", qdrantAPIKey)
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		dialOpts = append(dialOpts, grpc.WithUnaryInterceptor(authInterceptor))
	} else {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(qdrantURL, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: qdrant client: %v", ErrStoreUnavailable, err)
	}

	store := &QdrantResultStore{
		conn:        conn,
		points:      qdrant.NewPointsClient(conn),
		collections: qdrant.NewCollectionsClient(conn),
		logger:      logger,
	}
	if err := store.ensureCollection(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

// ensureCollection はサーバーの起動を待ちながらコレクションの存在を確認します。
func (s *QdrantResultStore) ensureCollection(ctx context.Context) error {
	const maxRetries = 10
	retryInterval := 2 * time.Second

	var (
		res     *qdrant.ListCollectionsResponse
		listErr error
	)
	for i := 0; i < maxRetries; i++ {
		listCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		res, listErr = s.collections.List(listCtx, &qdrant.ListCollectionsRequest{})
		cancel()
		if listErr == nil {
			break
		}
		s.logger.Warn("qdrant not ready",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Error(listErr))

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, ctx.Err())
		case <-time.After(retryInterval):
		}
	}
	if listErr != nil {
		return fmt.Errorf("%w: list collections: %v", ErrStoreUnavailable, listErr)
	}

	for _, c := range res.GetCollections() {
		if c.GetName() == submissionCollection {
			s.logger.Info("qdrant collection exists", zap.String("collection", submissionCollection))
			return nil
		}
	}

	createCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := s.collections.Create(createCtx, &qdrant.CreateCollection{
		CollectionName: submissionCollection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(len(scoring.Domains())),
					Distance: qdrant.Distance_Euclid,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: create collection: %v", ErrStoreUnavailable, err)
	}
	s.logger.Info("qdrant collection created", zap.String("collection", submissionCollection))
	return nil
}

func (s *QdrantResultStore) Save(ctx context.Context, sub *models.Submission) error {
	raw, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	payload := map[string]*qdrant.Value{
		payloadSubmissionKey: {Kind: &qdrant.Value_StringValue{StringValue: string(raw)}},
		"module_id":          {Kind: &qdrant.Value_StringValue{StringValue: sub.ModuleID}},
		"avatar":             {Kind: &qdrant.Value_StringValue{StringValue: string(sub.Result.Avatar)}},
		"overall":            {Kind: &qdrant.Value_DoubleValue{DoubleValue: sub.Result.Overall}},
		"created_at":         {Kind: &qdrant.Value_IntegerValue{IntegerValue: sub.CreatedAt.Unix()}},
	}

	wait := true
	_, err = s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: submissionCollection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{
			{
				Id: pointID(sub.ID),
				Vectors: &qdrant.Vectors{
					VectorsOptions: &qdrant.Vectors_Vector{
						Vector: &qdrant.Vector{Data: profileVector(sub.Result.DomainScores)},
					},
				},
				Payload: payload,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: upsert %s: %v", ErrStoreUnavailable, sub.ID, err)
	}
	return nil
}

// Get は提出を返します。ポイントIDはUUIDなので、UUIDでないIDは問い合わせずに未検出とします。
func (s *QdrantResultStore) Get(ctx context.Context, id string) (*models.Submission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSubmissionNotFound
	}
	res, err := s.points.Get(ctx, &qdrant.GetPoints{
		CollectionName: submissionCollection,
		Ids:            []*qdrant.PointId{pointID(id)},
		WithPayload:    withPayload(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrStoreUnavailable, id, err)
	}
	if len(res.GetResult()) == 0 {
		return nil, ErrSubmissionNotFound
	}
	return decodeSubmission(res.GetResult()[0].GetPayload())
}

func (s *QdrantResultStore) List(ctx context.Context, limit int) ([]*models.Submission, error) {
	var (
		out    []*models.Submission
		offset *qdrant.PointId
	)
	pageSize := scrollPageSize
	for len(out) < maxScrolledPoints {
		res, err := s.points.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: submissionCollection,
			Offset:         offset,
			Limit:          &pageSize,
			WithPayload:    withPayload(),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: scroll: %v", ErrStoreUnavailable, err)
		}
		for _, p := range res.GetResult() {
			sub, err := decodeSubmission(p.GetPayload())
			if err != nil {
				s.logger.Warn("skipping undecodable point", zap.Error(err))
				continue
			}
			out = append(out, sub)
		}
		offset = res.GetNextPageOffset()
		if offset == nil {
			break
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *QdrantResultStore) Similar(ctx context.Context, id string, limit int) ([]models.SimilarSubmission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSubmissionNotFound
	}
	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	limit = clampSimilarLimit(limit)
	res, err := s.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: submissionCollection,
		Vector:         profileVector(target.Result.DomainScores),
		Limit:          uint64(limit + 1),
		WithPayload:    withPayload(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrStoreUnavailable, err)
	}

	matches := make([]models.SimilarSubmission, 0, limit)
	for _, p := range res.GetResult() {
		sub, err := decodeSubmission(p.GetPayload())
		if err != nil || sub.ID == id {
			continue
		}
		matches = append(matches, models.SimilarSubmission{Submission: sub, Distance: float64(p.GetScore())})
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

func (s *QdrantResultStore) Close() error {
	return s.conn.Close()
}

func pointID(id string) *qdrant.PointId {
	return &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: id}}
}

func withPayload() *qdrant.WithPayloadSelector {
	return &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}}
}

func decodeSubmission(payload map[string]*qdrant.Value) (*models.Submission, error) {
	val, ok := payload[payloadSubmissionKey]
	if !ok || val == nil || val.GetStringValue() == "" {
		return nil, fmt.Errorf("point payload has no %q field", payloadSubmissionKey)
	}
	var sub models.Submission
	if err := json.Unmarshal([]byte(val.GetStringValue()), &sub); err != nil {
		return nil, fmt.Errorf("decode submission: %w", err)
	}
	return &sub, nil
}
