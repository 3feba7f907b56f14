package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trajectory-assessment-api/pkg/lanediag"
	"trajectory-assessment-api/pkg/models"
	"trajectory-assessment-api/pkg/scoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssessmentService は検証→採点→保存→イベント発行の流れをまとめます。
type AssessmentService struct {
	store           ResultStore
	publisher       EventPublisher
	metrics         *Metrics
	logger          *zap.Logger
	defaultModuleID string
	reflectiveIDs   map[string]bool

	now   func() time.Time
	newID func() string
}

// NewAssessmentService は新しいAssessmentServiceを生成します。metrics はnil可。
func NewAssessmentService(store ResultStore, publisher EventPublisher, metrics *Metrics, logger *zap.Logger, defaultModuleID string) *AssessmentService {
	return &AssessmentService{
		store:           store,
		publisher:       publisher,
		metrics:         metrics,
		logger:          logger,
		defaultModuleID: defaultModuleID,
		now:             func() time.Time { return time.Now().UTC() },
		newID:           func() string { return uuid.New().String() },
	}
}

// SetReflectiveIDs は受け付ける自由記述質問のIDを設定します。未設定の場合は任意のIDを受け付けます。
func (s *AssessmentService) SetReflectiveIDs(ids map[string]bool) {
	s.reflectiveIDs = ids
}

// Score は保存せずに採点だけを行います。
func (s *AssessmentService) Score(req models.SubmitRequest) (*models.Submission, error) {
	answers, err := ValidateAnswers(req.Answers)
	if verr := mergeValidationErrors(err, ValidateReflective(req.Reflective, s.reflectiveIDs)); verr != nil {
		s.metrics.ObserveValidationFailure()
		return nil, verr
	}
	return s.build(req, answers), nil
}

// DiagnoseLane はレーン診断の回答を検証して採点します。結果は保存しません。
func (s *AssessmentService) DiagnoseLane(req models.LaneDiagnosticRequest) (lanediag.Result, error) {
	answers, err := ValidateAnswers(req.Answers)
	if err != nil {
		s.metrics.ObserveValidationFailure()
		return lanediag.Result{}, err
	}
	result := lanediag.Score(answers)
	s.metrics.ObserveLane(result.Lane)
	s.logger.Info("lane diagnostic scored",
		zap.String("lane", string(result.Lane)),
		zap.Float64("overall", result.Overall),
		zap.Float64("confidence", result.Confidence))
	return result, nil
}

// Submit は提出を採点して保存し、採点完了イベントを発行します。
// イベント発行の失敗はログに残すだけで、提出自体は成功とします。
func (s *AssessmentService) Submit(ctx context.Context, req models.SubmitRequest) (*models.Submission, error) {
	sub, err := s.Score(req)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, sub); err != nil {
		s.logger.Error("failed to save submission", zap.String("submission_id", sub.ID), zap.Error(err))
		if errors.Is(err, ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := s.publisher.PublishAssessmentComplete(ctx, models.NewAssessmentCompleteEvent(sub)); err != nil {
		s.logger.Warn("failed to publish assessment_complete (non-critical)",
			zap.String("submission_id", sub.ID), zap.Error(err))
	}

	s.metrics.ObserveResult(sub.ModuleID, sub.Result)
	s.logger.Info("submission scored",
		zap.String("submission_id", sub.ID),
		zap.String("module_id", sub.ModuleID),
		zap.Float64("overall", sub.Result.Overall),
		zap.String("avatar", string(sub.Result.Avatar)))
	return sub, nil
}

// Get は保存済みの提出を返します。
func (s *AssessmentService) Get(ctx context.Context, id string) (*models.Submission, error) {
	return s.store.Get(ctx, id)
}

// List は新しい順に提出を返します。
func (s *AssessmentService) List(ctx context.Context, limit int) ([]*models.Submission, error) {
	return s.store.List(ctx, limit)
}

// Similar はドメインスコアが近い提出を返します。
func (s *AssessmentService) Similar(ctx context.Context, id string, limit int) ([]models.SimilarSubmission, error) {
	return s.store.Similar(ctx, id, limit)
}

func (s *AssessmentService) build(req models.SubmitRequest, answers map[string]int) *models.Submission {
	result := scoring.ScoreDomains(answers)

	moduleID := strings.TrimSpace(req.ModuleID)
	if moduleID == "" {
		moduleID = s.defaultModuleID
	}

	var reflective map[string]string
	if len(req.Reflective) > 0 {
		reflective = req.Reflective
	}

	return &models.Submission{
		ID:         s.newID(),
		ModuleID:   moduleID,
		Answers:    answers,
		Reflective: reflective,
		Result:     result,
		Labels:     scoring.DomainLabels(result.DomainScores),
		CreatedAt:  s.now(),
	}
}
