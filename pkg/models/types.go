package models

import (
	"time"

	"trajectory-assessment-api/pkg/scoring"
)

// SubmitRequest は提出APIのリクエスト
type SubmitRequest struct {
	Answers    map[string]float64 `json:"answers"`
	Reflective map[string]string  `json:"reflective,omitempty"`
	ModuleID   string             `json:"moduleId,omitempty"`
}

// Submission は採点済みの提出データ（作成後は変更しない）
type Submission struct {
	ID         string                           `json:"id"`
	ModuleID   string                           `json:"moduleId"`
	Answers    map[string]int                   `json:"answers"`
	Reflective map[string]string                `json:"reflective,omitempty"`
	Result     scoring.Result                   `json:"result"`
	Labels     map[scoring.Domain]scoring.Label `json:"labels"`
	CreatedAt  time.Time                        `json:"createdAt"`
}

// SubmitResponse は提出APIのレスポンス
type SubmitResponse struct {
	ID              string                           `json:"id,omitempty"`
	ModuleID        string                           `json:"moduleId"`
	Overall         float64                          `json:"overall"`
	Avatar          scoring.Avatar                   `json:"avatar"`
	DomainScores    scoring.DomainScores             `json:"domainScores"`
	LowestDomains   [2]scoring.Domain                `json:"lowestDomains"`
	Labels          map[scoring.Domain]scoring.Label `json:"labels"`
	Actions         scoring.Actions                  `json:"actions"`
	AnsweredDomains int                              `json:"answeredDomains"`
}

// NewSubmitResponse は提出データからレスポンスを生成
func NewSubmitResponse(s *Submission) SubmitResponse {
	return SubmitResponse{
		ID:              s.ID,
		ModuleID:        s.ModuleID,
		Overall:         s.Result.Overall,
		Avatar:          s.Result.Avatar,
		DomainScores:    s.Result.DomainScores,
		LowestDomains:   s.Result.LowestTwoDomains,
		Labels:          s.Labels,
		Actions:         scoring.SuggestedActions(s.Result.LowestTwoDomains),
		AnsweredDomains: scoring.AnsweredDomains(s.Answers),
	}
}

// AssessmentCompleteEvent は採点完了時に発行されるイベント
type AssessmentCompleteEvent struct {
	SubmissionID  string            `json:"submissionId"`
	ModuleID      string            `json:"moduleId"`
	Overall       float64           `json:"overall"`
	Avatar        scoring.Avatar    `json:"avatar"`
	LowestDomains [2]scoring.Domain `json:"lowestDomains"`
	OccurredAt    time.Time         `json:"occurredAt"`
}

// NewAssessmentCompleteEvent は提出データからイベントを生成
func NewAssessmentCompleteEvent(s *Submission) AssessmentCompleteEvent {
	return AssessmentCompleteEvent{
		SubmissionID:  s.ID,
		ModuleID:      s.ModuleID,
		Overall:       s.Result.Overall,
		Avatar:        s.Result.Avatar,
		LowestDomains: s.Result.LowestTwoDomains,
		OccurredAt:    s.CreatedAt,
	}
}

// SimilarSubmission は類似プロファイル検索の1件
type SimilarSubmission struct {
	Submission *Submission `json:"submission"`
	Distance   float64     `json:"distance"`
}

// LaneDiagnosticRequest はレーン診断のリクエスト（LD1〜LD18、値は1〜5）
type LaneDiagnosticRequest struct {
	Answers map[string]float64 `json:"answers"`
}
