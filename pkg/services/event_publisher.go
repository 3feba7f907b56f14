package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trajectory-assessment-api/pkg/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher は採点完了イベントを下流（メール通知、アップセル等）へ届けます。
type EventPublisher interface {
	PublishAssessmentComplete(ctx context.Context, event models.AssessmentCompleteEvent) error
	Close() error
}

// LogPublisher はイベントを構造化ログとして出力するだけのPublisherです。
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher は新しいLogPublisherを生成します。
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishAssessmentComplete(_ context.Context, event models.AssessmentCompleteEvent) error {
	p.logger.Info("assessment_complete",
		zap.String("submission_id", event.SubmissionID),
		zap.String("module_id", event.ModuleID),
		zap.Float64("overall", event.Overall),
		zap.String("avatar", string(event.Avatar)),
		zap.String("lowest_primary", string(event.LowestDomains[0])),
		zap.String("lowest_secondary", string(event.LowestDomains[1])))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// messageWriter は kafka.Writer のうち使用するメソッドだけを切り出したものです。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaBatchTimeout は1件ずつ同期で発行する際のバッチ待ち時間
const kafkaBatchTimeout = 10 * time.Millisecond

// KafkaPublisher はイベントをKafkaトピックへJSONで書き込みます。
type KafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

// NewKafkaPublisher は brokers/topic 向けのKafkaPublisherを生成します。
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 5 * time.Second,
		BatchTimeout: kafkaBatchTimeout,
	}, logger)
}

func newKafkaPublisher(w messageWriter, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger}
}

func (p *KafkaPublisher) PublishAssessmentComplete(ctx context.Context, event models.AssessmentCompleteEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.SubmissionID),
		Value: b,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte("assessment_complete")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish assessment_complete %s: %w", event.SubmissionID, err)
	}
	p.logger.Debug("event published", zap.String("submission_id", event.SubmissionID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
