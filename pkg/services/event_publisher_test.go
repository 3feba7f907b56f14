package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"trajectory-assessment-api/pkg/models"
	"trajectory-assessment-api/pkg/scoring"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func sampleEvent() models.AssessmentCompleteEvent {
	return models.AssessmentCompleteEvent{
		SubmissionID:  "sub-1",
		ModuleID:      "ktb",
		Overall:       3.42,
		Avatar:        scoring.Balancer,
		LowestDomains: [2]scoring.Domain{scoring.Emotions, scoring.Health},
		OccurredAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestKafkaPublisherWritesJSON(t *testing.T) {
	w := &fakeWriter{}
	pub := newKafkaPublisher(w, zap.NewNop())

	require.NoError(t, pub.PublishAssessmentComplete(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("sub-1"), w.msgs[0].Key)

	var decoded models.AssessmentCompleteEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, sampleEvent(), decoded)

	require.NoError(t, pub.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	cause := errors.New("leader not available")
	pub := newKafkaPublisher(&fakeWriter{err: cause}, zap.NewNop())

	err := pub.PublishAssessmentComplete(context.Background(), sampleEvent())
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "sub-1")
}

func TestLogPublisher(t *testing.T) {
	pub := NewLogPublisher(zap.NewNop())
	assert.NoError(t, pub.PublishAssessmentComplete(context.Background(), sampleEvent()))
	assert.NoError(t, pub.Close())
}

func TestNewKafkaPublisherWriterSettings(t *testing.T) {
	pub := NewKafkaPublisher([]string{"localhost:9092"}, "assessment.complete", zap.NewNop())

	w, ok := pub.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "assessment.complete", w.Topic)
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
}
