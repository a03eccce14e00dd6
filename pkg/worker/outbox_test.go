package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/pkg/logger"
)

type fakeOutboxRepo struct {
	pending  []*model.OutboxEvent
	statuses map[uuid.UUID]model.OutboxStatus
}

func newFakeOutboxRepo(events ...*model.OutboxEvent) *fakeOutboxRepo {
	return &fakeOutboxRepo{
		pending:  events,
		statuses: make(map[uuid.UUID]model.OutboxStatus),
	}
}

func (f *fakeOutboxRepo) Create(ctx context.Context, e *model.OutboxEvent) error {
	f.pending = append(f.pending, e)
	return nil
}
func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}
func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	f.statuses[id] = status
	return nil
}

type fakeBroker struct {
	published []string
	failures  int
}

func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, channel)
	return nil
}
func (f *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}
func (f *fakeBroker) Close() error { return nil }

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func pendingEvent(eventType string) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   []byte(`{}`),
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
}

func TestOutboxProcessBatch(t *testing.T) {
	evt := pendingEvent(model.EventAppointmentCreated)
	repo := newFakeOutboxRepo(evt)
	broker := &fakeBroker{}

	p := NewOutboxProcessor(repo, broker, OutboxConfig{PublishChannel: "events"}, testLogger(), nil)

	require.NoError(t, p.ProcessBatch(context.Background()))
	assert.Equal(t, []string{"events"}, broker.published)
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[evt.ID])
}

func TestOutboxProcessBatchRetriesTransientFailure(t *testing.T) {
	evt := pendingEvent(model.EventAppointmentConfirmed)
	repo := newFakeOutboxRepo(evt)
	broker := &fakeBroker{failures: 1}

	p := NewOutboxProcessor(repo, broker, OutboxConfig{
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	}, testLogger(), nil)

	require.NoError(t, p.ProcessBatch(context.Background()))
	assert.Len(t, broker.published, 1)
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[evt.ID])
}

func TestOutboxProcessBatchMarksFailedAfterRetries(t *testing.T) {
	evt := pendingEvent(model.EventAppointmentCancelled)
	repo := newFakeOutboxRepo(evt)
	broker := &fakeBroker{failures: 10}

	p := NewOutboxProcessor(repo, broker, OutboxConfig{
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}, testLogger(), nil)

	require.NoError(t, p.ProcessBatch(context.Background()))
	assert.Empty(t, broker.published)
	assert.Equal(t, model.OutboxStatusFailed, repo.statuses[evt.ID])
}

func TestOutboxProcessBatchRespectsBatchSize(t *testing.T) {
	repo := newFakeOutboxRepo(
		pendingEvent(model.EventAppointmentCreated),
		pendingEvent(model.EventAppointmentCreated),
		pendingEvent(model.EventAppointmentCreated),
	)
	broker := &fakeBroker{}

	p := NewOutboxProcessor(repo, broker, OutboxConfig{BatchSize: 2}, testLogger(), nil)

	require.NoError(t, p.ProcessBatch(context.Background()))
	assert.Len(t, broker.published, 2)
}
