package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/internal/repository"
	"github.com/vitavet/vitavet-api/pkg/logger"
	"github.com/vitavet/vitavet-api/pkg/messaging"
	"github.com/vitavet/vitavet-api/pkg/metrics"
)

// OutboxConfig controls the polling loop of the outbox processor.
type OutboxConfig struct {
	BatchSize      int
	PollInterval   time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	PublishChannel string
}

// OutboxProcessor drains pending outbox events and publishes them to the
// message broker. Events that keep failing after MaxRetries attempts are
// marked failed and left for inspection.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxConfig,
	log *logger.Logger,
	m *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 5 * time.Second
	}
	if config.PublishChannel == "" {
		config.PublishChannel = "events"
	}
	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  log,
		metrics: m,
	}
}

// Start blocks until ctx is cancelled, processing a batch every poll interval.
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("outbox processor started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor shutting down")
			return
		case <-ticker.C:
			if err := p.ProcessBatch(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox batch")
			}
		}
	}
}

// ProcessBatch publishes one batch of pending events.
func (p *OutboxProcessor) ProcessBatch(ctx context.Context) error {
	start := time.Now()
	defer func() {
		p.metrics.ObserveOutboxLatency(time.Since(start).Seconds())
	}()

	events, err := p.repo.GetPendingEvents(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending events: %w", err)
	}

	for _, evt := range events {
		if err := p.publishWithRetry(ctx, evt); err != nil {
			p.metrics.IncOutboxFailed()
			errMsg := err.Error()
			if updateErr := p.repo.UpdateStatus(ctx, evt.ID, model.OutboxStatusFailed, &errMsg); updateErr != nil {
				p.logger.Error(updateErr, "failed to mark event as failed", "event_id", evt.ID.String())
			}
			continue
		}

		if err := p.repo.UpdateStatus(ctx, evt.ID, model.OutboxStatusProcessed, nil); err != nil {
			p.logger.Error(err, "failed to mark event as processed", "event_id", evt.ID.String())
			continue
		}
		p.metrics.IncOutboxProcessed()
	}

	return nil
}

func (p *OutboxProcessor) publishWithRetry(ctx context.Context, evt *model.OutboxEvent) error {
	var err error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * p.config.RetryDelay):
			}
		}

		err = p.broker.Publish(ctx, p.config.PublishChannel, messaging.Message{
			Type:    evt.EventType,
			Payload: evt.Payload,
		})
		if err == nil {
			return nil
		}

		p.logger.Warn("retry publishing event",
			"event_id", evt.ID.String(),
			"event_type", evt.EventType,
			"attempt", attempt+1,
		)
	}
	return fmt.Errorf("failed to publish event after %d attempts: %w", p.config.MaxRetries, err)
}
