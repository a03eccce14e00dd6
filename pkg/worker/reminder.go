package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/vitavet/vitavet-api/internal/email"
	"github.com/vitavet/vitavet-api/internal/repository"
	"github.com/vitavet/vitavet-api/pkg/logger"
	"github.com/vitavet/vitavet-api/pkg/metrics"
)

// ReminderConfig controls the reminder polling loop. LeadTime is how far
// ahead of the appointment start the reminder goes out.
type ReminderConfig struct {
	PollInterval time.Duration
	LeadTime     time.Duration
	BatchSize    int
}

// ReminderProcessor emails owners ahead of confirmed appointments. Each
// appointment is reminded at most once; the sent marker is persisted before
// moving on so a crash cannot double-send a whole batch.
type ReminderProcessor struct {
	repo    repository.AppointmentRepository
	sender  email.Sender
	config  ReminderConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewReminderProcessor(
	repo repository.AppointmentRepository,
	sender email.Sender,
	config ReminderConfig,
	log *logger.Logger,
	m *metrics.Metrics,
) *ReminderProcessor {
	if config.PollInterval <= 0 {
		config.PollInterval = time.Minute
	}
	if config.LeadTime <= 0 {
		config.LeadTime = 24 * time.Hour
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	return &ReminderProcessor{
		repo:    repo,
		sender:  sender,
		config:  config,
		logger:  log,
		metrics: m,
	}
}

// Start blocks until ctx is cancelled.
func (p *ReminderProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("reminder processor started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("reminder processor shutting down")
			return
		case <-ticker.C:
			if err := p.ProcessDue(ctx); err != nil {
				p.logger.Error(err, "failed to process reminders")
			}
		}
	}
}

// ProcessDue sends reminders for confirmed appointments starting within the
// lead-time window that have not been reminded yet.
func (p *ReminderProcessor) ProcessDue(ctx context.Context) error {
	now := time.Now()
	candidates, err := p.repo.FindDueForReminder(ctx, now, now.Add(p.config.LeadTime))
	if err != nil {
		return fmt.Errorf("failed to find due reminders: %w", err)
	}

	sent := 0
	for _, candidate := range candidates {
		if sent >= p.config.BatchSize {
			break
		}

		if err := p.sender.SendReminder(candidate); err != nil {
			p.metrics.IncRemindersFailed()
			p.logger.Error(err, "failed to send reminder",
				"appointment_id", candidate.AppointmentID.String(),
				"owner_email", candidate.OwnerEmail,
			)
			continue
		}

		if err := p.repo.MarkReminded(ctx, candidate.AppointmentID); err != nil {
			p.logger.Error(err, "failed to mark appointment as reminded",
				"appointment_id", candidate.AppointmentID.String(),
			)
			continue
		}

		p.metrics.IncRemindersSent()
		sent++
	}

	if sent > 0 {
		p.logger.Info("reminders sent", "count", sent)
	}
	return nil
}
