package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/vitavet/vitavet-api/internal/config"
	"github.com/vitavet/vitavet-api/internal/email"
	"github.com/vitavet/vitavet-api/internal/repository/postgres"
	"github.com/vitavet/vitavet-api/pkg/logger"
	redismsg "github.com/vitavet/vitavet-api/pkg/messaging/redis"
	"github.com/vitavet/vitavet-api/pkg/metrics"
	"github.com/vitavet/vitavet-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("vitavet_worker")

	db, err := postgres.NewDB(postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redismsg.NewRedisBroker(redismsg.Config{URL: cfg.Redis.URL}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Redis broker")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	outboxProcessor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxConfig{
			BatchSize:      cfg.Outbox.BatchSize,
			PollInterval:   cfg.Outbox.PollInterval,
			MaxRetries:     cfg.Outbox.MaxRetries,
			RetryDelay:     cfg.Outbox.RetryDelay,
			PublishChannel: cfg.Outbox.PublishChannel,
		},
		appLogger,
		appMetrics,
	)

	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	reminderProcessor := worker.NewReminderProcessor(
		appointmentRepo,
		sender,
		worker.ReminderConfig{
			PollInterval: cfg.Reminder.PollInterval,
			LeadTime:     cfg.Reminder.LeadTime,
			BatchSize:    cfg.Reminder.BatchSize,
		},
		appLogger,
		appMetrics,
	)

	setupHealthCheck(cfg.Outbox.HealthCheckPort, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLogger.Info("shutting down...")
		cancel()
	}()

	go reminderProcessor.Start(ctx)
	outboxProcessor.Start(ctx)
}

func setupHealthCheck(port int, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			log.Error(err, "health check server failed")
			os.Exit(1)
		}
	}()
}
