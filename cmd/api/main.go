package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/vitavet/vitavet-api/internal/config"
	agendaHandler "github.com/vitavet/vitavet-api/internal/handler/agenda"
	animalHandler "github.com/vitavet/vitavet-api/internal/handler/animal"
	appointmentHandler "github.com/vitavet/vitavet-api/internal/handler/appointment"
	availabilityHandler "github.com/vitavet/vitavet-api/internal/handler/availability"
	blockedHandler "github.com/vitavet/vitavet-api/internal/handler/blockedperiod"
	clinicHandler "github.com/vitavet/vitavet-api/internal/handler/clinic"
	healthHandler "github.com/vitavet/vitavet-api/internal/handler/health"
	"github.com/vitavet/vitavet-api/internal/middleware"
	"github.com/vitavet/vitavet-api/internal/repository/postgres"
	"github.com/vitavet/vitavet-api/internal/router"
	agendaService "github.com/vitavet/vitavet-api/internal/service/agenda"
	animalService "github.com/vitavet/vitavet-api/internal/service/animal"
	availabilityService "github.com/vitavet/vitavet-api/internal/service/availability"
	clinicService "github.com/vitavet/vitavet-api/internal/service/clinic"
	schedulingService "github.com/vitavet/vitavet-api/internal/service/scheduling"
	"github.com/vitavet/vitavet-api/pkg/auth"
	"github.com/vitavet/vitavet-api/pkg/logger"
	redismsg "github.com/vitavet/vitavet-api/pkg/messaging/redis"
	"github.com/vitavet/vitavet-api/pkg/metrics"
	"github.com/vitavet/vitavet-api/pkg/redislock"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("vitavet")

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

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	blockedRepo := postgres.NewBlockedPeriodRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)
	animalRepo := postgres.NewAnimalRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Redis: the broker publishes lifecycle events, and the slot locker
	// shares its connection pool.
	var locker redislock.SlotLocker = redislock.NoopLocker{}
	broker, err := redismsg.NewRedisBroker(redismsg.Config{URL: cfg.Redis.URL}, &log.Logger)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, slot locking degraded to single-instance mode")
	} else {
		defer broker.Close()
		if rb, ok := broker.(*redismsg.RedisBroker); ok {
			locker = redislock.NewSlotLocker(rb.Client(), 10*time.Second)
		}
	}

	// Services
	availabilitySvc := availabilityService.NewService(clinicRepo, userRepo, appointmentRepo, blockedRepo, appMetrics)
	schedulingSvc := schedulingService.NewService(
		appointmentRepo,
		blockedRepo,
		clinicRepo,
		animalRepo,
		userRepo,
		outboxRepo,
		availabilitySvc,
		locker,
		appLogger,
		appMetrics,
	)
	agendaSvc := agendaService.NewService(appointmentRepo, blockedRepo)
	clinicSvc := clinicService.NewService(clinicRepo)
	animalSvc := animalService.NewService(animalRepo, userRepo)

	// Middleware and handlers
	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:      cfg.JWT.Secret,
		ExpiryHours: cfg.JWT.ExpiryHours,
		Issuer:      cfg.JWT.Issuer,
	})
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	r := router.NewRouter(
		authMiddleware,
		healthHandler.NewHandler(db),
		availabilityHandler.NewHandler(availabilitySvc),
		appointmentHandler.NewHandler(schedulingSvc),
		agendaHandler.NewHandler(agendaSvc),
		blockedHandler.NewHandler(schedulingSvc),
		clinicHandler.NewHandler(clinicSvc),
		animalHandler.NewHandler(animalSvc),
		router.Config{
			RateLimit:     rate.Limit(cfg.Server.RateLimitRPS),
			RateBurst:     cfg.Server.RateLimitBurst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "vitavet_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
