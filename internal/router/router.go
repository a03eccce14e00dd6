package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/vitavet/vitavet-api/internal/middleware"
	"github.com/vitavet/vitavet-api/internal/model"
)

// Handler is anything that can attach its routes to a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine        *gin.Engine
	auth          *middleware.AuthMiddleware
	healthH       Handler
	availabilityH Handler
	appointmentH  Handler
	agendaH       Handler
	blockedH      Handler
	clinicH       Handler
	animalH       Handler
	metrics       *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimit     rate.Limit
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	healthH Handler,
	availabilityH Handler,
	appointmentH Handler,
	agendaH Handler,
	blockedH Handler,
	clinicH Handler,
	animalH Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:        engine,
		auth:          auth,
		healthH:       healthH,
		availabilityH: availabilityH,
		appointmentH:  appointmentH,
		agendaH:       agendaH,
		blockedH:      blockedH,
		clinicH:       clinicH,
		animalH:       animalH,
		metrics:       initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Validation(middleware.DefaultValidationConfig()),
		middleware.Timeout(middleware.DefaultTimeoutConfig()),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.healthH.RegisterRoutes(api)
	r.availabilityH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.appointmentH.RegisterRoutes(protected)
	r.agendaH.RegisterRoutes(protected)
	r.animalH.RegisterRoutes(protected)
	r.clinicH.RegisterRoutes(protected)

	staff := protected.Group("")
	staff.Use(r.auth.RequireRole(model.UserRoleVet, model.UserRoleAdmin))
	r.blockedH.RegisterRoutes(staff)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
