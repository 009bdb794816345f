package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	authHandler "github.com/jwalitptl/medtrack-api/internal/handler/auth"
	"github.com/jwalitptl/medtrack-api/internal/handler/doctor"
	"github.com/jwalitptl/medtrack-api/internal/handler/health"
	"github.com/jwalitptl/medtrack-api/internal/handler/medication"
	"github.com/jwalitptl/medtrack-api/internal/handler/message"
	"github.com/jwalitptl/medtrack-api/internal/handler/patient"
	"github.com/jwalitptl/medtrack-api/internal/handler/record"
	"github.com/jwalitptl/medtrack-api/internal/handler/sideeffect"
	"github.com/jwalitptl/medtrack-api/internal/middleware"
	"github.com/jwalitptl/medtrack-api/internal/model"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth       *authHandler.Handler
	Doctor     *doctor.Handler
	Patient    *patient.Handler
	Medication *medication.Handler
	Record     *record.Handler
	SideEffect *sideeffect.Handler
	Message    *message.Handler
	Health     *health.Handler
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	Mode             string
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	RateTTL          time.Duration
	CORSConfig       middleware.CORSConfig
	RequestTimeout   time.Duration
	MaxBodyBytes     int64
	MetricsPrefix    string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	handlers Handlers,
	config RouterConfig,
	reg prometheus.Registerer,
) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  initRouterMetrics(config.MetricsPrefix, reg),
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.SecurityHeaders(),
		middleware.CORS(config.CORSConfig),
	)

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
			TTL:   config.RateTTL,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	engine.Use(
		middleware.BodyLimit(config.MaxBodyBytes),
		middleware.Timeout(config.RequestTimeout),
	)

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Health.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.handlers.Auth.RegisterRoutes(api, protected)
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	assignGuard := r.auth.RequireRole(model.RoleDoctor.String(), model.RoleAdmin.String())

	r.handlers.Doctor.RegisterRoutes(rg, assignGuard)
	r.handlers.Patient.RegisterRoutes(rg, middleware.AccessLog("patient"))
	r.handlers.Medication.RegisterRoutes(rg, middleware.AccessLog("medication"))
	r.handlers.Record.RegisterRoutes(rg, middleware.AccessLog("medication_record"))
	r.handlers.SideEffect.RegisterRoutes(rg, middleware.AccessLog("side_effect"))
	r.handlers.Message.RegisterRoutes(rg)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string, reg prometheus.Registerer) *routerMetrics {
	f := promauto.With(reg)
	return &routerMetrics{
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: prefix,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prefix,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prefix,
				Name:      "http_errors_total",
				Help:      "Total number of HTTP responses with status >= 400",
			},
			[]string{"method", "path", "class"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// unmatched routes would otherwise explode label cardinality
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := c.Writer.Status()
		status := strconv.Itoa(code)

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		switch {
		case code >= 500:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		case code >= 400:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}
