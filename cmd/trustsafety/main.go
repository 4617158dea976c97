package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/richxcame/salon-safety/internal/moderation"
	"github.com/richxcame/salon-safety/internal/performance"
	"github.com/richxcame/salon-safety/internal/reviews"
	"github.com/richxcame/salon-safety/internal/risk"
	"github.com/richxcame/salon-safety/internal/snapshot"
	"github.com/richxcame/salon-safety/internal/tuning"
	"github.com/richxcame/salon-safety/pkg/common"
	"github.com/richxcame/salon-safety/pkg/config"
	"github.com/richxcame/salon-safety/pkg/database"
	"github.com/richxcame/salon-safety/pkg/eventbus"
	"github.com/richxcame/salon-safety/pkg/health"
	"github.com/richxcame/salon-safety/pkg/logger"
	"github.com/richxcame/salon-safety/pkg/middleware"
	"github.com/richxcame/salon-safety/pkg/redis"
	"github.com/richxcame/salon-safety/pkg/resilience"
	"github.com/richxcame/salon-safety/pkg/tracing"
)

const serviceName = "trust-safety"

func main() {
	// Load configuration
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Environment, serviceName); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Server.Environment,
			Release:          cfg.Server.Version,
			EnableTracing:    cfg.Sentry.TracesSampleRate > 0,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		}); err != nil {
			logger.Warn("Sentry disabled", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	shutdownTracing, err := tracing.Init(context.Background(), &cfg.Tracing, serviceName, cfg.Server.Version)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	tune, err := tuning.Load(cfg.Engine.TuningFile)
	if err != nil {
		logger.Fatal("Failed to load tuning", zap.String("path", cfg.Engine.TuningFile), zap.Error(err))
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)
	logger.Info("Connected to PostgreSQL database")

	checks := map[string]common.HealthCheckFunc{
		"database": health.DatabaseChecker(db),
	}

	// Redis and NATS are optional: the service degrades to uncached, unpublished snapshots
	var cache *redis.Client
	if cfg.Redis.Enabled {
		cache, err = redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer func() {
				if err := cache.Close(); err != nil {
					logger.Warn("Failed to close Redis client", zap.Error(err))
				}
			}()
			checks["redis"] = health.RedisChecker(cache.Client)
			logger.Info("Connected to Redis")
		}
	}

	var bus *eventbus.Bus
	if cfg.NATS.Enabled {
		bus, err = eventbus.Connect(&cfg.NATS, serviceName)
		if err != nil {
			logger.Warn("NATS unavailable, alert publishing disabled", zap.Error(err))
		} else {
			defer func() {
				if err := bus.Close(); err != nil {
					logger.Warn("Failed to drain NATS connection", zap.Error(err))
				}
			}()
			checks["nats"] = health.NATSChecker(bus.Conn())
			logger.Info("Connected to NATS", zap.String("stream", cfg.NATS.Stream))
		}
	}

	// Engines
	aggregator := performance.NewAggregator(tune.Performance)
	detector := risk.NewDetector(tune.Risk, nil)
	engine := reviews.NewEngine(tune.Reviews, nil)

	// Services

	snapshotService := snapshot.NewService(snapshot.NewRepository(db, cfg.Database.QueryTimeout), aggregator, detector)
	snapshotService.SetDefaults(tune.SnapshotOptions())
	snapshotService.SetRetryAttempts(cfg.Engine.FetchRetryAttempts)
	snapshotService.SetCircuitBreakers(
		newBreaker(cfg.Breaker, "snapshot-appointments"),
		newBreaker(cfg.Breaker, "snapshot-recent-appointments"),
		newBreaker(cfg.Breaker, "snapshot-daily-analytics"),
	)

	moderationService := moderation.NewService(moderation.NewRepository(db, cfg.Database.QueryTimeout), engine, moderation.Settings{
		StatsSampleSize: tune.Moderation.StatsSampleSize,
		ReviewLimit:     tune.Moderation.ReviewLimit,
		ReviewerLimit:   tune.Moderation.ReviewerLimit,
	})
	moderationService.SetRetryAttempts(cfg.Engine.FetchRetryAttempts)
	moderationService.SetCircuitBreakers(
		newBreaker(cfg.Breaker, "moderation-reviewer-aggregates"),
		newBreaker(cfg.Breaker, "moderation-customer-emails"),
		newBreaker(cfg.Breaker, "moderation-flagged-reasons"),
	)

	if cache != nil {
		snapshotService.SetCache(cache, cfg.Engine.SnapshotCacheTTL)
		moderationService.SetCache(cache, cfg.Engine.StatsCacheTTL)
	}
	if bus != nil {
		snapshotService.SetPublisher(snapshot.NewEventPublisher(bus, cfg.NATS.Subject))
	}

	router := newRouter(cfg, checks,
		snapshot.NewHandler(snapshotService),
		moderation.NewHandler(moderationService),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout)*time.Second + cfg.Server.RequestTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Trust and safety service starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("Tracer shutdown failed", zap.Error(err))
	}
}

type routeRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// newRouter builds the middleware chain and mounts the admin API behind the JWT gate
func newRouter(cfg *config.Config, checks map[string]common.HealthCheckFunc, handlers ...routeRegistrar) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery())
	if cfg.Sentry.Enabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(cfg.Server.ServiceName))
	router.Use(middleware.SecurityHeaders(cfg.Server.Environment))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	// Health check and metrics (no auth required)
	router.GET("/healthz", common.HealthCheck(cfg.Server.ServiceName, cfg.Server.Version))
	router.GET("/readyz", common.HealthCheckWithDeps(cfg.Server.ServiceName, cfg.Server.Version, 2*time.Second, checks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Admin API
	admin := router.Group("/api/v1/admin/trust-safety")
	admin.Use(timeout.New(
		timeout.WithTimeout(cfg.Server.RequestTimeout),
		timeout.WithResponse(func(c *gin.Context) {
			common.ErrorResponse(c, http.StatusGatewayTimeout, "request timed out")
		}),
	))
	admin.Use(middleware.AdminOnly(cfg.JWT.Secret)...)
	for _, h := range handlers {
		h.RegisterRoutes(admin)
	}

	return router
}

// newBreaker builds a feed breaker, or returns nil when breakers are disabled
func newBreaker(cfg config.BreakerConfig, name string) *resilience.CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	settings := resilience.BuildSettings(name, cfg.IntervalSeconds, cfg.TimeoutSeconds, cfg.FailureThreshold, cfg.SuccessThreshold)
	return resilience.NewCircuitBreaker(settings, resilience.NoopFallback)
}
