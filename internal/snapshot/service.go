package snapshot

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/richxcame/salon-safety/internal/performance"
	"github.com/richxcame/salon-safety/internal/risk"
	"github.com/richxcame/salon-safety/pkg/database"
	"github.com/richxcame/salon-safety/pkg/logger"
	"github.com/richxcame/salon-safety/pkg/models"
	"github.com/richxcame/salon-safety/pkg/redis"
	"github.com/richxcame/salon-safety/pkg/resilience"
	"github.com/richxcame/salon-safety/pkg/tracing"
)

// Feed names used in logs and metrics
const (
	feedAppointments = "appointments"
	feedRecent       = "recent_appointments"
	feedAnalytics    = "daily_analytics"
)

// Service assembles appointment snapshots
type Service struct {
	repo       RepositoryInterface
	aggregator *performance.Aggregator
	detector   *risk.Detector
	defaults   Options

	cache    redis.ClientInterface
	cacheTTL time.Duration

	publisher AlertPublisher

	retryAttempts int
	breakers      map[string]*resilience.CircuitBreaker
	tracer        trace.Tracer
	now           func() time.Time
}

// NewService creates a new snapshot service
func NewService(repo RepositoryInterface, aggregator *performance.Aggregator, detector *risk.Detector) *Service {
	return &Service{
		repo:          repo,
		aggregator:    aggregator,
		detector:      detector,
		defaults:      DefaultOptions(),
		retryAttempts: 2,
		tracer:        tracing.Tracer("trustsafety/snapshot"),
		now:           time.Now,
	}
}

// SetDefaults replaces the bounds used for unset options
func (s *Service) SetDefaults(defaults Options) {
	s.defaults = defaults.withDefaults(DefaultOptions())
}

// SetCache enables snapshot caching. A nil cache or non-positive ttl disables it.
func (s *Service) SetCache(cache redis.ClientInterface, ttl time.Duration) {
	s.cache = cache
	s.cacheTTL = ttl
}

// SetPublisher enables fraud alert publishing
func (s *Service) SetPublisher(publisher AlertPublisher) {
	s.publisher = publisher
}

// SetRetryAttempts sets the per-feed attempt budget
func (s *Service) SetRetryAttempts(attempts int) {
	if attempts > 0 {
		s.retryAttempts = attempts
	}
}

// SetCircuitBreakers guards each feed with its own breaker. Nil breakers leave the feed unguarded.
func (s *Service) SetCircuitBreakers(appointments, recent, analytics *resilience.CircuitBreaker) {
	s.breakers = map[string]*resilience.CircuitBreaker{
		feedAppointments: appointments,
		feedRecent:       recent,
		feedAnalytics:    analytics,
	}
}

// GetAppointmentSnapshot fetches the appointment feeds concurrently and runs every
// aggregation pass over them. A failed feed is logged and treated as empty, so the
// snapshot is always returned.
func (s *Service) GetAppointmentSnapshot(ctx context.Context, opts Options) (*AppointmentSnapshot, error) {
	opts = opts.withDefaults(s.defaults)

	ctx, span := s.tracer.Start(ctx, "snapshot.GetAppointmentSnapshot", trace.WithAttributes(
		attribute.Int("window_days", opts.WindowDays),
		attribute.Int("appointment_limit", opts.AppointmentLimit),
	))
	defer span.End()

	key := opts.cacheKey()
	if cached, ok := s.readCache(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached, nil
	}

	start := time.Now()
	now := s.now().UTC()
	timeframe := Timeframe{
		Start: now.Add(-time.Duration(opts.WindowDays) * 24 * time.Hour),
		End:   now,
	}

	var (
		appointments []models.AppointmentRecord
		recent       []models.AppointmentOverview
		daily        []performance.DailyAnalyticsRow
	)

	// Every goroutine absorbs its own failure, so one feed never cancels the others
	var g errgroup.Group
	g.Go(func() error {
		appointments = fetchFeed(ctx, s, feedAppointments, func(ctx context.Context) ([]models.AppointmentRecord, error) {
			return s.repo.GetAppointmentsSince(ctx, timeframe.Start, opts.AppointmentLimit)
		})
		return nil
	})
	g.Go(func() error {
		recent = fetchFeed(ctx, s, feedRecent, func(ctx context.Context) ([]models.AppointmentOverview, error) {
			return s.repo.GetRecentAppointments(ctx, opts.RecentLimit)
		})
		return nil
	})
	g.Go(func() error {
		daily = fetchFeed(ctx, s, feedAnalytics, func(ctx context.Context) ([]performance.DailyAnalyticsRow, error) {
			return s.repo.GetDailyAnalytics(ctx, timeframe.Start, opts.WindowDays)
		})
		return nil
	})
	_ = g.Wait()

	totals := s.aggregator.BuildStatusTotals(appointments, now)
	snapshot := &AppointmentSnapshot{
		Timeframe:          timeframe,
		Totals:             totals,
		Performance:        s.aggregator.CalculatePerformanceMetrics(totals, appointments),
		Trend:              s.aggregator.BuildTrend(daily),
		Cancellations:      s.aggregator.BuildCancellationPatterns(appointments),
		NoShows:            s.aggregator.BuildNoShowRecords(appointments),
		FraudAlerts:        s.detector.BuildFraudAlerts(appointments),
		Disputes:           s.detector.BuildDisputeCandidates(appointments),
		SalonPerformance:   s.aggregator.MergeSalonPerformance(s.aggregator.BuildSalonRollups(appointments, opts.TopSalons)),
		RecentAppointments: recent,
	}

	snapshotBuildDuration.Observe(time.Since(start).Seconds())
	recordAlerts(snapshot.FraudAlerts)
	span.SetAttributes(
		attribute.Int("appointments", len(appointments)),
		attribute.Int("fraud_alerts", len(snapshot.FraudAlerts)),
	)

	s.writeCache(ctx, key, snapshot)
	s.publishAlerts(ctx, snapshot.FraudAlerts)

	return snapshot, nil
}

// fetchFeed runs one feed query under the Postgres retry policy and the feed's breaker,
// substituting an empty batch on failure or while the breaker is open
func fetchFeed[T any](ctx context.Context, s *Service, feed string, query func(ctx context.Context) ([]T, error)) []T {
	ctx, span := s.tracer.Start(ctx, "snapshot.fetch."+feed)
	defer span.End()

	breaker := s.breakers[feed]
	rows, err := database.RetryableQueryWithBreaker(ctx, database.RetryConfig("snapshot_"+feed, s.retryAttempts), breaker, query)
	if breaker != nil && errors.Is(err, resilience.ErrCircuitOpen) {
		span.SetAttributes(attribute.String("circuit_open", breaker.Name()))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "feed failed")
		feedFailuresTotal.WithLabelValues(feed).Inc()
		logger.WithContext(ctx).Warn("snapshot feed failed, continuing with empty batch",
			zap.String("feed", feed),
			zap.Error(err),
		)
		return []T{}
	}
	if rows == nil {
		return []T{}
	}

	span.SetAttributes(attribute.Int("rows", len(rows)))
	return rows
}

func (s *Service) readCache(ctx context.Context, key string) (*AppointmentSnapshot, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}

	var cached AppointmentSnapshot
	err := s.cache.GetJSON(ctx, key, &cached)
	switch {
	case err == nil:
		snapshotCacheTotal.WithLabelValues("hit").Inc()
		return &cached, true
	case errors.Is(err, redis.ErrCacheMiss):
		snapshotCacheTotal.WithLabelValues("miss").Inc()
	default:
		snapshotCacheTotal.WithLabelValues("error").Inc()
		logger.WithContext(ctx).Warn("snapshot cache read failed", zap.String("key", key), zap.Error(err))
	}
	return nil, false
}

func (s *Service) writeCache(ctx context.Context, key string, snapshot *AppointmentSnapshot) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, key, snapshot, s.cacheTTL); err != nil {
		logger.WithContext(ctx).Warn("snapshot cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) publishAlerts(ctx context.Context, alerts []risk.FraudAlert) {
	if s.publisher == nil || len(alerts) == 0 {
		return
	}
	if err := s.publisher.PublishAlerts(ctx, alerts); err != nil {
		logger.WithContext(ctx).Warn("fraud alert publish failed",
			zap.Int("alerts", len(alerts)),
			zap.Error(err),
		)
	}
}
