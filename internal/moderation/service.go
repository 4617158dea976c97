package moderation

import (
	"context"
	"errors"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/richxcame/salon-safety/internal/reviews"
	"github.com/richxcame/salon-safety/pkg/common"
	"github.com/richxcame/salon-safety/pkg/database"
	"github.com/richxcame/salon-safety/pkg/logger"
	"github.com/richxcame/salon-safety/pkg/models"
	"github.com/richxcame/salon-safety/pkg/redis"
	"github.com/richxcame/salon-safety/pkg/resilience"
	"github.com/richxcame/salon-safety/pkg/tracing"
)

const statsCacheKey = "trustsafety:moderation:stats"

// Enrichment lookup names used in logs, metrics and breaker wiring
const (
	lookupAggregates = "reviewer_aggregates"
	lookupEmails     = "customer_emails"
	lookupReasons    = "flagged_reasons"
)

// Service scores reviews for moderation and rolls up moderation statistics
type Service struct {
	repo     RepositoryInterface
	engine   *reviews.Engine
	settings Settings

	cache    redis.ClientInterface
	cacheTTL time.Duration

	retryAttempts int
	breakers      map[string]*resilience.CircuitBreaker
	tracer        trace.Tracer
}

// NewService creates a new moderation service
func NewService(repo RepositoryInterface, engine *reviews.Engine, settings Settings) *Service {
	defaults := DefaultSettings()
	if settings.StatsSampleSize <= 0 {
		settings.StatsSampleSize = defaults.StatsSampleSize
	}
	if settings.ReviewLimit <= 0 {
		settings.ReviewLimit = defaults.ReviewLimit
	}
	if settings.ReviewerLimit <= 0 {
		settings.ReviewerLimit = defaults.ReviewerLimit
	}

	return &Service{
		repo:          repo,
		engine:        engine,
		settings:      settings,
		retryAttempts: 2,
		tracer:        tracing.Tracer("trustsafety/moderation"),
	}
}

// SetCache enables caching of moderation statistics
func (s *Service) SetCache(cache redis.ClientInterface, ttl time.Duration) {
	s.cache = cache
	s.cacheTTL = ttl
}

// SetRetryAttempts sets the per-query attempt budget
func (s *Service) SetRetryAttempts(attempts int) {
	if attempts > 0 {
		s.retryAttempts = attempts
	}
}

// SetCircuitBreakers guards each enrichment lookup with its own breaker.
// Nil breakers leave the lookup unguarded.
func (s *Service) SetCircuitBreakers(aggregates, emails, reasons *resilience.CircuitBreaker) {
	s.breakers = map[string]*resilience.CircuitBreaker{
		lookupAggregates: aggregates,
		lookupEmails:     emails,
		lookupReasons:    reasons,
	}
}

// ========================================
// STATISTICS
// ========================================

// GetModerationStats issues the four counters and the recent sample concurrently.
// A failed counter reports 0 and a failed sample yields zero averages.
func (s *Service) GetModerationStats(ctx context.Context) (*ModerationStats, error) {
	ctx, span := s.tracer.Start(ctx, "moderation.GetModerationStats")
	defer span.End()

	if cached, ok := s.readStatsCache(ctx); ok {
		return cached, nil
	}

	stats := &ModerationStats{}
	var sample []models.ReviewRecord

	counters := []struct {
		kind CountKind
		dest *int64
	}{
		{kind: CountTotal, dest: &stats.TotalReviews},
		{kind: CountFlagged, dest: &stats.FlaggedReviews},
		{kind: CountWithoutResponse, dest: &stats.PendingReviews},
		{kind: CountHighRisk, dest: &stats.HighRiskReviews},
	}

	var g errgroup.Group
	for _, counter := range counters {
		counter := counter
		g.Go(func() error {
			*counter.dest = s.count(ctx, counter.kind)
			return nil
		})
	}
	g.Go(func() error {
		rows, err := database.RetryableQuery(ctx, database.RetryConfig("moderation_sample", s.retryAttempts),
			func(ctx context.Context) ([]models.ReviewRecord, error) {
				return s.repo.GetRecentReviewSample(ctx, s.settings.StatsSampleSize)
			})
		if err != nil {
			logger.WithContext(ctx).Warn("moderation sample failed, reporting zero averages", zap.Error(err))
			return nil
		}
		sample = rows
		return nil
	})
	_ = g.Wait()

	stats.AverageSentiment, stats.AverageQuality = s.sampleAverages(sample)

	s.writeStatsCache(ctx, stats)
	return stats, nil
}

func (s *Service) count(ctx context.Context, kind CountKind) int64 {
	count, err := database.RetryableQuery(ctx, database.RetryConfig("moderation_count_"+string(kind), s.retryAttempts),
		func(ctx context.Context) (int64, error) {
			return s.repo.CountReviews(ctx, kind)
		})
	if err != nil {
		countFailuresTotal.WithLabelValues(string(kind)).Inc()
		logger.WithContext(ctx).Warn("moderation counter failed, reporting zero",
			zap.String("counter", string(kind)),
			zap.Error(err),
		)
		return 0
	}
	return count
}

// sampleAverages scores sentiment and quality for every sampled review and returns
// the mean sentiment (2 decimals) and the rounded mean quality
func (s *Service) sampleAverages(sample []models.ReviewRecord) (float64, int) {
	if len(sample) == 0 {
		return 0, 0
	}

	var sentimentSum float64
	var qualitySum int
	for i := range sample {
		item := &sample[i]
		sentiment := s.engine.AnalyzeSentiment(item.Comment)
		quality := s.engine.CalculateQualityScore(reviews.QualityInput{
			CommentLength:  item.CommentLength(),
			HelpfulCount:   item.HelpfulCount,
			HasResponse:    item.HasResponse,
			SentimentScore: sentiment.Score,
			IsFlagged:      item.IsFlagged,
		})
		sentimentSum += sentiment.Score
		qualitySum += quality.Score
	}

	n := float64(len(sample))
	return math.Round(sentimentSum/n*100) / 100, int(math.Round(float64(qualitySum) / n))
}

func (s *Service) readStatsCache(ctx context.Context) (*ModerationStats, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}

	var cached ModerationStats
	err := s.cache.GetJSON(ctx, statsCacheKey, &cached)
	if err == nil {
		return &cached, true
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		logger.WithContext(ctx).Warn("moderation stats cache read failed", zap.Error(err))
	}
	return nil, false
}

func (s *Service) writeStatsCache(ctx context.Context, stats *ModerationStats) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, statsCacheKey, stats, s.cacheTTL); err != nil {
		logger.WithContext(ctx).Warn("moderation stats cache write failed", zap.Error(err))
	}
}

// ========================================
// REVIEW LISTING
// ========================================

// GetReviewsForModeration fetches reviews newest first and scores each one. Reviewer
// aggregates, customer emails and flagged reasons are fetched concurrently; a failed
// lookup degrades to an empty map. Failure of the review fetch itself is returned.
func (s *Service) GetReviewsForModeration(ctx context.Context, filters Filters) ([]ModerationReview, error) {
	ctx, span := s.tracer.Start(ctx, "moderation.GetReviewsForModeration", trace.WithAttributes(
		attribute.Bool("filter.flagged", filters.IsFlagged != nil && *filters.IsFlagged),
		attribute.Bool("filter.salon", filters.SalonID != nil),
	))
	defer span.End()

	rows, err := database.RetryableQuery(ctx, database.RetryConfig("moderation_reviews", s.retryAttempts),
		func(ctx context.Context) ([]models.ReviewRecord, error) {
			return s.repo.GetReviews(ctx, filters, s.settings.ReviewLimit)
		})
	if err != nil {
		return nil, common.NewInternalServerError("failed to fetch reviews", err)
	}

	reviewerIDs, reviewIDs := s.collectIDs(rows)
	span.SetAttributes(attribute.Int("reviews.count", len(rows)), attribute.Int("reviewers.count", len(reviewerIDs)))

	var (
		aggregates map[string]models.ReviewerAggregate
		emails     map[string]*string
		reasons    map[string]*string
	)

	var g errgroup.Group
	g.Go(func() error {
		aggregates = lookup(ctx, s, lookupAggregates, reviewerIDs, s.repo.GetReviewerAggregates)
		return nil
	})
	g.Go(func() error {
		emails = lookup(ctx, s, lookupEmails, reviewerIDs, s.repo.GetCustomerEmails)
		return nil
	})
	g.Go(func() error {
		reasons = lookup(ctx, s, lookupReasons, reviewIDs, s.repo.GetFlaggedReasons)
		return nil
	})
	_ = g.Wait()

	result := make([]ModerationReview, 0, len(rows))
	for _, review := range rows {
		customerID := models.StringValue(review.CustomerID)

		stats := review.FallbackAggregate()
		var aggregate *models.ReviewerAggregate
		if agg, ok := aggregates[customerID]; ok && customerID != "" {
			stats = agg
			aggregate = &agg
		}

		scores := s.engine.ScoreReview(review, aggregate)
		reviewsScoredTotal.WithLabelValues(string(scores.FakeLikelihood.Label)).Inc()

		result = append(result, ModerationReview{
			ReviewRecord:        review,
			CustomerEmail:       emails[customerID],
			FlaggedReason:       reasons[models.StringValue(review.ID)],
			SentimentScore:      scores.Sentiment.Score,
			SentimentLabel:      scores.Sentiment.Label,
			FakeLikelihoodScore: scores.FakeLikelihood.Score,
			FakeLikelihoodLabel: scores.FakeLikelihood.Label,
			QualityScore:        scores.Quality.Score,
			QualityLabel:        scores.Quality.Label,
			ReviewerReputation: ReviewerReputation{
				Score:          scores.Reputation.Score,
				Label:          scores.Reputation.Label,
				TotalReviews:   stats.TotalReviews,
				FlaggedReviews: stats.FlaggedReviews,
			},
			CommentLength: review.CommentLength(),
		})
	}

	return result, nil
}

// GetFlaggedReviews lists flagged reviews only
func (s *Service) GetFlaggedReviews(ctx context.Context) ([]ModerationReview, error) {
	flagged := true
	return s.GetReviewsForModeration(ctx, Filters{IsFlagged: &flagged})
}

// collectIDs returns the distinct reviewer ids (capped) and review ids in first-seen order
func (s *Service) collectIDs(rows []models.ReviewRecord) ([]string, []string) {
	seenReviewers := make(map[string]struct{})
	seenReviews := make(map[string]struct{})
	reviewerIDs := make([]string, 0)
	reviewIDs := make([]string, 0, len(rows))

	for _, review := range rows {
		if id := models.StringValue(review.CustomerID); id != "" && len(reviewerIDs) < s.settings.ReviewerLimit {
			if _, ok := seenReviewers[id]; !ok {
				seenReviewers[id] = struct{}{}
				reviewerIDs = append(reviewerIDs, id)
			}
		}
		if id := models.StringValue(review.ID); id != "" {
			if _, ok := seenReviews[id]; !ok {
				seenReviews[id] = struct{}{}
				reviewIDs = append(reviewIDs, id)
			}
		}
	}
	return reviewerIDs, reviewIDs
}

// lookup runs an auxiliary id lookup under the retry policy, falling back to an empty map
func lookup[V any](ctx context.Context, s *Service, name string, ids []string, query func(context.Context, []string) (map[string]V, error)) map[string]V {
	empty := map[string]V{}
	if len(ids) == 0 {
		return empty
	}

	op := func(ctx context.Context) (interface{}, error) {
		return query(ctx, ids)
	}
	if breaker := s.breakers[name]; breaker != nil {
		guarded := op
		op = func(ctx context.Context) (interface{}, error) {
			return breaker.Execute(ctx, guarded)
		}
	}

	result, err := resilience.RetryWithFallback(ctx, database.RetryConfig("moderation_"+name, s.retryAttempts), op, resilience.StaticFallback(empty))
	if err != nil {
		return empty
	}

	values, ok := result.(map[string]V)
	if !ok || values == nil {
		return empty
	}
	return values
}
