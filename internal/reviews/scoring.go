package reviews

import (
	"math"
	"strings"
	"time"

	"github.com/richxcame/salon-safety/pkg/models"
)

var positiveWords = map[string]struct{}{
	"great": {}, "excellent": {}, "amazing": {}, "friendly": {},
	"professional": {}, "clean": {}, "happy": {}, "love": {},
	"recommend": {}, "perfect": {}, "fantastic": {}, "superb": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "rude": {},
	"dirty": {}, "late": {}, "horrible": {}, "never": {},
	"worst": {}, "disappointed": {}, "refund": {}, "angry": {},
}

// Engine computes sentiment, fake-likelihood, quality and reputation scores.
// Every method is a pure function of its input and the engine's clock.
type Engine struct {
	thresholds Thresholds
	now        func() time.Time
}

// NewEngine creates a new scoring engine. A nil clock uses time.Now.
func NewEngine(thresholds Thresholds, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{thresholds: thresholds, now: now}
}

// ========================================
// SENTIMENT
// ========================================

// AnalyzeSentiment scores text against the positive and negative lexicons,
// normalized by the square root of the token count
func (e *Engine) AnalyzeSentiment(text *string) SentimentResult {
	neutral := SentimentResult{Score: 0, Label: SentimentNeutral}
	if text == nil || *text == "" {
		return neutral
	}

	tokens := tokenize(*text)
	if len(tokens) == 0 {
		return neutral
	}

	raw := 0
	for _, token := range tokens {
		if _, ok := positiveWords[token]; ok {
			raw++
		}
		if _, ok := negativeWords[token]; ok {
			raw--
		}
	}

	normalized := clamp(float64(raw)/math.Sqrt(float64(len(tokens))), -1, 1)

	label := SentimentNeutral
	switch {
	case normalized >= e.thresholds.Sentiment.Positive:
		label = SentimentPositive
	case normalized <= e.thresholds.Sentiment.Negative:
		label = SentimentNegative
	}

	return SentimentResult{
		Score: roundTo(normalized, e.thresholds.Sentiment.Precision),
		Label: label,
	}
}

// tokenize lowercases text and splits it on anything that is not an ASCII letter
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r < 'a' || r > 'z'
	})
}

// ========================================
// FAKE LIKELIHOOD
// ========================================

// EstimateFakeLikelihood adds weighted penalties for signals common in inauthentic reviews
func (e *Engine) EstimateFakeLikelihood(input FakeLikelihoodInput) FakeLikelihoodResult {
	t := e.thresholds.Fake
	score := t.Base

	if boolValue(input.IsFlagged) {
		score += t.FlaggedPenalty
	}
	if input.IsVerified != nil && !*input.IsVerified {
		score += t.UnverifiedPenalty
	}
	if input.CommentLength < t.ShortCommentLength {
		score += t.ShortCommentPenalty
	}
	if intValue(input.HelpfulCount) == 0 {
		score += t.NoHelpfulPenalty
	}
	if input.Rating != nil && (*input.Rating <= t.ExtremeLowRating || *input.Rating >= t.ExtremeHighRating) {
		score += t.ExtremeRatingPenalty
	}
	if input.CreatedAt != nil {
		age := math.Abs(e.now().Sub(*input.CreatedAt).Hours())
		if age < float64(t.RecentHours) {
			score += t.RecentPenalty
		}
	}

	final := clampScore(float64(score))
	return FakeLikelihoodResult{Score: final, Label: band(final, t.High, t.Medium)}
}

// ========================================
// QUALITY
// ========================================

// CalculateQualityScore rewards detailed, helpful, answered reviews and adjusts by sentiment
func (e *Engine) CalculateQualityScore(input QualityInput) QualityResult {
	t := e.thresholds.Quality
	score := float64(t.Base)

	switch {
	case input.CommentLength > t.DetailedCommentLength:
		score += float64(t.DetailedBonus)
	case input.CommentLength < t.ShortCommentLength:
		score -= float64(t.ShortPenalty)
	}

	helpful := intValue(input.HelpfulCount)
	switch {
	case helpful > t.HelpfulThreshold:
		score += float64(t.HelpfulBonus)
	case helpful == 0:
		score -= float64(t.NoHelpfulPenalty)
	}

	if boolValue(input.HasResponse) {
		score += float64(t.ResponseBonus)
	}
	if boolValue(input.IsFlagged) {
		score -= float64(t.FlaggedPenalty)
	}

	score += input.SentimentScore * t.SentimentMultiplier

	final := clampScore(score)
	return QualityResult{Score: final, Label: band(final, t.High, t.Medium)}
}

// ========================================
// REPUTATION
// ========================================

// ComputeReviewerReputation scores a reviewer by their flag ratio, penalizing thin histories
func (e *Engine) ComputeReviewerReputation(stats models.ReviewerAggregate) ReputationResult {
	t := e.thresholds.Reputation
	if stats.TotalReviews <= 0 {
		return ReputationResult{Score: t.NeutralDefault, Label: ReputationNeutral}
	}

	flaggedRatio := float64(stats.FlaggedReviews) / float64(stats.TotalReviews)
	score := t.Base - flaggedRatio*t.Base
	if stats.TotalReviews < t.MinReviews {
		score -= t.ThinHistoryPenalty
	}

	final := clampScore(score)
	label := ReputationNeutral
	switch {
	case final >= t.Trusted:
		label = ReputationTrusted
	case final < t.Risky:
		label = ReputationRisky
	}

	return ReputationResult{Score: final, Label: label}
}

// ScoreReview computes all four scores for a review. Quality consumes the sentiment score;
// a nil aggregate falls back to the review's own customer and flag state.
func (e *Engine) ScoreReview(review models.ReviewRecord, aggregate *models.ReviewerAggregate) ReviewScores {
	sentiment := e.AnalyzeSentiment(review.Comment)
	commentLength := review.CommentLength()

	quality := e.CalculateQualityScore(QualityInput{
		CommentLength:  commentLength,
		HelpfulCount:   review.HelpfulCount,
		HasResponse:    review.HasResponse,
		SentimentScore: sentiment.Score,
		IsFlagged:      review.IsFlagged,
	})

	fake := e.EstimateFakeLikelihood(FakeLikelihoodInput{
		IsVerified:    review.IsVerified,
		HelpfulCount:  review.HelpfulCount,
		CommentLength: commentLength,
		Rating:        review.Rating,
		IsFlagged:     review.IsFlagged,
		CreatedAt:     review.CreatedAt,
	})

	stats := review.FallbackAggregate()
	if aggregate != nil {
		stats = *aggregate
	}

	return ReviewScores{
		Sentiment:      sentiment,
		Quality:        quality,
		FakeLikelihood: fake,
		Reputation:     e.ComputeReviewerReputation(stats),
	}
}

func band(score, high, medium int) Level {
	switch {
	case score >= high:
		return LevelHigh
	case score >= medium:
		return LevelMedium
	default:
		return LevelLow
	}
}

func clamp(v, min, max float64) float64 {
	return math.Min(math.Max(v, min), max)
}

// clampScore rounds to the nearest integer and bounds it to [0, 100]
func clampScore(v float64) int {
	return int(clamp(math.Round(v), 0, 100))
}

func roundTo(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	factor := math.Pow(10, float64(precision))
	return math.Round(v*factor) / factor
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func intValue(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
