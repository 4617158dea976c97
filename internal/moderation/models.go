package moderation

import (
	"time"

	"github.com/richxcame/salon-safety/internal/reviews"
	"github.com/richxcame/salon-safety/pkg/models"
)

// Settings bounds the moderation fetches
type Settings struct {
	StatsSampleSize int
	ReviewLimit     int
	ReviewerLimit   int
}

// DefaultSettings returns the production bounds
func DefaultSettings() Settings {
	return Settings{
		StatsSampleSize: 150,
		ReviewLimit:     300,
		ReviewerLimit:   500,
	}
}

// Filters narrows the review listing. DateTo is exclusive.
type Filters struct {
	IsFlagged *bool
	SalonID   *string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// CountKind selects one of the headline review counters
type CountKind string

const (
	CountTotal           CountKind = "total"
	CountFlagged         CountKind = "flagged"
	CountWithoutResponse CountKind = "without_response"
	CountHighRisk        CountKind = "high_risk"
)

// ReviewerReputation is the reputation result with the aggregate it was computed from
type ReviewerReputation struct {
	Score          int                     `json:"score"`
	Label          reviews.ReputationLabel `json:"label"`
	TotalReviews   int                     `json:"totalReviews"`
	FlaggedReviews int                     `json:"flaggedReviews"`
}

// ModerationReview is a review augmented with its scores and resolved display fields
type ModerationReview struct {
	models.ReviewRecord
	CustomerEmail       *string                `json:"customer_email"`
	FlaggedReason       *string                `json:"flagged_reason"`
	SentimentScore      float64                `json:"sentimentScore"`
	SentimentLabel      reviews.SentimentLabel `json:"sentimentLabel"`
	FakeLikelihoodScore int                    `json:"fakeLikelihoodScore"`
	FakeLikelihoodLabel reviews.Level          `json:"fakeLikelihoodLabel"`
	QualityScore        int                    `json:"qualityScore"`
	QualityLabel        reviews.Level          `json:"qualityLabel"`
	ReviewerReputation  ReviewerReputation     `json:"reviewerReputation"`
	CommentLength       int                    `json:"commentLength"`
}

// ModerationStats are the headline moderation counters. Averages are estimated
// from a bounded sample of the most recent reviews.
type ModerationStats struct {
	TotalReviews     int64   `json:"totalReviews"`
	FlaggedReviews   int64   `json:"flaggedReviews"`
	PendingReviews   int64   `json:"pendingReviews"`
	HighRiskReviews  int64   `json:"highRiskReviews"`
	AverageSentiment float64 `json:"averageSentiment"`
	AverageQuality   int     `json:"averageQuality"`
}
