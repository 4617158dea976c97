package reviews

import "time"

// SentimentLabel classifies a sentiment score
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// Level is a coarse low/medium/high band for 0-100 scores
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// ReputationLabel classifies a reviewer's reputation
type ReputationLabel string

const (
	ReputationTrusted ReputationLabel = "trusted"
	ReputationNeutral ReputationLabel = "neutral"
	ReputationRisky   ReputationLabel = "risky"
)

// SentimentResult holds a score in [-1, 1] and its label
type SentimentResult struct {
	Score float64        `json:"score"`
	Label SentimentLabel `json:"label"`
}

// FakeLikelihoodResult holds a score in [0, 100] and its band
type FakeLikelihoodResult struct {
	Score int   `json:"score"`
	Label Level `json:"label"`
}

// QualityResult holds a score in [0, 100] and its band
type QualityResult struct {
	Score int   `json:"score"`
	Label Level `json:"label"`
}

// ReputationResult holds a score in [0, 100] and its label
type ReputationResult struct {
	Score int             `json:"score"`
	Label ReputationLabel `json:"label"`
}

// FakeLikelihoodInput carries the review signals used to estimate inauthenticity
type FakeLikelihoodInput struct {
	IsVerified    *bool
	HelpfulCount  *int
	CommentLength int
	Rating        *int
	IsFlagged     *bool
	CreatedAt     *time.Time
}

// QualityInput carries the review signals used to score content quality
type QualityInput struct {
	CommentLength  int
	HelpfulCount   *int
	HasResponse    *bool
	SentimentScore float64
	IsFlagged      *bool
}

// ReviewScores bundles every score computed for a single review
type ReviewScores struct {
	Sentiment      SentimentResult      `json:"sentiment"`
	Quality        QualityResult        `json:"quality"`
	FakeLikelihood FakeLikelihoodResult `json:"fakeLikelihood"`
	Reputation     ReputationResult     `json:"reputation"`
}
