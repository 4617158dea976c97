package reviews

// SentimentThresholds bounds the sentiment labels
type SentimentThresholds struct {
	Positive  float64 `yaml:"positive"`
	Negative  float64 `yaml:"negative"`
	Precision int     `yaml:"precision"`
}

// FakeThresholds holds the fake-likelihood weights and bands
type FakeThresholds struct {
	Base                 int `yaml:"base"`
	FlaggedPenalty       int `yaml:"flagged_penalty"`
	UnverifiedPenalty    int `yaml:"unverified_penalty"`
	ShortCommentLength   int `yaml:"short_comment_length"`
	ShortCommentPenalty  int `yaml:"short_comment_penalty"`
	NoHelpfulPenalty     int `yaml:"no_helpful_penalty"`
	ExtremeLowRating     int `yaml:"extreme_low_rating"`
	ExtremeHighRating    int `yaml:"extreme_high_rating"`
	ExtremeRatingPenalty int `yaml:"extreme_rating_penalty"`
	RecentHours          int `yaml:"recent_hours"`
	RecentPenalty        int `yaml:"recent_penalty"`
	High                 int `yaml:"high"`
	Medium               int `yaml:"medium"`
}

// QualityThresholds holds the quality weights and bands
type QualityThresholds struct {
	Base                  int     `yaml:"base"`
	DetailedCommentLength int     `yaml:"detailed_comment_length"`
	DetailedBonus         int     `yaml:"detailed_bonus"`
	ShortCommentLength    int     `yaml:"short_comment_length"`
	ShortPenalty          int     `yaml:"short_penalty"`
	HelpfulThreshold      int     `yaml:"helpful_threshold"`
	HelpfulBonus          int     `yaml:"helpful_bonus"`
	NoHelpfulPenalty      int     `yaml:"no_helpful_penalty"`
	ResponseBonus         int     `yaml:"response_bonus"`
	FlaggedPenalty        int     `yaml:"flagged_penalty"`
	SentimentMultiplier   float64 `yaml:"sentiment_multiplier"`
	High                  int     `yaml:"high"`
	Medium                int     `yaml:"medium"`
}

// ReputationThresholds holds the reputation formula constants
type ReputationThresholds struct {
	Base               float64 `yaml:"base"`
	NeutralDefault     int     `yaml:"neutral_default"`
	MinReviews         int     `yaml:"min_reviews"`
	ThinHistoryPenalty float64 `yaml:"thin_history_penalty"`
	Trusted            int     `yaml:"trusted"`
	Risky              int     `yaml:"risky"`
}

// Thresholds groups every tunable used by the scoring engine
type Thresholds struct {
	Sentiment  SentimentThresholds  `yaml:"sentiment"`
	Fake       FakeThresholds       `yaml:"fake"`
	Quality    QualityThresholds    `yaml:"quality"`
	Reputation ReputationThresholds `yaml:"reputation"`
}

// DefaultThresholds returns the production thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		Sentiment: SentimentThresholds{
			Positive:  0.15,
			Negative:  -0.15,
			Precision: 3,
		},
		Fake: FakeThresholds{
			Base:                 20,
			FlaggedPenalty:       25,
			UnverifiedPenalty:    20,
			ShortCommentLength:   30,
			ShortCommentPenalty:  20,
			NoHelpfulPenalty:     10,
			ExtremeLowRating:     2,
			ExtremeHighRating:    5,
			ExtremeRatingPenalty: 10,
			RecentHours:          24,
			RecentPenalty:        5,
			High:                 70,
			Medium:               40,
		},
		Quality: QualityThresholds{
			Base:                  60,
			DetailedCommentLength: 200,
			DetailedBonus:         10,
			ShortCommentLength:    40,
			ShortPenalty:          15,
			HelpfulThreshold:      3,
			HelpfulBonus:          10,
			NoHelpfulPenalty:      5,
			ResponseBonus:         5,
			FlaggedPenalty:        20,
			SentimentMultiplier:   10,
			High:                  75,
			Medium:                50,
		},
		Reputation: ReputationThresholds{
			Base:               100,
			NeutralDefault:     50,
			MinReviews:         3,
			ThinHistoryPenalty: 10,
			Trusted:            70,
			Risky:              40,
		},
	}
}
