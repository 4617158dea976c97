package tuning

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/richxcame/salon-safety/internal/performance"
	"github.com/richxcame/salon-safety/internal/reviews"
	"github.com/richxcame/salon-safety/internal/risk"
	"github.com/richxcame/salon-safety/internal/snapshot"
)

// SnapshotSettings bounds the appointment snapshot fetches
type SnapshotSettings struct {
	WindowDays       int `yaml:"window_days"`
	AppointmentLimit int `yaml:"appointment_limit"`
	RecentLimit      int `yaml:"recent_limit"`
}

// ModerationSettings bounds the moderation fetches
type ModerationSettings struct {
	StatsSampleSize int `yaml:"stats_sample_size"`
	ReviewLimit     int `yaml:"review_limit"`
	ReviewerLimit   int `yaml:"reviewer_limit"`
}

// Config holds every heuristic threshold and fetch bound of the service
type Config struct {
	Risk        risk.Thresholds      `yaml:"risk"`
	Reviews     reviews.Thresholds   `yaml:"reviews"`
	Performance performance.Settings `yaml:"performance"`
	Snapshot    SnapshotSettings     `yaml:"snapshot"`
	Moderation  ModerationSettings   `yaml:"moderation"`
}

// Defaults returns the production tuning
func Defaults() *Config {
	return &Config{
		Risk:        risk.DefaultThresholds(),
		Reviews:     reviews.DefaultThresholds(),
		Performance: performance.DefaultSettings(),
		Snapshot: SnapshotSettings{
			WindowDays:       30,
			AppointmentLimit: 300,
			RecentLimit:      60,
		},
		Moderation: ModerationSettings{
			StatsSampleSize: 150,
			ReviewLimit:     300,
			ReviewerLimit:   500,
		},
	}
}

// SnapshotOptions returns the snapshot defaults. The salon leaderboard size comes from
// performance.top_salons.
func (c *Config) SnapshotOptions() snapshot.Options {
	return snapshot.Options{
		WindowDays:       c.Snapshot.WindowDays,
		AppointmentLimit: c.Snapshot.AppointmentLimit,
		RecentLimit:      c.Snapshot.RecentLimit,
		TopSalons:        c.Performance.TopSalons,
	}
}

// Load reads a YAML tuning file over the defaults. Keys missing from the file keep
// their default value and unknown keys are rejected. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Defaults(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tuning file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads YAML tuning from r over the defaults
func Decode(r io.Reader) (*Config, error) {
	cfg := Defaults()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode tuning file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values that would make a heuristic meaningless
func (c *Config) Validate() error {
	var errs []error

	if c.Risk.RepeatScoreDivisor <= 0 {
		errs = append(errs, errors.New("risk.repeat_score_divisor must be positive"))
	}
	if c.Risk.HighValueScoreCeiling <= 0 {
		errs = append(errs, errors.New("risk.high_value_score_ceiling must be positive"))
	}
	if c.Risk.DoubleBookingMinutes < 0 || c.Risk.RapidCancellationHours < 0 {
		errs = append(errs, errors.New("risk time windows must not be negative"))
	}
	if c.Reviews.Sentiment.Negative > c.Reviews.Sentiment.Positive {
		errs = append(errs, errors.New("reviews.sentiment.negative must not exceed reviews.sentiment.positive"))
	}
	if c.Reviews.Fake.Medium > c.Reviews.Fake.High {
		errs = append(errs, errors.New("reviews.fake.medium must not exceed reviews.fake.high"))
	}
	if c.Reviews.Quality.Medium > c.Reviews.Quality.High {
		errs = append(errs, errors.New("reviews.quality.medium must not exceed reviews.quality.high"))
	}
	if c.Reviews.Reputation.Risky > c.Reviews.Reputation.Trusted {
		errs = append(errs, errors.New("reviews.reputation.risky must not exceed reviews.reputation.trusted"))
	}
	if c.Snapshot.WindowDays <= 0 || c.Snapshot.AppointmentLimit <= 0 || c.Snapshot.RecentLimit <= 0 {
		errs = append(errs, errors.New("snapshot bounds must be positive"))
	}
	if c.Moderation.StatsSampleSize <= 0 || c.Moderation.ReviewLimit <= 0 || c.Moderation.ReviewerLimit <= 0 {
		errs = append(errs, errors.New("moderation bounds must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid tuning: %w", errors.Join(errs...))
	}
	return nil
}
