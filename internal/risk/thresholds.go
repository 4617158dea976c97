package risk

// Thresholds holds every tunable constant used by the detector
type Thresholds struct {
	// High-value cancellation
	HighValueCancellation float64 `yaml:"high_value_cancellation"`
	HighValueScoreCeiling float64 `yaml:"high_value_score_ceiling"`

	// Rapid cancellation, in whole hours before start
	RapidCancellationHours int `yaml:"rapid_cancellation_hours"`

	// Repeat customers
	RepeatNoShows       int `yaml:"repeat_no_shows"`
	RepeatCancellations int `yaml:"repeat_cancellations"`
	RepeatScoreDivisor  int `yaml:"repeat_score_divisor"`

	// Back-to-back appointments for one staff member, in whole minutes
	DoubleBookingMinutes int `yaml:"double_booking_minutes"`

	// Dispute candidates
	DisputeLookbackDays int     `yaml:"dispute_lookback_days"`
	DisputeAmount       float64 `yaml:"dispute_amount"`
	SameDayHours        int     `yaml:"same_day_hours"`
}

// DefaultThresholds returns the production thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighValueCancellation:  250,
		HighValueScoreCeiling:  500,
		RapidCancellationHours: 2,
		RepeatNoShows:          3,
		RepeatCancellations:    4,
		RepeatScoreDivisor:     6,
		DoubleBookingMinutes:   45,
		DisputeLookbackDays:    7,
		DisputeAmount:          100,
		SameDayHours:           24,
	}
}
