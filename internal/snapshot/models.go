package snapshot

import (
	"fmt"
	"time"

	"github.com/richxcame/salon-safety/internal/performance"
	"github.com/richxcame/salon-safety/internal/risk"
	"github.com/richxcame/salon-safety/pkg/models"
)

// Options bounds one snapshot build. Non-positive fields take the service defaults.
type Options struct {
	WindowDays       int `form:"window_days" validate:"omitempty,gte=1,lte=365"`
	AppointmentLimit int `form:"appointment_limit" validate:"omitempty,gte=1,lte=2000"`
	RecentLimit      int `form:"recent_limit" validate:"omitempty,gte=1,lte=500"`
	TopSalons        int `form:"top_salons" validate:"omitempty,gte=1,lte=50"`
}

// DefaultOptions returns the production snapshot bounds
func DefaultOptions() Options {
	return Options{
		WindowDays:       30,
		AppointmentLimit: 300,
		RecentLimit:      60,
		TopSalons:        5,
	}
}

func (o Options) withDefaults(defaults Options) Options {
	if o.WindowDays <= 0 {
		o.WindowDays = defaults.WindowDays
	}
	if o.AppointmentLimit <= 0 {
		o.AppointmentLimit = defaults.AppointmentLimit
	}
	if o.RecentLimit <= 0 {
		o.RecentLimit = defaults.RecentLimit
	}
	if o.TopSalons <= 0 {
		o.TopSalons = defaults.TopSalons
	}
	return o
}

func (o Options) cacheKey() string {
	return fmt.Sprintf("trustsafety:snapshot:%d:%d:%d:%d", o.WindowDays, o.AppointmentLimit, o.RecentLimit, o.TopSalons)
}

// Timeframe is the analysis window of a snapshot
type Timeframe struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AppointmentSnapshot is the assembled appointment oversight view
type AppointmentSnapshot struct {
	Timeframe          Timeframe                         `json:"timeframe"`
	Totals             performance.StatusTotals          `json:"totals"`
	Performance        performance.Metrics               `json:"performance"`
	Trend              []performance.TrendPoint          `json:"trend"`
	Cancellations      []performance.CancellationPattern `json:"cancellations"`
	NoShows            performance.NoShowSummary         `json:"noShows"`
	FraudAlerts        []risk.FraudAlert                 `json:"fraudAlerts"`
	Disputes           []risk.DisputeCandidate           `json:"disputes"`
	SalonPerformance   []performance.SalonPerformance    `json:"salonPerformance"`
	RecentAppointments []models.AppointmentOverview      `json:"recentAppointments"`
}
