package performance

import "time"

// TimeBucket is a coarse time-of-day slot used to group cancellations
type TimeBucket string

const (
	BucketOvernight TimeBucket = "Overnight"
	BucketMorning   TimeBucket = "Morning"
	BucketAfternoon TimeBucket = "Afternoon"
	BucketEvening   TimeBucket = "Evening"
	BucketLateNight TimeBucket = "Late Night"
)

// StatusTotals counts appointments per status bucket
type StatusTotals struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
	NoShow     int `json:"noShow"`
	InProgress int `json:"inProgress"`
	Upcoming   int `json:"upcoming"`
}

// Metrics holds derived rates and revenue figures for a batch
type Metrics struct {
	CompletionRate   float64 `json:"completionRate"`
	CancellationRate float64 `json:"cancellationRate"`
	NoShowRate       float64 `json:"noShowRate"`
	AverageDuration  float64 `json:"averageDuration"`
	TotalRevenue     float64 `json:"totalRevenue"`
	AverageTicket    float64 `json:"averageTicket"`
}

// CancellationPattern groups cancellations by weekday and time bucket
type CancellationPattern struct {
	Label       string  `json:"label"`
	Count       int     `json:"count"`
	Share       float64 `json:"share"`
	Description string  `json:"description"`
}

// DailyAnalyticsRow is a pre-aggregated platform row for one calendar day
type DailyAnalyticsRow struct {
	Date                  *string `json:"date" db:"date"`
	Appointments          *int    `json:"platform_appointments" db:"platform_appointments"`
	CancelledAppointments *int    `json:"platform_cancelled_appointments" db:"platform_cancelled_appointments"`
	NoShows               *int    `json:"platform_no_shows" db:"platform_no_shows"`
	CompletedAppointments *int    `json:"platform_completed_appointments" db:"platform_completed_appointments"`
}

// TrendPoint is one day of the appointment trend series
type TrendPoint struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Cancelled int    `json:"cancelled"`
	NoShow    int    `json:"noShow"`
	Completed int    `json:"completed"`
}

// NoShowRecord is the display projection of a no-show appointment
type NoShowRecord struct {
	ID           string     `json:"id"`
	SalonName    *string    `json:"salonName"`
	CustomerName *string    `json:"customerName"`
	StaffName    *string    `json:"staffName"`
	StartTime    *time.Time `json:"startTime"`
	TotalPrice   *float64   `json:"totalPrice"`
}

// NoShowSummary reports the no-show count, rate and most recent occurrences
type NoShowSummary struct {
	Count  int            `json:"count"`
	Rate   float64        `json:"rate"`
	Recent []NoShowRecord `json:"recent"`
}

// SalonRollup is a salon-keyed aggregate with optional numeric fields
type SalonRollup struct {
	SalonID   string          `json:"salonId"`
	SalonName *string         `json:"salonName"`
	Data      SalonRollupData `json:"data"`
}

// SalonRollupData mirrors the per-salon analytics columns
type SalonRollupData struct {
	TotalAppointments     *int     `json:"total_appointments"`
	CompletedAppointments *int     `json:"completed_appointments"`
	CancelledAppointments *int     `json:"cancelled_appointments"`
	NoShowAppointments    *int     `json:"no_show_appointments"`
	TotalRevenue          *float64 `json:"total_revenue"`
	AvgServiceDuration    *float64 `json:"avg_service_duration"`
}

// SalonPerformance is the per-salon view model
type SalonPerformance struct {
	SalonID      string  `json:"salonId"`
	SalonName    string  `json:"salonName"`
	Total        int     `json:"total"`
	Completed    int     `json:"completed"`
	Cancelled    int     `json:"cancelled"`
	NoShow       int     `json:"noShow"`
	TotalRevenue float64 `json:"totalRevenue"`
	AvgDuration  float64 `json:"avgDuration"`
}
