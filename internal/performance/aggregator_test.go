package performance

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/salon-safety/pkg/models"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

func statusPtr(s models.AppointmentStatus) *models.AppointmentStatus { return &s }

func appointment(id string, status models.AppointmentStatus, start time.Time) models.AppointmentRecord {
	return models.AppointmentRecord{
		ID:        strPtr(id),
		Status:    statusPtr(status),
		StartTime: timePtr(start),
	}
}

var fixedNow = time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)

func TestBuildStatusTotals(t *testing.T) {
	agg := NewAggregator(DefaultSettings())

	t.Run("empty batch returns zero value", func(t *testing.T) {
		assert.Equal(t, StatusTotals{}, agg.BuildStatusTotals(nil, fixedNow))
	})

	t.Run("buckets are exclusive and checked_in counts as in progress", func(t *testing.T) {
		rows := []models.AppointmentRecord{
			appointment("a1", models.AppointmentStatusCompleted, fixedNow.Add(-48*time.Hour)),
			appointment("a2", models.AppointmentStatusCancelled, fixedNow.Add(24*time.Hour)),
			appointment("a3", models.AppointmentStatusNoShow, fixedNow.Add(-2*time.Hour)),
			appointment("a4", models.AppointmentStatusCheckedIn, fixedNow.Add(-10*time.Minute)),
			appointment("a5", models.AppointmentStatusInProgress, fixedNow.Add(-5*time.Minute)),
			appointment("a6", models.AppointmentStatusConfirmed, fixedNow.Add(3*time.Hour)),
			{ID: strPtr("a7"), StartTime: timePtr(fixedNow.Add(time.Hour))},
		}

		totals := agg.BuildStatusTotals(rows, fixedNow)

		assert.Equal(t, 7, totals.Total)
		assert.Equal(t, 1, totals.Completed)
		assert.Equal(t, 1, totals.Cancelled)
		assert.Equal(t, 1, totals.NoShow)
		assert.Equal(t, 2, totals.InProgress)
		// a6 and the status-less a7; the future cancellation is excluded
		assert.Equal(t, 2, totals.Upcoming)
		assert.LessOrEqual(t, totals.Completed+totals.Cancelled+totals.NoShow+totals.InProgress, totals.Total)
	})
}

func TestCalculatePerformanceMetrics(t *testing.T) {
	agg := NewAggregator(DefaultSettings())

	t.Run("revenue and average ticket from completed rows", func(t *testing.T) {
		day := fixedNow.Add(-24 * time.Hour)
		first := appointment("a1", models.AppointmentStatusCompleted, day)
		first.TotalPrice = floatPtr(100)
		first.DurationMinutes = intPtr(60)
		second := appointment("a2", models.AppointmentStatusCompleted, day.Add(2*time.Hour))
		second.TotalPrice = floatPtr(50)
		second.DurationMinutes = intPtr(30)
		cancelled := appointment("a3", models.AppointmentStatusCancelled, day)
		cancelled.TotalPrice = floatPtr(400)

		rows := []models.AppointmentRecord{first, second, cancelled}
		totals := agg.BuildStatusTotals(rows, fixedNow)
		metrics := agg.CalculatePerformanceMetrics(totals, rows)

		assert.Equal(t, 2, totals.Completed)
		assert.InDelta(t, 150.0, metrics.TotalRevenue, 0.0001)
		assert.InDelta(t, 75.0, metrics.AverageTicket, 0.0001)
		assert.InDelta(t, 30.0, metrics.AverageDuration, 0.0001)
		assert.InDelta(t, 2.0/3.0, metrics.CompletionRate, 0.0001)
		assert.InDelta(t, 1.0/3.0, metrics.CancellationRate, 0.0001)
		assert.Zero(t, metrics.NoShowRate)
	})

	t.Run("zero total yields zero rates", func(t *testing.T) {
		metrics := agg.CalculatePerformanceMetrics(StatusTotals{}, nil)
		assert.Equal(t, Metrics{}, metrics)
	})

	t.Run("rates stay within unit interval", func(t *testing.T) {
		rows := make([]models.AppointmentRecord, 0, 20)
		statuses := []models.AppointmentStatus{
			models.AppointmentStatusCompleted,
			models.AppointmentStatusCancelled,
			models.AppointmentStatusNoShow,
			models.AppointmentStatusPending,
		}
		for i := 0; i < 20; i++ {
			rows = append(rows, appointment(fmt.Sprintf("a%d", i), statuses[i%len(statuses)], fixedNow))
		}
		metrics := agg.CalculatePerformanceMetrics(agg.BuildStatusTotals(rows, fixedNow), rows)

		for _, rate := range []float64{metrics.CompletionRate, metrics.CancellationRate, metrics.NoShowRate} {
			assert.GreaterOrEqual(t, rate, 0.0)
			assert.LessOrEqual(t, rate, 1.0)
		}
	})
}

func TestBuildCancellationPatterns(t *testing.T) {
	agg := NewAggregator(DefaultSettings())

	// 2024-03-11 is a Monday
	monday := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)

	t.Run("no cancellations returns empty slice", func(t *testing.T) {
		rows := []models.AppointmentRecord{appointment("a1", models.AppointmentStatusCompleted, monday)}
		patterns := agg.BuildCancellationPatterns(rows)
		require.NotNil(t, patterns)
		assert.Empty(t, patterns)
	})

	t.Run("groups by weekday and bucket", func(t *testing.T) {
		rows := []models.AppointmentRecord{
			appointment("a1", models.AppointmentStatusCancelled, monday.Add(9*time.Hour)),
			appointment("a2", models.AppointmentStatusCancelled, monday.Add(10*time.Hour)),
			appointment("a3", models.AppointmentStatusCancelled, monday.Add(22*time.Hour)),
			appointment("a4", models.AppointmentStatusCancelled, monday.Add(24*time.Hour+13*time.Hour)),
			appointment("a5", models.AppointmentStatusCompleted, monday.Add(9*time.Hour)),
			{ID: strPtr("a6"), Status: statusPtr(models.AppointmentStatusCancelled)},
		}

		patterns := agg.BuildCancellationPatterns(rows)
		require.Len(t, patterns, 3)

		assert.Equal(t, "Monday · Morning", patterns[0].Label)
		assert.Equal(t, 2, patterns[0].Count)
		assert.InDelta(t, 0.5, patterns[0].Share, 0.0001)
		assert.Equal(t, "Cancellations during morning on Monday", patterns[0].Description)

		// equal counts are ordered by label
		assert.Equal(t, "Monday · Late Night", patterns[1].Label)
		assert.Equal(t, "Tuesday · Afternoon", patterns[2].Label)

		var sum float64
		for _, p := range patterns {
			sum += p.Share
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("uses configured timezone for the local hour", func(t *testing.T) {
		tokyo := NewAggregator(Settings{Timezone: "Asia/Tokyo"})
		// 20:00 UTC Monday is 05:00 Tuesday in Tokyo
		rows := []models.AppointmentRecord{
			appointment("a1", models.AppointmentStatusCancelled, monday.Add(20*time.Hour)),
		}
		patterns := tokyo.BuildCancellationPatterns(rows)
		require.Len(t, patterns, 1)
		assert.Equal(t, "Tuesday · Overnight", patterns[0].Label)
	})
}

func TestTimeBucketFor(t *testing.T) {
	tests := []struct {
		hour int
		want TimeBucket
	}{
		{0, BucketOvernight},
		{5, BucketOvernight},
		{6, BucketMorning},
		{11, BucketMorning},
		{12, BucketAfternoon},
		{16, BucketAfternoon},
		{17, BucketEvening},
		{20, BucketEvening},
		{21, BucketLateNight},
		{23, BucketLateNight},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("hour %d", tt.hour), func(t *testing.T) {
			assert.Equal(t, tt.want, TimeBucketFor(tt.hour))
		})
	}
}

func TestBuildTrend(t *testing.T) {
	agg := NewAggregator(DefaultSettings())

	rows := []DailyAnalyticsRow{
		{Date: strPtr("2024-03-13"), Appointments: intPtr(10), CancelledAppointments: intPtr(2), NoShows: intPtr(1), CompletedAppointments: intPtr(7)},
		{Date: nil, Appointments: intPtr(99)},
		{Date: strPtr("2024-03-12"), Appointments: intPtr(8)},
	}

	trend := agg.BuildTrend(rows)
	require.Len(t, trend, 2)

	assert.Equal(t, TrendPoint{Date: "2024-03-12", Total: 8}, trend[0])
	assert.Equal(t, TrendPoint{Date: "2024-03-13", Total: 10, Cancelled: 2, NoShow: 1, Completed: 7}, trend[1])
	assert.Empty(t, agg.BuildTrend(nil))
}

func TestBuildNoShowRecords(t *testing.T) {
	agg := NewAggregator(Settings{RecentNoShowLimit: 3})

	rows := []models.AppointmentRecord{
		appointment("a1", models.AppointmentStatusNoShow, fixedNow.Add(-5*time.Hour)),
		appointment("a2", models.AppointmentStatusNoShow, fixedNow.Add(-1*time.Hour)),
		appointment("a3", models.AppointmentStatusCompleted, fixedNow),
		{ID: strPtr("a4"), Status: statusPtr(models.AppointmentStatusNoShow)},
		appointment("a5", models.AppointmentStatusNoShow, fixedNow.Add(-3*time.Hour)),
		appointment("a6", models.AppointmentStatusNoShow, fixedNow.Add(-9*time.Hour)),
	}
	rows[1].SalonName = strPtr("Glow Studio")
	rows[1].TotalPrice = floatPtr(80)

	summary := agg.BuildNoShowRecords(rows)

	assert.Equal(t, 5, summary.Count)
	assert.InDelta(t, 5.0/6.0, summary.Rate, 0.0001)
	require.Len(t, summary.Recent, 3)
	assert.Equal(t, "a2", summary.Recent[0].ID)
	assert.Equal(t, "a5", summary.Recent[1].ID)
	assert.Equal(t, "a1", summary.Recent[2].ID)
	assert.Equal(t, "Glow Studio", *summary.Recent[0].SalonName)
	assert.InDelta(t, 80.0, *summary.Recent[0].TotalPrice, 0.0001)

	empty := agg.BuildNoShowRecords(nil)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Rate)
	assert.Empty(t, empty.Recent)
}

func TestBuildSalonRollupsAndMerge(t *testing.T) {
	agg := NewAggregator(DefaultSettings())

	row := func(id, salon string, name *string, status models.AppointmentStatus, price float64, minutes int) models.AppointmentRecord {
		r := appointment(id, status, fixedNow)
		r.SalonID = strPtr(salon)
		r.SalonName = name
		r.TotalPrice = floatPtr(price)
		r.DurationMinutes = intPtr(minutes)
		return r
	}

	rows := []models.AppointmentRecord{
		row("a1", "s1", nil, models.AppointmentStatusCompleted, 120, 60),
		row("a2", "s1", strPtr("Luxe Nails"), models.AppointmentStatusCancelled, 300, 30),
		row("a3", "s1", strPtr("Other Name"), models.AppointmentStatusNoShow, 50, 30),
		row("a4", "s2", strPtr("Cut & Co"), models.AppointmentStatusCompleted, 40, 45),
		row("a5", "s3", strPtr("Bright"), models.AppointmentStatusCompleted, 40, 45),
		{ID: strPtr("a6"), Status: statusPtr(models.AppointmentStatusCompleted)},
	}

	rollups := agg.BuildSalonRollups(rows, 2)
	require.Len(t, rollups, 2)
	assert.Equal(t, "s1", rollups[0].SalonID)
	assert.Equal(t, "s2", rollups[1].SalonID)

	merged := agg.MergeSalonPerformance(rollups)
	require.Len(t, merged, 2)
	assert.Equal(t, SalonPerformance{
		SalonID:      "s1",
		SalonName:    "Luxe Nails",
		Total:        3,
		Completed:    1,
		Cancelled:    1,
		NoShow:       1,
		TotalRevenue: 120,
		AvgDuration:  40,
	}, merged[0])
}

func TestMergeSalonPerformanceDefaultsMissingFields(t *testing.T) {
	agg := NewAggregator(DefaultSettings())

	merged := agg.MergeSalonPerformance([]SalonRollup{
		{SalonID: "s9", Data: SalonRollupData{TotalAppointments: intPtr(4)}},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, SalonPerformance{SalonID: "s9", Total: 4}, merged[0])
}
