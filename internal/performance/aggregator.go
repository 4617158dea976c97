package performance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/richxcame/salon-safety/pkg/models"
)

// Settings tunes the aggregator's bounded outputs
type Settings struct {
	RecentNoShowLimit int `yaml:"recent_no_show_limit"`
	TopSalons         int `yaml:"top_salons"`
	// Timezone names the location used to bucket start times by local hour
	Timezone string `yaml:"timezone"`
}

// DefaultSettings returns the production defaults
func DefaultSettings() Settings {
	return Settings{
		RecentNoShowLimit: 10,
		TopSalons:         5,
		Timezone:          "UTC",
	}
}

// Aggregator reduces appointment batches into performance aggregates.
// It holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	settings Settings
	loc      *time.Location
}

// NewAggregator creates a new aggregator. An unknown timezone falls back to UTC.
func NewAggregator(settings Settings) *Aggregator {
	defaults := DefaultSettings()
	if settings.RecentNoShowLimit <= 0 {
		settings.RecentNoShowLimit = defaults.RecentNoShowLimit
	}
	if settings.TopSalons <= 0 {
		settings.TopSalons = defaults.TopSalons
	}

	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil || settings.Timezone == "" {
		loc = time.UTC
	}

	return &Aggregator{settings: settings, loc: loc}
}

// BuildStatusTotals counts appointments per status in a single pass
func (a *Aggregator) BuildStatusTotals(rows []models.AppointmentRecord, now time.Time) StatusTotals {
	totals := StatusTotals{}
	if len(rows) == 0 {
		return totals
	}

	for i := range rows {
		row := &rows[i]
		totals.Total++

		status := row.StatusOrDefault()
		switch status {
		case models.AppointmentStatusCompleted:
			totals.Completed++
		case models.AppointmentStatusCancelled:
			totals.Cancelled++
		case models.AppointmentStatusNoShow:
			totals.NoShow++
		case models.AppointmentStatusInProgress, models.AppointmentStatusCheckedIn:
			totals.InProgress++
		}

		if row.StartTime != nil && row.StartTime.After(now) && !row.IsTerminalMiss() {
			totals.Upcoming++
		}
	}

	return totals
}

// CalculatePerformanceMetrics derives rates and revenue from the totals and rows
func (a *Aggregator) CalculatePerformanceMetrics(totals StatusTotals, rows []models.AppointmentRecord) Metrics {
	var revenue float64
	var durationSum int
	for i := range rows {
		row := &rows[i]
		if row.StatusOrDefault() == models.AppointmentStatusCompleted && row.HasPrice() {
			revenue += row.Price()
		}
		durationSum += row.Duration()
	}

	return Metrics{
		CompletionRate:   ratio(float64(totals.Completed), totals.Total),
		CancellationRate: ratio(float64(totals.Cancelled), totals.Total),
		NoShowRate:       ratio(float64(totals.NoShow), totals.Total),
		AverageDuration:  ratio(float64(durationSum), len(rows)),
		TotalRevenue:     revenue,
		AverageTicket:    ratio(revenue, totals.Completed),
	}
}

// BuildCancellationPatterns groups cancellations by weekday and time-of-day bucket,
// ordered by count descending
func (a *Aggregator) BuildCancellationPatterns(rows []models.AppointmentRecord) []CancellationPattern {
	type bucketCount struct {
		count       int
		description string
	}

	groups := make(map[string]*bucketCount)
	totalCancelled := 0

	for i := range rows {
		row := &rows[i]
		if row.StatusOrDefault() != models.AppointmentStatusCancelled || row.StartTime == nil {
			continue
		}
		totalCancelled++

		local := row.StartTime.In(a.loc)
		day := local.Weekday().String()
		bucket := TimeBucketFor(local.Hour())
		label := fmt.Sprintf("%s · %s", day, bucket)

		group, ok := groups[label]
		if !ok {
			group = &bucketCount{
				description: fmt.Sprintf("Cancellations during %s on %s", strings.ToLower(string(bucket)), day),
			}
			groups[label] = group
		}
		group.count++
	}

	if totalCancelled == 0 {
		return []CancellationPattern{}
	}

	patterns := make([]CancellationPattern, 0, len(groups))
	for label, group := range groups {
		patterns = append(patterns, CancellationPattern{
			Label:       label,
			Count:       group.count,
			Share:       ratio(float64(group.count), totalCancelled),
			Description: group.description,
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Label < patterns[j].Label
	})

	return patterns
}

// TimeBucketFor maps a local hour to its time bucket
func TimeBucketFor(hour int) TimeBucket {
	switch {
	case hour < 6:
		return BucketOvernight
	case hour < 12:
		return BucketMorning
	case hour < 17:
		return BucketAfternoon
	case hour < 21:
		return BucketEvening
	default:
		return BucketLateNight
	}
}

// BuildTrend maps newest-first daily analytics rows to an oldest-first series.
// Rows are expected to be aggregated per calendar day upstream.
func (a *Aggregator) BuildTrend(analyticsRows []DailyAnalyticsRow) []TrendPoint {
	trend := make([]TrendPoint, 0, len(analyticsRows))
	for i := len(analyticsRows) - 1; i >= 0; i-- {
		row := analyticsRows[i]
		if row.Date == nil || *row.Date == "" {
			continue
		}
		trend = append(trend, TrendPoint{
			Date:      *row.Date,
			Total:     intValue(row.Appointments),
			Cancelled: intValue(row.CancelledAppointments),
			NoShow:    intValue(row.NoShows),
			Completed: intValue(row.CompletedAppointments),
		})
	}
	return trend
}

// BuildNoShowRecords reports no-show count, rate and the most recently started no-shows
func (a *Aggregator) BuildNoShowRecords(rows []models.AppointmentRecord) NoShowSummary {
	noShows := make([]*models.AppointmentRecord, 0)
	for i := range rows {
		if rows[i].StatusOrDefault() == models.AppointmentStatusNoShow {
			noShows = append(noShows, &rows[i])
		}
	}

	sort.SliceStable(noShows, func(i, j int) bool {
		left, right := noShows[i].StartTime, noShows[j].StartTime
		if left == nil {
			return false
		}
		if right == nil {
			return true
		}
		return left.After(*right)
	})

	limit := a.settings.RecentNoShowLimit
	if len(noShows) < limit {
		limit = len(noShows)
	}

	recent := make([]NoShowRecord, 0, limit)
	for _, row := range noShows[:limit] {
		recent = append(recent, NoShowRecord{
			ID:           models.AppointmentIdentity(row),
			SalonName:    row.SalonName,
			CustomerName: row.CustomerName,
			StaffName:    row.StaffName,
			StartTime:    row.StartTime,
			TotalPrice:   row.TotalPrice,
		})
	}

	return NoShowSummary{
		Count:  len(noShows),
		Rate:   ratio(float64(len(noShows)), len(rows)),
		Recent: recent,
	}
}

// BuildSalonRollups ranks salons by appointment volume and aggregates the top N entries.
// A non-positive topN uses the configured default.
func (a *Aggregator) BuildSalonRollups(rows []models.AppointmentRecord, topN int) []SalonRollup {
	if topN <= 0 {
		topN = a.settings.TopSalons
	}

	type salonAccumulator struct {
		name      *string
		total     int
		completed int
		cancelled int
		noShow    int
		revenue   float64
		duration  int
	}

	salons := make(map[string]*salonAccumulator)
	for i := range rows {
		row := &rows[i]
		if row.SalonID == nil || *row.SalonID == "" {
			continue
		}

		acc, ok := salons[*row.SalonID]
		if !ok {
			acc = &salonAccumulator{}
			salons[*row.SalonID] = acc
		}
		if acc.name == nil && row.SalonName != nil && *row.SalonName != "" {
			acc.name = row.SalonName
		}

		acc.total++
		acc.duration += row.Duration()
		switch row.StatusOrDefault() {
		case models.AppointmentStatusCompleted:
			acc.completed++
			acc.revenue += row.Price()
		case models.AppointmentStatusCancelled:
			acc.cancelled++
		case models.AppointmentStatusNoShow:
			acc.noShow++
		}
	}

	ids := make([]string, 0, len(salons))
	for id := range salons {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if salons[ids[i]].total != salons[ids[j]].total {
			return salons[ids[i]].total > salons[ids[j]].total
		}
		return ids[i] < ids[j]
	})
	if len(ids) > topN {
		ids = ids[:topN]
	}

	rollups := make([]SalonRollup, 0, len(ids))
	for _, id := range ids {
		acc := salons[id]
		total, completed, cancelled, noShow := acc.total, acc.completed, acc.cancelled, acc.noShow
		revenue := acc.revenue
		avgDuration := ratio(float64(acc.duration), acc.total)
		rollups = append(rollups, SalonRollup{
			SalonID:   id,
			SalonName: acc.name,
			Data: SalonRollupData{
				TotalAppointments:     &total,
				CompletedAppointments: &completed,
				CancelledAppointments: &cancelled,
				NoShowAppointments:    &noShow,
				TotalRevenue:          &revenue,
				AvgServiceDuration:    &avgDuration,
			},
		})
	}

	return rollups
}

// MergeSalonPerformance projects salon rollups to the view model, defaulting missing numbers to 0
func (a *Aggregator) MergeSalonPerformance(entries []SalonRollup) []SalonPerformance {
	result := make([]SalonPerformance, 0, len(entries))
	for _, entry := range entries {
		result = append(result, SalonPerformance{
			SalonID:      entry.SalonID,
			SalonName:    models.StringValue(entry.SalonName),
			Total:        intValue(entry.Data.TotalAppointments),
			Completed:    intValue(entry.Data.CompletedAppointments),
			Cancelled:    intValue(entry.Data.CancelledAppointments),
			NoShow:       intValue(entry.Data.NoShowAppointments),
			TotalRevenue: floatValue(entry.Data.TotalRevenue),
			AvgDuration:  floatValue(entry.Data.AvgServiceDuration),
		})
	}
	return result
}

func ratio(numerator float64, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / float64(denominator)
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
