package risk

import (
	"fmt"
	"sort"
	"time"

	"github.com/richxcame/salon-safety/pkg/models"
)

// Detector scans appointment batches for fraud patterns and dispute candidates.
// It keeps no state between calls.
type Detector struct {
	thresholds Thresholds
	now        func() time.Time
}

// NewDetector creates a new detector. A nil clock uses time.Now.
func NewDetector(thresholds Thresholds, now func() time.Time) *Detector {
	if now == nil {
		now = time.Now
	}
	return &Detector{thresholds: thresholds, now: now}
}

type customerActivity struct {
	cancellations  int
	noShows        int
	appointmentIDs []string
}

// BuildFraudAlerts emits per-row alerts in input order, followed by repeat-customer
// alerts ordered by customer key and double-booking alerts ordered by staff id.
func (d *Detector) BuildFraudAlerts(rows []models.AppointmentRecord) []FraudAlert {
	alerts := make([]FraudAlert, 0)
	customers := make(map[string]*customerActivity)
	staffAppointments := make(map[string][]*models.AppointmentRecord)

	for i := range rows {
		row := &rows[i]
		status := row.StatusOrDefault()
		appointmentID := models.AppointmentIdentity(row)

		key := row.CustomerKey()
		activity, ok := customers[key]
		if !ok {
			activity = &customerActivity{}
			customers[key] = activity
		}
		switch status {
		case models.AppointmentStatusCancelled:
			activity.cancellations++
		case models.AppointmentStatusNoShow:
			activity.noShows++
		}
		activity.appointmentIDs = append(activity.appointmentIDs, appointmentID)

		if row.StaffID != nil && *row.StaffID != "" {
			staffAppointments[*row.StaffID] = append(staffAppointments[*row.StaffID], row)
		}

		if status != models.AppointmentStatusCancelled {
			continue
		}

		if alert, ok := d.highValueCancellation(row, appointmentID); ok {
			alerts = append(alerts, alert)
		}
		if alert, ok := d.rapidCancellation(row, appointmentID); ok {
			alerts = append(alerts, alert)
		}
	}

	alerts = append(alerts, d.repeatCustomerAlerts(customers)...)
	alerts = append(alerts, d.doubleBookingAlerts(staffAppointments)...)

	return alerts
}

func (d *Detector) highValueCancellation(row *models.AppointmentRecord, appointmentID string) (FraudAlert, bool) {
	if !row.HasPrice() || row.Price() <= d.thresholds.HighValueCancellation {
		return FraudAlert{}, false
	}

	return FraudAlert{
		ID:                    "high-value-" + appointmentID,
		Type:                  AlertTypeHighValueCancellation,
		Score:                 clampUnit(safeDivide(row.Price(), d.thresholds.HighValueScoreCeiling)),
		Summary:               fmt.Sprintf("%s cancelled a high-value booking ($%.0f)", displayName(row.CustomerName, "Customer"), row.Price()),
		RelatedAppointmentIDs: []string{appointmentID},
		CustomerID:            row.CustomerID,
		SalonID:               row.SalonID,
	}, true
}

func (d *Detector) rapidCancellation(row *models.AppointmentRecord, appointmentID string) (FraudAlert, bool) {
	if row.StartTime == nil || row.UpdatedAt == nil {
		return FraudAlert{}, false
	}

	hoursBefore := hoursBetween(*row.StartTime, *row.UpdatedAt)
	window := d.thresholds.RapidCancellationHours
	if hoursBefore < 0 || hoursBefore >= window {
		return FraudAlert{}, false
	}

	return FraudAlert{
		ID:                    "rapid-cancel-" + appointmentID,
		Type:                  AlertTypeRapidCancellation,
		Score:                 clampUnit(safeDivide(float64(window-hoursBefore), float64(window))),
		Summary:               fmt.Sprintf("%s cancelled within %.1fh of start", displayName(row.CustomerName, "Customer"), float64(hoursBefore)),
		RelatedAppointmentIDs: []string{appointmentID},
		CustomerID:            row.CustomerID,
		SalonID:               row.SalonID,
	}, true
}

func (d *Detector) repeatCustomerAlerts(customers map[string]*customerActivity) []FraudAlert {
	keys := make([]string, 0, len(customers))
	for key := range customers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	alerts := make([]FraudAlert, 0)
	for _, key := range keys {
		activity := customers[key]
		if activity.noShows < d.thresholds.RepeatNoShows && activity.cancellations < d.thresholds.RepeatCancellations {
			continue
		}

		customerID := key
		misses := activity.noShows + activity.cancellations
		alerts = append(alerts, FraudAlert{
			ID:                    "repeat-" + key,
			Type:                  AlertTypeRepeatedNoShow,
			Score:                 clampUnit(safeDivide(float64(misses), float64(d.thresholds.RepeatScoreDivisor))),
			Summary:               fmt.Sprintf("Customer %s has %d no-shows and %d cancellations", key, activity.noShows, activity.cancellations),
			RelatedAppointmentIDs: activity.appointmentIDs,
			CustomerID:            &customerID,
		})
	}

	return alerts
}

func (d *Detector) doubleBookingAlerts(staffAppointments map[string][]*models.AppointmentRecord) []FraudAlert {
	staffIDs := make([]string, 0, len(staffAppointments))
	for staffID := range staffAppointments {
		staffIDs = append(staffIDs, staffID)
	}
	sort.Strings(staffIDs)

	window := d.thresholds.DoubleBookingMinutes
	alerts := make([]FraudAlert, 0)

	for _, staffID := range staffIDs {
		scheduled := make([]*models.AppointmentRecord, 0, len(staffAppointments[staffID]))
		for _, row := range staffAppointments[staffID] {
			if row.StartTime != nil {
				scheduled = append(scheduled, row)
			}
		}
		sort.SliceStable(scheduled, func(i, j int) bool {
			return scheduled[i].StartTime.Before(*scheduled[j].StartTime)
		})

		for i := 0; i+1 < len(scheduled); i++ {
			current, next := scheduled[i], scheduled[i+1]
			gap := minutesBetween(*next.StartTime, *current.StartTime)
			if gap < 0 || gap >= window {
				continue
			}

			currentID := models.AppointmentIdentity(current)
			alerts = append(alerts, FraudAlert{
				ID:                    fmt.Sprintf("double-booking-%s-%s", staffID, currentID),
				Type:                  AlertTypeDoubleBookingRisk,
				Score:                 clampUnit(safeDivide(float64(window-gap), float64(window))),
				Summary:               fmt.Sprintf("%s has back-to-back appointments (%d mins apart)", displayName(current.StaffName, "Staff"), gap),
				RelatedAppointmentIDs: []string{currentID, models.AppointmentIdentity(next)},
				SalonID:               current.SalonID,
			})
		}
	}

	return alerts
}

// BuildDisputeCandidates selects recent high-value cancellations and no-shows for review.
//
// The lookback window is measured on start_time while the same-day check measures
// start_time against updated_at. Both are kept as-is.
func (d *Detector) BuildDisputeCandidates(rows []models.AppointmentRecord) []DisputeCandidate {
	cutoff := d.now().Add(-time.Duration(d.thresholds.DisputeLookbackDays) * 24 * time.Hour)

	candidates := make([]DisputeCandidate, 0)
	for i := range rows {
		row := &rows[i]
		status := row.StatusOrDefault()
		if status != models.AppointmentStatusCancelled && status != models.AppointmentStatusNoShow {
			continue
		}
		if row.StartTime == nil || row.StartTime.Before(cutoff) {
			continue
		}
		if row.Price() <= d.thresholds.DisputeAmount {
			continue
		}

		sameDay := false
		if row.UpdatedAt != nil {
			sameDay = hoursBetween(*row.StartTime, *row.UpdatedAt) <= d.thresholds.SameDayHours
		}

		reason := ReasonHighValueCancellation
		action := ActionCancellation
		switch {
		case status == models.AppointmentStatusNoShow:
			reason = ReasonNoShowHighValue
			action = ActionNoShow
		case sameDay:
			reason = ReasonSameDayCancellation
		}

		candidates = append(candidates, DisputeCandidate{
			AppointmentID:     models.AppointmentIdentity(row),
			CustomerName:      row.CustomerName,
			SalonName:         row.SalonName,
			Status:            DisputeStatusReview,
			Amount:            row.TotalPrice,
			Reason:            reason,
			RecommendedAction: action,
		})
	}

	return candidates
}

// SortByScore orders alerts by descending score for a priority view.
// Equal scores keep their relative order.
func SortByScore(alerts []FraudAlert) []FraudAlert {
	sorted := make([]FraudAlert, len(alerts))
	copy(sorted, alerts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted
}

// hoursBetween returns whole hours from earlier to later, truncated toward zero
func hoursBetween(later, earlier time.Time) int {
	return int(later.Sub(earlier) / time.Hour)
}

// minutesBetween returns whole minutes from earlier to later, truncated toward zero
func minutesBetween(later, earlier time.Time) int {
	return int(later.Sub(earlier) / time.Minute)
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 1
	}
	return numerator / denominator
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func displayName(name *string, fallback string) string {
	if name == nil || *name == "" {
		return fallback
	}
	return *name
}
