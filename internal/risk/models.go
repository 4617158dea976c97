package risk

// AlertType identifies the pattern that raised a fraud alert
type AlertType string

const (
	AlertTypeHighValueCancellation AlertType = "high_value_cancellation"
	AlertTypeRapidCancellation     AlertType = "rapid_cancellation"
	AlertTypeRepeatedNoShow        AlertType = "repeated_no_show"
	AlertTypeDoubleBookingRisk     AlertType = "double_booking_risk"
)

// DisputeStatus is the review queue state of a dispute candidate
type DisputeStatus string

const (
	DisputeStatusReview DisputeStatus = "review"
)

// Dispute reasons
const (
	ReasonNoShowHighValue       = "No-show on high-value booking"
	ReasonSameDayCancellation   = "Same-day cancellation on premium booking"
	ReasonHighValueCancellation = "High-value appointment cancellation"
)

// Recommended follow-ups per dispute branch
const (
	ActionNoShow       = "Contact customer, review penalty policy, and re-engage salon"
	ActionCancellation = "Review cancellation reason, consider partial refund, notify finance"
)

// FraudAlert is a derived risk signal. IDs are stable for identical input.
type FraudAlert struct {
	ID                    string    `json:"id"`
	Type                  AlertType `json:"type"`
	Score                 float64   `json:"score"`
	Summary               string    `json:"summary"`
	RelatedAppointmentIDs []string  `json:"relatedAppointmentIds"`
	CustomerID            *string   `json:"customerId,omitempty"`
	SalonID               *string   `json:"salonId,omitempty"`
}

// DisputeCandidate is a high-value cancellation or no-show queued for human review
type DisputeCandidate struct {
	AppointmentID     string        `json:"appointmentId"`
	CustomerName      *string       `json:"customerName"`
	SalonName         *string       `json:"salonName"`
	Status            DisputeStatus `json:"status"`
	Amount            *float64      `json:"amount"`
	Reason            string        `json:"reason"`
	RecommendedAction string        `json:"recommendedAction"`
}
