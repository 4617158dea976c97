package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending    AppointmentStatus = "pending"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusCheckedIn  AppointmentStatus = "checked_in"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

// AnonymousCustomerKey groups appointments that carry neither a customer id nor an email
const AnonymousCustomerKey = "anonymous"

// AppointmentRecord is one row of the admin appointments overview.
// Nullable columns are pointers; use the accessor methods for default substitution.
type AppointmentRecord struct {
	ID              *string            `json:"id" db:"id"`
	SalonID         *string            `json:"salon_id" db:"salon_id"`
	CustomerID      *string            `json:"customer_id" db:"customer_id"`
	StaffID         *string            `json:"staff_id" db:"staff_id"`
	CustomerEmail   *string            `json:"customer_email,omitempty" db:"customer_email"`
	Status          *AppointmentStatus `json:"status" db:"status"`
	StartTime       *time.Time         `json:"start_time" db:"start_time"`
	UpdatedAt       *time.Time         `json:"updated_at" db:"updated_at"`
	TotalPrice      *float64           `json:"total_price" db:"total_price"`
	DurationMinutes *int               `json:"duration_minutes" db:"duration_minutes"`

	// Denormalized display names
	SalonName    *string `json:"salon_name" db:"salon_name"`
	CustomerName *string `json:"customer_name" db:"customer_name"`
	StaffName    *string `json:"staff_name" db:"staff_name"`
}

// StatusOrDefault returns the status, treating a missing status as pending
func (a *AppointmentRecord) StatusOrDefault() AppointmentStatus {
	if a.Status == nil || *a.Status == "" {
		return AppointmentStatusPending
	}
	return *a.Status
}

// Price returns the total price or 0
func (a *AppointmentRecord) Price() float64 {
	if a.TotalPrice == nil {
		return 0
	}
	return *a.TotalPrice
}

// HasPrice reports whether a price was recorded
func (a *AppointmentRecord) HasPrice() bool {
	return a.TotalPrice != nil
}

// Duration returns the duration in minutes or 0
func (a *AppointmentRecord) Duration() int {
	if a.DurationMinutes == nil {
		return 0
	}
	return *a.DurationMinutes
}

// CustomerKey identifies the customer by id, then email, then the anonymous bucket
func (a *AppointmentRecord) CustomerKey() string {
	if a.CustomerID != nil && *a.CustomerID != "" {
		return *a.CustomerID
	}
	if a.CustomerEmail != nil && *a.CustomerEmail != "" {
		return *a.CustomerEmail
	}
	return AnonymousCustomerKey
}

// IsTerminalMiss reports whether the appointment ended without being served
func (a *AppointmentRecord) IsTerminalMiss() bool {
	status := a.StatusOrDefault()
	return status == AppointmentStatusCancelled || status == AppointmentStatusNoShow
}

// AppointmentOverview is a recent appointment row passed through to the presentation layer
type AppointmentOverview struct {
	AppointmentRecord
	ServiceNames *string    `json:"service_names,omitempty" db:"service_names"`
	CreatedAt    *time.Time `json:"created_at,omitempty" db:"created_at"`
}

// AppointmentIdentity returns the appointment id, or a name-based UUID over the
// row's identifying fields when the id is missing. The result is stable across runs.
func AppointmentIdentity(a *AppointmentRecord) string {
	if a.ID != nil && *a.ID != "" {
		return *a.ID
	}

	key := strings.Join([]string{
		StringValue(a.SalonID),
		StringValue(a.CustomerID),
		StringValue(a.StaffID),
		string(a.StatusOrDefault()),
		timeKey(a.StartTime),
		timeKey(a.UpdatedAt),
		priceKey(a.TotalPrice),
	}, "|")

	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

func timeKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func priceKey(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

// StringValue dereferences an optional string
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
