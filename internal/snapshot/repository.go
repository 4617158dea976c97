package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/salon-safety/internal/performance"
	"github.com/richxcame/salon-safety/pkg/database"
	"github.com/richxcame/salon-safety/pkg/models"
)

// Shared column list for the appointments overview view
const appointmentColumns = `
	id, salon_id, customer_id, staff_id, customer_email,
	status,
	start_time, updated_at,
	total_price::float8,
	duration_minutes,
	salon_name, customer_name, staff_name`

// scanAppointment scans a row into an AppointmentRecord
func scanAppointment(scan func(dest ...interface{}) error, extra ...interface{}) (models.AppointmentRecord, error) {
	a := models.AppointmentRecord{}
	var status *string
	dest := []interface{}{
		&a.ID, &a.SalonID, &a.CustomerID, &a.StaffID, &a.CustomerEmail,
		&status,
		&a.StartTime, &a.UpdatedAt,
		&a.TotalPrice,
		&a.DurationMinutes,
		&a.SalonName, &a.CustomerName, &a.StaffName,
	}
	if err := scan(append(dest, extra...)...); err != nil {
		return a, err
	}
	if status != nil {
		s := models.AppointmentStatus(*status)
		a.Status = &s
	}
	return a, nil
}

// Repository handles appointment feed queries
type Repository struct {
	db           *pgxpool.Pool
	queryTimeout time.Duration
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new snapshot repository
func NewRepository(db *pgxpool.Pool, queryTimeout time.Duration) *Repository {
	return &Repository{db: db, queryTimeout: queryTimeout}
}

// GetAppointmentsSince returns appointments starting at or after since, newest first
func (r *Repository) GetAppointmentsSince(ctx context.Context, since time.Time, limit int) ([]models.AppointmentRecord, error) {
	ctx, cancel := database.WithQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s
		FROM admin_appointments_overview_view
		WHERE start_time >= $1
		ORDER BY start_time DESC
		LIMIT $2`, appointmentColumns)

	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]models.AppointmentRecord, 0)
	for rows.Next() {
		a, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

// GetRecentAppointments returns the most recent appointments regardless of window
func (r *Repository) GetRecentAppointments(ctx context.Context, limit int) ([]models.AppointmentOverview, error) {
	ctx, cancel := database.WithQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s, service_names, created_at
		FROM admin_appointments_overview_view
		ORDER BY start_time DESC NULLS LAST
		LIMIT $1`, appointmentColumns)

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent appointments: %w", err)
	}
	defer rows.Close()

	recent := make([]models.AppointmentOverview, 0)
	for rows.Next() {
		o := models.AppointmentOverview{}
		record, err := scanAppointment(rows.Scan, &o.ServiceNames, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan recent appointment: %w", err)
		}
		o.AppointmentRecord = record
		recent = append(recent, o)
	}
	return recent, rows.Err()
}

// GetDailyAnalytics returns platform daily rows on or after since, newest first
func (r *Repository) GetDailyAnalytics(ctx context.Context, since time.Time, limit int) ([]performance.DailyAnalyticsRow, error) {
	ctx, cancel := database.WithQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT
			to_char(date, 'YYYY-MM-DD'),
			platform_appointments,
			platform_cancelled_appointments,
			platform_no_shows,
			platform_completed_appointments
		FROM admin_analytics_overview_view
		WHERE date >= $1
		ORDER BY date DESC
		LIMIT $2`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query daily analytics: %w", err)
	}
	defer rows.Close()

	daily := make([]performance.DailyAnalyticsRow, 0)
	for rows.Next() {
		d := performance.DailyAnalyticsRow{}
		if err := rows.Scan(
			&d.Date,
			&d.Appointments,
			&d.CancelledAppointments,
			&d.NoShows,
			&d.CompletedAppointments,
		); err != nil {
			return nil, fmt.Errorf("scan daily analytics: %w", err)
		}
		daily = append(daily, d)
	}
	return daily, rows.Err()
}
