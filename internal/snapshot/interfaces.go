package snapshot

import (
	"context"
	"time"

	"github.com/richxcame/salon-safety/internal/performance"
	"github.com/richxcame/salon-safety/internal/risk"
	"github.com/richxcame/salon-safety/pkg/models"
)

// RepositoryInterface defines the appointment feeds a snapshot is built from
type RepositoryInterface interface {
	GetAppointmentsSince(ctx context.Context, since time.Time, limit int) ([]models.AppointmentRecord, error)
	GetRecentAppointments(ctx context.Context, limit int) ([]models.AppointmentOverview, error)
	GetDailyAnalytics(ctx context.Context, since time.Time, limit int) ([]performance.DailyAnalyticsRow, error)
}

// AlertPublisher forwards fraud alerts to downstream consumers
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []risk.FraudAlert) error
}
