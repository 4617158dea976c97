package snapshot

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/salon-safety/internal/risk"
	"github.com/richxcame/salon-safety/pkg/common"
	"github.com/richxcame/salon-safety/pkg/middleware"
)

// ServiceInterface is the snapshot operation used by the handler
type ServiceInterface interface {
	GetAppointmentSnapshot(ctx context.Context, opts Options) (*AppointmentSnapshot, error)
}

// Handler handles HTTP requests for appointment oversight
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new snapshot handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// GetSnapshot returns the appointment snapshot
// GET /api/v1/admin/trust-safety/snapshot?window_days=30&appointment_limit=300&recent_limit=60
func (h *Handler) GetSnapshot(c *gin.Context) {
	var opts Options
	if !middleware.ValidateAndBindQuery(c, &opts) {
		return
	}

	snapshot, err := h.service.GetAppointmentSnapshot(c.Request.Context(), opts)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, snapshot)
}

// GetFraudAlerts returns the snapshot's fraud alerts ordered by score
// GET /api/v1/admin/trust-safety/fraud-alerts?window_days=30
func (h *Handler) GetFraudAlerts(c *gin.Context) {
	var opts Options
	if !middleware.ValidateAndBindQuery(c, &opts) {
		return
	}

	snapshot, err := h.service.GetAppointmentSnapshot(c.Request.Context(), opts)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	alerts := risk.SortByScore(snapshot.FraudAlerts)
	common.SuccessResponseWithMeta(c, gin.H{
		"alerts":   alerts,
		"disputes": snapshot.Disputes,
	}, &common.Meta{Count: len(alerts)})
}

// RegisterRoutes registers snapshot routes on an admin-guarded group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/snapshot", h.GetSnapshot)
	rg.GET("/fraud-alerts", h.GetFraudAlerts)
}

