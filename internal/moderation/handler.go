package moderation

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/salon-safety/pkg/common"
	"github.com/richxcame/salon-safety/pkg/middleware"
)

const dateLayout = "2006-01-02"

// ServiceInterface is the moderation surface used by the handler
type ServiceInterface interface {
	GetModerationStats(ctx context.Context) (*ModerationStats, error)
	GetReviewsForModeration(ctx context.Context, filters Filters) ([]ModerationReview, error)
	GetFlaggedReviews(ctx context.Context) ([]ModerationReview, error)
}

// ReviewQuery is the query string accepted by the review listing
type ReviewQuery struct {
	IsFlagged *bool  `form:"is_flagged"`
	SalonID   string `form:"salon_id" validate:"omitempty,uuid"`
	DateFrom  string `form:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo    string `form:"date_to" validate:"omitempty,datetime=2006-01-02"`
}

// Filters converts the query into repository filters. date_to is inclusive for
// callers and becomes an exclusive bound at the start of the following day.
func (q ReviewQuery) Filters() (Filters, map[string]string) {
	filters := Filters{IsFlagged: q.IsFlagged}
	if q.SalonID != "" {
		salonID := q.SalonID
		filters.SalonID = &salonID
	}

	if q.DateFrom != "" {
		from, _ := time.Parse(dateLayout, q.DateFrom)
		filters.DateFrom = &from
	}
	if q.DateTo != "" {
		to, _ := time.Parse(dateLayout, q.DateTo)
		if filters.DateFrom != nil && to.Before(*filters.DateFrom) {
			return Filters{}, map[string]string{"date_to": "date_to must not be before date_from"}
		}
		to = to.AddDate(0, 0, 1)
		filters.DateTo = &to
	}

	return filters, nil
}

// Handler handles HTTP requests for review moderation
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new moderation handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// GetReviews lists scored reviews
// GET /api/v1/admin/trust-safety/reviews?is_flagged=true&salon_id=...&date_from=2024-01-01&date_to=2024-01-31
func (h *Handler) GetReviews(c *gin.Context) {
	var query ReviewQuery
	if !middleware.ValidateAndBindQuery(c, &query) {
		return
	}

	filters, fieldErrs := query.Filters()
	if fieldErrs != nil {
		common.ValidationErrorResponse(c, "validation failed", fieldErrs)
		return
	}

	reviews, err := h.service.GetReviewsForModeration(c.Request.Context(), filters)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponseWithMeta(c, reviews, &common.Meta{Count: len(reviews)})
}

// GetFlaggedReviews lists flagged reviews
// GET /api/v1/admin/trust-safety/reviews/flagged
func (h *Handler) GetFlaggedReviews(c *gin.Context) {
	reviews, err := h.service.GetFlaggedReviews(c.Request.Context())
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponseWithMeta(c, reviews, &common.Meta{Count: len(reviews)})
}

// GetStats returns the moderation counters
// GET /api/v1/admin/trust-safety/moderation/stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetModerationStats(c.Request.Context())
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, stats)
}

// RegisterRoutes registers moderation routes on an admin-guarded group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reviews", h.GetReviews)
	rg.GET("/reviews/flagged", h.GetFlaggedReviews)
	rg.GET("/moderation/stats", h.GetStats)
}
