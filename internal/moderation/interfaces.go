package moderation

import (
	"context"

	"github.com/richxcame/salon-safety/pkg/models"
)

// RepositoryInterface defines the review queries used by moderation
type RepositoryInterface interface {
	CountReviews(ctx context.Context, kind CountKind) (int64, error)
	GetRecentReviewSample(ctx context.Context, limit int) ([]models.ReviewRecord, error)
	GetReviews(ctx context.Context, filters Filters, limit int) ([]models.ReviewRecord, error)
	GetReviewerAggregates(ctx context.Context, customerIDs []string) (map[string]models.ReviewerAggregate, error)
	GetCustomerEmails(ctx context.Context, customerIDs []string) (map[string]*string, error)
	GetFlaggedReasons(ctx context.Context, reviewIDs []string) (map[string]*string, error)
}
