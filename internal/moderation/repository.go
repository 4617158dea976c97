package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/salon-safety/pkg/database"
	"github.com/richxcame/salon-safety/pkg/models"
)

// Shared column list for the reviews overview view
const reviewColumns = `
	id, salon_id, salon_name, customer_id, customer_name,
	comment, rating,
	is_verified, is_flagged,
	helpful_count, has_response,
	created_at`

// scanReview scans a row into a ReviewRecord
func scanReview(scan func(dest ...interface{}) error) (models.ReviewRecord, error) {
	r := models.ReviewRecord{}
	err := scan(
		&r.ID, &r.SalonID, &r.SalonName, &r.CustomerID, &r.CustomerName,
		&r.Comment, &r.Rating,
		&r.IsVerified, &r.IsFlagged,
		&r.HelpfulCount, &r.HasResponse,
		&r.CreatedAt,
	)
	return r, err
}

// Count predicates over engagement.salon_reviews; soft-deleted reviews never count
var countPredicates = map[CountKind]string{
	CountTotal:           "deleted_at IS NULL",
	CountFlagged:         "deleted_at IS NULL AND is_flagged = true",
	CountWithoutResponse: "deleted_at IS NULL AND response IS NULL",
	CountHighRisk:        "deleted_at IS NULL AND (is_flagged = true OR is_verified = false)",
}

// Repository handles review moderation queries
type Repository struct {
	db           *pgxpool.Pool
	queryTimeout time.Duration
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new moderation repository
func NewRepository(db *pgxpool.Pool, queryTimeout time.Duration) *Repository {
	return &Repository{db: db, queryTimeout: queryTimeout}
}

// CountReviews returns one of the headline counters
func (r *Repository) CountReviews(ctx context.Context, kind CountKind) (int64, error) {
	predicate, ok := countPredicates[kind]
	if !ok {
		return 0, fmt.Errorf("unknown review count %q", kind)
	}

	ctx, cancel := database.WithQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM engagement.salon_reviews WHERE %s`, predicate)
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s reviews: %w", kind, err)
	}
	return count, nil
}

// GetRecentReviewSample returns the newest reviews for statistics sampling
func (r *Repository) GetRecentReviewSample(ctx context.Context, limit int) ([]models.ReviewRecord, error) {
	ctx, cancel := database.WithQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT comment, helpful_count, has_response, is_flagged
		FROM admin_reviews_overview_view
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query review sample: %w", err)
	}
	defer rows.Close()

	sample := make([]models.ReviewRecord, 0)
	for rows.Next() {
		s := models.ReviewRecord{}
		if err := rows.Scan(&s.Comment, &s.HelpfulCount, &s.HasResponse, &s.IsFlagged); err != nil {
			return nil, fmt.Errorf("scan review sample: %w", err)
		}
		sample = append(sample, s)
	}
	return sample, rows.Err()
}

// buildFilters constructs WHERE clauses and args from filters
func buildFilters(filters Filters) (string, []interface{}, int) {
	where := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filters.IsFlagged != nil {
		where = append(where, fmt.Sprintf("is_flagged = $%d", argIdx))
		args = append(args, *filters.IsFlagged)
		argIdx++
	}
	if filters.SalonID != nil && *filters.SalonID != "" {
		where = append(where, fmt.Sprintf("salon_id::text = $%d", argIdx))
		args = append(args, *filters.SalonID)
		argIdx++
	}
	if filters.DateFrom != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *filters.DateFrom)
		argIdx++
	}
	if filters.DateTo != nil {
		where = append(where, fmt.Sprintf("created_at < $%d", argIdx))
		args = append(args, *filters.DateTo)
		argIdx++
	}

	return strings.Join(where, " AND "), args, argIdx
}

// GetReviews returns filtered reviews, newest first
func (r *Repository) GetReviews(ctx context.Context, filters Filters, limit int) ([]models.ReviewRecord, error) {
	ctx, cancel := database.WithQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	whereClause, args, argIdx := buildFilters(filters)
	query := fmt.Sprintf(`
		SELECT %s
		FROM admin_reviews_overview_view
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d`, reviewColumns, whereClause, argIdx)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	result := make([]models.ReviewRecord, 0)
	for rows.Next() {
		review, err := scanReview(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		result = append(result, review)
	}
	return result, rows.Err()
}

// GetReviewerAggregates returns review and flag counts per customer
func (r *Repository) GetReviewerAggregates(ctx context.Context, customerIDs []string) (map[string]models.ReviewerAggregate, error) {
	result := make(map[string]models.ReviewerAggregate, len(customerIDs))
	if len(customerIDs) == 0 {
		return result, nil
	}

	ctx, cancel := database.WithQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT
			customer_id::text,
			COUNT(*),
			COUNT(*) FILTER (WHERE is_flagged = true)
		FROM engagement.salon_reviews
		WHERE customer_id = ANY($1::text[]::uuid[])
			AND deleted_at IS NULL
		GROUP BY customer_id`, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("query reviewer aggregates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var customerID string
		var agg models.ReviewerAggregate
		if err := rows.Scan(&customerID, &agg.TotalReviews, &agg.FlaggedReviews); err != nil {
			return nil, fmt.Errorf("scan reviewer aggregate: %w", err)
		}
		result[customerID] = agg
	}
	return result, rows.Err()
}

// GetCustomerEmails resolves customer ids to emails
func (r *Repository) GetCustomerEmails(ctx context.Context, customerIDs []string) (map[string]*string, error) {
	return r.lookupStrings(ctx, `
		SELECT id::text, email
		FROM admin_users_overview_view
		WHERE id = ANY($1::text[]::uuid[])`, customerIDs)
}

// GetFlaggedReasons resolves review ids to a flagged reason
func (r *Repository) GetFlaggedReasons(ctx context.Context, reviewIDs []string) (map[string]*string, error) {
	return r.lookupStrings(ctx, `
		SELECT id::text, CASE WHEN is_flagged THEN 'Flagged' END
		FROM engagement.salon_reviews
		WHERE id = ANY($1::text[]::uuid[])`, reviewIDs)
}

func (r *Repository) lookupStrings(ctx context.Context, query string, ids []string) (map[string]*string, error) {
	result := make(map[string]*string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	ctx, cancel := database.WithQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var value *string
		if err := rows.Scan(&id, &value); err != nil {
			return nil, err
		}
		result[id] = value
	}
	return result, rows.Err()
}
