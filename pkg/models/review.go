package models

import "time"

// ReviewRecord is one row of the admin reviews overview
type ReviewRecord struct {
	ID           *string    `json:"id" db:"id"`
	SalonID      *string    `json:"salon_id" db:"salon_id"`
	SalonName    *string    `json:"salon_name" db:"salon_name"`
	CustomerID   *string    `json:"customer_id" db:"customer_id"`
	CustomerName *string    `json:"customer_name" db:"customer_name"`
	Comment      *string    `json:"comment" db:"comment"`
	Rating       *int       `json:"rating" db:"rating"`
	IsVerified   *bool      `json:"is_verified" db:"is_verified"`
	IsFlagged    *bool      `json:"is_flagged" db:"is_flagged"`
	HelpfulCount *int       `json:"helpful_count" db:"helpful_count"`
	HasResponse  *bool      `json:"has_response" db:"has_response"`
	CreatedAt    *time.Time `json:"created_at" db:"created_at"`
}

// CommentLength returns the comment length in characters, 0 when absent
func (r *ReviewRecord) CommentLength() int {
	if r.Comment == nil {
		return 0
	}
	return len([]rune(*r.Comment))
}

// Flagged reports whether the review is flagged
func (r *ReviewRecord) Flagged() bool {
	return r.IsFlagged != nil && *r.IsFlagged
}

// ReviewerAggregate summarizes a reviewer's history
type ReviewerAggregate struct {
	TotalReviews   int `json:"totalReviews"`
	FlaggedReviews int `json:"flaggedReviews"`
}

// FallbackAggregate is used when no history was fetched for the review's author
func (r *ReviewRecord) FallbackAggregate() ReviewerAggregate {
	agg := ReviewerAggregate{}
	if r.CustomerID != nil && *r.CustomerID != "" {
		agg.TotalReviews = 1
	}
	if r.Flagged() {
		agg.FlaggedReviews = 1
	}
	return agg
}
