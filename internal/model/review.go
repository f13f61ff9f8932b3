package model

import "time"

// Review moderation statuses.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// UserReview is a customer testimonial. Reviews are moderated before they
// surface anywhere public.
type UserReview struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Quote           string     `json:"quote"`
	Rating          int        `json:"rating"`
	Status          string     `json:"status"`
	ReviewedByID    *string    `json:"reviewed_by_id,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Trashable
}

// IsPublishable reports whether the review may appear publicly.
func (r *UserReview) IsPublishable() bool {
	return r.Status == ReviewApproved && r.IsActive && !r.IsTrashed()
}
