package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Claim statuses.
const (
	ClaimDraft             = "draft"
	ClaimSubmitted         = "submitted"
	ClaimUnderReview       = "under_review"
	ClaimInvestigating     = "investigating"
	ClaimApproved          = "approved"
	ClaimPartiallyApproved = "partially_approved"
	ClaimRejected          = "rejected"
	ClaimPaid              = "paid"
	ClaimClosed            = "closed"
)

// Claim tracks a loss event against a policy from submission through
// settlement.
type Claim struct {
	ID                  string           `json:"id"`
	ClaimNumber         string           `json:"claim_number"`
	PolicyID            string           `json:"policy_id"`
	ClaimantID          string           `json:"claimant_id"`
	AssignedAdjusterID  *string          `json:"assigned_adjuster_id,omitempty"`
	Status              string           `json:"status"`
	Priority            string           `json:"priority"`
	IncidentDate        time.Time        `json:"incident_date"`
	IncidentDescription string           `json:"incident_description"`
	IncidentLocation    string           `json:"incident_location,omitempty"`
	ClaimedAmount       decimal.Decimal  `json:"claimed_amount"`
	ApprovedAmount      *decimal.Decimal `json:"approved_amount,omitempty"`
	PaidAmount          *decimal.Decimal `json:"paid_amount,omitempty"`
	SubmittedAt         *time.Time       `json:"submitted_at,omitempty"`
	ReviewedAt          *time.Time       `json:"reviewed_at,omitempty"`
	ReviewedByID        *string          `json:"reviewed_by_id,omitempty"`
	RejectionReason     string           `json:"rejection_reason,omitempty"`
	AdjusterNotes       string           `json:"adjuster_notes,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	Trashable
}

// DaysSinceSubmission returns -1 for unsubmitted claims.
func (c *Claim) DaysSinceSubmission(now time.Time) int {
	if c.SubmittedAt == nil {
		return -1
	}
	return int(now.Sub(*c.SubmittedAt).Hours() / 24)
}

// IsOverdue reports open claims older than 30 days.
func (c *Claim) IsOverdue(now time.Time) bool {
	switch c.Status {
	case ClaimPaid, ClaimClosed, ClaimRejected:
		return false
	}
	return c.DaysSinceSubmission(now) > 30
}

// IsSettled reports whether processing finished.
func (c *Claim) IsSettled() bool {
	switch c.Status {
	case ClaimPaid, ClaimClosed, ClaimRejected:
		return true
	}
	return false
}

// Claim document types.
const (
	ClaimDocPhoto    = "photo"
	ClaimDocReport   = "report"
	ClaimDocReceipt  = "receipt"
	ClaimDocEstimate = "estimate"
	ClaimDocID       = "id"
	ClaimDocMedical  = "medical"
	ClaimDocPolice   = "police"
	ClaimDocWitness  = "witness"
	ClaimDocOther    = "other"
)

// ClaimDocument is a stored file supporting a claim.
type ClaimDocument struct {
	ID           string    `json:"id"`
	ClaimID      string    `json:"claim_id"`
	DocumentType string    `json:"document_type"`
	Title        string    `json:"title"`
	StorageKey   string    `json:"storage_key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	Description  string    `json:"description,omitempty"`
	UploadedByID *string   `json:"uploaded_by_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ClaimNote is an internal adjuster note on a claim.
type ClaimNote struct {
	ID         string    `json:"id"`
	ClaimID    string    `json:"claim_id"`
	AuthorID   *string   `json:"author_id,omitempty"`
	Note       string    `json:"note"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}
