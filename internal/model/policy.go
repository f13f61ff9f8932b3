package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy statuses.
const (
	PolicyPending   = "pending"
	PolicyActive    = "active"
	PolicySuspended = "suspended"
	PolicyExpired   = "expired"
	PolicyCancelled = "cancelled"
	PolicyLapsed    = "lapsed"
)

// Premium payment frequencies.
const (
	FrequencyMonthly    = "monthly"
	FrequencyQuarterly  = "quarterly"
	FrequencySemiAnnual = "semi_annual"
	FrequencyAnnual     = "annual"
)

// Policy is an active insurance contract between a customer and a
// provider, managed by an agent.
type Policy struct {
	ID                      string          `json:"id"`
	PolicyNumber            string          `json:"policy_number"`
	CustomerID              string          `json:"customer_id"`
	ProductID               string          `json:"product_id"`
	AgentID                 *string         `json:"agent_id,omitempty"`
	Status                  string          `json:"status"`
	StartDate               time.Time       `json:"start_date"`
	EndDate                 time.Time       `json:"end_date"`
	PremiumAmount           decimal.Decimal `json:"premium_amount"`
	CoverageAmount          decimal.Decimal `json:"coverage_amount"`
	PaymentFrequency        string          `json:"payment_frequency"`
	BeneficiaryName         string          `json:"beneficiary_name,omitempty"`
	BeneficiaryRelationship string          `json:"beneficiary_relationship,omitempty"`
	BeneficiaryPhone        string          `json:"beneficiary_phone,omitempty"`
	Notes                   string          `json:"notes,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
	Trashable
}

// IsExpired reports whether the policy end date has passed.
func (p *Policy) IsExpired(now time.Time) bool {
	return p.EndDate.Before(now)
}

// DaysUntilExpiry can be negative for already-expired policies.
func (p *Policy) DaysUntilExpiry(now time.Time) int {
	return int(p.EndDate.Sub(now).Hours() / 24)
}

// IsExpiringSoon reports expiry within the next 30 days.
func (p *Policy) IsExpiringSoon(now time.Time) bool {
	d := p.DaysUntilExpiry(now)
	return d > 0 && d <= 30
}

// Application statuses.
const (
	ApplicationDraft       = "draft"
	ApplicationSubmitted   = "submitted"
	ApplicationUnderReview = "under_review"
	ApplicationApproved    = "approved"
	ApplicationRejected    = "rejected"
	ApplicationCancelled   = "cancelled"
)

// Application payment statuses.
const (
	AppPaymentNotRequired = "not_required"
	AppPaymentPending     = "pending"
	AppPaymentPaid        = "paid"
	AppPaymentPartial     = "partial"
	AppPaymentRefunded    = "refunded"
)

// PolicyApplication tracks a request for cover from draft through
// approval, including the payment due at submission.
type PolicyApplication struct {
	ID                      string           `json:"id"`
	ApplicationNumber       string           `json:"application_number"`
	ApplicantID             string           `json:"applicant_id"`
	ProductID               string           `json:"product_id"`
	AssignedAgentID         *string          `json:"assigned_agent_id,omitempty"`
	Status                  string           `json:"status"`
	RequestedCoverage       decimal.Decimal  `json:"requested_coverage"`
	RequestedTermMonths     int              `json:"requested_term_months"`
	PaymentFrequency        string           `json:"payment_frequency"`
	CalculatedPremium       *decimal.Decimal `json:"calculated_premium,omitempty"`
	BeneficiaryName         string           `json:"beneficiary_name,omitempty"`
	BeneficiaryRelationship string           `json:"beneficiary_relationship,omitempty"`
	BeneficiaryPhone        string           `json:"beneficiary_phone,omitempty"`
	SubmittedAt             *time.Time       `json:"submitted_at,omitempty"`
	ReviewedAt              *time.Time       `json:"reviewed_at,omitempty"`
	ReviewedByID            *string          `json:"reviewed_by_id,omitempty"`
	RejectionReason         string           `json:"rejection_reason,omitempty"`
	Notes                   string           `json:"notes,omitempty"`
	PolicyID                *string          `json:"policy_id,omitempty"`
	PaymentStatus           string           `json:"payment_status"`
	ConvenienceFeeAmount    decimal.Decimal  `json:"convenience_fee_amount"`
	PremiumAmount           decimal.Decimal  `json:"premium_amount"`
	TotalPaymentDue         decimal.Decimal  `json:"total_payment_due"`
	AmountPaid              decimal.Decimal  `json:"amount_paid"`
	PaymentReference        string           `json:"payment_reference,omitempty"`
	PaidAt                  *time.Time       `json:"paid_at,omitempty"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
	Trashable
}

// PaymentOutstanding is the amount still due on the application.
func (a *PolicyApplication) PaymentOutstanding() decimal.Decimal {
	out := a.TotalPaymentDue.Sub(a.AmountPaid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// Policy document types.
const (
	PolicyDocCertificate = "certificate"
	PolicyDocTerms       = "terms"
	PolicyDocEndorsement = "endorsement"
	PolicyDocRenewal     = "renewal"
	PolicyDocOther       = "other"
)

// PolicyDocument is a stored file attached to a policy.
type PolicyDocument struct {
	ID           string    `json:"id"`
	PolicyID     string    `json:"policy_id"`
	DocumentType string    `json:"document_type"`
	Title        string    `json:"title"`
	StorageKey   string    `json:"storage_key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	Description  string    `json:"description,omitempty"`
	UploadedByID *string   `json:"uploaded_by_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
