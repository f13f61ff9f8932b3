package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provider types.
const (
	ProviderUnderwriter = "underwriter"
	ProviderReinsurer   = "reinsurer"
	ProviderBroker      = "broker"
	ProviderAgent       = "agent"
)

// InsuranceProvider is an underwriter whose products the brokerage sells.
type InsuranceProvider struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	Code                  string          `json:"code"`
	ProviderType          string          `json:"provider_type"`
	Email                 string          `json:"email,omitempty"`
	Phone                 string          `json:"phone,omitempty"`
	Website               string          `json:"website,omitempty"`
	Address               string          `json:"address,omitempty"`
	City                  string          `json:"city,omitempty"`
	Country               string          `json:"country"`
	RegistrationNumber    string          `json:"registration_number,omitempty"`
	IRALicense            string          `json:"ira_license,omitempty"`
	DefaultCommissionRate decimal.Decimal `json:"default_commission_rate"`
	ContractStart         *time.Time      `json:"contract_start,omitempty"`
	ContractEnd           *time.Time      `json:"contract_end,omitempty"`
	IsActive              bool            `json:"is_active"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	Trashable
}

// IsContractActive reports whether the provider contract is still in force.
// No end date means an open-ended contract.
func (p *InsuranceProvider) IsContractActive(now time.Time) bool {
	if p.ContractEnd == nil {
		return true
	}
	return !p.ContractEnd.Before(now)
}

// ProductCategory groups products: motor, health, life and so on.
type ProductCategory struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Description  string    `json:"description,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Application payment modes: what must be paid when submitting an
// application for this product.
const (
	PaymentModeNone            = "none"
	PaymentModeConvenienceOnly = "convenience_only"
	PaymentModeFull            = "full"
)

// Fee and commission calculation types.
const (
	FeeTypeFixed      = "fixed"
	FeeTypePercentage = "percentage"
)

// InsuranceProduct is a sellable product from a provider, carrying the
// premium, commission, and application-fee configuration.
type InsuranceProduct struct {
	ID                    string           `json:"id"`
	ProviderID            string           `json:"provider_id"`
	CategoryID            *string          `json:"category_id,omitempty"`
	Name                  string           `json:"name"`
	Code                  string           `json:"code"`
	ShortDescription      string           `json:"short_description,omitempty"`
	Description           string           `json:"description,omitempty"`
	BasePremium           decimal.Decimal  `json:"base_premium"`
	MinPremium            decimal.Decimal  `json:"min_premium"`
	MinSumInsured         decimal.Decimal  `json:"min_sum_insured"`
	MaxSumInsured         *decimal.Decimal `json:"max_sum_insured,omitempty"`
	CommissionRate        *decimal.Decimal `json:"commission_rate,omitempty"`
	CommissionType        string           `json:"commission_type"`
	DefaultDurationMonths int              `json:"default_duration_months"`
	RequiresUnderwriting  bool             `json:"requires_underwriting"`
	AutoRenewEnabled      bool             `json:"auto_renew_enabled"`
	ApplicationPaymentMode string          `json:"application_payment_mode"`
	ConvenienceFee        decimal.Decimal  `json:"convenience_fee"`
	ConvenienceFeeType    string           `json:"convenience_fee_type"`
	Featured              bool             `json:"featured"`
	DisplayOrder          int              `json:"display_order"`
	IsActive              bool             `json:"is_active"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
	Trashable
}

// EffectiveCommissionRate falls back to the provider default when the
// product carries no override.
func (p *InsuranceProduct) EffectiveCommissionRate(providerDefault decimal.Decimal) decimal.Decimal {
	if p.CommissionRate != nil {
		return *p.CommissionRate
	}
	return providerDefault
}

// ConvenienceFeeFor computes the application fee, percentage fees being a
// share of the premium.
func (p *InsuranceProduct) ConvenienceFeeFor(premium decimal.Decimal) decimal.Decimal {
	if p.ConvenienceFeeType == FeeTypePercentage {
		return p.ConvenienceFee.Div(decimal.NewFromInt(100)).Mul(premium)
	}
	return p.ConvenienceFee
}

// CalculatePremium derives the premium for a coverage amount. When a
// minimum sum insured is configured the base premium scales linearly from
// it; otherwise the base premium is a fixed amount.
func (p *InsuranceProduct) CalculatePremium(coverage decimal.Decimal) decimal.Decimal {
	if p.MinSumInsured.IsPositive() {
		rate := p.BasePremium.Div(p.MinSumInsured)
		premium := coverage.Mul(rate)
		if premium.LessThan(p.MinPremium) {
			return p.MinPremium
		}
		return premium
	}
	return p.BasePremium
}

// ApplicationPaymentBreakdown is returned with the total due at
// application time.
type ApplicationPaymentBreakdown struct {
	ConvenienceFee decimal.Decimal `json:"convenience_fee"`
	Premium        decimal.Decimal `json:"premium"`
}

// ApplicationPaymentAmount computes the total payable when submitting an
// application, per the product's payment mode.
func (p *InsuranceProduct) ApplicationPaymentAmount(premium decimal.Decimal) (decimal.Decimal, ApplicationPaymentBreakdown) {
	switch p.ApplicationPaymentMode {
	case PaymentModeNone:
		return decimal.Zero, ApplicationPaymentBreakdown{ConvenienceFee: decimal.Zero, Premium: decimal.Zero}
	case PaymentModeFull:
		fee := p.ConvenienceFeeFor(premium)
		return fee.Add(premium), ApplicationPaymentBreakdown{ConvenienceFee: fee, Premium: premium}
	default: // convenience_only
		fee := p.ConvenienceFeeFor(premium)
		return fee, ApplicationPaymentBreakdown{ConvenienceFee: fee, Premium: decimal.Zero}
	}
}

// RequiresUpfrontPayment reports whether any payment is due at application.
func (p *InsuranceProduct) RequiresUpfrontPayment() bool {
	return p.ApplicationPaymentMode != PaymentModeNone
}

// Lead statuses.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadQualified = "qualified"
	LeadConverted = "converted"
	LeadLost      = "lost"
)

// Lead is a prospective customer tracked through the sales funnel.
type Lead struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Source          string     `json:"source,omitempty"`
	Status          string     `json:"status"`
	ProductID       *string    `json:"product_id,omitempty"`
	AssignedAgentID *string    `json:"assigned_agent_id,omitempty"`
	ConvertedUserID *string    `json:"converted_user_id,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Trashable
}
