package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductConvenienceFee(t *testing.T) {
	fixed := &InsuranceProduct{ConvenienceFee: decimal.NewFromInt(500), ConvenienceFeeType: FeeTypeFixed}
	assert.True(t, fixed.ConvenienceFeeFor(decimal.NewFromInt(10000)).Equal(decimal.NewFromInt(500)))

	pct := &InsuranceProduct{ConvenienceFee: decimal.NewFromInt(5), ConvenienceFeeType: FeeTypePercentage}
	assert.True(t, pct.ConvenienceFeeFor(decimal.NewFromInt(10000)).Equal(decimal.NewFromInt(500)))
}

func TestProductCalculatePremium(t *testing.T) {
	p := &InsuranceProduct{
		BasePremium:   decimal.NewFromInt(1000),
		MinPremium:    decimal.NewFromInt(1000),
		MinSumInsured: decimal.NewFromInt(100000),
	}

	// double the minimum coverage doubles the premium
	got := p.CalculatePremium(decimal.NewFromInt(200000))
	assert.True(t, got.Equal(decimal.NewFromInt(2000)), "got %s", got)

	// below-minimum result clamps to min premium
	got = p.CalculatePremium(decimal.NewFromInt(50000))
	assert.True(t, got.Equal(decimal.NewFromInt(1000)), "got %s", got)

	// no min sum insured: premium is flat
	flat := &InsuranceProduct{BasePremium: decimal.NewFromInt(750)}
	assert.True(t, flat.CalculatePremium(decimal.NewFromInt(999999)).Equal(decimal.NewFromInt(750)))
}

func TestApplicationPaymentAmount(t *testing.T) {
	premium := decimal.NewFromInt(12000)

	tests := []struct {
		name      string
		mode      string
		wantTotal int64
	}{
		{"no payment", PaymentModeNone, 0},
		{"convenience only", PaymentModeConvenienceOnly, 500},
		{"full payment", PaymentModeFull, 12500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &InsuranceProduct{
				ApplicationPaymentMode: tt.mode,
				ConvenienceFee:         decimal.NewFromInt(500),
				ConvenienceFeeType:     FeeTypeFixed,
			}
			total, _ := p.ApplicationPaymentAmount(premium)
			assert.True(t, total.Equal(decimal.NewFromInt(tt.wantTotal)), "got %s", total)
		})
	}
}

func TestEffectiveCommissionRate(t *testing.T) {
	def := decimal.NewFromInt(10)

	p := &InsuranceProduct{}
	assert.True(t, p.EffectiveCommissionRate(def).Equal(def))

	override := decimal.NewFromInt(15)
	p.CommissionRate = &override
	assert.True(t, p.EffectiveCommissionRate(def).Equal(override))
}
