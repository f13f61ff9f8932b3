package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInvoiceRecomputeStatus(t *testing.T) {
	now := time.Now()
	tomorrow := now.Add(24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	tests := []struct {
		name    string
		invoice Invoice
		want    string
	}{
		{
			name:    "fully paid",
			invoice: Invoice{Status: InvoicePending, Amount: decimal.NewFromInt(100), PaidAmount: decimal.NewFromInt(100), DueDate: tomorrow},
			want:    InvoicePaid,
		},
		{
			name:    "partially paid",
			invoice: Invoice{Status: InvoicePending, Amount: decimal.NewFromInt(100), PaidAmount: decimal.NewFromInt(40), DueDate: tomorrow},
			want:    InvoicePartial,
		},
		{
			name:    "unpaid past due",
			invoice: Invoice{Status: InvoicePending, Amount: decimal.NewFromInt(100), PaidAmount: decimal.Zero, DueDate: lastWeek},
			want:    InvoiceOverdue,
		},
		{
			name:    "unpaid not due",
			invoice: Invoice{Status: InvoiceOverdue, Amount: decimal.NewFromInt(100), PaidAmount: decimal.Zero, DueDate: tomorrow},
			want:    InvoicePending,
		},
		{
			name:    "cancelled stays cancelled",
			invoice: Invoice{Status: InvoiceCancelled, Amount: decimal.NewFromInt(100), PaidAmount: decimal.NewFromInt(100), DueDate: lastWeek},
			want:    InvoiceCancelled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.invoice.RecomputeStatus(now)
			assert.Equal(t, tt.want, tt.invoice.Status)
		})
	}
}

func TestInvoiceBalance(t *testing.T) {
	inv := Invoice{Amount: decimal.NewFromInt(250), PaidAmount: decimal.NewFromInt(100)}
	assert.True(t, inv.Balance().Equal(decimal.NewFromInt(150)))
}
