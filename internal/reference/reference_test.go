package reference

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthly(t *testing.T) {
	at := time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "POL-202508-00042", Monthly(PrefixPolicy, at, 42))
	assert.Equal(t, "INV-202508-", MonthlyPrefix(PrefixInvoice, at))
}

func TestTicket(t *testing.T) {
	at := time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)
	ref := Ticket(at)
	assert.True(t, strings.HasPrefix(ref, "TKT-20250831-"))
	assert.Len(t, ref, len("TKT-20250831-")+6)

	// two references in the same instant must differ
	assert.NotEqual(t, Ticket(at), Ticket(at))
}

func TestPaymentAndWalletTxn(t *testing.T) {
	p := Payment()
	assert.True(t, strings.HasPrefix(p, "PAY-"))
	assert.NotEqual(t, p, Payment())

	w := WalletTxn()
	assert.True(t, strings.HasPrefix(w, "WTX-"))
}
