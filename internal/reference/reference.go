// Package reference generates the human-facing identifiers used across
// the back office: monthly-sequenced document numbers and ULID-suffixed
// transaction references.
package reference

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/oklog/ulid/v2"
)

// Document number prefixes.
const (
	PrefixPolicy      = "POL"
	PrefixApplication = "APP"
	PrefixClaim       = "CLM"
	PrefixInvoice     = "INV"
)

// Monthly formats a monthly-sequenced number such as POL-202508-00042.
// The caller supplies the next sequence for the month, typically from
// the repository.
func Monthly(prefix string, t time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%05d", prefix, t.Format("200601"), seq)
}

// MonthlyPrefix returns the prefix shared by all numbers issued in t's
// month, used for sequence lookups.
func MonthlyPrefix(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s-", prefix, t.Format("200601"))
}

const ticketAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Ticket generates a ticket reference like TKT-20250831-7GK2QD.
func Ticket(t time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(ticketAlphabet))))
		if err != nil {
			// crypto/rand failing means the platform is broken; fall
			// back to a time-derived index rather than panic.
			suffix[i] = ticketAlphabet[time.Now().UnixNano()%int64(len(ticketAlphabet))]
			continue
		}
		suffix[i] = ticketAlphabet[n.Int64()]
	}
	return fmt.Sprintf("TKT-%s-%s", t.Format("20060102"), suffix)
}

// Payment generates a globally unique payment reference.
func Payment() string {
	return "PAY-" + ulid.Make().String()
}

// WalletTxn generates a wallet ledger reference.
func WalletTxn() string {
	return "WTX-" + ulid.Make().String()
}
