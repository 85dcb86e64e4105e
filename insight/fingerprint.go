package insight

import (
	"strconv"
	"strings"
)

// NoTransactions is the sentinel fingerprint component for an empty
// transaction list.
const NoTransactions = "no-transactions"

// TransactionFingerprint derives a stable digest of a transaction list.
// Every field that participates (id, amount, type, date, name) changes
// the result; anything else is invisible to the cache.
func TransactionFingerprint(transactions []Transaction) string {
	if len(transactions) == 0 {
		return NoTransactions
	}
	parts := make([]string, len(transactions))
	for i, tx := range transactions {
		parts[i] = tx.ID + "-" + formatAmount(tx.Amount) + "-" + tx.Type + "-" + tx.Date + "-" + tx.Name
	}
	return strings.Join(parts, "|")
}

// AggregateFingerprint digests the four aggregate totals.
func AggregateFingerprint(agg Aggregates) string {
	return formatAmount(agg.TotalIncome) + "-" +
		formatAmount(agg.TotalExpenses) + "-" +
		formatAmount(agg.NetIncome) + "-" +
		strconv.Itoa(agg.TransactionCount)
}

// Fingerprint is the full cache-invalidation unit: any transaction field
// change or aggregate drift produces a different string. Collisions are
// possible and acceptable; this is a correctness key, not a security one.
func Fingerprint(transactions []Transaction, agg Aggregates) string {
	return TransactionFingerprint(transactions) + "-" + AggregateFingerprint(agg)
}

// formatAmount renders a number in minimal decimal notation, so 1200
// prints as "1200" and 12.50 as "12.5" regardless of how it arrived.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
