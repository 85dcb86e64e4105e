package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransactions() []Transaction {
	return []Transaction{
		{ID: "tx-1", Amount: 1200, Type: "income", Date: "2024-03-01", Name: "Salary"},
		{ID: "tx-2", Amount: 80.5, Type: "expense", Date: "2024-03-02", Name: "Groceries"},
	}
}

func sampleAggregates() Aggregates {
	return Aggregates{
		TotalIncome:      1200,
		TotalExpenses:    80.5,
		NetIncome:        1119.5,
		TransactionCount: 2,
	}
}

func TestTransactionFingerprintEmpty(t *testing.T) {
	assert.Equal(t, "no-transactions", TransactionFingerprint(nil))
	assert.Equal(t, "no-transactions", TransactionFingerprint([]Transaction{}))
}

func TestTransactionFingerprintJoins(t *testing.T) {
	got := TransactionFingerprint(sampleTransactions())
	want := "tx-1-1200-income-2024-03-01-Salary|tx-2-80.5-expense-2024-03-02-Groceries"
	assert.Equal(t, want, got)
}

func TestAggregateFingerprint(t *testing.T) {
	got := AggregateFingerprint(sampleAggregates())
	assert.Equal(t, "1200-80.5-1119.5-2", got)
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint(sampleTransactions(), sampleAggregates())
	b := Fingerprint(sampleTransactions(), sampleAggregates())
	assert.Equal(t, a, b)
}

func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint(sampleTransactions(), sampleAggregates())

	mutations := map[string]func(tx *Transaction){
		"id":     func(tx *Transaction) { tx.ID = "tx-other" },
		"amount": func(tx *Transaction) { tx.Amount += 0.01 },
		"type":   func(tx *Transaction) { tx.Type = "expense" },
		"date":   func(tx *Transaction) { tx.Date = "2024-03-09" },
		"name":   func(tx *Transaction) { tx.Name = "Bonus" },
	}

	for field, mutate := range mutations {
		txs := sampleTransactions()
		mutate(&txs[0])
		got := Fingerprint(txs, sampleAggregates())
		require.NotEqual(t, base, got, "changing transaction %s must change the fingerprint", field)
	}
}

func TestFingerprintAggregateDrift(t *testing.T) {
	base := Fingerprint(sampleTransactions(), sampleAggregates())

	agg := sampleAggregates()
	agg.NetIncome -= 1
	assert.NotEqual(t, base, Fingerprint(sampleTransactions(), agg))

	agg = sampleAggregates()
	agg.TransactionCount++
	assert.NotEqual(t, base, Fingerprint(sampleTransactions(), agg))
}
