package insight

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BuildAggregates reduces a raw transaction list into Aggregates.
// Sums are carried in decimal arithmetic so a long list of cent values
// cannot drift, then rendered back to float for the wire shape.
// TopCategories holds the top 5 expense categories by summed amount,
// descending; categories without a known name fall back to their ID.
func BuildAggregates(transactions []Transaction, categories []Category) Aggregates {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	income := decimal.Zero
	expenses := decimal.Zero
	total := decimal.Zero
	perCategory := make(map[string]decimal.Decimal)

	for _, tx := range transactions {
		amount := decimal.NewFromFloat(tx.Amount)
		total = total.Add(amount)
		switch tx.Type {
		case "income":
			income = income.Add(amount)
		case "expense":
			expenses = expenses.Add(amount)
			key := tx.CategoryID
			if key == "" {
				key = "uncategorized"
			}
			perCategory[key] = perCategory[key].Add(amount)
		}
	}

	top := make([]CategoryTotal, 0, len(perCategory))
	for id, amount := range perCategory {
		name := names[id]
		if name == "" {
			name = id
		}
		top = append(top, CategoryTotal{Name: name, Amount: amount.InexactFloat64()})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Amount != top[j].Amount {
			return top[i].Amount > top[j].Amount
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > 5 {
		top = top[:5]
	}

	avg := 0.0
	if len(transactions) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(transactions)))).InexactFloat64()
	}

	return Aggregates{
		TotalIncome:        income.InexactFloat64(),
		TotalExpenses:      expenses.InexactFloat64(),
		NetIncome:          income.Sub(expenses).InexactFloat64(),
		TransactionCount:   len(transactions),
		TopCategories:      top,
		AverageTransaction: avg,
	}
}
