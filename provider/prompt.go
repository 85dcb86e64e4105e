package provider

import (
	"fmt"
	"strings"

	"github.com/Hassaanj79/MoneyDesk.co-sub001/insight"
)

// financialContext renders the request as the plain-text block every
// adapter feeds its model. Only aggregate figures are sent; raw
// transactions stay local.
func financialContext(req *Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Period: %s to %s (%d days)\n", req.DateRange.From, req.DateRange.To, insight.DaysInRange(req.DateRange))
	fmt.Fprintf(&b, "Currency: %s\n", req.Currency)
	fmt.Fprintf(&b, "Total income: %.2f\n", req.Aggregates.TotalIncome)
	fmt.Fprintf(&b, "Total expenses: %.2f\n", req.Aggregates.TotalExpenses)
	fmt.Fprintf(&b, "Net income: %.2f\n", req.Aggregates.NetIncome)
	fmt.Fprintf(&b, "Transactions: %d, average value %.2f\n", req.Aggregates.TransactionCount, req.Aggregates.AverageTransaction)

	if len(req.Aggregates.TopCategories) > 0 {
		b.WriteString("Top expense categories (largest first):\n")
		for _, c := range req.Aggregates.TopCategories {
			fmt.Fprintf(&b, "- %s: %.2f\n", c.Name, c.Amount)
		}
	}

	return b.String()
}

// cleanJSONResponse strips markdown code fences and surrounding whitespace
// from a model's JSON reply. Models wrap JSON in ```json fences often
// enough that every adapter runs its output through this first.
func cleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}

// titleFromText derives a short recommendation title from a free-text
// suggestion: the first sentence, truncated.
func titleFromText(s string) string {
	title := strings.TrimSpace(s)
	if i := strings.IndexAny(title, ".!?\n"); i > 0 {
		title = title[:i]
	}
	return truncate(title, 60)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// normalizePriority maps whatever a model returned onto the three
// documented levels, defaulting to medium.
func normalizePriority(p string) insight.Priority {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "low":
		return insight.PriorityLow
	case "high":
		return insight.PriorityHigh
	default:
		return insight.PriorityMedium
	}
}
