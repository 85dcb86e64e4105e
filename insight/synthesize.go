package insight

import (
	"fmt"
	"strings"
	"time"
)

// Synthesize is the deterministic, rule-based insight generator. It serves
// two roles: the last link of the provider chain when no AI provider is
// configured or all of them fail, and the disaster-recovery path when the
// pipeline itself blows up. It is a pure function of its inputs and never
// returns an error.
func Synthesize(agg Aggregates, dateRange DateRange, currency, userID string) *Insight {
	days := DaysInRange(dateRange)

	savingsRate := 0.0
	if agg.TotalIncome > 0 {
		savingsRate = agg.NetIncome / agg.TotalIncome * 100
	}
	dailySpending := 0.0
	dailyIncome := 0.0
	if days > 0 {
		dailySpending = agg.TotalExpenses / float64(days)
		dailyIncome = agg.TotalIncome / float64(days)
	}
	monthlyProjection := dailySpending * 30

	in := &Insight{
		Summary:         buildSummary(agg, dateRange, currency, days, savingsRate, dailySpending, monthlyProjection),
		Highlights:      buildHighlights(agg, currency, days, savingsRate, dailySpending, dailyIncome),
		Recommendations: buildRecommendations(agg, currency, days, savingsRate),
		Quote:           SelectTip(userID, dateRange),
	}
	in.Clamp()
	return in
}

// DaysInRange counts the whole days a range spans, inclusive of both ends:
// from == to is one day. An inverted or unparseable range counts as zero,
// which zeroes every per-day figure downstream instead of failing.
func DaysInRange(r DateRange) int {
	from, okFrom := parseDay(r.From)
	to, okTo := parseDay(r.To)
	if !okFrom || !okTo || to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

func parseDay(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func money(currency string, v float64) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%s %.2f", currency, v)
}

func buildSummary(agg Aggregates, dateRange DateRange, currency string, days int, savingsRate, dailySpending, monthlyProjection float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Financial summary for %s to %s:\n", dateRange.From, dateRange.To)
	fmt.Fprintf(&b, "Total income: %s. Total expenses: %s. Net income: %s.\n",
		money(currency, agg.TotalIncome), money(currency, agg.TotalExpenses), money(currency, agg.NetIncome))

	switch {
	case agg.NetIncome > 0:
		b.WriteString("You ended the period in the green: income exceeded expenses.\n")
	case agg.NetIncome < 0:
		b.WriteString("You ended the period in the red: expenses exceeded income.\n")
	default:
		b.WriteString("You broke even this period: income matched expenses exactly.\n")
	}

	fmt.Fprintf(&b, "You recorded %d transactions with an average value of %s.\n",
		agg.TransactionCount, money(currency, agg.AverageTransaction))

	if days > 1 {
		fmt.Fprintf(&b, "Daily spending averaged %s, which projects to %s over a 30-day month.\n",
			money(currency, dailySpending), money(currency, monthlyProjection))
	}

	if len(agg.TopCategories) > 0 && agg.TotalExpenses > 0 {
		top := agg.TopCategories[0]
		pct := top.Amount / agg.TotalExpenses * 100
		fmt.Fprintf(&b, "Your largest spending category was %q at %s (%.1f%% of expenses)",
			top.Name, money(currency, top.Amount), pct)
		if pct > 40 {
			b.WriteString(", an unusually high concentration")
		} else if pct > 25 {
			b.WriteString(", your primary category")
		}
		b.WriteString(".\n")
	}

	switch {
	case savingsRate > 20:
		fmt.Fprintf(&b, "Excellent: you saved %.1f%% of your income.", savingsRate)
	case savingsRate > 10:
		fmt.Fprintf(&b, "Good: you saved %.1f%% of your income.", savingsRate)
	case savingsRate > 0:
		fmt.Fprintf(&b, "Your savings rate of %.1f%% is low; there is room to improve.", savingsRate)
	default:
		b.WriteString("Your savings rate is negative; reducing expenses is urgent.")
	}

	return b.String()
}

func buildHighlights(agg Aggregates, currency string, days int, savingsRate, dailySpending, dailyIncome float64) []string {
	highlights := make([]string, 0, MaxHighlights)

	switch {
	case savingsRate > 20:
		highlights = append(highlights, fmt.Sprintf("Excellent savings rate: %.1f%% of income kept", savingsRate))
	case savingsRate > 10:
		highlights = append(highlights, fmt.Sprintf("Good savings rate of %.1f%%", savingsRate))
	case savingsRate > 0:
		highlights = append(highlights, fmt.Sprintf("Low savings rate of %.1f%%, needs improvement", savingsRate))
	default:
		highlights = append(highlights, "Spending exceeded income this period")
	}

	perDay := 0.0
	if days > 0 {
		perDay = float64(agg.TransactionCount) / float64(days)
	}
	switch {
	case perDay > 3:
		highlights = append(highlights, fmt.Sprintf("High transaction frequency: %.1f per day", perDay))
	case perDay > 1:
		highlights = append(highlights, fmt.Sprintf("Moderate transaction frequency: %.1f per day", perDay))
	default:
		highlights = append(highlights, fmt.Sprintf("Low transaction frequency: %d transactions over the period", agg.TransactionCount))
	}

	if len(agg.TopCategories) > 0 && agg.TotalExpenses > 0 {
		top := agg.TopCategories[0]
		pct := top.Amount / agg.TotalExpenses * 100
		switch {
		case pct > 40:
			highlights = append(highlights, fmt.Sprintf("%s dominates your spending at %.1f%% of expenses", top.Name, pct))
		case pct > 25:
			highlights = append(highlights, fmt.Sprintf("%s is your main expense at %.1f%% of spending", top.Name, pct))
		default:
			highlights = append(highlights, fmt.Sprintf("Top category %s accounts for %.1f%% of spending", top.Name, pct))
		}
	}

	if days > 1 {
		switch {
		case dailySpending > dailyIncome*0.8:
			highlights = append(highlights, fmt.Sprintf("High spending velocity: %s per day against %s of daily income",
				money(currency, dailySpending), money(currency, dailyIncome)))
		case dailySpending > dailyIncome*0.5:
			highlights = append(highlights, fmt.Sprintf("Elevated spending velocity: %s per day", money(currency, dailySpending)))
		default:
			highlights = append(highlights, fmt.Sprintf("Sustainable spending velocity: %s per day", money(currency, dailySpending)))
		}
	}

	switch {
	case agg.AverageTransaction > 100:
		highlights = append(highlights, fmt.Sprintf("Large average transaction value: %s", money(currency, agg.AverageTransaction)))
	case agg.AverageTransaction > 50:
		highlights = append(highlights, fmt.Sprintf("Moderate average transaction value: %s", money(currency, agg.AverageTransaction)))
	default:
		highlights = append(highlights, fmt.Sprintf("Small average transaction value: %s", money(currency, agg.AverageTransaction)))
	}

	if len(highlights) > MaxHighlights {
		highlights = highlights[:MaxHighlights]
	}
	return highlights
}

// buildRecommendations evaluates the threshold rules in fixed precedence
// order and truncates to four, preserving generation order rather than
// sorting by priority.
func buildRecommendations(agg Aggregates, currency string, days int, savingsRate float64) []Recommendation {
	var recs []Recommendation

	if agg.NetIncome < 0 {
		deficit := -agg.NetIncome
		projected := deficit
		if days > 0 {
			projected = deficit / float64(days) * 30
		}
		recs = append(recs, Recommendation{
			Title: "Address negative cash flow",
			Description: fmt.Sprintf("You spent %s more than you earned, which projects to %s over 30 days. Target cutting expenses by %s to rebuild a buffer.",
				money(currency, deficit), money(currency, projected), money(currency, deficit*1.2)),
			Priority: PriorityHigh,
		})
	}

	if len(agg.TopCategories) > 0 && agg.TotalExpenses > 0 {
		top := agg.TopCategories[0]
		pct := top.Amount / agg.TotalExpenses * 100
		if pct > 50 {
			recs = append(recs, Recommendation{
				Title: "Reduce your dominant spending category",
				Description: fmt.Sprintf("%s takes %.1f%% of your spending. Concentration this high leaves little room when costs rise; look for substitutes or cheaper alternatives.",
					top.Name, pct),
				Priority: PriorityHigh,
			})
		} else if pct >= 35 {
			recs = append(recs, Recommendation{
				Title: "Manage your top spending category",
				Description: fmt.Sprintf("%s accounts for %.1f%% of spending. Consider capping it near %s next period.",
					top.Name, pct, money(currency, top.Amount*0.8)),
				Priority: PriorityHigh,
			})
		}
	}

	if agg.NetIncome > 0 {
		switch {
		case savingsRate < 5:
			recs = append(recs, Recommendation{
				Title: "Increase your savings rate urgently",
				Description: fmt.Sprintf("You kept only %.1f%% of your income. Cutting expenses by %s would move you toward a sustainable rate.",
					savingsRate, money(currency, agg.TotalExpenses*0.15)),
				Priority: PriorityHigh,
			})
		case savingsRate < 15:
			recs = append(recs, Recommendation{
				Title: "Improve your savings rate",
				Description: fmt.Sprintf("A savings rate of %.1f%% is a start. Trimming expenses by %s would push it past 15%%.",
					savingsRate, money(currency, agg.TotalExpenses*0.10)),
				Priority: PriorityMedium,
			})
		case savingsRate >= 20:
			recs = append(recs, Recommendation{
				Title: "Optimize your savings",
				Description: fmt.Sprintf("With %.1f%% of income saved, make the surplus work: top up your emergency fund, then consider low-cost index investing.",
					savingsRate),
				Priority: PriorityLow,
			})
		}
	}

	if agg.TransactionCount > 100 {
		recs = append(recs, Recommendation{
			Title: "Optimize transaction patterns",
			Description: fmt.Sprintf("%d transactions this period is a lot of small decisions. Consolidating minor purchases into planned shops reduces fees and impulse spend.",
				agg.TransactionCount),
			Priority: PriorityMedium,
		})
	}

	if agg.AverageTransaction > 200 {
		recs = append(recs, Recommendation{
			Title: "Review high-value transactions",
			Description: fmt.Sprintf("Your average transaction of %s is high. Auditing the largest entries often reveals one-off costs that can be negotiated or deferred.",
				money(currency, agg.AverageTransaction)),
			Priority: PriorityMedium,
		})
	}

	if agg.TotalIncome > 0 && agg.TotalExpenses/agg.TotalIncome > 0.9 {
		recs = append(recs, Recommendation{
			Title: "Income growth opportunity",
			Description: fmt.Sprintf("You are using %.1f%% of your income. When expenses are already lean, growing income moves the needle more than further cuts.",
				agg.TotalExpenses/agg.TotalIncome*100),
			Priority: PriorityMedium,
		})
	}

	if agg.NetIncome > 0 && savingsRate > 10 {
		recs = append(recs, Recommendation{
			Title: "Build your emergency fund",
			Description: fmt.Sprintf("Aim for %s set aside, six months of current expenses, before taking on more financial risk.",
				money(currency, agg.TotalExpenses*6)),
			Priority: PriorityMedium,
		})
	}

	if len(recs) == 0 {
		recs = append(recs,
			Recommendation{
				Title:       "Set a monthly budget",
				Description: "Give every category a ceiling and review it at month end; visibility alone tends to cut spending.",
				Priority:    PriorityMedium,
			},
			Recommendation{
				Title:       "Review spending categories",
				Description: "Categorize your transactions so patterns become visible before they become problems.",
				Priority:    PriorityLow,
			},
		)
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}
