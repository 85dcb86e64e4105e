package insight

// expenseTips is the fixed rotation of money-management tips. The quote of
// a generated insight is picked from this list, never fetched.
var expenseTips = []string{
	"A budget is telling your money where to go instead of wondering where it went.",
	"Track every expense for one month; the surprises are where the savings are.",
	"Pay yourself first: move savings out on payday, not at month end.",
	"Small recurring charges add up faster than big one-off purchases.",
	"Review your subscriptions quarterly; cancel anything you forgot you had.",
	"The 50/30/20 rule: needs, wants, savings. Adjust to fit, but know your split.",
	"Before a large purchase, wait 48 hours. Most urges do not survive the wait.",
	"An emergency fund of three to six months of expenses buys real peace of mind.",
	"Groceries planned around a list cost less than groceries planned in the aisle.",
	"Automate your bills to avoid late fees, then audit them twice a year.",
	"Compare prices per unit, not per package.",
	"Cook twice as much, spend half as often.",
	"A no-spend day each week resets your habits more than any spreadsheet.",
	"Negotiate your recurring bills annually; the first offer is rarely the best.",
	"Cash for discretionary spending makes the cost of a purchase feel real.",
	"Buy quality where you use daily, buy cheap where you use yearly.",
	"Your savings rate matters more than your investment returns early on.",
	"Round up every purchase into savings; the cents become an emergency fund.",
	"Debt with the highest interest rate gets paid first, feelings aside.",
	"Money saved quietly each month beats money budgeted loudly each January.",
}

// SelectTip deterministically picks a tip for a user and period. The same
// (userID, range) always yields the same tip; different seeds are expected,
// not guaranteed, to spread across the list.
func SelectTip(userID string, dateRange DateRange) string {
	seed := userID + "-" + dateRange.From + "-" + dateRange.To

	// Rolling 31 hash with 32-bit signed wraparound at every step.
	var h int32
	for i := 0; i < len(seed); i++ {
		h = h*31 + int32(seed[i])
	}

	idx := int64(h)
	if idx < 0 {
		idx = -idx
	}
	return expenseTips[idx%int64(len(expenseTips))]
}

// TipCount reports the size of the rotation, for tests.
func TipCount() int { return len(expenseTips) }
