// Package insight generates natural-language financial analysis from
// transaction aggregates. It is the deterministic core of the insight
// pipeline: AI providers sit in front of it, but every request can be
// served by this package alone.
package insight

// Priority ranks a recommendation.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Transaction is the subset of a ledger entry the pipeline consumes.
type Transaction struct {
	ID         string  `json:"id"`
	Amount     float64 `json:"amount"`
	Type       string  `json:"type"` // "income" or "expense"
	Date       string  `json:"date"`
	Name       string  `json:"name"`
	CategoryID string  `json:"categoryId,omitempty"`
}

// Category names a spending category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryTotal is one entry of Aggregates.TopCategories, largest first.
type CategoryTotal struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Aggregates is a pre-reduced numeric summary of a transaction set.
// NetIncome is caller-supplied and not re-validated against the totals.
type Aggregates struct {
	TotalIncome        float64         `json:"totalIncome"`
	TotalExpenses      float64         `json:"totalExpenses"`
	NetIncome          float64         `json:"netIncome"`
	TransactionCount   int             `json:"transactionCount"`
	TopCategories      []CategoryTotal `json:"topCategories"`
	AverageTransaction float64         `json:"averageTransaction"`
}

// DateRange bounds an analysis period. Dates are ISO-8601 strings; an
// inverted range is not rejected, it just yields a zero day count.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Recommendation is one prioritized, actionable suggestion.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// Insight is the canonical analysis payload returned to the caller.
// Each request produces a fresh value; an Insight is never mutated after
// it is handed out (cached copies are annotated on a clone).
type Insight struct {
	Summary         string           `json:"summary"`
	Highlights      []string         `json:"highlights"`      // at most 5
	Recommendations []Recommendation `json:"recommendations"` // at most 4
	Quote           string           `json:"quote"`

	Cached    bool   `json:"cached,omitempty"`
	AIPowered bool   `json:"aiPowered,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Fallback  bool   `json:"fallback,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MaxHighlights and MaxRecommendations bound the generated lists.
const (
	MaxHighlights      = 5
	MaxRecommendations = 4
)

// Clone returns a copy of the insight with freshly allocated slices, so
// annotating the copy cannot leak into a cached value.
func (in *Insight) Clone() *Insight {
	out := *in
	out.Highlights = append([]string(nil), in.Highlights...)
	out.Recommendations = append([]Recommendation(nil), in.Recommendations...)
	return &out
}

// Clamp truncates the highlight and recommendation lists to their
// documented bounds, preserving order.
func (in *Insight) Clamp() {
	if len(in.Highlights) > MaxHighlights {
		in.Highlights = in.Highlights[:MaxHighlights]
	}
	if len(in.Recommendations) > MaxRecommendations {
		in.Recommendations = in.Recommendations[:MaxRecommendations]
	}
}
