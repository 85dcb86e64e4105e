package insight

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectTipDeterministic(t *testing.T) {
	r := DateRange{From: "2024-01-01", To: "2024-01-31"}
	first := SelectTip("user-42", r)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, SelectTip("user-42", r))
	}
}

func TestSelectTipSpreads(t *testing.T) {
	r := DateRange{From: "2024-01-01", To: "2024-01-31"}
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[SelectTip(fmt.Sprintf("user-%d", i), r)] = true
	}
	// Uniformity is not guaranteed, but 200 seeds into 20 tips should
	// land on well over half the list.
	assert.Greater(t, len(seen), 10, "tips should spread across users")
}

func TestSelectTipVariesWithRange(t *testing.T) {
	tips := make(map[string]bool)
	for month := 1; month <= 12; month++ {
		r := DateRange{From: fmt.Sprintf("2024-%02d-01", month), To: fmt.Sprintf("2024-%02d-28", month)}
		tips[SelectTip("user-1", r)] = true
	}
	assert.Greater(t, len(tips), 1, "different ranges should usually rotate the tip")
}

func TestTipCount(t *testing.T) {
	assert.Equal(t, 20, TipCount())
}
