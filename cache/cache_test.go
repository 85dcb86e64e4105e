package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hassaanj79/MoneyDesk.co-sub001/insight"
)

func testRange() insight.DateRange {
	return insight.DateRange{From: "2024-03-01", To: "2024-03-31"}
}

func TestKeyDeterministic(t *testing.T) {
	a := Key("user-1", testRange(), "USD", "1200-800-400-12")
	b := Key("user-1", testRange(), "USD", "1200-800-400-12")
	assert.Equal(t, a, b)
	assert.Equal(t, "insights:user-1:2024-03-01:2024-03-31:USD:1200-800-400-12", a)
}

func TestKeySensitivity(t *testing.T) {
	base := Key("user-1", testRange(), "USD", "fp")
	assert.NotEqual(t, base, Key("user-2", testRange(), "USD", "fp"))
	assert.NotEqual(t, base, Key("user-1", insight.DateRange{From: "2024-03-02", To: "2024-03-31"}, "USD", "fp"))
	assert.NotEqual(t, base, Key("user-1", testRange(), "EUR", "fp"))
	assert.NotEqual(t, base, Key("user-1", testRange(), "USD", "fp2"))
}

func TestGetAfterSet(t *testing.T) {
	g, err := NewGate()
	require.NoError(t, err)
	defer g.Close()

	in := &insight.Insight{Summary: "steady month", Quote: "Track every expense."}
	key := Key("user-1", testRange(), "USD", "fp")
	g.Set(key, in, DefaultTTL)

	got, ok := g.Get(key)
	require.True(t, ok, "get immediately after set must hit")
	assert.Equal(t, "steady month", got.Summary)
}

func TestMiss(t *testing.T) {
	g, err := NewGate()
	require.NoError(t, err)
	defer g.Close()

	_, ok := g.Get("insights:nobody:a:b:USD:fp")
	assert.False(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	g, err := NewGate()
	require.NoError(t, err)
	defer g.Close()

	key := Key("user-1", testRange(), "USD", "fp")
	g.Set(key, &insight.Insight{Summary: "short lived"}, 50*time.Millisecond)

	_, ok := g.Get(key)
	require.True(t, ok)

	time.Sleep(150 * time.Millisecond)
	_, ok = g.Get(key)
	assert.False(t, ok, "entry must expire after its ttl")
}
