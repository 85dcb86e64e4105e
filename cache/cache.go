// Package cache wraps a TTL key/value store behind the three operations the
// insight pipeline needs: key construction, get, set. The store is
// process-local (ristretto); entries expire on their TTL and abandoned keys
// age out under memory pressure, they are never actively evicted.
package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/Hassaanj79/MoneyDesk.co-sub001/insight"
)

// DefaultTTL is deliberately short: insights are cheap to regenerate and
// must reflect near-real-time edits to the underlying transactions.
const DefaultTTL = 30 * time.Second

// Key builds the deterministic cache key for an insight request. The
// fingerprint carries all content sensitivity, so a changed transaction or
// aggregate lands on a fresh key and the stale entry is simply abandoned.
func Key(userID string, dateRange insight.DateRange, currency, fingerprint string) string {
	return "insights:" + userID + ":" + dateRange.From + ":" + dateRange.To + ":" + currency + ":" + fingerprint
}

// Gate is an injected per-process cache instance. Construct one at startup
// and pass it into the server; there is no package-level shared state.
type Gate struct {
	store *ristretto.Cache
}

// NewGate creates a gate sized for a single insight service process.
func NewGate() (*Gate, error) {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Gate{store: store}, nil
}

// Get returns the cached insight for key, or false on a miss or an expired
// entry.
func (g *Gate) Get(key string) (*insight.Insight, bool) {
	v, ok := g.store.Get(key)
	if !ok {
		return nil, false
	}
	in, ok := v.(*insight.Insight)
	return in, ok
}

// Set stores value under key for ttl. Admission is waited on so a Get
// issued immediately after Set observes the value, which the handler's
// cache-idempotence contract depends on.
func (g *Gate) Set(key string, value *insight.Insight, ttl time.Duration) {
	g.store.SetWithTTL(key, value, 1, ttl)
	g.store.Wait()
}

// Close releases the underlying store.
func (g *Gate) Close() {
	g.store.Close()
}
