// Package provider implements the AI side of the insight pipeline: a set of
// provider adapters behind one capability interface and the orchestrator
// that tries them in priority order. Failures never leave this package; the
// chain always produces a usable insight.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Hassaanj79/MoneyDesk.co-sub001/insight"
)

// Request carries everything an adapter may use to generate an insight.
type Request struct {
	Aggregates   insight.Aggregates
	DateRange    insight.DateRange
	Currency     string
	UserID       string
	Transactions []insight.Transaction
}

// Provider is a single AI backend. Available reports whether the adapter
// is configured well enough to be worth attempting; Generate maps the
// provider's native payload into the canonical insight shape.
type Provider interface {
	Name() string
	Available() bool
	Generate(ctx context.Context, req *Request) (*insight.Insight, error)
}

// Chain tries providers in order and falls back to rule-based synthesis
// when every attempt is skipped or fails. Attempts are sequential, cheaper
// providers first; that is a cost trade-off, not a correctness requirement.
type Chain struct {
	providers []Provider
}

// NewChain builds an orchestrator over the given adapters, tried in the
// order supplied.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Generate produces an insight for the request. It never returns an error:
// provider exceptions are caught, classified and logged, and control falls
// through to the next adapter, ending at the deterministic synthesizer.
func (c *Chain) Generate(ctx context.Context, req *Request) *insight.Insight {
	for _, p := range c.providers {
		if !p.Available() {
			log.Printf("provider %s unavailable, skipping", p.Name())
			continue
		}

		in, err := c.attempt(ctx, p, req)
		if err != nil {
			if IsQuota(err) {
				log.Printf("provider %s quota exhausted: %v", p.Name(), err)
			} else {
				log.Printf("provider %s failed: %v", p.Name(), err)
			}
			continue
		}

		in.AIPowered = true
		in.Provider = p.Name()
		if in.Quote == "" {
			in.Quote = insight.SelectTip(req.UserID, req.DateRange)
		}
		in.Clamp()
		return in
	}

	in := insight.Synthesize(req.Aggregates, req.DateRange, req.Currency, req.UserID)
	in.Fallback = true
	return in
}

// attempt confines a single provider call, converting a panic inside an
// adapter into an ordinary provider error so the chain keeps moving.
func (c *Chain) attempt(ctx context.Context, p Provider, req *Request) (in *insight.Insight, err error) {
	defer func() {
		if r := recover(); r != nil {
			in = nil
			err = &Error{Provider: p.Name(), Code: "panic", Err: fmt.Errorf("provider panic: %v", r)}
		}
	}()

	in, err = p.Generate(ctx, req)
	if err == nil && in == nil {
		err = &Error{Provider: p.Name(), Code: "empty", Err: errors.New("empty response")}
	}
	return in, err
}
