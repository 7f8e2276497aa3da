// Package llm produces the AI narrative review of a portfolio through an
// ordered chain of providers with a deterministic local fallback.
package llm

import (
	"context"
	"errors"
	"log"
	"time"
)

// Request carries everything a provider needs to review one portfolio.
type Request struct {
	URL        string
	HTML       string
	Score      int
	FailedKeys []string
}

// Analysis is the narrative produced by whichever provider answered.
type Analysis struct {
	Text     string
	Provider string
}

// Provider generates a narrative review. Available reports whether the
// provider is configured and worth attempting.
type Provider interface {
	Name() string
	Available() bool
	Analyze(ctx context.Context, req Request) (string, error)
}

// DefaultCallTimeout bounds a single provider attempt.
const DefaultCallTimeout = 45 * time.Second

// AttemptFunc observes one provider attempt, for metrics.
type AttemptFunc func(provider, outcome string)

// Chain tries providers in order and returns the first success. With the
// rule-based provider last, a chain never fails outright.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	onAttempt AttemptFunc
}

// NewChain builds a chain over the given providers in priority order.
func NewChain(timeout time.Duration, onAttempt AttemptFunc, providers ...Provider) *Chain {
	if timeout == 0 {
		timeout = DefaultCallTimeout
	}
	if onAttempt == nil {
		onAttempt = func(string, string) {}
	}
	return &Chain{providers: providers, timeout: timeout, onAttempt: onAttempt}
}

// ErrNoProvider is returned when every provider in the chain is unavailable
// or failed.
var ErrNoProvider = errors.New("no AI provider available")

// Analyze runs the chain with a per-attempt timeout.
func (c *Chain) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	for _, p := range c.providers {
		if !p.Available() {
			c.onAttempt(p.Name(), "unavailable")
			continue
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		text, err := p.Analyze(attemptCtx, req)
		cancel()

		if err != nil {
			c.onAttempt(p.Name(), "error")
			log.Printf("[llm] provider %s failed: %v", p.Name(), err)
			continue
		}
		c.onAttempt(p.Name(), "success")
		return &Analysis{Text: text, Provider: p.Name()}, nil
	}
	return nil, ErrNoProvider
}
