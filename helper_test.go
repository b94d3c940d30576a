package folio

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/etnz/folio/date"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeLookup is an in-memory PriceLookup. Symbols missing from prices are unavailable.
type fakeLookup struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  []string
}

func newFakeLookup(prices map[string]float64) *fakeLookup {
	return &fakeLookup{prices: prices}
}

func (f *fakeLookup) Quote(_ context.Context, symbol string) Quote {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, symbol)
	p, ok := f.prices[symbol]
	if !ok {
		return Unavailable(symbol, errors.New("unknown symbol"))
	}
	return Found(symbol, P(p))
}

func (f *fakeLookup) set(symbol string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[symbol] = price
}

func (f *fakeLookup) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// observed returns a logger recording warnings and errors.
func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return zap.New(core), logs
}

// holding is a test helper to create a valid holding from constants.
func holding(t *testing.T, symbol string, shares, price float64, on string) Holding {
	t.Helper()
	h, err := NewHolding(symbol, Q(shares), P(price), date.MustParse(on))
	if err != nil {
		t.Fatalf("NewHolding(%q, %v, %v, %q) unexpected error: %v", symbol, shares, price, on, err)
	}
	return h
}
