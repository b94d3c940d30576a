package folio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/etnz/folio/date"
	"go.uber.org/zap"
)

// Tracker is the application state: the portfolio store, the valuation engine
// and the latest valuation.
//
// Mutations (Add, Remove) and publications of valuations are serialized.
// Price lookups are never done while holding the lock, so that a slow cycle
// does not block user input.
type Tracker struct {
	store  *Store
	engine *Engine
	logger *zap.Logger
	today  func() date.Date

	mu          sync.Mutex
	latest      Valuation
	hasLatest   bool
	subscribers map[int]func(Valuation)
	nextID      int

	requests chan struct{}
}

// NewTracker returns a tracker over an already loaded store.
func NewTracker(store *Store, engine *Engine, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		store:       store,
		engine:      engine,
		logger:      logger.Named("tracker"),
		today:       date.Today,
		subscribers: make(map[int]func(Valuation)),
		requests:    make(chan struct{}, 1),
	}
}

// Add buys shares of symbol at the current price, records it and requests a refresh.
//
// Input is validated before any lookup. If the price cannot be obtained the
// holding is not recorded and the error wraps ErrPriceUnavailable.
func (t *Tracker) Add(ctx context.Context, symbol string, shares Quantity) (Holding, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return Holding{}, fmt.Errorf("%w: stock symbol cannot be empty", ErrInvalidInput)
	}
	if !shares.IsPositive() {
		return Holding{}, fmt.Errorf("%w: shares must be greater than zero, got %v", ErrInvalidInput, shares)
	}

	q := t.engine.Quote(ctx, symbol)
	if !q.Available() {
		return Holding{}, fmt.Errorf("could not get price for %s: %w", symbol, q.Err)
	}
	h, err := NewHolding(symbol, shares, q.Price, t.today())
	if err != nil {
		return Holding{}, err
	}

	t.mu.Lock()
	err = t.store.Add(h)
	t.mu.Unlock()
	if err != nil {
		return Holding{}, err
	}
	t.logger.Info("holding added", zap.String("symbol", h.Symbol), zap.Stringer("shares", h.Shares), zap.Stringer("price", h.PurchasePrice))
	t.RequestRefresh()
	return h, nil
}

// Remove deletes all holdings of symbol and requests a refresh.
// See Store.Remove for the returned errors.
func (t *Tracker) Remove(symbol string) (int, error) {
	t.mu.Lock()
	n, err := t.store.Remove(symbol)
	t.mu.Unlock()
	if err != nil {
		t.logger.Warn("nothing removed", zap.String("symbol", symbol), zap.Error(err))
		return 0, err
	}
	t.logger.Info("holdings removed", zap.String("symbol", NormalizeSymbol(symbol)), zap.Int("count", n))
	t.RequestRefresh()
	return n, nil
}

// Holdings returns a copy of the current holdings.
func (t *Tracker) Holdings() []Holding {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Holdings()
}

// Refresh runs a revaluation cycle and publishes its result.
func (t *Tracker) Refresh(ctx context.Context) Valuation {
	holdings := t.Holdings()
	v := t.engine.Revalue(ctx, holdings)

	t.mu.Lock()
	t.latest, t.hasLatest = v, true
	subscribers := make([]func(Valuation), 0, len(t.subscribers))
	for _, f := range t.subscribers {
		subscribers = append(subscribers, f)
	}
	t.mu.Unlock()

	for _, f := range subscribers {
		f(v)
	}
	return v
}

// Latest returns the last published valuation, if any.
func (t *Tracker) Latest() (Valuation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest, t.hasLatest
}

// Subscribe registers f to be called with every published valuation.
// Calls happen on the refreshing goroutine, f must not block for long.
// The returned function cancels the subscription.
func (t *Tracker) Subscribe(f func(Valuation)) (cancel func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.subscribers[id] = f
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subscribers, id)
	}
}

// RequestRefresh asks for a refresh cycle. Requests made while one is pending are merged.
func (t *Tracker) RequestRefresh() {
	select {
	case t.requests <- struct{}{}:
	default:
	}
}

// Requests returns the channel of pending refresh requests.
func (t *Tracker) Requests() <-chan struct{} { return t.requests }

// setClock replaces the clock used to stamp purchase dates. It must be called before the tracker is shared.
func (t *Tracker) setClock(now func() time.Time) {
	t.today = func() date.Date { return date.Of(now()) }
	t.engine.now = now
}
