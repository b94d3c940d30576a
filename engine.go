package folio

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultIndexSymbol is the reference index displayed with the portfolio (BSE Sensex).
const DefaultIndexSymbol = "^BSESN"

// Engine values holdings against fresh prices. It holds no state across cycles.
type Engine struct {
	lookup PriceLookup
	index  string
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine returns an engine pricing holdings with lookup. An empty index
// symbol disables the reference index quote.
func NewEngine(lookup PriceLookup, index string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		lookup: lookup,
		index:  NormalizeSymbol(index),
		logger: logger.Named("engine"),
		now:    time.Now,
	}
}

// Quote looks up a single symbol.
func (e *Engine) Quote(ctx context.Context, symbol string) Quote {
	return e.lookup.Quote(ctx, NormalizeSymbol(symbol))
}

// Revalue prices every holding, once, in order.
//
// Holdings whose price is unavailable are logged and left out of the rows and
// of the total; they never abort the cycle. The reference index is looked up
// independently and does not contribute to the total.
func (e *Engine) Revalue(ctx context.Context, holdings []Holding) Valuation {
	v := Valuation{
		At:   e.now(),
		Rows: make([]Row, 0, len(holdings)),
	}
	for _, h := range holdings {
		q := e.lookup.Quote(ctx, h.Symbol)
		if !q.Available() {
			e.logger.Warn("error updating holding", zap.String("symbol", h.Symbol), zap.Error(q.Err))
			v.Unavailable = append(v.Unavailable, h.Symbol)
			continue
		}
		row := NewRow(h, q.Price)
		v.Rows = append(v.Rows, row)
		v.Total = v.Total.Add(row.CurrentValue)
	}

	if e.index != "" {
		v.Index.Symbol = e.index
		q := e.lookup.Quote(ctx, e.index)
		if q.Available() {
			v.Index.Price = q.Price
			v.Index.Available = true
		} else {
			e.logger.Warn("error updating reference index", zap.String("symbol", e.index), zap.Error(q.Err))
		}
	}
	return v
}
