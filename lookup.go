package folio

import (
	"context"
	"fmt"
)

// PriceLookup returns the latest trade price of a symbol.
//
// Implementations never fail: any fault (network, unknown symbol, empty
// history) is reported as an unavailable Quote.
type PriceLookup interface {
	Quote(ctx context.Context, symbol string) Quote
}

// PriceLookupFunc adapts a function into a PriceLookup.
type PriceLookupFunc func(ctx context.Context, symbol string) Quote

func (f PriceLookupFunc) Quote(ctx context.Context, symbol string) Quote { return f(ctx, symbol) }

// Quote is the result of a single lookup: either a price or the reason why
// there is none.
type Quote struct {
	Symbol string
	Price  Price
	Err    error // nil iff the price is available
}

// Available reports whether the quote carries a price.
func (q Quote) Available() bool { return q.Err == nil }

// Found returns an available quote.
func Found(symbol string, price Price) Quote {
	return Quote{Symbol: symbol, Price: price}
}

// Unavailable returns a quote with no price. The cause is wrapped with ErrPriceUnavailable.
func Unavailable(symbol string, cause error) Quote {
	if cause == nil {
		return Quote{Symbol: symbol, Err: fmt.Errorf("%s: %w", symbol, ErrPriceUnavailable)}
	}
	return Quote{Symbol: symbol, Err: fmt.Errorf("%s: %w: %w", symbol, ErrPriceUnavailable, cause)}
}
