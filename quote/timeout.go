package quote

import (
	"context"
	"time"

	"github.com/etnz/folio"
)

// WithTimeout bounds every lookup of next to d. A non positive d returns next unchanged.
func WithTimeout(next folio.PriceLookup, d time.Duration) folio.PriceLookup {
	if d <= 0 {
		return next
	}
	return folio.PriceLookupFunc(func(ctx context.Context, symbol string) folio.Quote {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next.Quote(ctx, symbol)
	})
}
