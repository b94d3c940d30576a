package quote

import (
	"context"

	"github.com/etnz/folio"
	"github.com/prometheus/client_golang/prometheus"
)

// Instrumented counts next's lookups in counter, by "outcome" label
// ("available" or "unavailable").
func Instrumented(next folio.PriceLookup, counter *prometheus.CounterVec) folio.PriceLookup {
	return folio.PriceLookupFunc(func(ctx context.Context, symbol string) folio.Quote {
		q := next.Quote(ctx, symbol)
		outcome := "available"
		if !q.Available() {
			outcome = "unavailable"
		}
		counter.WithLabelValues(outcome).Inc()
		return q
	})
}
