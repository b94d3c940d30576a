package quote

import (
	"context"
	"errors"

	"github.com/etnz/folio"
	"github.com/shopspring/decimal"
)

// Static serves fixed prices, for offline use and demos.
type Static map[string]decimal.Decimal

// NewStatic parses a symbol to price map. Invalid prices are reported.
func NewStatic(prices map[string]string) (Static, error) {
	s := make(Static, len(prices))
	var errs error
	for sym, p := range prices {
		d, err := decimal.NewFromString(p)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		s[folio.NormalizeSymbol(sym)] = d
	}
	return s, errs
}

// Quote implements folio.PriceLookup.
func (s Static) Quote(_ context.Context, symbol string) folio.Quote {
	p, ok := s[symbol]
	if !ok || !p.IsPositive() {
		return folio.Unavailable(symbol, errors.New("no static price"))
	}
	return folio.Found(symbol, folio.P(p))
}
