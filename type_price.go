package folio

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Price is an amount in the portfolio's (single, unconverted) currency.
// It is used both for unit prices and for values.
type Price struct {
	value decimal.Decimal
}

// P returns a Price from a number.
func P[T float64 | int | int64 | decimal.Decimal](value T) Price {
	return Price{value: newDecimal(value)}
}

func (p Price) Equal(q Price) bool       { return p.value.Equal(q.value) }
func (p Price) IsZero() bool             { return p.value.IsZero() }
func (p Price) IsPositive() bool         { return p.value.IsPositive() }
func (p Price) Add(q Price) Price        { return Price{value: p.value.Add(q.value)} }
func (p Price) Sub(q Price) Price        { return Price{value: p.value.Sub(q.value)} }
func (p Price) Mul(q Quantity) Price     { return Price{value: p.value.Mul(q.value)} }
func (p Price) Decimal() decimal.Decimal { return p.value }
func (p Price) String() string           { return p.value.String() }

// Float returns the closest float64, for metrics and display only.
func (p Price) Float() float64 { return p.value.InexactFloat64() }

// Format formats the price in a currency, e.g. "$1,234.50" for "USD".
// Unknown currency codes fall back to a 2 digits representation.
func (p Price) Format(currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return p.Grouped(2)
	}
	minor := p.value.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// Grouped formats the price with thousands separators and places decimals, e.g. "12,345.67".
func (p Price) Grouped(places int) string {
	f := money.NewFormatter(places, ".", ",", "", "1")
	return f.Format(p.value.Shift(int32(places)).Round(0).IntPart())
}

// MarshalJSON writes the price as a plain JSON number, with all its digits.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.value.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted numbers.
func (p *Price) UnmarshalJSON(decimalBytes []byte) error {
	return p.value.UnmarshalJSON(decimalBytes)
}

// ChangePct returns the relative change from purchase to current, in percents.
// It is 0 when purchase is zero.
func ChangePct(current, purchase Price) Percent {
	if purchase.IsZero() {
		return 0
	}
	pct := current.value.Sub(purchase.value).Div(purchase.value).Mul(decimal.NewFromInt(100))
	return Percent(pct.InexactFloat64())
}
