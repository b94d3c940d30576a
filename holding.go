package folio

import (
	"fmt"
	"strings"

	"github.com/etnz/folio/date"
)

// Holding is one purchase of a quantity of a symbol, at a price, on a day.
//
// Several holdings can share the same symbol, they are lots bought at different
// times.
type Holding struct {
	Symbol        string    `json:"symbol"`
	Shares        Quantity  `json:"shares"`
	PurchasePrice Price     `json:"purchase_price"`
	PurchaseDate  date.Date `json:"purchase_date"`
}

// NormalizeSymbol returns the canonical form of a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// NewHolding returns a valid holding with a normalized symbol.
func NewHolding(symbol string, shares Quantity, price Price, on date.Date) (Holding, error) {
	h := Holding{
		Symbol:        NormalizeSymbol(symbol),
		Shares:        shares,
		PurchasePrice: price,
		PurchaseDate:  on,
	}
	return h, h.Validate()
}

// Validate checks the holding invariants.
func (h Holding) Validate() error {
	if h.Symbol == "" {
		return fmt.Errorf("%w: stock symbol cannot be empty", ErrInvalidInput)
	}
	if h.Symbol != NormalizeSymbol(h.Symbol) {
		return fmt.Errorf("%w: symbol %q is not normalized", ErrInvalidInput, h.Symbol)
	}
	if !h.Shares.IsPositive() {
		return fmt.Errorf("%w: shares must be greater than zero, got %v", ErrInvalidInput, h.Shares)
	}
	if !h.PurchasePrice.IsPositive() {
		return fmt.Errorf("%w: purchase price of %s must be positive, got %v", ErrInvalidInput, h.Symbol, h.PurchasePrice)
	}
	if h.PurchaseDate.IsZero() {
		return fmt.Errorf("%w: purchase date of %s is missing", ErrInvalidInput, h.Symbol)
	}
	return nil
}
