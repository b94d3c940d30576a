package folio

import (
	"encoding/json"
	"time"
)

// Class tags a row with the direction of its change since purchase.
type Class int

const (
	// Loss is any change that is not strictly positive, including no change at all.
	Loss Class = iota
	Gain
)

// Classify returns Gain for a strictly positive change, Loss otherwise.
func Classify(change Percent) Class {
	if change > 0 {
		return Gain
	}
	return Loss
}

func (c Class) String() string {
	if c == Gain {
		return "gain"
	}
	return "loss"
}

func (c Class) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

// Row is the valuation of a single holding in a refresh cycle.
type Row struct {
	Holding
	CurrentPrice Price   `json:"current_price"`
	CurrentValue Price   `json:"current_value"`
	ChangePct    Percent `json:"change_pct"`
	Class        Class   `json:"class"`
}

// NewRow values h at price.
func NewRow(h Holding, price Price) Row {
	change := ChangePct(price, h.PurchasePrice)
	return Row{
		Holding:      h,
		CurrentPrice: price,
		CurrentValue: price.Mul(h.Shares),
		ChangePct:    change,
		Class:        Classify(change),
	}
}

// IndexQuote is the quote of the reference index, displayed for context.
type IndexQuote struct {
	Symbol    string `json:"symbol"`
	Price     Price  `json:"price"`
	Available bool   `json:"available"`
}

// Valuation is the result of one revaluation cycle. It is never persisted.
type Valuation struct {
	At    time.Time  `json:"at"`
	Rows  []Row      `json:"rows"`
	Total Price      `json:"total"` // sum of the rows' current value
	Index IndexQuote `json:"index"`
	// Unavailable lists, in order, the symbols that could not be priced in
	// this cycle and are missing from Rows and Total.
	Unavailable []string `json:"unavailable,omitempty"`
}
