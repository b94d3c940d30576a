package folio

import "errors"

// Errors reported to the user. They are always wrapped with some context,
// use errors.Is to test for them.
var (
	// ErrInvalidInput is returned when an add intent is malformed (empty symbol, non positive shares...).
	ErrInvalidInput = errors.New("invalid input")
	// ErrPriceUnavailable is returned when no price could be obtained for a symbol.
	ErrPriceUnavailable = errors.New("price unavailable")
	// ErrNoSelection is returned when a removal is requested without a symbol.
	ErrNoSelection = errors.New("no symbol selected")
	// ErrNotHeld is returned when a removal matches no holding.
	ErrNotHeld = errors.New("symbol not held")
)
