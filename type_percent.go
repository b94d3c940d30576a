package folio

import "fmt"

// Percent is a relative change expressed in percents (1.5 is 1.5%).
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString always prints the sign, including for zero ("+0.00%").
func (p Percent) SignedString() string {
	return fmt.Sprintf("%+.2f%%", float64(p))
}
