package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/folio"
)

// HoldingsMarkdown renders the stored holdings, one line per purchase.
func HoldingsMarkdown(holdings []folio.Holding, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n\n")
	if len(holdings) == 0 {
		fmt.Fprintf(&b, "The portfolio is empty.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Symbol | Shares | Purchase Price | Cost | Purchase Date |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|:---:|")
	for _, h := range holdings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			escape(h.Symbol),
			h.Shares.Fixed(2),
			h.PurchasePrice.Format(currency),
			h.PurchasePrice.Mul(h.Shares).Format(currency),
			h.PurchaseDate,
		)
	}
	return b.String()
}
