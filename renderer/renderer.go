// Package renderer renders valuations and holdings as markdown.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/folio"
)

// indexNames are display names of well known index symbols.
var indexNames = map[string]string{
	"^BSESN": "Sensex",
	"^NSEI":  "Nifty 50",
	"^GSPC":  "S&P 500",
	"^DJI":   "Dow Jones",
	"^IXIC":  "Nasdaq Composite",
	"^FCHI":  "CAC 40",
}

// IndexName returns the display name of an index symbol.
func IndexName(symbol string) string {
	if name, ok := indexNames[symbol]; ok {
		return name
	}
	return symbol
}

// classMarker is printed before the change of a row.
func classMarker(c folio.Class) string {
	if c == folio.Gain {
		return "▲"
	}
	return "▼"
}

// ValuationMarkdown renders a valuation: one row per priced holding, the
// total and the reference index. Amounts are formatted in currency.
func ValuationMarkdown(v folio.Valuation, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Current Portfolio\n\n")

	if len(v.Rows) == 0 {
		fmt.Fprintf(&b, "No holding to display.\n\n")
	} else {
		fmt.Fprintln(&b, "| Symbol | Shares | Current Price | Value | Change % |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
		for _, r := range v.Rows {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s %s |\n",
				escape(r.Symbol),
				r.Shares.Fixed(2),
				r.CurrentPrice.Format(currency),
				r.CurrentValue.Format(currency),
				classMarker(r.Class),
				r.ChangePct.SignedString(),
			)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintf(&b, "**Total Portfolio Value: %s**\n\n", v.Total.Format(currency))

	if len(v.Unavailable) > 0 {
		fmt.Fprintf(&b, "_Price unavailable for: %s_\n\n", escape(strings.Join(v.Unavailable, ", ")))
	}

	if v.Index.Symbol != "" {
		name := escape(IndexName(v.Index.Symbol))
		if v.Index.Available {
			fmt.Fprintf(&b, "%s: %s\n\n", name, v.Index.Price.Grouped(2))
		} else {
			fmt.Fprintf(&b, "%s: unavailable\n\n", name)
		}
	}

	if !v.At.IsZero() {
		fmt.Fprintf(&b, "_Updated at %s_\n", v.At.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}

var escaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`)

// escape protects markdown special characters found in symbols.
func escape(s string) string { return escaper.Replace(s) }
