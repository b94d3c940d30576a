package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// tableCells parses markdown and returns the text of every table row, header included.
func tableCells(t *testing.T, md string) [][]string {
	t.Helper()
	source := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	var rows [][]string
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *east.TableHeader, *east.TableRow:
			var cells []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				cells = append(cells, nodeText(c, source))
			}
			rows = append(rows, cells)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func row(t *testing.T, symbol string, shares, purchase, current float64) folio.Row {
	t.Helper()
	h, err := folio.NewHolding(symbol, folio.Q(shares), folio.P(purchase), date.New(2025, time.January, 2))
	if err != nil {
		t.Fatal(err)
	}
	return folio.NewRow(h, folio.P(current))
}

func TestValuationMarkdown(t *testing.T) {
	rows := []folio.Row{
		row(t, "AAPL", 10, 150, 165.5),
		row(t, "MSFT", 2.5, 400, 380.25),
	}
	v := folio.Valuation{
		At:          time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
		Rows:        rows,
		Total:       rows[0].CurrentValue.Add(rows[1].CurrentValue),
		Index:       folio.IndexQuote{Symbol: "^BSESN", Price: folio.P(81234.56), Available: true},
		Unavailable: []string{"DELISTED"},
	}

	md := ValuationMarkdown(v, "USD")

	want := [][]string{
		{"Symbol", "Shares", "Current Price", "Value", "Change %"},
		{"AAPL", "10.00", "$165.50", "$1,655.00", "▲ +10.33%"},
		{"MSFT", "2.50", "$380.25", "$950.63", "▼ -4.94%"},
	}
	if diff := cmp.Diff(want, tableCells(t, md)); diff != "" {
		t.Errorf("ValuationMarkdown() table mismatch (-want +got):\n%s", diff)
	}

	for _, line := range []string{
		"**Total Portfolio Value: $2,605.63**",
		"Sensex: 81,234.56",
		"_Price unavailable for: DELISTED_",
		"_Updated at 2025-03-14 10:30:00_",
	} {
		if !strings.Contains(md, line) {
			t.Errorf("ValuationMarkdown() does not contain %q:\n%s", line, md)
		}
	}
}

func TestValuationMarkdown_Empty(t *testing.T) {
	md := ValuationMarkdown(folio.Valuation{Index: folio.IndexQuote{Symbol: "^XYZ"}}, "USD")

	if rows := tableCells(t, md); len(rows) != 0 {
		t.Errorf("ValuationMarkdown() of an empty valuation has a table: %v", rows)
	}
	for _, line := range []string{
		"No holding to display.",
		"**Total Portfolio Value: $0.00**",
		"^XYZ: unavailable",
	} {
		if !strings.Contains(md, line) {
			t.Errorf("ValuationMarkdown() does not contain %q:\n%s", line, md)
		}
	}
	if strings.Contains(md, "Price unavailable") {
		t.Errorf("ValuationMarkdown() lists unavailable prices when there are none:\n%s", md)
	}
}

func TestIndexName(t *testing.T) {
	testCases := []struct{ symbol, want string }{
		{"^BSESN", "Sensex"},
		{"^GSPC", "S&P 500"},
		{"^UNKNOWN", "^UNKNOWN"},
	}
	for _, tc := range testCases {
		if got := IndexName(tc.symbol); got != tc.want {
			t.Errorf("IndexName(%q) = %q, want %q", tc.symbol, got, tc.want)
		}
	}
}

func TestHoldingsMarkdown(t *testing.T) {
	h, err := folio.NewHolding("tcs.ns", folio.Q(3), folio.P(4100.5), date.New(2025, time.February, 3))
	if err != nil {
		t.Fatal(err)
	}
	md := HoldingsMarkdown([]folio.Holding{h}, "INR")

	want := [][]string{
		{"Symbol", "Shares", "Purchase Price", "Cost", "Purchase Date"},
		{"TCS.NS", "3.00", "₹4,100.50", "₹12,301.50", "2025-02-03"},
	}
	if diff := cmp.Diff(want, tableCells(t, md)); diff != "" {
		t.Errorf("HoldingsMarkdown() table mismatch (-want +got):\n%s", diff)
	}

	if md := HoldingsMarkdown(nil, "INR"); !strings.Contains(md, "The portfolio is empty.") {
		t.Errorf("HoldingsMarkdown(nil) = %q, want an empty portfolio notice", md)
	}
}
