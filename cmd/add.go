package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
)

type addCmd struct {
	symbol string
	shares string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "buy shares of a stock at its current price" }
func (*addCmd) Usage() string {
	return `ptk add -s <symbol> -n <shares>

  Looks up the current price of the stock and records the purchase, dated
  today, in the portfolio file.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Stock symbol, e.g. AAPL or TCS.NS")
	f.StringVar(&c.shares, "n", "", "Number of shares, can be fractional")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	shares, err := folio.ParseShares(c.shares)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	h, err := a.tracker.Add(ctx, c.symbol, shares)
	if errors.Is(err, folio.ErrInvalidInput) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Added %s shares of %s at %s\n", h.Shares, h.Symbol, h.PurchasePrice.Format(a.cfg.Display.Currency))
	return subcommands.ExitSuccess
}
