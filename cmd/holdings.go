package cmd

import (
	"context"
	"flag"

	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	raw bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "list the recorded purchases" }
func (*holdingsCmd) Usage() string {
	return `ptk holdings [-raw]

  Lists the holdings recorded in the portfolio file, with their purchase
  price and date. No price is looked up.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "print raw markdown")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	md := renderer.HoldingsMarkdown(a.tracker.Holdings(), a.cfg.Display.Currency)
	output(c.raw, md)
	return subcommands.ExitSuccess
}
