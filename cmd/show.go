package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct {
	raw bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the current value of the portfolio" }
func (*showCmd) Usage() string {
	return `ptk show [-raw]

  Looks up the current price of every holding and of the reference index,
  and displays the portfolio value. Holdings without price are listed but
  excluded from the total.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "print raw markdown")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	v := a.tracker.Refresh(ctx)
	output(c.raw, renderer.ValuationMarkdown(v, a.cfg.Display.Currency))
	return subcommands.ExitSuccess
}

// output writes md as is when raw, rendered otherwise.
func output(raw bool, md string) {
	if raw {
		fmt.Print(md)
		return
	}
	printMarkdown(md)
}
