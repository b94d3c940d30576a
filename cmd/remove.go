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

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove all holdings of a stock" }
func (*removeCmd) Usage() string {
	return `ptk remove <symbol>

  Removes every holding of the stock from the portfolio file.
`
}

func (*removeCmd) SetFlags(f *flag.FlagSet) {}

func (*removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: remove takes a single symbol")
		return subcommands.ExitUsageError
	}

	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	n, err := a.tracker.Remove(f.Arg(0))
	switch {
	case errors.Is(err, folio.ErrNoSelection):
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return subcommands.ExitUsageError
	case errors.Is(err, folio.ErrNotHeld):
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return subcommands.ExitFailure
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed %d holding(s) of %s\n", n, folio.NormalizeSymbol(f.Arg(0)))
	return subcommands.ExitSuccess
}
