package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// watchCmd holds the flags for the 'watch' subcommand.
type watchCmd struct {
	interval string
	raw      bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "display the portfolio value, refreshed periodically" }
func (*watchCmd) Usage() string {
	return `ptk watch [-i <interval>] [-raw]

  Displays the portfolio value, and refreshes it every interval until
  interrupted (Ctrl-C).
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.interval, "i", "", "refresh interval, e.g. 1m (defaults to refresh.interval)")
	f.BoolVar(&c.raw, "raw", false, "print raw markdown")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	if c.interval != "" {
		if err := parseInterval(c.interval, &a.cfg.Refresh.Interval); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cancel := a.tracker.Subscribe(func(v folio.Valuation) {
		if !c.raw {
			// clear screen
			fmt.Print("\033[H\033[2J")
		}
		output(c.raw, renderer.ValuationMarkdown(v, a.cfg.Display.Currency))
	})
	defer cancel()

	if err := a.newScheduler().Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// parseInterval parses a positive duration into d.
func parseInterval(s string, d *time.Duration) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid interval %q: %w", s, err)
	}
	if v <= 0 {
		return fmt.Errorf("invalid interval %q: must be positive", s)
	}
	*d = v
	return nil
}
