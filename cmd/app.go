// Package cmd implements the ptk command line application.
package cmd

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/metrics"
	"github.com/etnz/folio/quote"
	"github.com/go-redis/redis/v8"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "portfolio")
	c.Register(&removeCmd{}, "portfolio")
	c.Register(&holdingsCmd{}, "portfolio")

	c.Register(&showCmd{}, "valuation")
	c.Register(&watchCmd{}, "valuation")
	c.Register(&serveCmd{}, "valuation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a configuration file (yaml, toml or json)")
var portfolioFile = flag.String("portfolio-file", "", "Path to the portfolio file (JSON), overrides state.file")

// Verbose enables debug logging.
var Verbose = flag.Bool("v", false, "verbose output (debug logging)")

// app is everything a command needs, built from the configuration.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	store    *folio.Store
	engine   *folio.Engine
	tracker  *folio.Tracker
	rdb      *redis.Client
}

// newApp loads the configuration and the portfolio.
func newApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *portfolioFile != "" {
		cfg.State.File = *portfolioFile
	}
	if *Verbose {
		cfg.Log.Level = "debug"
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	a.metrics = metrics.New(a.registry)

	lookup, err := a.newLookup()
	if err != nil {
		return nil, err
	}
	a.store = folio.NewStore(cfg.State.File, logger)
	a.store.Load()
	a.engine = folio.NewEngine(lookup, cfg.Index.Symbol, logger)
	a.tracker = folio.NewTracker(a.store, a.engine, logger)
	return a, nil
}

// newLookup chains the configured provider with a timeout, the optional
// redis cache and the lookup counter.
func (a *app) newLookup() (folio.PriceLookup, error) {
	var lookup folio.PriceLookup
	switch a.cfg.Quote.Provider {
	case "yahoo":
		lookup = quote.NewYahoo(http.DefaultClient, "")
	case "eodhd":
		lookup = quote.NewEODHD(http.DefaultClient, "", a.cfg.EODHD.APIKey, a.cfg.EODHD.Exchange)
	case "static":
		static, err := quote.NewStatic(a.cfg.Quote.Static)
		if err != nil {
			return nil, fmt.Errorf("invalid quote.static prices: %w", err)
		}
		lookup = static
	default:
		return nil, fmt.Errorf("unknown quote provider %q", a.cfg.Quote.Provider)
	}
	lookup = quote.WithTimeout(lookup, a.cfg.Quote.Timeout)

	if a.cfg.Redis.Addr != "" {
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		lookup = quote.NewCached(lookup, a.rdb, a.cfg.Redis.TTL, a.logger)
	}
	return quote.Instrumented(lookup, a.metrics.Lookups), nil
}

// newScheduler returns the scheduler of the app's tracker, reporting to its metrics.
func (a *app) newScheduler() *folio.Scheduler {
	return folio.NewScheduler(a.tracker, a.cfg.Refresh.Interval, a.logger, folio.WithObserver(a.metrics))
}

// Close releases the app resources.
func (a *app) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Warn("error closing redis client", zap.Error(err))
		}
	}
	a.logger.Sync()
}

// openApp is newApp for commands: errors are reported on stderr.
func openApp() (*app, subcommands.ExitStatus) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	return a, subcommands.ExitSuccess
}

// printMarkdown renders markdown on the terminal.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
