package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/folio/publish"
	"github.com/etnz/folio/server"
	"github.com/google/subcommands"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the portfolio over HTTP and websocket" }
func (*serveCmd) Usage() string {
	return `ptk serve [-addr <host:port>]

  Runs the refresh scheduler and serves the portfolio:

    GET    /api/valuation          latest valuation
    GET    /api/holdings           recorded holdings
    POST   /api/holdings           {"symbol": "AAPL", "shares": 10}
    DELETE /api/holdings/<symbol>  remove all holdings of symbol
    POST   /api/refresh            request a refresh
    GET    /ws                     websocket stream of valuations
    GET    /metrics                prometheus metrics

  When kafka.brokers is configured, every valuation is also published to
  kafka.topic.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address (defaults to http.addr)")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	addr := a.cfg.HTTP.Addr
	if c.addr != "" {
		addr = c.addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(a.cfg.Kafka.Brokers) > 0 {
		p := publish.New(publish.NewWriter(a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic), a.logger)
		defer p.Close()
		cancel := a.tracker.Subscribe(p.Publish)
		defer cancel()
		a.logger.Info("publishing valuations", zap.Strings("brokers", a.cfg.Kafka.Brokers), zap.String("topic", a.cfg.Kafka.Topic))
	}

	srv := server.New(a.tracker, a.registry, a.logger)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.newScheduler().Run(ctx) })
	g.Go(func() error { return srv.ListenAndServe(ctx, addr) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
