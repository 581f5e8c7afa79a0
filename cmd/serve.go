package cmd

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"github.com/etnz/profiles/devserver"
)

type serveCmd struct {
	config string
	addr   string
	seed   bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the development API server" }
func (*serveCmd) Usage() string {
	return `cpc serve [-config <server.yaml>] [-addr <host:port>] [-seed]

Serve the company profile API from a local database, an in memory sqlite
database by default. See 'cpc topic server' for the configuration file.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "YAML configuration file")
	f.StringVar(&c.addr, "addr", "", "listening address, overrides the configuration")
	f.BoolVar(&c.seed, "seed", false, "fill an empty database with sample companies")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := devserver.LoadConfig(c.config)
	if err != nil {
		fmt.Fprintln(f.Output(), err)
		return subcommands.ExitUsageError
	}
	if c.addr != "" {
		cfg.Addr = c.addr
	}
	cfg.Seed = cfg.Seed || c.seed

	srv, err := devserver.New(cfg)
	if err != nil {
		return fail(err, "cannot start the server")
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	notifier().Info("set " + EnvAPIBase + "=" + srv.Base() + " to use this server")
	if err := srv.ListenAndServe(ctx); err != nil {
		return fail(err, "server failed")
	}
	return subcommands.ExitSuccess
}
