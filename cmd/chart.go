package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/financial"
	"github.com/etnz/profiles/renderer"
)

type chartCmd struct {
	metrics string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "chart the financial metrics of a company" }
func (*chartCmd) Usage() string {
	return `cpc chart [-metrics <name,name...>] <id>

Print one table per metric with the yearly values, their growth rate and a
bar. Metrics default to ` + strings.Join(profiles.DefaultChartMetrics, ", ") + `.
See 'cpc metrics' for the available metrics.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.metrics, "metrics", "", "comma separated metric names")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := idArg(f)
	if err != nil {
		fmt.Fprintln(f.Output(), err)
		return subcommands.ExitUsageError
	}
	var metrics []string
	for _, m := range strings.Split(c.metrics, ",") {
		if m = strings.TrimSpace(m); m != "" {
			metrics = append(metrics, m)
		}
	}

	var (
		company profiles.Company
		tiles   []financial.Tile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		company, err = companies().Get(gctx, id)
		return err
	})
	g.Go(func() error {
		tiles = financials().Charts(gctx, id, metrics...)
		return nil
	})
	if err := g.Wait(); err != nil {
		return fail(err, "failed to load company")
	}

	printMarkdown(renderer.ChartGridMarkdown(company.Name, tiles))
	for _, t := range tiles {
		if t.Err == nil {
			return subcommands.ExitSuccess
		}
	}
	return fail(tiles[0].Err, "failed to load charts")
}

type metricsCmd struct{}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "list the chart metrics" }
func (*metricsCmd) Usage() string {
	return `cpc metrics

List the metrics that 'cpc chart' can draw and how they are computed.
`
}

func (*metricsCmd) SetFlags(*flag.FlagSet) {}

func (*metricsCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	printMarkdown(renderer.MetricsMarkdown(profiles.Metrics))
	return subcommands.ExitSuccess
}
