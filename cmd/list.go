package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/api"
	"github.com/etnz/profiles/pagination"
	"github.com/etnz/profiles/renderer"
)

// filterFlag collects repeated -filter key=value flags.
type filterFlag map[string]string

func (f filterFlag) String() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (f filterFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("invalid filter %q, expected key=value", s)
	}
	f[strings.TrimSpace(k)] = v
	return nil
}

type listCmd struct {
	page    int
	size    int
	filters filterFlag
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list companies, one page at a time" }
func (*listCmd) Usage() string {
	return `cpc list [-page <n>] [-size <n>] [-filter key=value]...

Print one page of the company table, with the range of companies shown.
Filters are passed to the server, like -filter name=acme.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	c.filters = filterFlag{}
	f.IntVar(&c.page, "page", 1, "1-based page number")
	f.IntVar(&c.size, "size", 10, "number of companies per page")
	f.Var(c.filters, "filter", "server side filter key=value, repeatable")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc := companies()
	pager := pagination.New(func(ctx context.Context, p pagination.Params) (api.Page[profiles.Company], error) {
		return svc.List(ctx, p.Page, p.Size, p.Filters)
	}, c.page, c.size, pagination.WithReporter(notifier()))
	defer pager.Close()

	// The pager has already reported the failure.
	if err := pager.Load(ctx, pagination.State{Current: c.page, PageSize: c.size}, c.filters); err != nil {
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.CompanyListMarkdown(pager.Data(), pager.State()))
	return subcommands.ExitSuccess
}
