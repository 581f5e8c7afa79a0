package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/renderer"
)

type compareCmd struct{}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare companies side by side" }
func (*compareCmd) Usage() string {
	return `cpc compare <id> <id>...

Print a table with one row per property and one column per company.
`
}

func (*compareCmd) SetFlags(*flag.FlagSet) {}

func (*compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(f.Output(), "at least two company ids are required")
		return subcommands.ExitUsageError
	}
	ids := make([]int, 0, f.NArg())
	for _, arg := range f.Args() {
		id, err := parseID(arg)
		if err != nil {
			fmt.Fprintln(f.Output(), err)
			return subcommands.ExitUsageError
		}
		ids = append(ids, id)
	}

	list, err := companies().Compare(ctx, ids...)
	if err != nil {
		return fail(err, "failed to load companies")
	}
	printMarkdown(renderer.ComparisonMarkdown(profiles.Compare(list...)))
	return subcommands.ExitSuccess
}
