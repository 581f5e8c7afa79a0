package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/goccy/go-json"
	"github.com/google/subcommands"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/renderer"
)

type showCmd struct {
	path string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show the profile of a company" }
func (*showCmd) Usage() string {
	return `cpc show [-path <jsonpath>] <id>

Print the profile of a company: its business and its industry profile.

With -path, print the values selected by the JSONPath query on the company
record instead, like -path '$.industry_profile.industry_category'.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "path", "", "JSONPath query on the company record")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := idArg(f)
	if err != nil {
		fmt.Fprintln(f.Output(), err)
		return subcommands.ExitUsageError
	}
	company, err := companies().Get(ctx, id)
	if err != nil {
		return fail(err, "failed to load company")
	}

	if c.path == "" {
		printMarkdown(renderer.RenderProfile(renderer.NewProfile(company)))
		return subcommands.ExitSuccess
	}

	out, err := query(company, c.path)
	if err != nil {
		return fail(err, "invalid path")
	}
	fmt.Fprintln(stdout, out)
	return subcommands.ExitSuccess
}

// query evaluates the JSONPath path on the JSON form of company. Strings are
// returned as is, other values as JSON.
func query(company profiles.Company, path string) (string, error) {
	data, err := json.Marshal(company)
	if err != nil {
		return "", err
	}
	var record any
	if err := json.Unmarshal(data, &record); err != nil {
		return "", err
	}
	v, err := jsonpath.Get(path, record)
	if err != nil {
		return "", fmt.Errorf("cannot evaluate %q: %w", path, err)
	}
	// filters always return a list, keep the single answer of a list of one.
	if list, ok := v.([]any); ok && len(list) == 1 {
		v = list[0]
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
