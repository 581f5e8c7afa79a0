package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/financial"
)

// errNotJSON rejects statement files that are not .json files.
var errNotJSON = errors.New("only .json statement files are accepted")

type uploadCmd struct {
	companyID int
	typ       string
}

func (*uploadCmd) Name() string     { return "upload" }
func (*uploadCmd) Synopsis() string { return "upload a financial statement file" }
func (*uploadCmd) Usage() string {
	return `cpc upload -company <id> -type <income|balance|cash> <file.json>

Upload a financial statement: a JSON array of yearly records, each with its
fiscal year and numeric fields, like {"fiscalYear": "2023", "netIncome": 1200}.
`
}

func (c *uploadCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.companyID, "company", 0, "company id")
	f.StringVar(&c.typ, "type", "", "statement type: income, balance or cash")
}

func (c *uploadCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.companyID == 0 || c.typ == "" {
		return fail(financial.ErrMissingUploadField, "")
	}
	typ, err := profiles.ParseStatementType(c.typ)
	if err != nil {
		fmt.Fprintln(f.Output(), err)
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	if !strings.EqualFold(filepath.Ext(name), ".json") {
		return fail(errNotJSON, "")
	}
	file, err := os.Open(name)
	if err != nil {
		return fail(err, "cannot read statement file")
	}
	defer file.Close()

	res, err := financials().Upload(ctx, financial.Upload{
		CompanyID: c.companyID,
		Type:      typ,
		Filename:  filepath.Base(name),
		File:      file,
	})
	if err != nil {
		return fail(err, "upload failed")
	}
	notifier().Success(fmt.Sprintf("%s of company %d uploaded: %d values over %s",
		typ.Label(), res.CompanyID, res.Values, strings.Join(res.Years, ", ")))
	return subcommands.ExitSuccess
}
