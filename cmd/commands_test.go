package cmd

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/devserver"
	"github.com/etnz/profiles/notify"
)

// startServer points the console to a fresh development server.
func startServer(t *testing.T) {
	t.Helper()
	s, err := devserver.New(devserver.DefaultConfig(), devserver.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(s.Handler())
	old := *apiBase
	*apiBase = srv.URL + "/api"
	t.Cleanup(func() {
		*apiBase = old
		srv.Close()
		s.Close()
	})
}

// run executes c with args and returns its status with what it printed
// on stdout and as notifications.
func run(t *testing.T, c subcommands.Command, args ...string) (subcommands.ExitStatus, string, string) {
	t.Helper()
	var out, notes bytes.Buffer
	oldOut, oldNotify := stdout, notify.Stderr
	stdout, notify.Stderr = &out, notify.New(&notes, false)
	defer func() { stdout, notify.Stderr = oldOut, oldNotify }()

	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	f.SetOutput(&notes)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s %v: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f), out.String(), notes.String()
}

func TestFilterFlag(t *testing.T) {
	f := filterFlag{}
	if err := f.Set("name=acme"); err != nil {
		t.Fatal(err)
	}
	if err := f.Set("ticker=A=B"); err != nil {
		t.Fatal(err)
	}
	if f["name"] != "acme" || f["ticker"] != "A=B" {
		t.Errorf("filters = %v", f)
	}
	if err := f.Set("nokey"); err == nil {
		t.Error("Set(nokey) expected an error")
	}
}

func TestCompanyFlags(t *testing.T) {
	var c companyFlags
	f := flag.NewFlagSet("test", flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse([]string{"-ticker", "ACM", "-barrier", "high", "-industry-size", "1250000000"}); err != nil {
		t.Fatal(err)
	}
	got, err := c.company(f)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "" || got.MainBusiness != nil {
		t.Errorf("unset flags must stay unset, got %+v", got)
	}
	if profiles.Value(got.Ticker) != "ACM" {
		t.Errorf("ticker = %v", got.Ticker)
	}
	if got.IndustryProfile == nil || profiles.Value(got.IndustryProfile.IndustryBarrier) != "high" {
		t.Fatalf("industry profile = %+v", got.IndustryProfile)
	}
	if got.IndustryProfile.IndustryCategory != nil {
		t.Error("unset industry flags must stay unset")
	}
	if got.IndustryProfile.IndustrySize.Decimal.String() != "1250000000" {
		t.Errorf("industry size = %v", got.IndustryProfile.IndustrySize)
	}

	f = flag.NewFlagSet("test", flag.ContinueOnError)
	c.SetFlags(f)
	f.Parse([]string{"-cagr", "none", "-trend", "up"})
	got, err = c.company(f)
	if err != nil {
		t.Fatal(err)
	}
	if got.IndustryProfile == nil || got.IndustryProfile.IndustryCAGR5y.Valid {
		t.Fatalf("-cagr none = %+v, want a null CAGR", got.IndustryProfile)
	}
	current := profiles.IndustryProfile{
		IndustrySize:   decimal.NewNullDecimal(decimal.NewFromInt(5270)),
		IndustryCAGR5y: decimal.NewNullDecimal(decimal.RequireFromString("8.2")),
	}
	merged := profiles.MergeEdit(profiles.Company{Name: "Acme", IndustryProfile: &current}, got)
	c.clear(merged.IndustryProfile)
	if merged.IndustryProfile.IndustryCAGR5y.Valid || !merged.IndustryProfile.IndustrySize.Valid {
		t.Errorf("cleared CAGR = %+v, want only the CAGR null", merged.IndustryProfile)
	}

	f = flag.NewFlagSet("test", flag.ContinueOnError)
	c.SetFlags(f)
	f.Parse([]string{"-position", "king", "-employees", "many"})
	_, err = c.company(f)
	if err == nil || !strings.Contains(err.Error(), `invalid -position "king"`) || !strings.Contains(err.Error(), "-employees") {
		t.Errorf("company() error = %v, want both flags reported", err)
	}
}

func TestQuery(t *testing.T) {
	c := profiles.Company{
		ID:     3,
		Name:   "Acme",
		Ticker: profiles.Ptr("ACM"),
		IndustryProfile: &profiles.IndustryProfile{
			IndustryCategory: profiles.Ptr("technology"),
		},
	}
	tests := []struct {
		path, want string
	}{
		{"$.name", "Acme"},
		{"$.industry_profile.industry_category", "technology"},
		{"$.id", "3"},
		{"$.industry_profile.industry_size", "null"},
	}
	for _, tt := range tests {
		got, err := query(c, tt.path)
		if err != nil {
			t.Errorf("query(%q) error: %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("query(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
	if _, err := query(c, "$.nope"); err == nil {
		t.Error("query($.nope) expected an error")
	}
}

func TestCommands(t *testing.T) {
	startServer(t)

	status, out, notes := run(t, &createCmd{}, "-name", "Acme", "-ticker", "ACM", "-category", "technology")
	if status != subcommands.ExitSuccess {
		t.Fatalf("create failed: %s", notes)
	}
	if strings.TrimSpace(out) != "1" || !strings.Contains(notes, "ok: Company created successfully.") {
		t.Errorf("create printed %q, notified %q", out, notes)
	}
	if status, _, _ := run(t, &createCmd{}, "-name", "Beta"); status != subcommands.ExitSuccess {
		t.Fatal("create Beta failed")
	}

	status, _, notes = run(t, &createCmd{}, "-name", "Acme")
	if status != subcommands.ExitFailure || !strings.Contains(notes, "error: a company with this name already exists") {
		t.Errorf("duplicate create = %v, %q", status, notes)
	}
	if status, _, _ := run(t, &createCmd{}, "-ticker", "X"); status != subcommands.ExitFailure {
		t.Errorf("create without name = %v, want a failure", status)
	}

	status, out, notes = run(t, &listCmd{}, "-size", "1")
	if status != subcommands.ExitSuccess {
		t.Fatalf("list failed: %s", notes)
	}
	if !strings.Contains(out, "Acme") || strings.Contains(out, "Beta") || !strings.Contains(out, "1-1 of 2") {
		t.Errorf("list printed:\n%s", out)
	}

	if status, _, notes := run(t, &editCmd{}, "-barrier", "high", "1"); status != subcommands.ExitSuccess {
		t.Fatalf("edit failed: %s", notes)
	}
	for path, want := range map[string]string{
		"$.industry_profile.industry_barrier":  "high",
		"$.industry_profile.industry_category": "technology",
		"$.ticker":                             "ACM",
	} {
		status, out, notes := run(t, &showCmd{}, "-path", path, "1")
		if status != subcommands.ExitSuccess || strings.TrimSpace(out) != want {
			t.Errorf("show -path %s = %v, %q, %q; want %q", path, status, out, notes, want)
		}
	}

	const cagr = "$.industry_profile.industry_cagr_5y"
	for _, tt := range []struct{ value, want string }{{"8.2", "8.2"}, {"none", "null"}} {
		if status, _, notes := run(t, &editCmd{}, "-cagr", tt.value, "1"); status != subcommands.ExitSuccess {
			t.Fatalf("edit -cagr %s failed: %s", tt.value, notes)
		}
		if _, out, _ := run(t, &showCmd{}, "-path", cagr, "1"); strings.TrimSpace(out) != tt.want {
			t.Errorf("after edit -cagr %s, show -path %s = %q, want %q", tt.value, cagr, out, tt.want)
		}
	}
	if _, out, _ := run(t, &showCmd{}, "-path", "$.industry_profile.industry_barrier", "1"); strings.TrimSpace(out) != "high" {
		t.Errorf("clearing the CAGR changed the barrier to %q", out)
	}

	status, out, _ = run(t, &compareCmd{}, "1", "2")
	if status != subcommands.ExitSuccess || !strings.Contains(out, "Acme") || !strings.Contains(out, "Beta") {
		t.Errorf("compare = %v:\n%s", status, out)
	}

	status, _, notes = run(t, &deleteCmd{}, "1")
	if status != subcommands.ExitSuccess || !strings.Contains(notes, "Company with id 1 deleted successfully.") {
		t.Errorf("delete = %v, %q", status, notes)
	}
	_, out, _ = run(t, &listCmd{})
	if strings.Contains(out, "Acme") || !strings.Contains(out, "Beta") {
		t.Errorf("list after delete printed:\n%s", out)
	}

	status, _, notes = run(t, &showCmd{}, "1")
	if status != subcommands.ExitFailure || !strings.Contains(notes, "error: Company not found") {
		t.Errorf("show deleted = %v, %q", status, notes)
	}
}

func TestUploadAndChart(t *testing.T) {
	startServer(t)
	if status, _, notes := run(t, &createCmd{}, "-name", "Acme"); status != subcommands.ExitSuccess {
		t.Fatal(notes)
	}

	dir := t.TempDir()
	statement := filepath.Join(dir, "income.json")
	os.WriteFile(statement, []byte(`[{"fiscalYear":"2022","netIncome":100000000},{"fiscalYear":"2023","netIncome":150000000}]`), 0o644)
	text := filepath.Join(dir, "income.csv")
	os.WriteFile(text, []byte("year,net_income\n"), 0o644)

	status, _, notes := run(t, &uploadCmd{}, "-company", "1", "-type", "income", statement)
	if status != subcommands.ExitSuccess || !strings.Contains(notes, "2 values over 2022, 2023") {
		t.Errorf("upload = %v, %q", status, notes)
	}
	status, _, notes = run(t, &uploadCmd{}, "-company", "1", "-type", "income", text)
	if status != subcommands.ExitFailure || !strings.Contains(notes, errNotJSON.Error()) {
		t.Errorf("upload csv = %v, %q", status, notes)
	}
	status, _, notes = run(t, &uploadCmd{}, "-type", "income", statement)
	if status != subcommands.ExitFailure || !strings.Contains(notes, "required") {
		t.Errorf("upload without company = %v, %q", status, notes)
	}

	status, out, notes := run(t, &chartCmd{}, "-metrics", "net_income,total_assets", "1")
	if status != subcommands.ExitSuccess {
		t.Fatalf("chart failed: %s", notes)
	}
	for _, want := range []string{"Acme", "Net income", "1.5", "No data"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart output lacks %q:\n%s", want, out)
		}
	}
}

func TestTopicAndMetrics(t *testing.T) {
	status, out, _ := run(t, &metricsCmd{})
	if status != subcommands.ExitSuccess || !strings.Contains(out, "peg_ratio") {
		t.Errorf("metrics = %v:\n%s", status, out)
	}
	status, _, notes := run(t, &topicCmd{}, "nope")
	if status != subcommands.ExitFailure || !strings.Contains(notes, "available topics") {
		t.Errorf("topic nope = %v, %q", status, notes)
	}
}

func TestCompletion(t *testing.T) {
	c := Completion(Commands)
	for _, name := range []string{"list", "show", "upload", "chart", "serve", "help"} {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("no completion for %q", name)
		}
	}
	if _, ok := c.Sub["list"].Flags["filter"]; !ok {
		t.Error("list -filter is not completed")
	}
	if _, ok := c.Flags["api"]; !ok {
		t.Error("global -api is not completed")
	}
	if c.Sub["upload"].Args == nil {
		t.Error("upload arguments are not completed")
	}
}
