// Package cmd implements the CLI application to manage company profiles.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/etnz/profiles/api"
	"github.com/etnz/profiles/company"
	"github.com/etnz/profiles/financial"
	"github.com/etnz/profiles/notify"
)

// Commands are the subcommands of cpc, in help order.
var Commands = []subcommands.Command{
	&listCmd{},
	&showCmd{},
	&createCmd{},
	&editCmd{},
	&deleteCmd{},
	&compareCmd{},
	&uploadCmd{},
	&chartCmd{},
	&metricsCmd{},
	&topicCmd{},
	&AssistCmd{},
	&serveCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	apiBase = flag.String("api", envOr(EnvAPIBase, api.DefaultBase), "Base URL of the company profile API ($"+EnvAPIBase+")")
	Verbose = flag.Bool("v", envBool(EnvVerbose), "Log every HTTP request ($"+EnvVerbose+")")
	timeout = flag.Duration("timeout", envDuration(EnvTimeout, 30*time.Second), "Timeout of every HTTP request ($"+EnvTimeout+")")
)

// stdout is where views are printed.
var stdout io.Writer = os.Stdout

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envBool(name string) bool {
	b, _ := strconv.ParseBool(os.Getenv(name))
	return b
}

func envDuration(name string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(name))
	if err != nil {
		return def
	}
	return d
}

// newClient returns the API client configured by the global flags.
func newClient() *api.Client {
	opts := []api.Option{api.WithTimeout(*timeout)}
	if *Verbose {
		opts = append(opts, api.WithVerbose())
	}
	return api.New(*apiBase, opts...)
}

func companies() *company.Service   { return company.New(newClient()) }
func financials() *financial.Service { return financial.New(newClient()) }

// notifier reports to the user on the standard error.
func notifier() *notify.Notifier {
	if *Verbose {
		return notify.New(os.Stderr, true)
	}
	return notify.Stderr
}

// fail notifies err and returns the failure status.
func fail(err error, fallback string) subcommands.ExitStatus {
	notifier().Error(err, fallback)
	return subcommands.ExitFailure
}

// printMarkdown renders md for the terminal, or prints it as is when it
// cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		log.Printf("cannot create markdown renderer: %v", err)
		fmt.Fprintln(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		log.Printf("cannot render markdown: %v", err)
		fmt.Fprintln(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// idArg parses the single company id argument of f.
func idArg(f *flag.FlagSet) (int, error) {
	if f.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one company id, got %d arguments", f.NArg())
	}
	return parseID(f.Arg(0))
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid company id %q", s)
	}
	return id, nil
}
