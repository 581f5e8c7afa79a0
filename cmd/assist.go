package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/etnz/profiles/agent"
	"github.com/etnz/profiles/company"
	"github.com/etnz/profiles/financial"
)

// AssistCmd is the subcommand for the AI assistant.
type AssistCmd struct{}

// Name returns the name of the command.
func (*AssistCmd) Name() string { return "assist" }

// Synopsis returns a short-one line synopsis of the command.
func (*AssistCmd) Synopsis() string { return "Start an interactive session with the AI assistant." }

// Usage returns a long-form usage string.
func (*AssistCmd) Usage() string {
	return `cpc assist [<question>]

Start an interactive session with the AI assistant. It reads the company
profiles and their financial metrics from the API, and searches the web for
the rest. The Gemini API key is read from $GEMINI_API_KEY.
`
}

// SetFlags sets the flags for the command.
func (*AssistCmd) SetFlags(_ *flag.FlagSet) {}

// Execute executes the command.
func (c *AssistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	conn := newClient()
	researcher := agent.NewResearcher()
	analyst := agent.NewAnalyst(company.New(conn), financial.New(conn))
	a := agent.New(os.Stdout, os.Stdin, researcher, analyst)
	a.Print = func(_ io.Writer, answer string) { printMarkdown(answer) }

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
