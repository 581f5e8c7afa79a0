// Package agent runs a Gemini chat able to query the company profile API.
//
// A facilitator model holds the conversation and delegates to experts, each
// expert being a chat of its own with its tools.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert
	// Print writes an answer, markdown formatted. It defaults to writing it
	// as is.
	Print func(w io.Writer, answer string)
}

// New creates a new Agent reading the user questions from r and writing the
// answers to w.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
		Print:       func(w io.Writer, answer string) { fmt.Fprintln(w, answer) },
	}
}

// Start creates the chats of every expert and of the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("cannot start expert %s: %w", e.Name, err)
		}
	}
	return a.Facilitator.Start(ctx, client)
}

const prompt = "assist> "

// Run starts the interactive session. prompts are asked first, as if typed
// by the user. An empty line, "bye" or the end of input ends the session.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to the company profile assistant. Type 'bye' or an empty line to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask for the user.
		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
		}

		input = strings.TrimSpace(input)
		if input == "" || input == "bye" {
			return nil
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		a.Print(a.w, text(content))
	}
}

// text concatenates the text parts of c.
func text(c *genai.Content) string {
	var b strings.Builder
	for _, p := range c.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
