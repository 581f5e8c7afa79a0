// Package notify prints short user feedback lines.
package notify

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

const (
	defaultSuccess = "operation succeeded"
	defaultFailure = "operation failed"
	defaultInfo    = "note"
	defaultWarning = "warning"
)

// Message returns the text to show for err: its message, else fallback,
// else a generic failure message.
func Message(err error, fallback string) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	if fallback != "" {
		return fallback
	}
	return defaultFailure
}

// Notifier writes one line per notification.
type Notifier struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

// New returns a notifier writing to w. When verbose, errors are also logged
// with their full chain.
func New(w io.Writer, verbose bool) *Notifier {
	return &Notifier{w: w, verbose: verbose}
}

// Stderr notifies on the standard error.
var Stderr = New(os.Stderr, false)

func (n *Notifier) print(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s: %s\n", level, msg)
}

func or(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}

func (n *Notifier) Success(msg string) { n.print("ok", or(msg, defaultSuccess)) }
func (n *Notifier) Info(msg string)    { n.print("info", or(msg, defaultInfo)) }
func (n *Notifier) Warn(msg string)    { n.print("warning", or(msg, defaultWarning)) }

// Error notifies the failure err, with fallback used when err says nothing.
func (n *Notifier) Error(err error, fallback string) {
	n.print("error", Message(err, fallback))
	if n.verbose && err != nil {
		log.Printf("%+v", err)
	}
}
