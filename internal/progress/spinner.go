// Package progress provides terminal progress indicators.
package progress

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/mark-oise/fangs/internal/termcolor"
)

// Spinner displays an animated spinner on stderr while a long-running
// operation (e.g. a workspace scan of a large tree) is in progress. It is
// only displayed when stderr is a terminal and colorized output is wanted;
// in non-interactive environments (piped output, CI, tests) it is silent,
// matching termcolor.ShouldColorize's gate.
type Spinner struct {
	msg   string
	live  bool
	inner *pterm.SpinnerPrinter
}

// New creates a Spinner that will display msg alongside the animation.
func New(msg string) *Spinner {
	return &Spinner{
		msg:  msg,
		live: termcolor.ShouldColorize(os.Stderr),
	}
}

// Start begins the spinner animation. It writes to stderr so it never
// pollutes stdout.
func (s *Spinner) Start() {
	if !s.live {
		return
	}
	printer := pterm.DefaultSpinner.WithWriter(os.Stderr)
	started, err := printer.Start(s.msg)
	if err != nil {
		s.live = false
		return
	}
	s.inner = started
}

// Stop halts the spinner animation and clears the line.
func (s *Spinner) Stop() {
	if s.inner == nil {
		return
	}
	s.inner.Stop() //nolint:errcheck // best-effort cleanup of a terminal animation
}
