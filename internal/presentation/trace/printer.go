// Package trace prints witness traces on a terminal, highlighting the
// automaton that changes at each step.
package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/anreach/pkg/domain"
	"github.com/muesli/termenv"
)

// Printer writes traces of one network.
type Printer struct {
	net *domain.Network
	out *termenv.Output
}

// Option configures a Printer.
type Option func(*printerConfig)

type printerConfig struct {
	profile termenv.Profile
	detect  bool
}

// WithProfile forces the colour profile, e.g. termenv.Ascii for plain text.
func WithProfile(p termenv.Profile) Option {
	return func(c *printerConfig) {
		c.profile = p
		c.detect = false
	}
}

// NewPrinter writes to w. Without WithProfile the profile is detected
// from w.
func NewPrinter(w io.Writer, net *domain.Network, opts ...Option) *Printer {
	cfg := printerConfig{detect: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	var out *termenv.Output
	if cfg.detect {
		out = termenv.NewOutput(w)
	} else {
		out = termenv.NewOutput(w, termenv.WithProfile(cfg.profile))
	}
	return &Printer{net: net, out: out}
}

// Print writes every step as its global context. Changed automata are
// marked with '*' and coloured when the profile allows it.
func (p *Printer) Print(t *domain.Trace) error {
	if t.Len() == 0 {
		_, err := fmt.Fprintln(p.out, "empty trace")
		return err
	}
	width := len(fmt.Sprint(t.Len() - 1))
	highlight := p.out.Color("#f472b6")

	for _, step := range t.Steps {
		parts := make([]string, len(step.State))
		for a, s := range step.State {
			name := p.net.LocalStateName(a, s)
			if step.HasChanged(a) && step.Index > 0 {
				name = p.out.String(name + "*").Foreground(highlight).Bold().String()
			}
			parts[a] = name
		}
		if _, err := fmt.Fprintf(p.out, "%*d  %s\n", width, step.Index, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}

// PrintMoves writes how often each local move occurs in t.
func (p *Printer) PrintMoves(t *domain.Trace) error {
	moves := t.Moves()
	if len(moves) == 0 {
		_, err := fmt.Fprintln(p.out, "no move")
		return err
	}
	for _, m := range moves {
		a := p.net.Automaton(m.Automaton)
		line := fmt.Sprintf("%s %s -> %s  x%d", a.Name, a.StateName(m.From), a.StateName(m.To), m.Count)
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			return err
		}
	}
	return nil
}
