// Package report formats query reports for humans (markdown, rendered with
// glamour on terminals) and machines (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/anreach/pkg/domain"
)

// Markdown renders r as a markdown document.
func Markdown(net *domain.Network, r *domain.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", r.Message(net))

	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| outcome | `%s` |\n", r.Outcome)
	fmt.Fprintf(&sb, "| goal | `%s` |\n", net.LocalStateName(r.Goal.Automaton, r.Goal.State))
	if r.Initial != nil {
		fmt.Fprintf(&sb, "| initial context | `%s` |\n", r.Initial.Format(net))
	}
	if r.Bound != domain.Unconstrained {
		fmt.Fprintf(&sb, "| causality bound | %d |\n", r.Bound)
	}
	if r.Length > 0 {
		kind := "computed"
		if r.Manual {
			kind = "manual"
		}
		fmt.Fprintf(&sb, "| length | %d (%s) |\n", r.Length, kind)
	}
	if r.Solver != "" {
		fmt.Fprintf(&sb, "| solver | %s |\n", r.Solver)
	}
	fmt.Fprintf(&sb, "| elapsed | %s |\n", r.Elapsed)

	if r.Trace.Len() > 0 {
		sb.WriteString("\n## Trace\n\n| step | ")
		for _, a := range net.Automata {
			sb.WriteString(a.Name + " | ")
		}
		sb.WriteString("\n|---|")
		sb.WriteString(strings.Repeat("---|", net.NumAutomata()))
		sb.WriteString("\n")
		for _, step := range r.Trace.Steps {
			fmt.Fprintf(&sb, "| %d | ", step.Index)
			for a, s := range step.State {
				name := net.Automaton(a).StateName(s)
				if step.HasChanged(a) {
					name = "**" + name + "**"
				}
				sb.WriteString(name + " | ")
			}
			sb.WriteString("\n")
		}

		if moves := r.Trace.Moves(); len(moves) > 0 {
			sb.WriteString("\n## Moves\n\n")
			for _, m := range moves {
				a := net.Automaton(m.Automaton)
				fmt.Fprintf(&sb, "- `%s` %s → %s: %d\n", a.Name, a.StateName(m.From), a.StateName(m.To), m.Count)
			}
		}
	}
	return sb.String()
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
