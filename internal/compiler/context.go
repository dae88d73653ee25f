package compiler

import (
	"errors"
	"fmt"

	"github.com/aretw0/anreach/pkg/domain"
)

// ParseContext reads an expression such as `a=0, "b"=1` into a context of
// net. Automata not mentioned are unconstrained. Commas are optional.
func ParseContext(net *domain.Network, expr string) (domain.Context, error) {
	ctx := domain.NewContext(net.NumAutomata())
	toks, err := tokenize(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid context %q: %w", expr, err)
	}

	c := &cursor{line: line{num: 1, toks: toks}}
	for !c.done() {
		ls, err := localState(net, c, true)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				if pe.Err != nil {
					return nil, pe.Err
				}
				return nil, fmt.Errorf("invalid context %q: %s", expr, pe.Msg)
			}
			return nil, err
		}
		ctx[ls.Automaton] = ls.State
		c.accept(tokComma)
	}
	return ctx, nil
}

// Overlay returns base with every constrained entry of over applied.
func Overlay(base, over domain.Context) domain.Context {
	out := base.Clone()
	for i, s := range over {
		if s != domain.Unconstrained && i < len(out) {
			out[i] = s
		}
	}
	return out
}
