// Package compiler turns model files into domain networks.
//
// Two formats are supported: the textual automata network format (.an) and
// a YAML document (see internal/dto).
package compiler

import (
	"fmt"
	"strings"

	"github.com/aretw0/anreach/pkg/domain"
)

const (
	kwWhen    = "when"
	kwAnd     = "and"
	kwInitial = "initial_context"
)

type line struct {
	num  int
	toks []token
}

// cursor walks the tokens of one line.
type cursor struct {
	line
	pos int
}

func (c *cursor) done() bool {
	return c.pos >= len(c.toks)
}

func (c *cursor) peek() (token, bool) {
	if c.done() {
		return token{}, false
	}
	return c.toks[c.pos], true
}

func (c *cursor) errorf(format string, args ...any) error {
	return &ParseError{Line: c.num, Msg: fmt.Sprintf(format, args...)}
}

func (c *cursor) expect(kind tokenKind) (token, error) {
	t, ok := c.peek()
	if !ok {
		return token{}, c.errorf("expected %s, got end of line", kind)
	}
	if t.kind != kind {
		return token{}, c.errorf("expected %s, got %q", kind, t.text)
	}
	c.pos++
	return t, nil
}

func (c *cursor) expectName() (string, error) {
	t, ok := c.peek()
	if !ok {
		return "", c.errorf("expected a name, got end of line")
	}
	if !t.name() || t.keyword(kwWhen) || t.keyword(kwAnd) {
		return "", c.errorf("expected a name, got %q", t.text)
	}
	c.pos++
	return t.text, nil
}

// accept consumes the next token if it has the given kind.
func (c *cursor) accept(kind tokenKind) bool {
	if t, ok := c.peek(); ok && t.kind == kind {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) acceptKeyword(w string) bool {
	if t, ok := c.peek(); ok && t.keyword(w) {
		c.pos++
		return true
	}
	return false
}

// Parse reads a network in the textual format:
//
//	(** comment **)
//	"a" [0, 1]
//	"b" [0, 1, 2]
//	"a" 0 -> 1 when "b"=2
//	"a" 1 -> 0, "b" 2 -> 0 when "c"=1 and "d"=0
//	initial_context "a"=1, "b"=0
//
// Automata are declared before use but may appear anywhere in the file.
// Quotes are optional around names. Several parts separated by commas form
// a synchronised transition sharing the guards.
func Parse(data []byte) (*domain.Network, error) {
	src, err := stripComments(string(data))
	if err != nil {
		return nil, err
	}

	var lines []line
	for i, raw := range strings.Split(src, "\n") {
		toks, err := tokenize(raw)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Msg: "invalid token", Err: err}
		}
		if len(toks) > 0 {
			lines = append(lines, line{num: i + 1, toks: toks})
		}
	}

	net := domain.NewNetwork()

	// Declarations first so transitions may reference later automata.
	var rest []line
	for _, l := range lines {
		if isDeclaration(l) {
			if err := parseDeclaration(net, l); err != nil {
				return nil, err
			}
			continue
		}
		rest = append(rest, l)
	}

	for _, l := range rest {
		c := &cursor{line: l}
		switch {
		case l.toks[0].keyword(kwInitial):
			c.pos++
			if err := parseInitial(net, c); err != nil {
				return nil, err
			}
		case hasArrow(l):
			if err := parseTransition(net, c); err != nil {
				return nil, err
			}
		default:
			return nil, c.errorf("unexpected statement starting with %q", l.toks[0].text)
		}
	}

	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}

func isDeclaration(l line) bool {
	return len(l.toks) > 1 && l.toks[1].kind == tokLBrack
}

func hasArrow(l line) bool {
	for _, t := range l.toks {
		if t.kind == tokArrow {
			return true
		}
	}
	return false
}

func parseDeclaration(net *domain.Network, l line) error {
	c := &cursor{line: l}
	name, err := c.expectName()
	if err != nil {
		return err
	}
	if _, err := c.expect(tokLBrack); err != nil {
		return err
	}

	var states []string
	seen := make(map[string]bool)
	for !c.accept(tokRBrack) {
		if len(states) > 0 {
			if _, err := c.expect(tokComma); err != nil {
				return err
			}
		}
		s, err := c.expectName()
		if err != nil {
			return err
		}
		if seen[s] {
			return c.errorf("automaton %q declares state %q twice", name, s)
		}
		seen[s] = true
		states = append(states, s)
	}
	if len(states) == 0 {
		return c.errorf("automaton %q has no local state", name)
	}
	if !c.done() {
		t, _ := c.peek()
		return c.errorf("unexpected %q after declaration", t.text)
	}

	if _, err := net.AddAutomaton(name, states...); err != nil {
		return &ParseError{Line: l.num, Msg: "invalid declaration", Err: err}
	}
	return nil
}

// localState reads `name = state` or `name state` depending on sep.
func localState(net *domain.Network, c *cursor, sep bool) (domain.LocalState, error) {
	aut, err := c.expectName()
	if err != nil {
		return domain.LocalState{}, err
	}
	if sep {
		if _, err := c.expect(tokEq); err != nil {
			return domain.LocalState{}, err
		}
	}
	state, err := c.expectName()
	if err != nil {
		return domain.LocalState{}, err
	}
	ls, err := net.Resolve(aut, state)
	if err != nil {
		return domain.LocalState{}, &ParseError{Line: c.num, Msg: "unknown local state", Err: err}
	}
	return ls, nil
}

type part struct {
	automaton      int
	origin, target int
}

func parseTransition(net *domain.Network, c *cursor) error {
	var parts []part
	for {
		from, err := localState(net, c, false)
		if err != nil {
			return err
		}
		if _, err := c.expect(tokArrow); err != nil {
			return err
		}
		target, err := c.expectName()
		if err != nil {
			return err
		}
		to := net.Automaton(from.Automaton).StateIndex(target)
		if to < 0 {
			return &ParseError{Line: c.num, Msg: "unknown local state", Err: &domain.ContextError{
				Automaton: net.Automaton(from.Automaton).Name, State: target, Err: domain.ErrUnknownState,
			}}
		}
		for _, p := range parts {
			if p.automaton == from.Automaton {
				return c.errorf("automaton %q appears twice in a synchronised transition", net.Automaton(p.automaton).Name)
			}
		}
		parts = append(parts, part{automaton: from.Automaton, origin: from.State, target: to})
		if !c.accept(tokComma) {
			break
		}
	}

	var conds []domain.Condition
	if c.acceptKeyword(kwWhen) {
		for {
			ls, err := localState(net, c, true)
			if err != nil {
				return err
			}
			conds = append(conds, domain.Condition{Automaton: ls.Automaton, State: ls.State})
			if !c.acceptKeyword(kwAnd) {
				break
			}
		}
	}
	if !c.done() {
		t, _ := c.peek()
		return c.errorf("unexpected %q after transition", t.text)
	}

	if err := addTransition(net, parts, conds); err != nil {
		return &ParseError{Line: c.num, Msg: "invalid transition", Err: err}
	}
	return nil
}

// addTransition appends one transition per part, each listing the others
// as synchronisation partners. A guard on the moving automaton itself is
// implied by the part origin and dropped from that part.
func addTransition(net *domain.Network, parts []part, conds []domain.Condition) error {
	for _, p := range parts {
		for _, c := range conds {
			if c.Automaton == p.automaton && c.State != p.origin {
				aut := net.Automaton(p.automaton)
				return fmt.Errorf("guard %s contradicts the origin %s of %q",
					net.LocalStateName(c.Automaton, c.State), aut.StateName(p.origin), aut.Name)
			}
		}
	}

	refs := make([]domain.Partner, len(parts))
	for i, p := range parts {
		aut := net.Automaton(p.automaton)
		refs[i] = domain.Partner{Automaton: p.automaton, Transition: len(aut.Transitions)}
		var own []domain.Condition
		for _, c := range conds {
			if c.Automaton != p.automaton {
				own = append(own, c)
			}
		}
		aut.Transitions = append(aut.Transitions, domain.Transition{
			Origin:     p.origin,
			Target:     p.target,
			Conditions: own,
		})
	}
	if len(parts) < 2 {
		return nil
	}
	for i, r := range refs {
		tr := &net.Automaton(r.Automaton).Transitions[r.Transition]
		for j, other := range refs {
			if i != j {
				tr.Synchro = append(tr.Synchro, other)
			}
		}
	}
	return nil
}

func parseInitial(net *domain.Network, c *cursor) error {
	for !c.done() {
		ls, err := localState(net, c, true)
		if err != nil {
			return err
		}
		net.SetInitialState(ls.Automaton, ls.State)
		c.accept(tokComma)
	}
	return nil
}
