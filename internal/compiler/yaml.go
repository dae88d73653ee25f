package compiler

import (
	"fmt"
	"sort"

	"github.com/aretw0/anreach/internal/dto"
	"github.com/aretw0/anreach/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ParseYAML reads a network from a YAML (or JSON) document:
//
//	automata:
//	  - name: a
//	    states: [0, 1]
//	transitions:
//	  - {automaton: a, from: 0, to: 1, when: {b: 0}}
//	initial: {a: 0}
func ParseYAML(data []byte) (*domain.Network, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yaml model: %w", err)
	}

	var doc dto.Network
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid yaml model: %w", err)
	}
	return FromDocument(&doc)
}

// FromDocument builds the network described by doc.
func FromDocument(doc *dto.Network) (*domain.Network, error) {
	net := domain.NewNetwork()
	for _, a := range doc.Automata {
		if len(a.States) == 0 {
			return nil, fmt.Errorf("automaton %q has no local state", a.Name)
		}
		if _, err := net.AddAutomaton(a.Name, a.States...); err != nil {
			return nil, err
		}
	}

	for i, tr := range doc.Transitions {
		moves := append([]dto.Part{{Automaton: tr.Automaton, From: tr.From, To: tr.To}}, tr.Sync...)
		parts := make([]part, 0, len(moves))
		for _, m := range moves {
			from, err := net.Resolve(m.Automaton, m.From)
			if err != nil {
				return nil, fmt.Errorf("transition %d: %w", i, err)
			}
			to, err := net.Resolve(m.Automaton, m.To)
			if err != nil {
				return nil, fmt.Errorf("transition %d: %w", i, err)
			}
			parts = append(parts, part{automaton: from.Automaton, origin: from.State, target: to.State})
		}

		conds := make([]domain.Condition, 0, len(tr.When))
		for aut, state := range tr.When {
			ls, err := net.Resolve(aut, state)
			if err != nil {
				return nil, fmt.Errorf("transition %d: %w", i, err)
			}
			conds = append(conds, domain.Condition{Automaton: ls.Automaton, State: ls.State})
		}
		// Maps are unordered; keep guards in declaration order of automata.
		sort.Slice(conds, func(x, y int) bool { return conds[x].Automaton < conds[y].Automaton })

		if err := addTransition(net, parts, conds); err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
	}

	for aut, state := range doc.Initial {
		ls, err := net.Resolve(aut, state)
		if err != nil {
			return nil, fmt.Errorf("initial context: %w", err)
		}
		net.SetInitialState(ls.Automaton, ls.State)
	}

	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}
