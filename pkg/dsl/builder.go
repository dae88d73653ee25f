package dsl

import (
	"fmt"

	"github.com/aretw0/anreach/internal/compiler"
	"github.com/aretw0/anreach/internal/dto"
	"github.com/aretw0/anreach/pkg/domain"
)

// Builder manages the network construction.
type Builder struct {
	doc   dto.Network
	moves []*MoveBuilder
}

// New creates a new network builder.
func New() *Builder {
	return &Builder{doc: dto.Network{Initial: make(map[string]string)}}
}

// Automaton declares an automaton with its local states in order. The first
// state is its initial state unless Initial says otherwise.
func (b *Builder) Automaton(name string, states ...string) *Builder {
	b.doc.Automata = append(b.doc.Automata, dto.Automaton{Name: name, States: states})
	return b
}

// Initial sets the initial state of an automaton.
func (b *Builder) Initial(automaton, state string) *Builder {
	b.doc.Initial[automaton] = state
	return b
}

// Move adds a local transition of automaton from one state to another.
// Guards and synchronised parts are added on the returned MoveBuilder.
func (b *Builder) Move(automaton, from, to string) *MoveBuilder {
	mb := &MoveBuilder{tr: dto.Transition{
		Automaton: automaton,
		From:      from,
		To:        to,
		When:      make(map[string]string),
	}, builder: b}
	b.moves = append(b.moves, mb)
	return mb
}

// Build compiles the declarations into a network. Unknown names are
// reported here, not when they are declared.
func (b *Builder) Build() (*domain.Network, error) {
	doc := b.doc
	doc.Transitions = make([]dto.Transition, len(b.moves))
	for i, mb := range b.moves {
		doc.Transitions[i] = mb.tr
	}

	net, err := compiler.FromDocument(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build network: %w", err)
	}
	return net, nil
}
