package dsl

import (
	"github.com/aretw0/anreach/internal/dto"
	"github.com/aretw0/anreach/pkg/domain"
)

// MoveBuilder provides a fluent API for configuring a transition.
type MoveBuilder struct {
	tr      dto.Transition
	builder *Builder
}

// When guards the transition: automaton must be in state.
func (m *MoveBuilder) When(automaton, state string) *MoveBuilder {
	m.tr.When[automaton] = state
	return m
}

// With synchronises another automaton's move with this one. Both fire
// together under the same guards.
func (m *MoveBuilder) With(automaton, from, to string) *MoveBuilder {
	m.tr.Sync = append(m.tr.Sync, dto.Part{Automaton: automaton, From: from, To: to})
	return m
}

// Move starts the next transition on the same builder.
func (m *MoveBuilder) Move(automaton, from, to string) *MoveBuilder {
	return m.builder.Move(automaton, from, to)
}

// Build compiles the network of the underlying builder.
func (m *MoveBuilder) Build() (*domain.Network, error) {
	return m.builder.Build()
}
