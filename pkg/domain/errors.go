package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownAutomaton is returned when a context or goal names an automaton absent from the network.
var ErrUnknownAutomaton = errors.New("unknown automaton")

// ErrUnknownState is returned when a context or goal names a local state absent from its automaton.
var ErrUnknownState = errors.New("unknown local state")

// ErrGoalArity is returned when a goal does not fix exactly one automaton.
var ErrGoalArity = errors.New("goal must fix exactly one automaton")

// ErrCyclicGraph is returned when a bound is requested on a cyclic causality graph.
var ErrCyclicGraph = errors.New("local causality graph contains cycles")

// ErrUnbounded is returned when the causality graph yields no finite bound.
var ErrUnbounded = errors.New("bound is unbounded")

// ErrInvalidLength is returned when a path length is not usable by the encoder.
var ErrInvalidLength = errors.New("invalid path length")

// ErrSolverFailed is returned when the solver process or its result file cannot be used.
var ErrSolverFailed = errors.New("solver failed")

// ErrVerdictNotFound is returned when a verdict is missing from a store.
var ErrVerdictNotFound = errors.New("verdict not found")

// ContextError reports a context entry inconsistent with the network.
type ContextError struct {
	Automaton string
	State     string
	Err       error
}

func (e *ContextError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("%v: %q", e.Err, e.Automaton)
	}
	return fmt.Sprintf("%v: %s=%s", e.Err, e.Automaton, e.State)
}

func (e *ContextError) Unwrap() error {
	return e.Err
}
