package encoding

import "fmt"

// InvariantError reports a decoded model in which an automaton is not in
// exactly one state. It signals an unsound encoding and is raised with
// panic, never returned.
type InvariantError struct {
	Step      int
	Automaton string
	Active    []int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("encoding invariant violated: automaton %q has %d active states at step %d %v",
		e.Automaton, len(e.Active), e.Step, e.Active)
}
