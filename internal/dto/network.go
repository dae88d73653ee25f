// Package dto holds the document shapes of the YAML model format.
//
// Documents are decoded into generic maps first and then into these types
// with mapstructure, so numeric state names are accepted unquoted.
package dto

// Network is a YAML model document.
type Network struct {
	Automata    []Automaton       `json:"automata" mapstructure:"automata"`
	Transitions []Transition      `json:"transitions" mapstructure:"transitions"`
	Initial     map[string]string `json:"initial" mapstructure:"initial"`
}

// Automaton declares an automaton and its ordered local states.
type Automaton struct {
	Name   string   `json:"name" mapstructure:"name"`
	States []string `json:"states" mapstructure:"states"`
}

// Transition moves Automaton from From to To when every When entry holds.
// Sync lists the other parts of a synchronised transition.
type Transition struct {
	Automaton string            `json:"automaton" mapstructure:"automaton"`
	From      string            `json:"from" mapstructure:"from"`
	To        string            `json:"to" mapstructure:"to"`
	When      map[string]string `json:"when" mapstructure:"when"`
	Sync      []Part            `json:"sync" mapstructure:"sync"`
}

// Part is one automaton move of a synchronised transition.
type Part struct {
	Automaton string `json:"automaton" mapstructure:"automaton"`
	From      string `json:"from" mapstructure:"from"`
	To        string `json:"to" mapstructure:"to"`
}
