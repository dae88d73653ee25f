/*
Package dsl provides a Go DSL for programmatically constructing automata networks.

It allows developers to define networks with a fluent builder instead of
writing .an or YAML model files. This is useful for generated models and
unit tests.

Example usage:

	net, err := dsl.New().
		Automaton("a", "0", "1", "2").
		Automaton("b", "0", "1").
		Move("a", "0", "1").
		Move("a", "1", "2").When("b", "1").
		Move("b", "0", "1").When("a", "0").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	// The network can be handed to anreach.New(...) with anreach.WithNetwork.
*/
package dsl
