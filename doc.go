/*
Package anreach decides bounded reachability questions on asynchronous automata networks.

A network is a set of automata, each with a finite list of local states and guarded local transitions. Exactly one automaton moves per step. The question is whether a local state of one automaton (the goal) can be reached from an initial global context.

# Concept

anreach answers in two stages. It first builds the local causality graph of the goal, an over-approximation of the ways the goal can be produced. When that graph is acyclic it yields a completeness bound: the longest path that may be needed. The question is then encoded as a Boolean formula over that many steps and handed to a SAT solver. A satisfying model is a witness trace; an unsatisfiable formula proves the goal unreachable.

# Key Features

  - Models in the .an text format or as YAML documents.
  - In-process SAT solving (gini) or any external DIMACS solver.
  - An alternative answer set encoding run through clingo.
  - A k-induction check that a chosen length is a completeness bound.
  - Verdict caching in memory, on disk, in sqlite or in Redis.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/anreach"
	)

	func main() {
		eng, err := anreach.New("./models/handshake.an")
		if err != nil {
			log.Fatal(err)
		}

		report, err := eng.Reachability(context.Background(), anreach.Query{Goal: "a=2"})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(report.Message(eng.Network()))
	}

# Architecture

The project follows Hexagonal Architecture:

  - pkg/domain: networks, contexts, reports and traces.
  - pkg/ports: the Solver and VerdictStore interfaces.
  - pkg/adapters: solver backends and verdict stores.
  - internal/lcg: the local causality graph and its bound.
  - internal/encoding: the bounded Boolean encoder.
  - internal/analysis: the orchestration of graph, encoder and cache.
*/
package anreach
