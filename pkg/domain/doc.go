/*
Package domain contains the core domain models of the anreach analyser.

It defines the asynchronous automata network being analysed, the contexts
used as initial configurations and goals, and the verdicts produced by a
reachability query. This package is kept pure and free of external
dependencies like I/O, solvers or persistence.

# Key Entities

  - Network: named automata, each with ordered local states and guarded transitions.
  - Context: one local state per automaton, where an entry may be Unconstrained.
  - LocalState: an (automaton, state) pair, used as the goal of a query.
  - Trace: the sequence of global contexts witnessing a reachable goal.
  - Report: the outcome of a query (reachable, unreachable, cyclic graph...).
*/
package domain
