/*
Package ports defines the driven ports (interfaces) of the anreach analyser.

These interfaces decouple the analysis from its backends, allowing the same
query to run on an in-process SAT solver or an external binary, and its
verdicts to be cached in memory, on disk, in sqlite or in Redis.

# Key Interfaces

  - Solver: decides a clause set, returning a model when satisfiable.
  - VerdictStore: persists query reports keyed by a digest of the query.
*/
package ports
