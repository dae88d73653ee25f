// Package cnf holds clause sets in conjunctive normal form, their DIMACS
// export and the result-file format written by external SAT solvers.
package cnf

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"
)

// Formula is a clause set. It implements inter.Adder so a circuit can be
// converted directly into it.
type Formula struct {
	clauses [][]z.Lit
	pending []z.Lit
	maxVar  z.Var
}

var _ inter.Adder = (*Formula)(nil)

// New returns an empty clause set.
func New() *Formula {
	return &Formula{}
}

// Add appends m to the current clause. z.LitNull terminates the clause.
func (f *Formula) Add(m z.Lit) {
	if m == z.LitNull {
		clause := make([]z.Lit, len(f.pending))
		copy(clause, f.pending)
		f.clauses = append(f.clauses, clause)
		f.pending = f.pending[:0]
		return
	}
	if v := m.Var(); v > f.maxVar {
		f.maxVar = v
	}
	f.pending = append(f.pending, m)
}

// AddClause appends a whole clause.
func (f *Formula) AddClause(ms ...z.Lit) {
	for _, m := range ms {
		f.Add(m)
	}
	f.Add(z.LitNull)
}

// NumVars returns the highest variable index used.
func (f *Formula) NumVars() int {
	return int(f.maxVar)
}

// NumClauses returns the number of terminated clauses.
func (f *Formula) NumClauses() int {
	return len(f.clauses)
}

// Clauses returns the clauses. The slice must not be modified.
func (f *Formula) Clauses() [][]z.Lit {
	return f.clauses
}

// AddTo replays every clause into dst.
func (f *Formula) AddTo(dst inter.Adder) {
	for _, clause := range f.clauses {
		for _, m := range clause {
			dst.Add(m)
		}
		dst.Add(z.LitNull)
	}
}

// WriteDimacs exports the clause set in DIMACS format.
func (f *Formula) WriteDimacs(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", f.NumVars(), f.NumClauses()); err != nil {
		return err
	}
	for _, clause := range f.clauses {
		for _, m := range clause {
			if _, err := fmt.Fprintf(bw, "%d ", m.Dimacs()); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
