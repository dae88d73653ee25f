package cnf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-air/gini/z"
)

// Result markers written as the first token of a solver result file.
const (
	MarkerSat   = "SAT"
	MarkerUnsat = "UNSAT"
)

// ErrMalformedResult is returned when a result file does not follow the
// SAT/UNSAT protocol.
var ErrMalformedResult = errors.New("malformed solver result")

// Assignment maps variables to truth values. Variables never assigned are
// false.
type Assignment struct {
	values []bool
}

// NewAssignment returns an empty assignment sized for n variables.
func NewAssignment(n int) *Assignment {
	return &Assignment{values: make([]bool, n+1)}
}

// Set assigns m true, which makes its variable false when m is negative.
func (a *Assignment) Set(m z.Lit) {
	v := int(m.Var())
	if v >= len(a.values) {
		grown := make([]bool, v+1)
		copy(grown, a.values)
		a.values = grown
	}
	a.values[v] = m.IsPos()
}

// Value returns the truth value of literal m.
func (a *Assignment) Value(m z.Lit) bool {
	v := int(m.Var())
	val := false
	if a != nil && v < len(a.values) {
		val = a.values[v]
	}
	if m.IsPos() {
		return val
	}
	return !val
}

// Result is the answer of a solver on a clause set.
type Result struct {
	Satisfiable bool
	// Model is nil when the formula is unsatisfiable.
	Model *Assignment
}

// ReadResult parses a solver result file: a SAT or UNSAT marker, followed
// for SAT by signed 1-based literals terminated by 0.
func ReadResult(r io.Reader) (Result, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: empty result", ErrMalformedResult)
	}
	switch marker := sc.Text(); marker {
	case MarkerUnsat:
		return Result{}, nil
	case MarkerSat:
	default:
		return Result{}, fmt.Errorf("%w: unexpected marker %q", ErrMalformedResult, marker)
	}

	model := NewAssignment(0)
	for sc.Scan() {
		n, err := strconv.Atoi(sc.Text())
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrMalformedResult, err)
		}
		if n == 0 {
			break
		}
		model.Set(z.Dimacs2Lit(n))
	}
	if err := sc.Err(); err != nil {
		return Result{}, err
	}
	return Result{Satisfiable: true, Model: model}, nil
}

// WriteResult writes r in the result-file format for a formula of n
// variables.
func WriteResult(w io.Writer, r Result, n int) error {
	if !r.Satisfiable {
		_, err := fmt.Fprintln(w, MarkerUnsat)
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, MarkerSat)
	for v := 1; v <= n; v++ {
		m := z.Var(v).Pos()
		if !r.Model.Value(m) {
			m = m.Not()
		}
		fmt.Fprintf(bw, "%d ", m.Dimacs())
	}
	fmt.Fprintln(bw, "0")
	return bw.Flush()
}
