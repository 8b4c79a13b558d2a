package sat

import "fmt"

// Solution is a read-only snapshot of a total assignment. It stays valid
// after the callback that received it returns.
type Solution struct {
	model   *Model
	ordinal int
	values  []bool
	stats   Statistics
}

// Ordinal returns the 1-based position of the solution in discovery
// order.
func (s Solution) Ordinal() int {
	return s.ordinal
}

// ValueOf returns the value of v. Variables of another model, or created
// after the enumeration started, fail with ErrInvalidVariable.
func (s Solution) ValueOf(v Var) (bool, error) {
	if v.model != s.model || v.index < 0 || v.index >= len(s.values) {
		return false, fmt.Errorf("%w: %s is not part of this solution", ErrInvalidVariable, v)
	}
	return s.values[v.index], nil
}

// Values returns a copy of the assignment indexed by Var.Index.
func (s Solution) Values() []bool {
	return append([]bool(nil), s.values...)
}

// Selected returns the variables set to true, in index order.
func (s Solution) Selected() []Var {
	var vs []Var
	for i, b := range s.values {
		if b {
			vs = append(vs, Var{index: i, model: s.model})
		}
	}
	return vs
}

// Statistics returns the counters as they were when the solution was
// found.
func (s Solution) Statistics() Statistics {
	return s.stats
}
