package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConstraint is returned when a constraint is malformed at
// post time.
var ErrInvalidConstraint = errors.New("invalid constraint")

// Relation compares the number of true variables of a constraint with
// its bound.
type Relation int

const (
	Equal Relation = iota
	AtMost
	AtLeast
)

func (r Relation) String() string {
	switch r {
	case Equal:
		return "=="
	case AtMost:
		return "<="
	case AtLeast:
		return ">="
	}
	return fmt.Sprintf("Relation(%d)", int(r))
}

// ParseRelation accepts the operator spellings used by String, plus "=".
func ParseRelation(s string) (Relation, error) {
	switch s {
	case "==", "=":
		return Equal, nil
	case "<=":
		return AtMost, nil
	case ">=":
		return AtLeast, nil
	}
	return 0, fmt.Errorf("unknown relation %q", s)
}

// Handle identifies a posted constraint.
type Handle int

// Constraint is a cardinality constraint: the count of true variables in
// Vars must satisfy Relation against Bound.
type Constraint struct {
	Vars     []int
	Relation Relation
	Bound    int
}

// Holds reports whether the constraint is satisfied by a total
// assignment.
func (c Constraint) Holds(values []bool) bool {
	n := 0
	for _, v := range c.Vars {
		if values[v] {
			n++
		}
	}
	switch c.Relation {
	case AtMost:
		return n <= c.Bound
	case AtLeast:
		return n >= c.Bound
	}
	return n == c.Bound
}

func (c Constraint) String() string {
	s := make([]string, len(c.Vars))
	for i, v := range c.Vars {
		s[i] = fmt.Sprintf("v%d", v)
	}
	return fmt.Sprintf("%s %s %d", strings.Join(s, " + "), c.Relation, c.Bound)
}

// ConstraintStore owns the posted constraints and the index from each
// variable to the constraints watching it.
type ConstraintStore struct {
	vars        *VariableStore
	constraints []Constraint
	watches     [][]Handle
}

func NewConstraintStore(vars *VariableStore) *ConstraintStore {
	return &ConstraintStore{vars: vars}
}

// Post validates and stores a constraint. On error the store is left
// unchanged.
func (s *ConstraintStore) Post(vars []int, rel Relation, bound int) (Handle, error) {
	if len(vars) == 0 {
		return 0, fmt.Errorf("%w: empty scope", ErrInvalidConstraint)
	}
	switch rel {
	case Equal, AtMost, AtLeast:
	default:
		return 0, fmt.Errorf("%w: unknown relation %s", ErrInvalidConstraint, rel)
	}
	seen := make(map[int]struct{}, len(vars))
	for _, v := range vars {
		if !s.vars.Known(v) {
			return 0, fmt.Errorf("%w: %w: %d", ErrInvalidConstraint, ErrInvalidVariable, v)
		}
		if _, ok := seen[v]; ok {
			return 0, fmt.Errorf("%w: variable %d appears more than once", ErrInvalidConstraint, v)
		}
		seen[v] = struct{}{}
	}
	if bound < 0 || bound > len(vars) {
		return 0, fmt.Errorf("%w: bound %d out of range [0, %d]", ErrInvalidConstraint, bound, len(vars))
	}

	h := Handle(len(s.constraints))
	s.constraints = append(s.constraints, Constraint{
		Vars:     append([]int(nil), vars...),
		Relation: rel,
		Bound:    bound,
	})
	for _, v := range vars {
		for v >= len(s.watches) {
			s.watches = append(s.watches, nil)
		}
		s.watches[v] = append(s.watches[v], h)
	}
	return h, nil
}

// Watching returns, in insertion order, the constraints referencing v.
func (s *ConstraintStore) Watching(v int) []Handle {
	if v < 0 || v >= len(s.watches) {
		return nil
	}
	return s.watches[v]
}

func (s *ConstraintStore) Get(h Handle) Constraint {
	return s.constraints[h]
}

func (s *ConstraintStore) Len() int {
	return len(s.constraints)
}

// Each calls fn for every constraint in insertion order.
func (s *ConstraintStore) Each(fn func(Handle, Constraint)) {
	for i, c := range s.constraints {
		fn(Handle(i), c)
	}
}
