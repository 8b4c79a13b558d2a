// Package crosscheck verifies results of the search engine against an
// independent SAT encoding of the same model, solved by gini.
package crosscheck

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/operator-framework/rostersat/pkg/sat"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// litMapping translates the variables and cardinality constraints of a
// sat.Model into a logic circuit. Every constraint becomes one or two
// root literals over a cardinality sorter of its scope.
type litMapping struct {
	c     *logic.C
	lits  []z.Lit
	roots []z.Lit
}

func newLitMapping(m *sat.Model) (*litMapping, error) {
	d := litMapping{
		c:    logic.NewC(),
		lits: make([]z.Lit, m.NumVariables()),
	}
	for i := range d.lits {
		d.lits[i] = d.c.Lit()
	}
	for i, constraint := range m.Constraints() {
		if err := d.apply(constraint); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
	}
	return &d, nil
}

func (d *litMapping) apply(constraint sat.Constraint) error {
	ms := make([]z.Lit, len(constraint.Vars))
	for i, v := range constraint.Vars {
		ms[i] = d.lits[v.Index()]
	}
	n, k := len(ms), constraint.Bound
	cs := d.c.CardSort(ms)

	// Leq is only asked for bounds in [0, n), the others are trivially
	// true; at least k is the negation of at most k-1.
	atMost := func(k int) {
		if k < n {
			d.roots = append(d.roots, cs.Leq(k))
		}
	}
	atLeast := func(k int) {
		if k > 0 {
			d.roots = append(d.roots, cs.Leq(k-1).Not())
		}
	}
	switch constraint.Relation {
	case sat.Equal:
		atMost(k)
		atLeast(k)
	case sat.AtMost:
		atMost(k)
	case sat.AtLeast:
		atLeast(k)
	default:
		return fmt.Errorf("unsupported relation %s", constraint.Relation)
	}
	return nil
}

// addConstraints teaches the circuit and every root as a unit clause to g.
func (d *litMapping) addConstraints(g inter.Adder) {
	d.c.ToCnf(g)
	for _, m := range d.roots {
		g.Add(m)
		g.Add(z.LitNull)
	}
}

// block adds a clause excluding the current model of g over the input
// variables.
func (d *litMapping) block(g inter.S) {
	for _, m := range d.lits {
		if g.Value(m) {
			g.Add(m.Not())
		} else {
			g.Add(m)
		}
	}
	g.Add(z.LitNull)
}

// Count returns the number of distinct total assignments satisfying m,
// stopping at limit when limit > 0.
func Count(m *sat.Model, limit int) (int, error) {
	d, err := newLitMapping(m)
	if err != nil {
		return 0, err
	}
	g := gini.New()
	d.addConstraints(g)

	count := 0
	for limit <= 0 || count < limit {
		switch g.Solve() {
		case satisfiable:
			count++
			if len(d.lits) == 0 {
				// the empty assignment is the only one
				return count, nil
			}
			d.block(g)
		case unsatisfiable:
			return count, nil
		default:
			return count, fmt.Errorf("solver did not complete after %d models", count)
		}
	}
	return count, nil
}

// Feasible reports whether m has at least one solution.
func Feasible(m *sat.Model) (bool, error) {
	n, err := Count(m, 1)
	return n == 1, err
}

// Verify checks that the engine found exactly the number of solutions
// gini finds, up to limit.
func Verify(m *sat.Model, found uint64, limit int) error {
	want, err := Count(m, limit)
	if err != nil {
		return err
	}
	if uint64(want) != found {
		return fmt.Errorf("engine found %d solutions, gini found %d", found, want)
	}
	return nil
}
