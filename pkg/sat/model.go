package sat

import (
	"fmt"
	"strings"

	"github.com/operator-framework/rostersat/internal/engine"
)

// Var is a boolean decision variable of a Model. The zero Var belongs to
// no model and is rejected everywhere.
type Var struct {
	index int
	model *Model
}

// Index returns the position of the variable in creation order.
func (v Var) Index() int {
	return v.index
}

// Name returns the name given at creation, or "v<index>".
func (v Var) Name() string {
	if v.model == nil {
		return "<invalid>"
	}
	name, err := v.model.vars.Name(v.index)
	if err != nil {
		return "<invalid>"
	}
	return name
}

func (v Var) String() string {
	return v.Name()
}

// ConstraintHandle identifies a posted constraint within its Model.
type ConstraintHandle int

// Constraint is a cardinality constraint over variables of one Model.
type Constraint struct {
	Vars     []Var
	Relation Relation
	Bound    int
}

func (c Constraint) String() string {
	s := make([]string, len(c.Vars))
	for i, v := range c.Vars {
		s[i] = v.Name()
	}
	return fmt.Sprintf("%s %s %d", strings.Join(s, " + "), c.Relation, c.Bound)
}

// Model owns the variables and constraints of a problem. A Model is not
// safe for concurrent use, and must not be enumerated by two callers at
// once.
type Model struct {
	vars *engine.VariableStore
	cons *engine.ConstraintStore
}

func NewModel() *Model {
	vars := engine.NewVariableStore()
	return &Model{
		vars: vars,
		cons: engine.NewConstraintStore(vars),
	}
}

// NewBoolVar creates a fresh unassigned boolean variable.
func (m *Model) NewBoolVar(name string) Var {
	return Var{index: m.vars.Create(name), model: m}
}

func (m *Model) NumVariables() int {
	return m.vars.Len()
}

func (m *Model) NumConstraints() int {
	return m.cons.Len()
}

// Variables returns every variable in creation order.
func (m *Model) Variables() []Var {
	vs := make([]Var, m.vars.Len())
	for i := range vs {
		vs[i] = Var{index: i, model: m}
	}
	return vs
}

func (m *Model) check(v Var) error {
	if v.model != m || !m.vars.Known(v.index) {
		return fmt.Errorf("%w: %s does not belong to this model", ErrInvalidVariable, v)
	}
	return nil
}

// Post adds the constraint "number of true vars <rel> bound". The scope
// must be non-empty, free of duplicates and made of variables of m, and
// bound must lie in [0, len(vars)].
func (m *Model) Post(vars []Var, rel Relation, bound int) (ConstraintHandle, error) {
	ids := make([]int, len(vars))
	for i, v := range vars {
		if err := m.check(v); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidConstraint, err)
		}
		ids[i] = v.index
	}
	h, err := m.cons.Post(ids, rel, bound)
	if err != nil {
		return 0, err
	}
	return ConstraintHandle(h), nil
}

// AddExactly requires exactly k of vars to be true.
func (m *Model) AddExactly(k int, vars ...Var) (ConstraintHandle, error) {
	return m.Post(vars, Equal, k)
}

// AddAtMost requires at most k of vars to be true.
func (m *Model) AddAtMost(k int, vars ...Var) (ConstraintHandle, error) {
	return m.Post(vars, AtMost, k)
}

// AddAtLeast requires at least k of vars to be true.
func (m *Model) AddAtLeast(k int, vars ...Var) (ConstraintHandle, error) {
	return m.Post(vars, AtLeast, k)
}

func (m *Model) AddExactlyOne(vars ...Var) (ConstraintHandle, error) {
	return m.AddExactly(1, vars...)
}

func (m *Model) AddAtMostOne(vars ...Var) (ConstraintHandle, error) {
	return m.AddAtMost(1, vars...)
}

func (m *Model) constraintOf(c engine.Constraint) Constraint {
	vs := make([]Var, len(c.Vars))
	for i, id := range c.Vars {
		vs[i] = Var{index: id, model: m}
	}
	return Constraint{Vars: vs, Relation: c.Relation, Bound: c.Bound}
}

// Constraint returns the constraint posted under h.
func (m *Model) Constraint(h ConstraintHandle) (Constraint, error) {
	if h < 0 || int(h) >= m.cons.Len() {
		return Constraint{}, fmt.Errorf("%w: unknown handle %d", ErrInvalidConstraint, h)
	}
	return m.constraintOf(m.cons.Get(engine.Handle(h))), nil
}

// Constraints returns every constraint in posting order.
func (m *Model) Constraints() []Constraint {
	cs := make([]Constraint, 0, m.cons.Len())
	m.cons.Each(func(_ engine.Handle, c engine.Constraint) {
		cs = append(cs, m.constraintOf(c))
	})
	return cs
}

// Satisfies checks a total assignment, indexed like Variables, against
// every constraint and reports the first one violated.
func (m *Model) Satisfies(values []bool) error {
	if len(values) != m.vars.Len() {
		return fmt.Errorf("assignment has %d values, model has %d variables", len(values), m.vars.Len())
	}
	var violated error
	m.cons.Each(func(h engine.Handle, c engine.Constraint) {
		if violated == nil && !c.Holds(values) {
			violated = fmt.Errorf("constraint %d violated: %s", h, m.constraintOf(c))
		}
	})
	return violated
}
