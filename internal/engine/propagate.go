package engine

// Propagator derives the assignments forced by the posted constraints.
// It walks the trail from its head, so every assignment, decided or
// forced, is propagated exactly once.
type Propagator struct {
	vars  *VariableStore
	cons  *ConstraintStore
	stats *Collector
	head  int
}

func NewPropagator(vars *VariableStore, cons *ConstraintStore, stats *Collector) *Propagator {
	return &Propagator{vars: vars, cons: cons, stats: stats}
}

// Rewind moves the head back after the trail has been truncated.
func (p *Propagator) Rewind() {
	if n := len(p.vars.Trail()); p.head > n {
		p.head = n
	}
}

// Reset restarts propagation from the beginning of the trail.
func (p *Propagator) Reset() {
	p.head = 0
}

// PropagateAll evaluates every constraint once at the given level and
// then runs to a fixed point. It is used at the root, where constraints
// can force values without any assignment having triggered them.
func (p *Propagator) PropagateAll(level int) (Handle, bool) {
	for h := range p.cons.constraints {
		if p.revise(Handle(h), level) {
			return Handle(h), true
		}
	}
	return p.Propagate(level)
}

// Propagate runs to a fixed point from the current head. Forced
// assignments are made at level. When the assignment is inconsistent it
// returns the conflicting constraint and true.
func (p *Propagator) Propagate(level int) (Handle, bool) {
	for p.head < len(p.vars.Trail()) {
		v := p.vars.Trail()[p.head].Variable
		p.head++
		for _, h := range p.cons.Watching(v) {
			if p.revise(h, level) {
				return h, true
			}
		}
	}
	return 0, false
}

// revise applies the forcing rules of a single constraint. It reports
// true on conflict.
func (p *Propagator) revise(h Handle, level int) bool {
	c := &p.cons.constraints[h]
	var trues, falses int
	for _, v := range c.Vars {
		switch p.vars.values[v] {
		case True:
			trues++
		case False:
			falses++
		}
	}
	unassigned := len(c.Vars) - trues - falses

	switch c.Relation {
	case Equal:
		if trues > c.Bound || len(c.Vars)-falses < c.Bound {
			return true
		}
		if unassigned == 0 {
			return trues != c.Bound
		}
		if trues == c.Bound {
			p.force(c, false, level)
		} else if c.Bound-trues == unassigned {
			p.force(c, true, level)
		}
	case AtMost:
		if trues > c.Bound {
			return true
		}
		if trues == c.Bound && unassigned > 0 {
			p.force(c, false, level)
		}
	case AtLeast:
		if len(c.Vars)-falses < c.Bound {
			return true
		}
		if trues+unassigned == c.Bound && unassigned > 0 {
			p.force(c, true, level)
		}
	}
	return false
}

// force assigns value to every unassigned variable of c. Each forced
// assignment lands on the trail and is propagated in turn.
func (p *Propagator) force(c *Constraint, value bool, level int) {
	for _, v := range c.Vars {
		if p.vars.values[v] != Unassigned {
			continue
		}
		// v is known and unassigned, Assign cannot fail.
		_ = p.vars.Assign(v, value, level)
		p.stats.Propagate()
	}
}
