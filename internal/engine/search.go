package engine

import (
	"context"
	"errors"
	"fmt"
)

// ErrIncomplete is returned when a run is cancelled before the search
// space is exhausted.
var ErrIncomplete = errors.New("cancelled before the search space was exhausted")

// State is a state of the search state machine.
type State int

const (
	Branching State = iota
	Propagating
	Backtracking
	Solved
	Exhausted
)

func (s State) String() string {
	switch s {
	case Branching:
		return "Branching"
	case Propagating:
		return "Propagating"
	case Backtracking:
		return "Backtracking"
	case Solved:
		return "Solved"
	case Exhausted:
		return "Exhausted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// SolutionFunc is called in the Solved state with a snapshot of the
// total assignment. Returning false stops the search.
type SolutionFunc func(values []bool) bool

type decision struct {
	variable int
	value    bool
}

// Engine performs depth-first binary branching with chronological
// backtracking. Decision level i (1-based) is decisions[i-1]; level 0
// holds the assignments forced before any decision. Both alternatives
// of a decision count as a branch.
type Engine struct {
	vars      *VariableStore
	cons      *ConstraintStore
	prop      *Propagator
	stats     *Collector
	tracer    Tracer
	decisions []decision
	buffer    []bool
}

func NewEngine(vars *VariableStore, cons *ConstraintStore, tracer Tracer) *Engine {
	if tracer == nil {
		tracer = DefaultTracer{}
	}
	stats := NewCollector()
	return &Engine{
		vars:   vars,
		cons:   cons,
		stats:  stats,
		prop:   NewPropagator(vars, cons, stats),
		tracer: tracer,
	}
}

// Statistics returns the counters of the current or last run.
func (e *Engine) Statistics() Statistics {
	return e.stats.Snapshot()
}

func (e *Engine) level() int {
	return len(e.decisions)
}

// Run searches from an empty assignment until the space is exhausted or
// onSolved returns false. The context is checked each time the engine
// enters Branching; propagation always runs to its fixed point.
func (e *Engine) Run(ctx context.Context, onSolved SolutionFunc) error {
	e.stats.Start()
	defer e.stats.Stop()

	e.vars.UnassignTo(0)
	e.prop.Reset()
	e.decisions = e.decisions[:0]

	state := Propagating
	root := true
	for {
		switch state {
		case Propagating:
			var conflict Handle
			var failed bool
			if root {
				conflict, failed = e.prop.PropagateAll(e.level())
				root = false
			} else {
				conflict, failed = e.prop.Propagate(e.level())
			}
			switch {
			case failed:
				e.stats.Conflict()
				e.tracer.Trace(position{e: e, conflict: conflict})
				state = Backtracking
			case e.vars.Complete():
				state = Solved
			default:
				state = Branching
			}

		case Branching:
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: %w", ErrIncomplete, err)
			}
			e.stats.Branch()
			v, ok := e.vars.FirstUnassigned()
			if !ok {
				state = Solved
				continue
			}
			e.decisions = append(e.decisions, decision{variable: v, value: true})
			// v is unassigned, Assign cannot fail.
			_ = e.vars.Assign(v, true, e.level())
			state = Propagating

		case Solved:
			e.stats.Solution()
			e.buffer = e.vars.Snapshot(e.buffer)
			if !onSolved(e.buffer) {
				return nil
			}
			state = Backtracking

		case Backtracking:
			i := len(e.decisions) - 1
			for i >= 0 && !e.decisions[i].value {
				i--
			}
			if i < 0 {
				state = Exhausted
				continue
			}
			level := i + 1
			e.vars.UnassignTo(level)
			e.prop.Rewind()
			e.decisions = e.decisions[:level]
			e.decisions[i].value = false
			e.stats.Branch()
			_ = e.vars.Assign(e.decisions[i].variable, false, level)
			state = Propagating

		case Exhausted:
			return nil
		}
	}
}
