package sat

import (
	"time"

	"github.com/operator-framework/rostersat/internal/engine"
)

var (
	// ErrInvalidVariable is returned when a Var was never created by the
	// Model it is used with.
	ErrInvalidVariable = engine.ErrInvalidVariable
	// ErrInvalidConstraint is returned by Post for a malformed
	// constraint. The Model is left unchanged.
	ErrInvalidConstraint = engine.ErrInvalidConstraint
	// ErrIncomplete is returned by Enumerate when its Context is done
	// before the search space is exhausted.
	ErrIncomplete = engine.ErrIncomplete
)

// Relation compares the number of true variables of a constraint with
// its bound.
type Relation = engine.Relation

const (
	Equal   = engine.Equal
	AtMost  = engine.AtMost
	AtLeast = engine.AtLeast
)

// ParseRelation parses "==" (or "="), "<=" and ">=".
func ParseRelation(s string) (Relation, error) {
	return engine.ParseRelation(s)
}

// Action tells Enumerate whether to keep searching after a solution.
type Action int

const (
	Continue Action = iota
	Stop
)

// SolutionFunc receives every solution found, in discovery order, with
// its 1-based ordinal.
type SolutionFunc func(s Solution, ordinal int) Action

// Unbounded disables the solution limit of Enumerate.
const Unbounded = 0

// Statistics describe a single call to Enumerate.
type Statistics struct {
	// BranchCount counts both alternatives of every decision explored.
	BranchCount      uint64
	ConflictCount    uint64
	PropagationCount uint64
	SolutionsFound   uint64
	ElapsedTime      time.Duration
}

func statisticsOf(s engine.Statistics) Statistics {
	return Statistics{
		BranchCount:      s.Branches,
		ConflictCount:    s.Conflicts,
		PropagationCount: s.Propagations,
		SolutionsFound:   s.Solutions,
		ElapsedTime:      s.Elapsed,
	}
}
