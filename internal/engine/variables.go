package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidVariable is returned for any reference to a variable that
// was never created.
var ErrInvalidVariable = errors.New("invalid variable")

// Value is the current truth value of a variable.
type Value int8

const (
	Unassigned Value = iota
	True
	False
)

func ValueOf(b bool) Value {
	if b {
		return True
	}
	return False
}

func (v Value) String() string {
	switch v {
	case True:
		return "true"
	case False:
		return "false"
	}
	return "unassigned"
}

// Assignment is a single entry of the trail.
type Assignment struct {
	Variable int
	Value    bool
	Level    int
}

// VariableStore owns the boolean variables of a model and the trail of
// their assignments. Levels on the trail never decrease, so reverting to
// a decision level is a truncation.
type VariableStore struct {
	names  []string
	values []Value
	trail  []Assignment
}

func NewVariableStore() *VariableStore {
	return &VariableStore{}
}

// Create returns a fresh unassigned variable.
func (s *VariableStore) Create(name string) int {
	s.names = append(s.names, name)
	s.values = append(s.values, Unassigned)
	return len(s.values) - 1
}

func (s *VariableStore) Len() int {
	return len(s.values)
}

func (s *VariableStore) Known(id int) bool {
	return id >= 0 && id < len(s.values)
}

func (s *VariableStore) Name(id int) (string, error) {
	if !s.Known(id) {
		return "", fmt.Errorf("%w: %d", ErrInvalidVariable, id)
	}
	if s.names[id] == "" {
		return fmt.Sprintf("v%d", id), nil
	}
	return s.names[id], nil
}

// Value returns the current value of id, Unassigned for unknown ids.
func (s *VariableStore) Value(id int) Value {
	if !s.Known(id) {
		return Unassigned
	}
	return s.values[id]
}

// Assign sets id to value at the given decision level and records it on
// the trail.
func (s *VariableStore) Assign(id int, value bool, level int) error {
	if !s.Known(id) {
		return fmt.Errorf("%w: %d", ErrInvalidVariable, id)
	}
	if s.values[id] != Unassigned {
		return fmt.Errorf("%w: %d is already assigned %s", ErrInvalidVariable, id, s.values[id])
	}
	s.values[id] = ValueOf(value)
	s.trail = append(s.trail, Assignment{Variable: id, Value: value, Level: level})
	return nil
}

// UnassignTo reverts every assignment made at or above level.
func (s *VariableStore) UnassignTo(level int) {
	i := len(s.trail)
	for i > 0 && s.trail[i-1].Level >= level {
		i--
		s.values[s.trail[i].Variable] = Unassigned
	}
	s.trail = s.trail[:i]
}

// Trail returns the assignments made so far in chronological order. The
// returned slice is only valid until the next mutation.
func (s *VariableStore) Trail() []Assignment {
	return s.trail
}

// Complete reports whether every variable is assigned.
func (s *VariableStore) Complete() bool {
	return len(s.trail) == len(s.values)
}

// FirstUnassigned returns the lowest-indexed unassigned variable.
func (s *VariableStore) FirstUnassigned() (int, bool) {
	for id, v := range s.values {
		if v == Unassigned {
			return id, true
		}
	}
	return 0, false
}

// Snapshot copies the current assignment. Unassigned variables read as
// false.
func (s *VariableStore) Snapshot(dst []bool) []bool {
	if cap(dst) < len(s.values) {
		dst = make([]bool, len(s.values))
	}
	dst = dst[:len(s.values)]
	for id, v := range s.values {
		dst[id] = v == True
	}
	return dst
}
