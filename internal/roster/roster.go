// Package roster builds the shift scheduling model: every shift of every
// day is staffed by exactly one employee, nobody works twice on a day and
// the shifts are spread evenly over the employees.
package roster

import (
	"fmt"

	"github.com/operator-framework/rostersat/pkg/sat"
)

type Roster struct {
	cfg    Config
	model  *sat.Model
	shifts []sat.Var
}

// ShiftName is the variable name for employee n working shift s on day d.
func ShiftName(n, d, s int) string {
	return fmt.Sprintf("shift_n%dd%ds%d", n, d, s)
}

// Build creates one variable per (employee, day, shift), in that nesting
// order, and posts the rostering constraints over them.
func Build(cfg Config) (*Roster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Roster{
		cfg:    cfg,
		model:  sat.NewModel(),
		shifts: make([]sat.Var, 0, cfg.Employees*cfg.Days*cfg.Shifts),
	}
	for n := 0; n < cfg.Employees; n++ {
		for d := 0; d < cfg.Days; d++ {
			for s := 0; s < cfg.Shifts; s++ {
				r.shifts = append(r.shifts, r.model.NewBoolVar(ShiftName(n, d, s)))
			}
		}
	}

	// each shift is assigned to exactly one employee
	for d := 0; d < cfg.Days; d++ {
		for s := 0; s < cfg.Shifts; s++ {
			vs := make([]sat.Var, cfg.Employees)
			for n := range vs {
				vs[n] = r.Shift(n, d, s)
			}
			if _, err := r.model.AddExactlyOne(vs...); err != nil {
				return nil, fmt.Errorf("day %d shift %d: %w", d, s, err)
			}
		}
	}

	// each employee works at most one shift per day
	for n := 0; n < cfg.Employees; n++ {
		for d := 0; d < cfg.Days; d++ {
			vs := make([]sat.Var, cfg.Shifts)
			for s := range vs {
				vs[s] = r.Shift(n, d, s)
			}
			if _, err := r.model.AddAtMostOne(vs...); err != nil {
				return nil, fmt.Errorf("employee %d day %d: %w", n, d, err)
			}
		}
	}

	// if the employees don't divide the total number of shifts, some of
	// them work one shift more than the others
	least, most := r.Bounds()
	for n := 0; n < cfg.Employees; n++ {
		vs := make([]sat.Var, 0, cfg.Days*cfg.Shifts)
		for d := 0; d < cfg.Days; d++ {
			for s := 0; s < cfg.Shifts; s++ {
				vs = append(vs, r.Shift(n, d, s))
			}
		}
		if _, err := r.model.AddAtLeast(least, vs...); err != nil {
			return nil, fmt.Errorf("employee %d: %w", n, err)
		}
		if _, err := r.model.AddAtMost(most, vs...); err != nil {
			return nil, fmt.Errorf("employee %d: %w", n, err)
		}
	}
	return r, nil
}

// Bounds returns the fewest and most shifts a single employee works.
func (r *Roster) Bounds() (int, int) {
	total := r.cfg.Shifts * r.cfg.Days
	least := total / r.cfg.Employees
	return least, min(least+1, total)
}

func (r *Roster) Config() Config {
	return r.cfg
}

func (r *Roster) Model() *sat.Model {
	return r.model
}

// Shift returns the variable for employee n working shift s on day d.
func (r *Roster) Shift(n, d, s int) sat.Var {
	return r.shifts[(n*r.cfg.Days+d)*r.cfg.Shifts+s]
}

// Assignment is one staffed shift of a solution.
type Assignment struct {
	Employee int
	Day      int
	Shift    int
}

// Assignments lists the staffed shifts of sol ordered by day, then
// employee.
func (r *Roster) Assignments(sol sat.Solution) ([]Assignment, error) {
	var out []Assignment
	for d := 0; d < r.cfg.Days; d++ {
		for n := 0; n < r.cfg.Employees; n++ {
			for s := 0; s < r.cfg.Shifts; s++ {
				working, err := sol.ValueOf(r.Shift(n, d, s))
				if err != nil {
					return nil, err
				}
				if working {
					out = append(out, Assignment{Employee: n, Day: d, Shift: s})
				}
			}
		}
	}
	return out, nil
}
