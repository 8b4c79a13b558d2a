package roster

import (
	"fmt"
	"io"
	"time"

	"github.com/operator-framework/rostersat/pkg/sat"
)

// Printer writes the solutions selected by Config.ShowSolutions and the
// closing statistics block.
type Printer struct {
	w      io.Writer
	roster *Roster
	show   map[int]struct{}
	err    error
}

func NewPrinter(w io.Writer, r *Roster) *Printer {
	show := make(map[int]struct{}, len(r.cfg.ShowSolutions))
	for _, n := range r.cfg.ShowSolutions {
		show[n] = struct{}{}
	}
	return &Printer{w: w, roster: r, show: show}
}

func (p *Printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Solution prints sol if its ordinal was selected.
func (p *Printer) Solution(sol sat.Solution) error {
	if _, ok := p.show[sol.Ordinal()]; !ok {
		return nil
	}
	cfg := p.roster.cfg
	p.printf("Solution %d\n", sol.Ordinal())
	for d := 0; d < cfg.Days; d++ {
		p.printf("Day %d\n", d)
		for n := 0; n < cfg.Employees; n++ {
			working := false
			for s := 0; s < cfg.Shifts; s++ {
				v, err := sol.ValueOf(p.roster.Shift(n, d, s))
				if err != nil {
					return err
				}
				if v {
					working = true
					p.printf("  employee %d works shift %d\n", n, s)
				}
			}
			if !working {
				p.printf("  employee %d does not work\n", n)
			}
		}
	}
	p.printf("\n")
	return p.err
}

// Statistics prints the summary of a finished enumeration.
func (p *Printer) Statistics(stats sat.Statistics) error {
	p.printf("\nStatistics\n")
	p.printf("  - conflicts       : %d\n", stats.ConflictCount)
	p.printf("  - branches        : %d\n", stats.BranchCount)
	p.printf("  - wall time       : %f ms\n", float64(stats.ElapsedTime)/float64(time.Millisecond))
	p.printf("  - solutions found : %d\n", stats.SolutionsFound)
	return p.err
}
