package engine

import (
	"fmt"
	"io"
	"strings"
)

// SearchPosition describes the search at the moment a conflict is found.
type SearchPosition interface {
	Decisions() []Assignment
	Conflict() Constraint
	Name(v int) string
}

type Tracer interface {
	Trace(p SearchPosition)
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ SearchPosition) {
}

type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(p SearchPosition) {
	fmt.Fprintf(t.Writer, "---\nDecisions:\n")
	for _, d := range p.Decisions() {
		fmt.Fprintf(t.Writer, "- %s = %t (level %d)\n", p.Name(d.Variable), d.Value, d.Level)
	}
	c := p.Conflict()
	names := make([]string, len(c.Vars))
	for i, v := range c.Vars {
		names[i] = p.Name(v)
	}
	fmt.Fprintf(t.Writer, "Conflict:\n- %s %s %d\n", strings.Join(names, " + "), c.Relation, c.Bound)
}

type position struct {
	e        *Engine
	conflict Handle
}

func (p position) Decisions() []Assignment {
	ds := make([]Assignment, len(p.e.decisions))
	for i, d := range p.e.decisions {
		ds[i] = Assignment{Variable: d.variable, Value: d.value, Level: i + 1}
	}
	return ds
}

func (p position) Conflict() Constraint {
	return p.e.cons.Get(p.conflict)
}

func (p position) Name(v int) string {
	name, err := p.e.vars.Name(v)
	if err != nil {
		return fmt.Sprintf("v%d", v)
	}
	return name
}
