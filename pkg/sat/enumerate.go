package sat

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/operator-framework/rostersat/internal/engine"
)

type enumerator struct {
	tracer    Tracer
	logger    *logrus.Entry
	observers []func(Statistics)
	runID     string
}

type Option func(e *enumerator) error

// WithTracer reports every conflict met during the search to t.
func WithTracer(t Tracer) Option {
	return func(e *enumerator) error {
		e.tracer = t
		return nil
	}
}

// WithLogger sets the logger used for the debug messages of a run.
func WithLogger(l *logrus.Entry) Option {
	return func(e *enumerator) error {
		if l == nil {
			return errors.New("nil logger")
		}
		e.logger = l
		return nil
	}
}

// WithObserver calls fn with the final Statistics of the run, whether it
// completed or was cancelled.
func WithObserver(fn func(Statistics)) Option {
	return func(e *enumerator) error {
		e.observers = append(e.observers, fn)
		return nil
	}
}

// WithRunID tags the log entries of the run with id instead of a random
// UUID.
func WithRunID(id string) Option {
	return func(e *enumerator) error {
		e.runID = id
		return nil
	}
}

var defaults = []Option{
	func(e *enumerator) error {
		if e.tracer == nil {
			e.tracer = DefaultTracer{}
		}
		return nil
	},
	func(e *enumerator) error {
		if e.logger == nil {
			e.logger = logrus.NewEntry(logrus.New())
		}
		return nil
	},
	func(e *enumerator) error {
		if e.runID == "" {
			e.runID = uuid.NewString()
		}
		return nil
	},
}

// Enumerate searches m depth first and calls onSolution once per
// distinct solution, in discovery order, until the search space is
// exhausted, onSolution returns Stop, or maxSolutions solutions have been
// reported (Unbounded for no limit). An infeasible model yields zero
// solutions and no error; the only errors are option errors and
// ErrIncomplete when ctx is done first.
func Enumerate(ctx context.Context, m *Model, onSolution SolutionFunc, maxSolutions int, options ...Option) (Statistics, error) {
	e := enumerator{}
	for _, option := range append(options, defaults...) {
		if err := option(&e); err != nil {
			return Statistics{}, err
		}
	}
	log := e.logger.WithFields(logrus.Fields{
		"run":         e.runID,
		"variables":   m.NumVariables(),
		"constraints": m.NumConstraints(),
	})
	if maxSolutions > 0 {
		log = log.WithField("limit", maxSolutions)
	}
	log.Debug("enumerating solutions")

	search := engine.NewEngine(m.vars, m.cons, e.tracer)
	// leave the model unassigned whatever the outcome
	defer m.vars.UnassignTo(0)

	ordinal := 0
	err := search.Run(ctx, func(values []bool) bool {
		ordinal++
		s := Solution{
			model:   m,
			ordinal: ordinal,
			values:  append([]bool(nil), values...),
			stats:   statisticsOf(search.Statistics()),
		}
		if onSolution(s, ordinal) == Stop {
			log.WithField("solutions", ordinal).Debug("stopped by caller")
			return false
		}
		if maxSolutions > 0 && ordinal >= maxSolutions {
			log.WithField("solutions", ordinal).Debug("solution limit reached")
			return false
		}
		return true
	})

	stats := statisticsOf(search.Statistics())
	for _, observe := range e.observers {
		observe(stats)
	}
	log = log.WithFields(logrus.Fields{
		"solutions": stats.SolutionsFound,
		"branches":  stats.BranchCount,
		"conflicts": stats.ConflictCount,
		"elapsed":   stats.ElapsedTime,
	})
	if err != nil {
		log.WithError(err).Debug("enumeration incomplete")
		return stats, err
	}
	if stats.SolutionsFound == 0 {
		log.Debug("model is infeasible")
	} else {
		log.Debug("enumeration finished")
	}
	return stats, nil
}
