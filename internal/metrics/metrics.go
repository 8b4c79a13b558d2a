package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/operator-framework/rostersat/pkg/sat"
)

// Recorder exports the Statistics of every enumeration it observes.
type Recorder struct {
	registry     *prometheus.Registry
	runs         prometheus.Counter
	branches     prometheus.Counter
	conflicts    prometheus.Counter
	propagations prometheus.Counter
	solutions    prometheus.Counter
	duration     prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rostersat_enumerations_total",
			Help: "Number of enumerations run",
		}),
		branches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rostersat_branches_total",
			Help: "Number of search branches explored",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rostersat_conflicts_total",
			Help: "Number of conflicts met during search",
		}),
		propagations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rostersat_propagations_total",
			Help: "Number of assignments forced by propagation",
		}),
		solutions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rostersat_solutions_total",
			Help: "Number of solutions reported",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rostersat_enumeration_duration_seconds",
			Help:    "Wall time of an enumeration",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	r.registry.MustRegister(r.runs, r.branches, r.conflicts, r.propagations, r.solutions, r.duration)
	return r
}

// Observe can be passed to sat.WithObserver.
func (r *Recorder) Observe(s sat.Statistics) {
	r.runs.Inc()
	r.branches.Add(float64(s.BranchCount))
	r.conflicts.Add(float64(s.ConflictCount))
	r.propagations.Add(float64(s.PropagationCount))
	r.solutions.Add(float64(s.SolutionsFound))
	r.duration.Observe(s.ElapsedTime.Seconds())
}

// Gatherer exposes the registry, e.g. for an HTTP handler.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteFile writes the current metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
