package engine

import "time"

// Statistics are the counters of a single run.
type Statistics struct {
	Branches     uint64
	Conflicts    uint64
	Propagations uint64
	Solutions    uint64
	Elapsed      time.Duration
}

// Collector accumulates Statistics for a run. The clock starts at Start
// and Elapsed is frozen by Stop.
type Collector struct {
	stats   Statistics
	started time.Time
	running bool
	now     func() time.Time
}

func NewCollector() *Collector {
	return &Collector{now: time.Now}
}

func (c *Collector) Start() {
	c.stats = Statistics{}
	c.started = c.now()
	c.running = true
}

func (c *Collector) Stop() {
	c.stats.Elapsed = c.now().Sub(c.started)
	c.running = false
}

func (c *Collector) Branch()    { c.stats.Branches++ }
func (c *Collector) Conflict()  { c.stats.Conflicts++ }
func (c *Collector) Propagate() { c.stats.Propagations++ }
func (c *Collector) Solution()  { c.stats.Solutions++ }

// Snapshot returns a copy of the counters. While the run is in progress
// Elapsed is the time since Start.
func (c *Collector) Snapshot() Statistics {
	s := c.stats
	if c.running {
		s.Elapsed = c.now().Sub(c.started)
	}
	return s
}
