package sat_test

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/operator-framework/rostersat/pkg/sat"
)

func collect(m *sat.Model, limit int, options ...sat.Option) ([][]bool, sat.Statistics) {
	var solutions [][]bool
	stats, err := sat.Enumerate(context.Background(), m, func(s sat.Solution, ordinal int) sat.Action {
		Expect(s.Ordinal()).To(Equal(ordinal))
		Expect(m.Satisfies(s.Values())).To(Succeed())
		solutions = append(solutions, s.Values())
		return sat.Continue
	}, limit, options...)
	Expect(err).ToNot(HaveOccurred())
	return solutions, stats
}

// roster builds employees x shifts x days variables with one employee
// per shift and at most one shift per employee and day.
func roster(employees, shifts, days int) (*sat.Model, map[[3]int]sat.Var) {
	m := sat.NewModel()
	vars := map[[3]int]sat.Var{}
	for n := 0; n < employees; n++ {
		for d := 0; d < days; d++ {
			for s := 0; s < shifts; s++ {
				vars[[3]int{n, d, s}] = m.NewBoolVar(fmt.Sprintf("shift_n%dd%ds%d", n, d, s))
			}
		}
	}
	for d := 0; d < days; d++ {
		for s := 0; s < shifts; s++ {
			var scope []sat.Var
			for n := 0; n < employees; n++ {
				scope = append(scope, vars[[3]int{n, d, s}])
			}
			_, err := m.AddExactlyOne(scope...)
			Expect(err).ToNot(HaveOccurred())
		}
	}
	for n := 0; n < employees; n++ {
		for d := 0; d < days; d++ {
			var scope []sat.Var
			for s := 0; s < shifts; s++ {
				scope = append(scope, vars[[3]int{n, d, s}])
			}
			_, err := m.AddAtMostOne(scope...)
			Expect(err).ToNot(HaveOccurred())
		}
	}
	return m, vars
}

var _ = Describe("Enumerate", func() {
	It("should find both solutions of v1 + v2 == 1 in branching order", func() {
		m := sat.NewModel()
		_, err := m.AddExactlyOne(m.NewBoolVar("v1"), m.NewBoolVar("v2"))
		Expect(err).ToNot(HaveOccurred())

		solutions, stats := collect(m, sat.Unbounded)
		Expect(solutions).To(Equal([][]bool{{true, false}, {false, true}}))
		Expect(stats.SolutionsFound).To(Equal(uint64(2)))
	})

	It("should report an infeasible model as zero solutions", func() {
		m := sat.NewModel()
		v1, v2 := m.NewBoolVar("v1"), m.NewBoolVar("v2")
		_, err := m.AddExactly(1, v1, v2)
		Expect(err).ToNot(HaveOccurred())
		_, err = m.AddExactly(2, v1, v2)
		Expect(err).ToNot(HaveOccurred())

		solutions, stats := collect(m, sat.Unbounded)
		Expect(solutions).To(BeEmpty())
		Expect(stats.SolutionsFound).To(BeZero())
		Expect(stats.ConflictCount).To(BeNumerically(">", 0))
	})

	It("should solve two employees, two shifts and one day", func() {
		m, vars := roster(2, 2, 1)
		// fairness: each employee works exactly one of the two shifts
		for n := 0; n < 2; n++ {
			_, err := m.AddAtLeast(1, vars[[3]int{n, 0, 0}], vars[[3]int{n, 0, 1}])
			Expect(err).ToNot(HaveOccurred())
		}

		var schedules [][2]int
		stats, err := sat.Enumerate(context.Background(), m, func(s sat.Solution, _ int) sat.Action {
			var schedule [2]int
			for n := 0; n < 2; n++ {
				for sh := 0; sh < 2; sh++ {
					on, err := s.ValueOf(vars[[3]int{n, 0, sh}])
					Expect(err).ToNot(HaveOccurred())
					if on {
						schedule[n] = sh
					}
				}
			}
			schedules = append(schedules, schedule)
			return sat.Continue
		}, sat.Unbounded)
		Expect(err).ToNot(HaveOccurred())
		Expect(schedules).To(Equal([][2]int{{0, 1}, {1, 0}}))
		Expect(stats.SolutionsFound).To(Equal(uint64(2)))
		Expect(stats.BranchCount).To(BeNumerically(">=", stats.SolutionsFound))
	})

	It("should satisfy every exactly-k constraint", func() {
		m := sat.NewModel()
		var vs []sat.Var
		for i := 0; i < 6; i++ {
			vs = append(vs, m.NewBoolVar(""))
		}
		_, err := m.AddExactly(3, vs...)
		Expect(err).ToNot(HaveOccurred())

		solutions, _ := collect(m, sat.Unbounded)
		Expect(solutions).To(HaveLen(20))
		for _, values := range solutions {
			n := 0
			for _, b := range values {
				if b {
					n++
				}
			}
			Expect(n).To(Equal(3))
		}
	})

	DescribeTable("should call back min(limit, total) times",
		func(limit, expected int) {
			m, _ := roster(3, 2, 1)
			var calls int
			stats, err := sat.Enumerate(context.Background(), m, func(sat.Solution, int) sat.Action {
				calls++
				return sat.Continue
			}, limit)
			Expect(err).ToNot(HaveOccurred())
			Expect(calls).To(Equal(expected))
			Expect(stats.SolutionsFound).To(Equal(uint64(expected)))
		},
		// 3 employees on 2 shifts of one day: 3 * 2 ordered pairs
		Entry("unbounded", sat.Unbounded, 6),
		Entry("below total", 4, 4),
		Entry("exactly total", 6, 6),
		Entry("above total", 100, 6),
		Entry("one", 1, 1),
	)

	It("should stop when the callback asks to", func() {
		m, _ := roster(3, 2, 1)
		var calls int
		stats, err := sat.Enumerate(context.Background(), m, func(_ sat.Solution, ordinal int) sat.Action {
			calls++
			if ordinal == 2 {
				return sat.Stop
			}
			return sat.Continue
		}, sat.Unbounded)
		Expect(err).ToNot(HaveOccurred())
		Expect(calls).To(Equal(2))
		Expect(stats.SolutionsFound).To(Equal(uint64(2)))
	})

	It("should reproduce the same sequence on a second run", func() {
		m, _ := roster(3, 3, 2)
		first, firstStats := collect(m, sat.Unbounded)
		second, secondStats := collect(m, sat.Unbounded)
		Expect(first).ToNot(BeEmpty())
		if diff := cmp.Diff(first, second); diff != "" {
			Fail(fmt.Sprintf("second run differs (-first +second):\n%s", diff))
		}
		Expect(secondStats.BranchCount).To(Equal(firstStats.BranchCount))
		Expect(secondStats.ConflictCount).To(Equal(firstStats.ConflictCount))

		limited, _ := collect(m, 3)
		if diff := cmp.Diff(first[:3], limited); diff != "" {
			Fail(fmt.Sprintf("limited run differs (-first +limited):\n%s", diff))
		}
	})

	It("should expose non-decreasing statistics on every solution", func() {
		m, _ := roster(3, 2, 2)
		var last sat.Statistics
		final, err := sat.Enumerate(context.Background(), m, func(s sat.Solution, _ int) sat.Action {
			current := s.Statistics()
			Expect(current.BranchCount).To(BeNumerically(">=", last.BranchCount))
			Expect(current.ConflictCount).To(BeNumerically(">=", last.ConflictCount))
			Expect(current.SolutionsFound).To(Equal(last.SolutionsFound + 1))
			last = current
			return sat.Continue
		}, sat.Unbounded)
		Expect(err).ToNot(HaveOccurred())
		Expect(final.BranchCount).To(BeNumerically(">=", last.BranchCount))
		Expect(final.SolutionsFound).To(Equal(last.SolutionsFound))
	})

	It("should keep solutions valid after the callback returns", func() {
		m := sat.NewModel()
		a, b := m.NewBoolVar("a"), m.NewBoolVar("b")
		_, err := m.AddExactlyOne(a, b)
		Expect(err).ToNot(HaveOccurred())

		var kept []sat.Solution
		_, err = sat.Enumerate(context.Background(), m, func(s sat.Solution, _ int) sat.Action {
			kept = append(kept, s)
			return sat.Continue
		}, sat.Unbounded)
		Expect(err).ToNot(HaveOccurred())
		Expect(kept).To(HaveLen(2))
		Expect(kept[0].Selected()).To(Equal([]sat.Var{a}))
		Expect(kept[1].Selected()).To(Equal([]sat.Var{b}))
	})

	It("should reject variables of another model in a solution", func() {
		m := sat.NewModel()
		m.NewBoolVar("a")
		other := sat.NewModel().NewBoolVar("a")
		_, err := sat.Enumerate(context.Background(), m, func(s sat.Solution, _ int) sat.Action {
			_, err := s.ValueOf(other)
			Expect(err).To(MatchError(sat.ErrInvalidVariable))
			_, err = s.ValueOf(sat.Var{})
			Expect(err).To(MatchError(sat.ErrInvalidVariable))
			return sat.Stop
		}, sat.Unbounded)
		Expect(err).ToNot(HaveOccurred())
	})

	It("should return ErrIncomplete when the context is cancelled", func() {
		m, _ := roster(3, 2, 1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		stats, err := sat.Enumerate(ctx, m, func(sat.Solution, int) sat.Action {
			return sat.Continue
		}, sat.Unbounded)
		Expect(err).To(MatchError(sat.ErrIncomplete))
		Expect(err).To(MatchError(context.Canceled))
		Expect(stats.SolutionsFound).To(BeZero())
	})

	It("should trace conflicts, log and notify observers", func() {
		m := sat.NewModel()
		v1, v2 := m.NewBoolVar("v1"), m.NewBoolVar("v2")
		_, err := m.AddExactly(1, v1, v2)
		Expect(err).ToNot(HaveOccurred())
		_, err = m.AddExactly(2, v1, v2)
		Expect(err).ToNot(HaveOccurred())

		var trace, logs bytes.Buffer
		logger := logrus.New()
		logger.SetOutput(&logs)
		logger.SetLevel(logrus.DebugLevel)
		var observed []sat.Statistics

		_, stats := collect(m, sat.Unbounded,
			sat.WithTracer(sat.LoggingTracer{Writer: &trace}),
			sat.WithLogger(logrus.NewEntry(logger)),
			sat.WithRunID("run-1"),
			sat.WithObserver(func(s sat.Statistics) { observed = append(observed, s) }),
		)
		Expect(trace.String()).To(ContainSubstring("Conflict:\n- v1 + v2 == 1"))
		Expect(logs.String()).To(ContainSubstring("run=run-1"))
		Expect(logs.String()).To(ContainSubstring("model is infeasible"))
		Expect(observed).To(Equal([]sat.Statistics{stats}))
	})

	It("should reject a nil logger", func() {
		_, err := sat.Enumerate(context.Background(), sat.NewModel(), func(sat.Solution, int) sat.Action {
			return sat.Continue
		}, sat.Unbounded, sat.WithLogger(nil))
		Expect(err).To(HaveOccurred())
	})
})
