package sat_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/operator-framework/rostersat/pkg/sat"
)

var _ = Describe("Model", func() {
	var m *sat.Model

	BeforeEach(func() {
		m = sat.NewModel()
	})

	It("should create variables in index order", func() {
		a := m.NewBoolVar("a")
		b := m.NewBoolVar("")
		Expect(a.Index()).To(Equal(0))
		Expect(b.Index()).To(Equal(1))
		Expect(a.Name()).To(Equal("a"))
		Expect(b.String()).To(Equal("v1"))
		Expect(m.NumVariables()).To(Equal(2))
		Expect(m.Variables()).To(Equal([]sat.Var{a, b}))
	})

	It("should post and return constraints", func() {
		a, b, c := m.NewBoolVar("a"), m.NewBoolVar("b"), m.NewBoolVar("c")
		h, err := m.AddExactlyOne(a, b)
		Expect(err).ToNot(HaveOccurred())
		_, err = m.AddAtLeast(2, a, b, c)
		Expect(err).ToNot(HaveOccurred())

		constraint, err := m.Constraint(h)
		Expect(err).ToNot(HaveOccurred())
		Expect(constraint.String()).To(Equal("a + b == 1"))
		Expect(m.NumConstraints()).To(Equal(2))
		Expect(m.Constraints()[1].String()).To(Equal("a + b + c >= 2"))

		_, err = m.Constraint(sat.ConstraintHandle(5))
		Expect(err).To(MatchError(sat.ErrInvalidConstraint))
	})

	DescribeTable("should reject malformed constraints and leave the model unchanged",
		func(build func(m *sat.Model) error) {
			m.NewBoolVar("a")
			m.NewBoolVar("b")
			Expect(build(m)).To(MatchError(sat.ErrInvalidConstraint))
			Expect(m.NumConstraints()).To(BeZero())
		},
		Entry("empty scope", func(m *sat.Model) error {
			_, err := m.Post(nil, sat.Equal, 0)
			return err
		}),
		Entry("bound above scope", func(m *sat.Model) error {
			_, err := m.AddExactly(3, m.Variables()...)
			return err
		}),
		Entry("negative bound", func(m *sat.Model) error {
			_, err := m.AddAtMost(-1, m.Variables()...)
			return err
		}),
		Entry("duplicate variable", func(m *sat.Model) error {
			a := m.Variables()[0]
			_, err := m.AddAtMostOne(a, a)
			return err
		}),
		Entry("zero variable", func(m *sat.Model) error {
			_, err := m.AddExactlyOne(sat.Var{})
			return err
		}),
	)

	It("should reject variables of another model", func() {
		other := sat.NewModel().NewBoolVar("x")
		a := m.NewBoolVar("a")
		_, err := m.AddExactlyOne(a, other)
		Expect(err).To(MatchError(sat.ErrInvalidConstraint))
		Expect(err).To(MatchError(sat.ErrInvalidVariable))
		Expect(m.NumConstraints()).To(BeZero())
	})

	It("should check total assignments", func() {
		a, b := m.NewBoolVar("a"), m.NewBoolVar("b")
		_, err := m.AddExactlyOne(a, b)
		Expect(err).ToNot(HaveOccurred())

		Expect(m.Satisfies([]bool{true, false})).To(Succeed())
		Expect(m.Satisfies([]bool{true, true})).To(MatchError(ContainSubstring("a + b == 1")))
		Expect(m.Satisfies([]bool{true})).ToNot(Succeed())
	})

	It("should parse relations", func() {
		r, err := sat.ParseRelation("<=")
		Expect(err).ToNot(HaveOccurred())
		Expect(r).To(Equal(sat.AtMost))
		_, err = sat.ParseRelation("!=")
		Expect(err).To(HaveOccurred())
	})
})
