package protocol_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/geoprover/algebra"
	"github.com/njchilds90/geoprover/catalog"
	"github.com/njchilds90/geoprover/protocol"
)

type counting struct {
	scored, renamed, added int
	failures               []string
}

func (c *counting) CandidateScored(protocol.Kind)                { c.scored++ }
func (c *counting) PointRenamed(protocol.Kind)                   { c.renamed++ }
func (c *counting) PolynomialAdded(protocol.Kind)                { c.added++ }
func (c *counting) CompileFailed(_ protocol.Kind, reason string) { c.failures = append(c.failures, reason) }

func newContext(opts protocol.Options) (*protocol.Context, *counting) {
	obs := &counting{}
	ctx := protocol.NewContext(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx.Observer = obs
	ctx.Options = opts
	return ctx, obs
}

func mustAdd(t *testing.T, cp *protocol.Protocol, cs ...protocol.Construction) {
	t.Helper()
	for _, c := range cs {
		require.NoError(t, cp.Add(c), c.Label())
	}
}

func v(x algebra.Variable) *algebra.Polynomial { return algebra.Var(x) }

// fakeSet is a set whose candidates are fixed by the test.
type fakeSet struct {
	protocol.Base
	protocol.PointSet
	inputs []protocol.Construction
	cands  []protocol.Candidate
}

func newFakeSet(label string, cands []protocol.Candidate, inputs ...protocol.Construction) *fakeSet {
	return &fakeSet{Base: protocol.NewBase(label), inputs: inputs, cands: cands}
}

func (s *fakeSet) Kind() protocol.Kind                             { return protocol.KindLineThroughTwoPoints }
func (s *fakeSet) Inputs() []protocol.Construction                 { return s.inputs }
func (s *fakeSet) Describe() string                                { return s.Label() }
func (s *fakeSet) Condition() protocol.Candidate                   { return s.cands[0] }
func (s *fakeSet) Candidates(*protocol.Point) []protocol.Candidate { return s.cands }

// ============================================================
// Registration
// ============================================================

func TestValidate(t *testing.T) {
	cp := protocol.New("t")
	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	mustAdd(t, cp, a)

	l := catalog.LineThroughTwoPoints("L", a, b)
	assert.ErrorIs(t, cp.Validate(l), protocol.ErrUnregisteredInput)
	assert.False(t, cp.IsValidConstructionStep(l))
	assert.ErrorIs(t, cp.Add(l), protocol.ErrUnregisteredInput)
	assert.Equal(t, 1, cp.Len())
	assert.Equal(t, -1, l.Index())

	assert.ErrorIs(t, cp.Validate(nil), protocol.ErrNilConstruction)
	assert.ErrorIs(t, cp.Validate(catalog.FreePoint("")), protocol.ErrEmptyLabel)
	assert.ErrorIs(t, cp.Validate(catalog.FreePoint("A")), protocol.ErrDuplicateLabel)
	assert.ErrorIs(t, cp.Add(a), protocol.ErrAlreadyRegistered)

	mustAdd(t, cp, b, l)
	assert.Equal(t, 2, l.Index())
	got, ok := cp.Lookup("L")
	require.True(t, ok)
	assert.Same(t, l, got)

	other := protocol.New("other")
	assert.ErrorIs(t, other.Validate(l), protocol.ErrForeignConstruction)
}

func TestValidate_InputOutOfOrder(t *testing.T) {
	cp := protocol.New("t")
	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	mustAdd(t, cp, a)
	s := newFakeSet("S", nil, a)
	mustAdd(t, cp, s, b)

	s.inputs = []protocol.Construction{b}
	assert.ErrorIs(t, cp.Validate(s), protocol.ErrInputOutOfOrder)
}

func TestSetStatement_RequiresRegisteredInputs(t *testing.T) {
	cp := protocol.New("t")
	a, b, c := catalog.FreePoint("A"), catalog.FreePoint("B"), catalog.FreePoint("C")
	mustAdd(t, cp, a, b)
	assert.ErrorIs(t, cp.SetStatement(catalog.Collinear(a, b, c)), protocol.ErrUnregisteredInput)
	assert.Nil(t, cp.Statement())
	assert.ErrorIs(t, cp.SetStatement(nil), protocol.ErrNilConstruction)
}

// ============================================================
// Compilation
// ============================================================

func TestTransform_PointOnLine(t *testing.T) {
	cp := protocol.New("t")
	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	l := catalog.LineThroughTwoPoints("L", a, b)
	p := catalog.RandomPointOn("P", l)
	mustAdd(t, cp, a, b, l, p)

	ctx, obs := newContext(protocol.Options{})
	sys, err := cp.Transform(ctx)
	require.NoError(t, err)

	want, err := algebra.Instantiate(catalog.CollinearTemplate(), algebra.Binding{algebra.SlotM: p, algebra.SlotA: a, algebra.SlotB: b})
	require.NoError(t, err)
	require.Len(t, sys.Hypotheses, 1)
	assert.Equal(t, "P", sys.Hypotheses[0].Label)
	assert.True(t, sys.Hypotheses[0].Polynomial.Equal(want), "got %s want %s", sys.Hypotheses[0].Polynomial, want)

	assert.Equal(t, "(u1, u2)", a.CoordinateString())
	assert.Equal(t, "(u5, x1)", p.CoordinateString())
	assert.Equal(t, protocol.Instantiated, p.State())
	assert.Equal(t, 5, sys.FreeCount)
	assert.Equal(t, 1, sys.DependentCount)
	assert.True(t, l.Contains(p))
	assert.Equal(t, 0, obs.renamed)
	assert.Equal(t, 1, obs.added)
}

func TestTransform_VerticalBisectorRenamesOnce(t *testing.T) {
	cp := protocol.New("t")
	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	m := catalog.PerpendicularBisector("m", a, b)
	p := catalog.RandomPointOn("P", m)
	mustAdd(t, cp, a, b, m, p)

	ctx, obs := newContext(protocol.Options{FixBasePoints: true})
	sys, err := cp.Transform(ctx)
	require.NoError(t, err)

	assert.Equal(t, "(0, 0)", a.CoordinateString())
	assert.Equal(t, "(u1, 0)", b.CoordinateString())
	assert.Equal(t, 1, obs.renamed)
	assert.Equal(t, protocol.Reinstantiated, p.State())
	assert.Equal(t, "(x1, u2)", p.CoordinateString())

	want := algebra.Int(2).Mul(v(algebra.X(1))).Sub(v(algebra.U(1)))
	require.Len(t, sys.Hypotheses, 1)
	assert.True(t, sys.Hypotheses[0].Polynomial.Equal(want), "got %s", sys.Hypotheses[0].Polynomial)
}

func TestTransform_SecondDegeneracyFails(t *testing.T) {
	cp := protocol.New("t")
	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	mustAdd(t, cp, a, b)
	// xA - xB never mentions the point being placed.
	tpl := algebra.MustTemplate("offset", v(algebra.SX(algebra.SlotA)).Sub(v(algebra.SX(algebra.SlotB))))
	s := newFakeSet("S", []protocol.Candidate{{Template: tpl, Binding: algebra.Binding{algebra.SlotA: a, algebra.SlotB: b}}}, a, b)
	p := catalog.RandomPointOn("P", s)
	mustAdd(t, cp, s, p)

	ctx, obs := newContext(protocol.Options{})
	_, err := cp.Transform(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, protocol.ErrDegenerate)

	var ce *protocol.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "P", ce.Label)
	assert.Equal(t, "degenerate", ce.Reason)
	assert.Equal(t, 1, obs.renamed)
	assert.Equal(t, []string{"degenerate"}, obs.failures)

	assert.Equal(t, 4, cp.FreeCount())
	assert.Equal(t, 0, cp.DependentCount())
	assert.Empty(t, cp.Hypotheses())
	assert.Equal(t, protocol.Uninitialized, p.State())
	assert.False(t, p.Compiled())
	assert.False(t, s.Contains(p))
	_, _, ok := p.Coordinates()
	assert.False(t, ok)
}

func TestTransform_AxisPointIsZeroed(t *testing.T) {
	cp := protocol.New("t")
	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	l := catalog.LineThroughTwoPoints("L", a, b)
	p := catalog.RandomPointOn("P", l)
	mustAdd(t, cp, a, b, l, p)

	ctx, _ := newContext(protocol.Options{FixBasePoints: true})
	sys, err := cp.Transform(ctx)
	require.NoError(t, err)

	assert.Empty(t, sys.Hypotheses)
	assert.Equal(t, "(u2, 0)", p.CoordinateString())
	assert.Equal(t, 1, sys.DependentCount)
	assert.Empty(t, p.Dependent())
}

func TestTransform_ChoosesMinimalCandidate(t *testing.T) {
	cp := protocol.New("t")
	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	l := catalog.LineThroughTwoPoints("L", a, b)
	p := catalog.RandomPointOn("P", l)
	q := catalog.RandomPointOn("Q", l)
	mustAdd(t, cp, a, b, l, p, q)

	ctx, _ := newContext(protocol.Options{})
	sys, err := cp.Transform(ctx)
	require.NoError(t, err)
	require.Len(t, sys.Hypotheses, 2)
	committed := sys.Hypotheses[1].Polynomial

	cands := l.Candidates(q)
	require.Greater(t, len(cands), 2)
	for _, c := range cands {
		got, err := algebra.Instantiate(c.Template, c.Binding.With(algebra.SlotM, q))
		require.NoError(t, err)
		got = got.ReduceByFreeTermDivision()
		if got.IsZero() {
			continue
		}
		smaller := got.Degree() < committed.Degree() ||
			(got.Degree() == committed.Degree() && got.Len() < committed.Len())
		assert.False(t, smaller, "%s %s beats %s", c.Template.Name(), c.Binding, committed)
	}
}

func TestTransform_MaxCandidates(t *testing.T) {
	build := func() *protocol.Protocol {
		cp := protocol.New("t")
		a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
		l := catalog.LineThroughTwoPoints("L", a, b)
		mustAdd(t, cp, a, b, l, catalog.RandomPointOn("P", l), catalog.RandomPointOn("Q", l))
		return cp
	}

	ctx, all := newContext(protocol.Options{})
	_, err := build().Transform(ctx)
	require.NoError(t, err)

	ctx, capped := newContext(protocol.Options{MaxCandidates: 1})
	_, err = build().Transform(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, capped.scored)
	assert.Greater(t, all.scored, capped.scored)
}

func TestTransform_Intersection(t *testing.T) {
	cp := protocol.New("t")
	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	c, d := catalog.FreePoint("C"), catalog.FreePoint("D")
	l1 := catalog.LineThroughTwoPoints("L1", a, b)
	l2 := catalog.LineThroughTwoPoints("L2", c, d)
	x := catalog.IntersectionPoint("X", l1, l2)
	mustAdd(t, cp, a, b, c, d, l1, l2, x)

	ctx, _ := newContext(protocol.Options{})
	sys, err := cp.Transform(ctx)
	require.NoError(t, err)

	assert.Len(t, sys.Hypotheses, 2)
	assert.Equal(t, "(x1, x2)", x.CoordinateString())
	assert.Equal(t, protocol.Instantiated, x.State())
	assert.True(t, l1.Contains(x))
	assert.True(t, l2.Contains(x))
}

func TestTransform_Midpoint(t *testing.T) {
	cp := protocol.New("t")
	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	m := catalog.Midpoint("M", a, b)
	mustAdd(t, cp, a, b, m)

	ctx, _ := newContext(protocol.Options{FixBasePoints: true})
	sys, err := cp.Transform(ctx)
	require.NoError(t, err)

	require.Len(t, sys.Hypotheses, 1)
	want := algebra.Int(2).Mul(v(algebra.X(1))).Sub(v(algebra.U(1)))
	assert.True(t, sys.Hypotheses[0].Polynomial.Equal(want), "got %s", sys.Hypotheses[0].Polynomial)
	assert.Equal(t, "(x1, 0)", m.CoordinateString())
}

func TestTransform_NoUsableCandidate(t *testing.T) {
	cp := protocol.New("t")
	a := catalog.FreePoint("A")
	m := catalog.PerpendicularBisector("m", a, a)
	p := catalog.RandomPointOn("P", m)
	mustAdd(t, cp, a, m, p)

	ctx, obs := newContext(protocol.Options{})
	_, err := cp.Transform(ctx)
	assert.ErrorIs(t, err, protocol.ErrBadPolynomial)
	assert.Equal(t, []string{"bad polynomial"}, obs.failures)
	assert.Equal(t, 2, cp.FreeCount())
}

func TestTransform_InstantiationError(t *testing.T) {
	cp := protocol.New("t")
	a := catalog.FreePoint("A")
	mustAdd(t, cp, a)
	s := newFakeSet("S", []protocol.Candidate{{Template: catalog.CollinearTemplate(), Binding: algebra.Binding{algebra.SlotA: a}}}, a)
	p := catalog.RandomPointOn("P", s)
	mustAdd(t, cp, s, p)

	ctx, _ := newContext(protocol.Options{})
	_, err := cp.Transform(ctx)
	assert.ErrorIs(t, err, algebra.ErrUnboundSlot)
	var ce *protocol.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "instantiation", ce.Reason)
}

func TestTransform_OutputFailureRollsBack(t *testing.T) {
	cp := protocol.New("t")
	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	l := catalog.LineThroughTwoPoints("L", a, b)
	p := catalog.RandomPointOn("P", l)
	mustAdd(t, cp, a, b, l, p)

	ctx, _ := newContext(protocol.Options{})
	var written []string
	ctx.Sink = protocol.SinkFunc(func(s protocol.Step) error {
		if s.Label == "P" {
			return errors.New("disk full")
		}
		written = append(written, s.Label)
		return nil
	})
	_, err := cp.Transform(ctx)
	require.ErrorIs(t, err, protocol.ErrOutput)
	assert.Equal(t, []string{"A", "B"}, written)
	assert.Empty(t, cp.Hypotheses())
	assert.Equal(t, 4, cp.FreeCount())
	assert.Equal(t, 0, cp.DependentCount())
	assert.False(t, l.Contains(p))
	assert.Equal(t, protocol.Uninitialized, p.State())

	ctx.Sink = nil
	sys, err := cp.Transform(ctx)
	require.NoError(t, err)
	assert.Len(t, sys.Hypotheses, 1)
	assert.Equal(t, "(u5, x1)", p.CoordinateString())
}

func TestTransform_Goal(t *testing.T) {
	cp := protocol.New("t")
	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	l := catalog.LineThroughTwoPoints("L", a, b)
	p := catalog.RandomPointOn("P", l)
	mustAdd(t, cp, a, b, l, p)
	require.NoError(t, cp.SetStatement(catalog.Collinear(p, a, b)))

	var steps []protocol.Step
	ctx, _ := newContext(protocol.Options{})
	ctx.Sink = protocol.SinkFunc(func(s protocol.Step) error {
		steps = append(steps, s)
		return nil
	})
	sys, err := cp.Transform(ctx)
	require.NoError(t, err)

	require.NotNil(t, sys.Goal)
	assert.Equal(t, "collinear(P, A, B)", sys.Statement)
	assert.True(t, sys.Goal.Equal(sys.Hypotheses[0].Polynomial))
	require.NotEmpty(t, steps)
	last := steps[len(steps)-1]
	assert.Equal(t, protocol.ActionGoal, last.Action)
	assert.Equal(t, "collinear", last.Template)
}

func TestTransform_GoalIsReduced(t *testing.T) {
	cp := protocol.New("t")
	a, b, c := catalog.FreePoint("A"), catalog.FreePoint("B"), catalog.FreePoint("C")
	m := catalog.Midpoint("M", a, c)
	mustAdd(t, cp, a, b, c, m)
	require.NoError(t, cp.SetStatement(catalog.Collinear(m, a, b)))

	ctx, _ := newContext(protocol.Options{FixBasePoints: true})
	sys, err := cp.Transform(ctx)
	require.NoError(t, err)

	// u1*x2 before the free factor u1 is divided out
	assert.Equal(t, "(x1, x2)", m.CoordinateString())
	require.NotNil(t, sys.Goal)
	assert.Equal(t, 1, sys.Goal.Len())
	assert.True(t, sys.Goal.IsMultipleOf(algebra.X(2)), "got %s", sys.Goal)
}
