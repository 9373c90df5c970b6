package ndg_test

import (
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/geoprover/algebra"
	"github.com/njchilds90/geoprover/catalog"
	"github.com/njchilds90/geoprover/ndg"
	"github.com/njchilds90/geoprover/protocol"
)

func u(i int) *algebra.Polynomial { return algebra.Var(algebra.U(i)) }

type fixture struct {
	cp      *protocol.Protocol
	a, b, c *protocol.Point
	l, m    *catalog.Line
	x       *protocol.Point
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{cp: protocol.New("ndg")}
	f.a, f.b, f.c = catalog.FreePoint("A"), catalog.FreePoint("B"), catalog.FreePoint("C")
	f.l = catalog.LineThroughTwoPoints("L", f.a, f.b)
	f.m = catalog.PerpendicularLine("m", f.c, f.a, f.b)
	f.x = catalog.IntersectionPoint("X", f.l, f.m)
	for _, c := range []protocol.Construction{f.a, f.b, f.c, f.l, f.m, f.x} {
		require.NoError(t, f.cp.Add(c))
	}
	_, err := f.cp.Transform(protocol.NewContext(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return f
}

func TestClassify(t *testing.T) {
	f := newFixture(t)
	cl := ndg.NewClassifier(slog.New(slog.NewTextHandler(io.Discard, nil)))

	desc, ok := cl.Classify(u(1).Sub(u(3)), f.l)
	assert.True(t, ok)
	assert.Equal(t, "AB is vertical", desc)

	// equal up to a constant factor
	desc, ok = cl.Classify(u(3).Sub(u(1)).Scale(big.NewRat(3, 2)), f.l)
	assert.True(t, ok)
	assert.Equal(t, "AB is vertical", desc)

	_, ok = cl.Classify(u(1).Add(u(2)), f.l)
	assert.False(t, ok)

	_, ok = cl.Classify(u(1), f.a)
	assert.False(t, ok, "free points know no forms")

	_, ok = cl.Classify(algebra.Zero(), f.l)
	assert.False(t, ok)
}

func TestClassify_Intersection(t *testing.T) {
	f := newFixture(t)
	cl := ndg.NewClassifier(nil)
	dist := u(1).Sub(u(3)).Pow(2).Add(u(2).Sub(u(4)).Pow(2))

	desc, ok := cl.Classify(dist, f.x)
	assert.True(t, ok)
	assert.Equal(t, "L is parallel to m", desc)
}

func TestClassify_MissingCoordinates(t *testing.T) {
	cl := ndg.NewClassifier(nil)
	n := catalog.LineThroughTwoPoints("N", catalog.FreePoint("P"), catalog.FreePoint("Q"))
	_, ok := cl.Classify(u(1), n)
	assert.False(t, ok)
}

func TestClassifyAll(t *testing.T) {
	f := newFixture(t)
	cl := ndg.NewClassifier(slog.New(slog.NewTextHandler(io.Discard, nil)))

	dist := u(1).Sub(u(3)).Pow(2).Add(u(2).Sub(u(4)).Pow(2))
	other := u(1).Add(u(2))
	got := cl.ClassifyAll(f.cp, []*algebra.Polynomial{dist, other})
	require.Len(t, got, 2)

	assert.True(t, got[0].Classified)
	assert.Equal(t, "L", got[0].Label)
	assert.Equal(t, "A = B", got[0].Description)
	assert.Equal(t, "not (A = B)", got[0].String())

	assert.False(t, got[1].Classified)
	assert.Empty(t, got[1].Label)
	assert.Same(t, other, got[1].Polynomial)
	assert.Equal(t, "u2 + u1 != 0", got[1].String())
}

func TestInitials_PointOnLine(t *testing.T) {
	cp := protocol.New("initials")
	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	l := catalog.LineThroughTwoPoints("L", a, b)
	p := catalog.RandomPointOn("P", l)
	mid := catalog.Midpoint("M", a, b)
	for _, c := range []protocol.Construction{a, b, l, p, mid} {
		require.NoError(t, cp.Add(c))
	}
	sys, err := cp.Transform(protocol.NewContext(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	require.Len(t, sys.Hypotheses, 3)

	// the midpoint hypotheses have constant initials
	inits := ndg.Initials(sys)
	require.Len(t, inits, 1)
	assert.True(t, inits[0].Primitive().Equal(u(1).Sub(u(3)).Primitive()), "got %s", inits[0])

	conds := ndg.NewClassifier(slog.New(slog.NewTextHandler(io.Discard, nil))).ClassifyAll(cp, inits)
	require.Len(t, conds, 1)
	assert.True(t, conds[0].Classified)
	assert.Equal(t, "L", conds[0].Label)
	assert.Equal(t, "not (AB is vertical)", conds[0].String())
}
