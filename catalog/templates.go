package catalog

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/njchilds90/geoprover/algebra"
)

// ErrInvalidParameter is returned for kind-specific parameters that cannot
// define a construction.
var ErrInvalidParameter = errors.New("catalog: invalid construction parameter")

const (
	sM = algebra.SlotM
	sA = algebra.SlotA
	sB = algebra.SlotB
	sC = algebra.SlotC
	sD = algebra.SlotD
	sE = algebra.SlotE
	sH = algebra.SlotH
)

func x(s algebra.Slot) *algebra.Polynomial { return algebra.Var(algebra.SX(s)) }
func y(s algebra.Slot) *algebra.Polynomial { return algebra.Var(algebra.SY(s)) }
func n(v int64) *algebra.Polynomial        { return algebra.Int(v) }

// sq is the squared distance between two slots.
func sq(a, b algebra.Slot) *algebra.Polynomial {
	dx := x(a).Sub(x(b))
	dy := y(a).Sub(y(b))
	return dx.Mul(dx).Add(dy.Mul(dy))
}

// cross is (a1 - a0) x (b1 - b0).
func cross(a0, a1, b0, b1 algebra.Slot) *algebra.Polynomial {
	return x(a1).Sub(x(a0)).Mul(y(b1).Sub(y(b0))).Sub(y(a1).Sub(y(a0)).Mul(x(b1).Sub(x(b0))))
}

// dot is (a1 - a0) . (b1 - b0).
func dot(a0, a1, b0, b1 algebra.Slot) *algebra.Polynomial {
	return x(a1).Sub(x(a0)).Mul(x(b1).Sub(x(b0))).Add(y(a1).Sub(y(a0)).Mul(y(b1).Sub(y(b0))))
}

func det(name string, rows [][]*algebra.Polynomial) *algebra.Template {
	m, err := algebra.MatrixFromRows(rows...)
	if err != nil {
		panic(err)
	}
	d, err := m.Det()
	if err != nil {
		panic(err)
	}
	return algebra.MustTemplate(name, d)
}

// ============================================================
// Membership templates
// ============================================================

// CollinearTemplate: M, A, B on one line.
var CollinearTemplate = sync.OnceValue(func() *algebra.Template {
	return det("collinear", [][]*algebra.Polynomial{
		{x(sM), y(sM), n(1)},
		{x(sA), y(sA), n(1)},
		{x(sB), y(sB), n(1)},
	})
})

// ParallelTemplate: MA parallel to BC.
var ParallelTemplate = sync.OnceValue(func() *algebra.Template {
	return algebra.MustTemplate("parallel", cross(sA, sM, sB, sC))
})

// PerpendicularTemplate: MA perpendicular to BC.
var PerpendicularTemplate = sync.OnceValue(func() *algebra.Template {
	return algebra.MustTemplate("perpendicular", dot(sA, sM, sB, sC))
})

// EqualDistanceTemplate: |MA| = |BC|.
var EqualDistanceTemplate = sync.OnceValue(func() *algebra.Template {
	return algebra.MustTemplate("equal-distance", sq(sM, sA).Sub(sq(sB, sC)))
})

// BisectorTemplate: |MA| = |MB|, expanded so M enters linearly.
var BisectorTemplate = sync.OnceValue(func() *algebra.Template {
	return algebra.MustTemplate("perpendicular-bisector", sq(sM, sA).Sub(sq(sM, sB)))
})

// ConcyclicTemplate: M, A, B, C on one circle.
var ConcyclicTemplate = sync.OnceValue(func() *algebra.Template {
	row := func(s algebra.Slot) []*algebra.Polynomial {
		return []*algebra.Polynomial{x(s).Pow(2).Add(y(s).Pow(2)), x(s), y(s), n(1)}
	}
	return det("concyclic", [][]*algebra.Polynomial{row(sM), row(sA), row(sB), row(sC)})
})

// ConicTemplate: M on the conic through A, B, C, D, E.
var ConicTemplate = sync.OnceValue(func() *algebra.Template {
	row := func(s algebra.Slot) []*algebra.Polynomial {
		return []*algebra.Polynomial{x(s).Pow(2), x(s).Mul(y(s)), y(s).Pow(2), x(s), y(s), n(1)}
	}
	return det("conic", [][]*algebra.Polynomial{row(sM), row(sA), row(sB), row(sC), row(sD), row(sE)})
})

// Forms used by degenerate-case tables.
var (
	coincident = sync.OnceValue(func() *algebra.Template { return algebra.MustTemplate("coincident", sq(sM, sA)) })
	sameX      = sync.OnceValue(func() *algebra.Template { return algebra.MustTemplate("same-x", x(sM).Sub(x(sA))) })
)

// ============================================================
// Coordinate templates for self-conditional points
// ============================================================

type axisPair [2]*algebra.Template

// midpointTemplates: 2M = A + B.
var midpointTemplates = sync.OnceValue(func() axisPair {
	return axisPair{
		algebra.MustTemplate("midpoint-x", n(2).Mul(x(sM)).Sub(x(sA)).Sub(x(sB))),
		algebra.MustTemplate("midpoint-y", n(2).Mul(y(sM)).Sub(y(sA)).Sub(y(sB))),
	}
})

// translationTemplates: M = A + (C - B).
var translationTemplates = sync.OnceValue(func() axisPair {
	return axisPair{
		algebra.MustTemplate("translation-x", x(sM).Sub(x(sA)).Sub(x(sC)).Add(x(sB))),
		algebra.MustTemplate("translation-y", y(sM).Sub(y(sA)).Sub(y(sC)).Add(y(sB))),
	}
})

// rotationTemplates holds the images of A under 1, 2 and 3 quarter turns
// about B.
var rotationTemplates = sync.OnceValue(func() [3]axisPair {
	dx, dy := x(sA).Sub(x(sB)), y(sA).Sub(y(sB))
	img := [3][2]*algebra.Polynomial{
		{x(sB).Sub(dy), y(sB).Add(dx)},
		{x(sB).Sub(dx), y(sB).Sub(dy)},
		{x(sB).Add(dy), y(sB).Sub(dx)},
	}
	var out [3]axisPair
	for i, p := range img {
		name := fmt.Sprintf("rotation-%d", i+1)
		out[i] = axisPair{
			algebra.MustTemplate(name+"-x", x(sM).Sub(p[0])),
			algebra.MustTemplate(name+"-y", y(sM).Sub(p[1])),
		}
	}
	return out
})

// harmonicTemplates: M is the harmonic conjugate of C with respect to A
// and B, written per axis as 2(ab + cm) = (a + b)(c + m).
var harmonicTemplates = sync.OnceValue(func() axisPair {
	h := func(c func(algebra.Slot) *algebra.Polynomial, name string) *algebra.Template {
		p := n(2).Mul(c(sA).Mul(c(sB)).Add(c(sC).Mul(c(sM)))).
			Sub(c(sA).Add(c(sB)).Mul(c(sC).Add(c(sM))))
		return algebra.MustTemplate(name, p)
	}
	return axisPair{h(x, "harmonic-x"), h(y, "harmonic-y")}
})

// dividing returns the templates of M = A + r(B - A). They depend on r and
// are built per construction.
func dividing(r *big.Rat) axisPair {
	name := "dividing(" + r.RatString() + ")"
	k := algebra.Const(r)
	return axisPair{
		algebra.MustTemplate(name+"-x", x(sM).Sub(x(sA)).Sub(k.Mul(x(sB).Sub(x(sA))))),
		algebra.MustTemplate(name+"-y", y(sM).Sub(y(sA)).Sub(k.Mul(y(sB).Sub(y(sA))))),
	}
}

// ============================================================
// Tangent templates
// ============================================================

var tangents sync.Map // *algebra.Template -> *algebra.Template

// TangentTemplate returns the template of M on the tangent at H to the
// curve whose membership template is base, with the curve point in SlotM.
// The slope comes from implicit differentiation at H.
func TangentTemplate(base *algebra.Template) (*algebra.Template, error) {
	if t, ok := tangents.Load(base); ok {
		return t.(*algebra.Template), nil
	}
	at, err := base.Rebind(base.Name(), sM, sH)
	if err != nil {
		return nil, err
	}
	num, den := algebra.DerivativeByPoint(at.Polynomial(), sH)
	slope, err := algebra.NewFraction(num.Mul(x(sM).Sub(x(sH))), den)
	if err != nil {
		return nil, fmt.Errorf("tangent to %s: %w", base.Name(), err)
	}
	t, err := algebra.NewTemplate("tangent("+base.Name()+")", slope.Equate(y(sM).Sub(y(sH))))
	if err != nil {
		return nil, err
	}
	actual, _ := tangents.LoadOrStore(base, t)
	return actual.(*algebra.Template), nil
}
