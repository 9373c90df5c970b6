package catalog

import (
	"fmt"
	"math/big"

	"github.com/njchilds90/geoprover/algebra"
	"github.com/njchilds90/geoprover/protocol"
)

// formSpec is a degenerate form given as a template binding; it is
// instantiated on demand because coordinates are only known after
// compilation.
type formSpec struct {
	desc string
	cand protocol.Candidate
}

func spec(desc string, t *algebra.Template, b algebra.Binding) formSpec {
	return formSpec{desc: desc, cand: protocol.Candidate{Template: t, Binding: b}}
}

func instantiateForms(specs []formSpec) ([]protocol.Form, error) {
	out := make([]protocol.Form, 0, len(specs))
	for _, s := range specs {
		p, err := algebra.Instantiate(s.cand.Template, s.cand.Binding)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.desc, err)
		}
		out = append(out, protocol.Form{Description: s.desc, Polynomial: p})
	}
	return out, nil
}

func constructions(ps ...*protocol.Point) []protocol.Construction {
	out := make([]protocol.Construction, len(ps))
	for i, p := range ps {
		if p != nil {
			out[i] = p
		}
	}
	return out
}

func labels(ps ...*protocol.Point) string {
	s := ""
	for _, p := range ps {
		s += p.Label()
	}
	return s
}

// ============================================================
// Free and set-bound points
// ============================================================

type freeDef struct{}

func (freeDef) Kind() protocol.Kind             { return protocol.KindFreePoint }
func (freeDef) Inputs() []protocol.Construction { return nil }
func (freeDef) Sets() []protocol.SetOfPoints    { return nil }
func (freeDef) Describe(label string) string    { return label + " is a free point" }

// FreePoint is a point with two free coordinates.
func FreePoint(label string) *protocol.Point {
	return protocol.NewPoint(label, freeDef{})
}

type onSetDef struct{ set protocol.SetOfPoints }

func (d onSetDef) Kind() protocol.Kind             { return protocol.KindRandomPoint }
func (d onSetDef) Inputs() []protocol.Construction { return []protocol.Construction{d.set} }
func (d onSetDef) Sets() []protocol.SetOfPoints    { return []protocol.SetOfPoints{d.set} }
func (d onSetDef) Describe(label string) string {
	return label + " is a point on " + d.set.Label()
}

// RandomPointOn is an arbitrary point of a line, circle or conic: one free
// coordinate and one dependent coordinate.
func RandomPointOn(label string, set protocol.SetOfPoints) *protocol.Point {
	return protocol.NewPoint(label, onSetDef{set: set})
}

type intersectionDef struct{ a, b protocol.SetOfPoints }

func (d intersectionDef) Kind() protocol.Kind { return protocol.KindIntersectionPoint }
func (d intersectionDef) Inputs() []protocol.Construction {
	return []protocol.Construction{d.a, d.b}
}
func (d intersectionDef) Sets() []protocol.SetOfPoints { return []protocol.SetOfPoints{d.a, d.b} }
func (d intersectionDef) Describe(label string) string {
	return label + " is the intersection of " + d.a.Label() + " and " + d.b.Label()
}

// DegenerateForms: two lines meet unless they are parallel.
func (d intersectionDef) DegenerateForms() ([]protocol.Form, error) {
	la, ok := d.a.(*Line)
	if !ok {
		return nil, nil
	}
	lb, ok := d.b.(*Line)
	if !ok || la.dir == nil || lb.dir == nil {
		return nil, nil
	}
	t := ParallelTemplate()
	if la.dir.Normal != lb.dir.Normal {
		t = PerpendicularTemplate()
	}
	b := algebra.Binding{sA: la.dir.A, sM: la.dir.B, sB: lb.dir.A, sC: lb.dir.B}
	return instantiateForms([]formSpec{spec(la.Label()+" is parallel to "+lb.Label(), t, b)})
}

// IntersectionPoint is a common point of two sets; both coordinates are
// dependent.
func IntersectionPoint(label string, a, b protocol.SetOfPoints) *protocol.Point {
	return protocol.NewPoint(label, intersectionDef{a: a, b: b})
}

// ============================================================
// Self-conditional points
// ============================================================

type coordinateDef struct {
	kind      protocol.Kind
	templates axisPair
	binding   algebra.Binding
	inputs    []*protocol.Point
	describe  func(label string) string
	forms     []formSpec
	fallbacks [2]*protocol.Candidate
}

func (d *coordinateDef) Kind() protocol.Kind             { return d.kind }
func (d *coordinateDef) Inputs() []protocol.Construction { return constructions(d.inputs...) }
func (d *coordinateDef) Sets() []protocol.SetOfPoints    { return nil }
func (d *coordinateDef) Describe(label string) string    { return d.describe(label) }

func (d *coordinateDef) Conditions() ([]*algebra.Template, algebra.Binding) {
	return []*algebra.Template{d.templates[0], d.templates[1]}, d.binding
}

func (d *coordinateDef) Fallback(i int) (protocol.Candidate, bool) {
	if i < 0 || i >= len(d.fallbacks) || d.fallbacks[i] == nil {
		return protocol.Candidate{}, false
	}
	return *d.fallbacks[i], true
}

func (d *coordinateDef) DegenerateForms() ([]protocol.Form, error) {
	return instantiateForms(d.forms)
}

// Midpoint of a and b.
func Midpoint(label string, a, b *protocol.Point) *protocol.Point {
	return protocol.NewPoint(label, &coordinateDef{
		kind:      protocol.KindMidpoint,
		templates: midpointTemplates(),
		binding:   algebra.Binding{sA: a, sB: b},
		inputs:    []*protocol.Point{a, b},
		describe: func(label string) string {
			return label + " is the midpoint of " + labels(a, b)
		},
	})
}

// TranslatedPoint is the image of p under the translation by the vector
// from -> to.
func TranslatedPoint(label string, p, from, to *protocol.Point) *protocol.Point {
	return protocol.NewPoint(label, &coordinateDef{
		kind:      protocol.KindTranslatedPoint,
		templates: translationTemplates(),
		binding:   algebra.Binding{sA: p, sB: from, sC: to},
		inputs:    []*protocol.Point{p, from, to},
		describe: func(label string) string {
			return label + " is " + p.Label() + " translated by " + labels(from, to)
		},
	})
}

// RotatedPoint is the image of p under turns counterclockwise quarter
// turns about center. Whole turns are rejected.
func RotatedPoint(label string, p, center *protocol.Point, turns int) (*protocol.Point, error) {
	k := ((turns % 4) + 4) % 4
	if k == 0 {
		return nil, fmt.Errorf("%w: %s: %d quarter turns is the identity", ErrInvalidParameter, label, turns)
	}
	return protocol.NewPoint(label, &coordinateDef{
		kind:      protocol.KindRotatedPoint,
		templates: rotationTemplates()[k-1],
		binding:   algebra.Binding{sA: p, sB: center},
		inputs:    []*protocol.Point{p, center},
		describe: func(label string) string {
			return fmt.Sprintf("%s is %s rotated by %d degrees about %s", label, p.Label(), 90*k, center.Label())
		},
	}), nil
}

// DividingPoint is a + ratio*(b - a).
func DividingPoint(label string, a, b *protocol.Point, ratio *big.Rat) (*protocol.Point, error) {
	if ratio == nil {
		return nil, fmt.Errorf("%w: %s: missing ratio", ErrInvalidParameter, label)
	}
	r := new(big.Rat).Set(ratio)
	return protocol.NewPoint(label, &coordinateDef{
		kind:      protocol.KindDividingPoint,
		templates: dividing(r),
		binding:   algebra.Binding{sA: a, sB: b},
		inputs:    []*protocol.Point{a, b},
		describe: func(label string) string {
			return label + " divides " + labels(a, b) + " in ratio " + r.RatString()
		},
		forms: []formSpec{spec(a.Label()+" = "+b.Label(), coincident(), algebra.Binding{sM: a, sA: b})},
	}), nil
}

// HarmonicConjugate is the harmonic conjugate of c with respect to a and b.
// c must lie on line ab. When a, b and c share a coordinate the per-axis
// relation for it vanishes, and collinearity with ab takes its place.
func HarmonicConjugate(label string, a, b, c *protocol.Point) *protocol.Point {
	mid := algebra.Binding{sM: c, sA: a, sB: b}
	pair := midpointTemplates()
	onAB := &protocol.Candidate{Template: CollinearTemplate(), Binding: algebra.Binding{sA: a, sB: b}}
	return protocol.NewPoint(label, &coordinateDef{
		kind:      protocol.KindHarmonicConjugate,
		templates: harmonicTemplates(),
		binding:   algebra.Binding{sA: a, sB: b, sC: c},
		inputs:    []*protocol.Point{a, b, c},
		describe: func(label string) string {
			return label + " is the harmonic conjugate of " + c.Label() + " with respect to " + labels(a, b)
		},
		forms: []formSpec{
			spec(c.Label()+" has the x-coordinate of the midpoint of "+labels(a, b), pair[0], mid),
			spec(c.Label()+" has the y-coordinate of the midpoint of "+labels(a, b), pair[1], mid),
		},
		fallbacks: [2]*protocol.Candidate{onAB, onAB},
	})
}
