package catalog

import (
	"github.com/njchilds90/geoprover/algebra"
	"github.com/njchilds90/geoprover/protocol"
)

// ============================================================
// Circles
// ============================================================

// Circle is a set of points of the circle family.
type Circle struct {
	protocol.Base
	protocol.PointSet
	kind      protocol.Kind
	center    *protocol.Point
	inputs    []protocol.Construction
	condition protocol.Candidate
	describe  string
	forms     []formSpec
}

func (c *Circle) Kind() protocol.Kind             { return c.kind }
func (c *Circle) Describe() string                { return c.Label() + " is " + c.describe }
func (c *Circle) Condition() protocol.Candidate   { return c.condition }
func (c *Circle) Inputs() []protocol.Construction { return append([]protocol.Construction(nil), c.inputs...) }

// Center is nil for circles given by three points.
func (c *Circle) Center() *protocol.Point { return c.center }

func (c *Circle) DegenerateForms() ([]protocol.Form, error) { return instantiateForms(c.forms) }

// Candidates: the defining condition, equal distance from the center to
// every earlier member, and concyclicity with every triple of earlier
// members.
func (c *Circle) Candidates(p *protocol.Point) []protocol.Candidate {
	var out candidates
	out.add(p, c.condition)
	members := c.Before(p)
	if c.center != nil {
		for _, q := range members {
			out.add(p, protocol.Candidate{
				Template: EqualDistanceTemplate(),
				Binding:  algebra.Binding{sA: c.center, sB: c.center, sC: q},
			})
		}
	}
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			for k := j + 1; k < len(members); k++ {
				out.add(p, protocol.Candidate{
					Template: ConcyclicTemplate(),
					Binding:  algebra.Binding{sA: members[i], sB: members[j], sC: members[k]},
				})
			}
		}
	}
	return out.list
}

// CircleWithCenterAndPoint is the circle about center through on.
func CircleWithCenterAndPoint(label string, center, on *protocol.Point) *Circle {
	c := &Circle{
		Base:   protocol.NewBase(label),
		kind:   protocol.KindCircleWithCenterAndPoint,
		center: center,
		inputs: constructions(center, on),
		condition: protocol.Candidate{
			Template: EqualDistanceTemplate(),
			Binding:  algebra.Binding{sA: center, sB: center, sC: on},
		},
		describe: "the circle about " + center.Label() + " through " + on.Label(),
		forms:    []formSpec{spec(center.Label()+" = "+on.Label(), coincident(), algebra.Binding{sM: center, sA: on})},
	}
	c.AddPoint(on)
	return c
}

// CircleThroughThreePoints is the circumcircle of a, b and c.
func CircleThroughThreePoints(label string, a, b, c *protocol.Point) *Circle {
	cc := &Circle{
		Base:   protocol.NewBase(label),
		kind:   protocol.KindCircleThroughThreePoints,
		inputs: constructions(a, b, c),
		condition: protocol.Candidate{
			Template: ConcyclicTemplate(),
			Binding:  algebra.Binding{sA: a, sB: b, sC: c},
		},
		describe: "the circle through " + a.Label() + ", " + b.Label() + " and " + c.Label(),
		forms: []formSpec{
			spec(labels(a, b, c)+" are collinear", CollinearTemplate(), algebra.Binding{sM: a, sA: b, sB: c}),
		},
	}
	for _, p := range []*protocol.Point{a, b, c} {
		cc.AddPoint(p)
	}
	return cc
}

// ============================================================
// Conics
// ============================================================

// ConicSection is the conic through five points. Its only candidate is the
// defining determinant.
type ConicSection struct {
	protocol.Base
	protocol.PointSet
	points    []*protocol.Point
	condition protocol.Candidate
}

func (c *ConicSection) Kind() protocol.Kind             { return protocol.KindConicThroughFivePoints }
func (c *ConicSection) Inputs() []protocol.Construction { return constructions(c.points...) }
func (c *ConicSection) Condition() protocol.Candidate   { return c.condition }
func (c *ConicSection) Describe() string {
	return c.Label() + " is the conic through " + labels(c.points...)
}

func (c *ConicSection) Candidates(p *protocol.Point) []protocol.Candidate {
	var out candidates
	out.add(p, c.condition)
	return out.list
}

// symbolicPoint keeps a slot symbolic during instantiation.
type symbolicPoint algebra.Slot

func (s symbolicPoint) Label() string { return algebra.Slot(s).String() }

func (s symbolicPoint) Coordinates() (*algebra.Polynomial, *algebra.Polynomial, bool) {
	return x(algebra.Slot(s)), y(algebra.Slot(s)), true
}

// DegenerateForms: the coefficient of the squared x-coordinate of a
// generic point. When it vanishes the conic cannot be solved for x.
func (c *ConicSection) DegenerateForms() ([]protocol.Form, error) {
	generic, err := algebra.Instantiate(c.condition.Template, c.condition.Binding.With(sM, symbolicPoint(sM)))
	if err != nil {
		return nil, err
	}
	lead := generic.CoefficientOf(algebra.Variable.IsSymbolic, algebra.Power{Var: algebra.SX(sM), Exp: 2})
	return []protocol.Form{{Description: "the leading coefficient of " + c.Label() + " vanishes", Polynomial: lead}}, nil
}

// ConicThroughFivePoints is the conic through a, b, c, d and e.
func ConicThroughFivePoints(label string, a, b, c, d, e *protocol.Point) *ConicSection {
	cs := &ConicSection{
		Base:   protocol.NewBase(label),
		points: []*protocol.Point{a, b, c, d, e},
		condition: protocol.Candidate{
			Template: ConicTemplate(),
			Binding:  algebra.Binding{sA: a, sB: b, sC: c, sD: d, sE: e},
		},
	}
	for _, p := range cs.points {
		cs.AddPoint(p)
	}
	return cs
}
