package catalog

import (
	"fmt"

	"github.com/njchilds90/geoprover/algebra"
	"github.com/njchilds90/geoprover/protocol"
)

// Direction is the direction of a line: along AB, or normal to AB.
type Direction struct {
	A, B   *protocol.Point
	Normal bool
}

// Line is a set of points of the line family.
type Line struct {
	protocol.Base
	protocol.PointSet
	kind      protocol.Kind
	inputs    []protocol.Construction
	condition protocol.Candidate
	dir       *Direction
	describe  string
	forms     []formSpec
}

func (l *Line) Kind() protocol.Kind             { return l.kind }
func (l *Line) Describe() string                { return l.Label() + " is " + l.describe }
func (l *Line) Condition() protocol.Candidate   { return l.condition }
func (l *Line) Inputs() []protocol.Construction { return append([]protocol.Construction(nil), l.inputs...) }

func (l *Line) DegenerateForms() ([]protocol.Form, error) { return instantiateForms(l.forms) }

// Candidates: the defining condition, collinearity with every pair of
// earlier members, and the line's direction through every earlier member.
func (l *Line) Candidates(p *protocol.Point) []protocol.Candidate {
	var c candidates
	c.add(p, l.condition)
	members := l.Before(p)
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			c.add(p, protocol.Candidate{
				Template: CollinearTemplate(),
				Binding:  algebra.Binding{sA: members[i], sB: members[j]},
			})
		}
	}
	if l.dir != nil {
		t := ParallelTemplate()
		if l.dir.Normal {
			t = PerpendicularTemplate()
		}
		for _, q := range members {
			c.add(p, protocol.Candidate{Template: t, Binding: algebra.Binding{sA: q, sB: l.dir.A, sC: l.dir.B}})
		}
	}
	return c.list
}

// candidates collects admissible bindings without duplicates.
type candidates struct {
	list []protocol.Candidate
	seen map[string]bool
}

func (c *candidates) add(p *protocol.Point, cand protocol.Candidate) {
	for _, b := range cand.Binding {
		q, ok := b.(*protocol.Point)
		if !ok || q == p || !q.Registered() || q.Index() >= p.Index() {
			return
		}
	}
	key := cand.Template.Name() + cand.Binding.String()
	if c.seen == nil {
		c.seen = map[string]bool{}
	}
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.list = append(c.list, cand)
}

func newLine(label string, kind protocol.Kind, cond protocol.Candidate, inputs ...protocol.Construction) *Line {
	return &Line{Base: protocol.NewBase(label), kind: kind, condition: cond, inputs: inputs}
}

// LineThroughTwoPoints is line ab.
func LineThroughTwoPoints(label string, a, b *protocol.Point) *Line {
	l := newLine(label, protocol.KindLineThroughTwoPoints,
		protocol.Candidate{Template: CollinearTemplate(), Binding: algebra.Binding{sA: a, sB: b}},
		constructions(a, b)...)
	l.dir = &Direction{A: a, B: b}
	l.describe = "the line through " + a.Label() + " and " + b.Label()
	l.forms = []formSpec{
		spec(a.Label()+" = "+b.Label(), coincident(), algebra.Binding{sM: a, sA: b}),
		spec(labels(a, b)+" is vertical", sameX(), algebra.Binding{sM: a, sA: b}),
	}
	l.AddPoint(a)
	l.AddPoint(b)
	return l
}

// ParallelLine is the line through p parallel to ab.
func ParallelLine(label string, p, a, b *protocol.Point) *Line {
	l := newLine(label, protocol.KindParallelLine,
		protocol.Candidate{Template: ParallelTemplate(), Binding: algebra.Binding{sA: p, sB: a, sC: b}},
		constructions(p, a, b)...)
	l.dir = &Direction{A: a, B: b}
	l.describe = "the line through " + p.Label() + " parallel to " + labels(a, b)
	l.forms = []formSpec{spec(a.Label()+" = "+b.Label(), coincident(), algebra.Binding{sM: a, sA: b})}
	l.AddPoint(p)
	return l
}

// PerpendicularLine is the line through p perpendicular to ab.
func PerpendicularLine(label string, p, a, b *protocol.Point) *Line {
	l := newLine(label, protocol.KindPerpendicularLine,
		protocol.Candidate{Template: PerpendicularTemplate(), Binding: algebra.Binding{sA: p, sB: a, sC: b}},
		constructions(p, a, b)...)
	l.dir = &Direction{A: a, B: b, Normal: true}
	l.describe = "the line through " + p.Label() + " perpendicular to " + labels(a, b)
	l.forms = []formSpec{spec(a.Label()+" = "+b.Label(), coincident(), algebra.Binding{sM: a, sA: b})}
	l.AddPoint(p)
	return l
}

// PerpendicularBisector of segment ab.
func PerpendicularBisector(label string, a, b *protocol.Point) *Line {
	l := newLine(label, protocol.KindPerpendicularBisector,
		protocol.Candidate{Template: BisectorTemplate(), Binding: algebra.Binding{sA: a, sB: b}},
		constructions(a, b)...)
	l.dir = &Direction{A: a, B: b, Normal: true}
	l.describe = "the perpendicular bisector of " + labels(a, b)
	l.forms = []formSpec{spec(a.Label()+" = "+b.Label(), coincident(), algebra.Binding{sM: a, sA: b})}
	return l
}

// TangentLine is the tangent at a point of a circle or conic. The point is
// expected to lie on the curve.
func TangentLine(label string, at *protocol.Point, curve protocol.SetOfPoints) (*Line, error) {
	if curve == nil {
		return nil, fmt.Errorf("%w: %s: missing curve", ErrInvalidParameter, label)
	}
	if f := curve.Kind().Family(); f != protocol.FamilyCircle && f != protocol.FamilyConic {
		return nil, fmt.Errorf("%w: %s: cannot take the tangent to %s", ErrInvalidParameter, label, curve.Kind())
	}
	base := curve.Condition()
	t, err := TangentTemplate(base.Template)
	if err != nil {
		return nil, err
	}
	l := newLine(label, protocol.KindTangentLine,
		protocol.Candidate{Template: t, Binding: base.Binding.With(sH, at)},
		append(constructions(at), curve)...)
	l.describe = "the tangent to " + curve.Label() + " at " + at.Label()
	l.AddPoint(at)
	return l, nil
}
