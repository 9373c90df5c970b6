package catalog

import (
	"strings"

	"github.com/njchilds90/geoprover/algebra"
	"github.com/njchilds90/geoprover/protocol"
)

type statement struct {
	name   string
	inputs []protocol.Construction
	goal   protocol.Candidate
}

func (s *statement) Name() string                    { return s.name }
func (s *statement) Inputs() []protocol.Construction { return append([]protocol.Construction(nil), s.inputs...) }
func (s *statement) Goal() protocol.Candidate        { return s.goal }

func newStatement(kind string, t *algebra.Template, ps ...*protocol.Point) *statement {
	names := make([]string, len(ps))
	b := algebra.Binding{}
	slots := []algebra.Slot{sM, sA, sB, sC}
	for i, p := range ps {
		names[i] = p.Label()
		b[slots[i]] = p
	}
	return &statement{
		name:   kind + "(" + strings.Join(names, ", ") + ")",
		inputs: constructions(ps...),
		goal:   protocol.Candidate{Template: t, Binding: b},
	}
}

// Collinear: a, b and c lie on one line.
func Collinear(a, b, c *protocol.Point) protocol.Statement {
	return newStatement("collinear", CollinearTemplate(), a, b, c)
}

// Parallel: ab is parallel to cd.
func Parallel(a, b, c, d *protocol.Point) protocol.Statement {
	s := newStatement("parallel", ParallelTemplate(), b, a, c, d)
	s.name = "parallel(" + labels(a, b) + ", " + labels(c, d) + ")"
	return s
}

// Perpendicular: ab is perpendicular to cd.
func Perpendicular(a, b, c, d *protocol.Point) protocol.Statement {
	s := newStatement("perpendicular", PerpendicularTemplate(), b, a, c, d)
	s.name = "perpendicular(" + labels(a, b) + ", " + labels(c, d) + ")"
	return s
}

// EqualSegments: |ab| = |cd|.
func EqualSegments(a, b, c, d *protocol.Point) protocol.Statement {
	s := newStatement("equal", EqualDistanceTemplate(), a, b, c, d)
	s.name = "equal(" + labels(a, b) + ", " + labels(c, d) + ")"
	return s
}

// Concyclic: a, b, c and d lie on one circle.
func Concyclic(a, b, c, d *protocol.Point) protocol.Statement {
	return newStatement("concyclic", ConcyclicTemplate(), a, b, c, d)
}

// PointOn: p lies on set.
func PointOn(p *protocol.Point, set protocol.SetOfPoints) protocol.Statement {
	cond := set.Condition()
	return &statement{
		name:   "on(" + p.Label() + ", " + set.Label() + ")",
		inputs: append(constructions(p), set),
		goal:   protocol.Candidate{Template: cond.Template, Binding: cond.Binding.With(sM, p)},
	}
}
