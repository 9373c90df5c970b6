package protocol

import (
	"sort"

	"github.com/njchilds90/geoprover/algebra"
)

// ============================================================
// Construction
// ============================================================

// Construction is one step of a protocol. The interface is sealed: concrete
// kinds embed Base.
type Construction interface {
	Label() string
	Index() int
	Kind() Kind
	Inputs() []Construction
	Describe() string
	base() *Base
}

// Base carries the label and registration state shared by every kind.
type Base struct {
	label string
	index int
	cp    *Protocol
}

// NewBase returns an unregistered base.
func NewBase(label string) Base { return Base{label: label, index: -1} }

func (b *Base) Label() string { return b.label }

// Index is the position in the owning protocol, -1 until registered.
func (b *Base) Index() int { return b.index }

func (b *Base) Registered() bool { return b.cp != nil }

func (b *Base) base() *Base { return b }

// ============================================================
// Sets of points
// ============================================================

// Candidate is one admissible template binding. Set candidates leave SlotM
// unbound: the engine binds the point being compiled there.
type Candidate struct {
	Template *algebra.Template
	Binding  algebra.Binding
}

// SetOfPoints is implemented by lines, circles and conics.
type SetOfPoints interface {
	Construction
	Points() []*Point
	Contains(p *Point) bool
	AddPoint(p *Point)
	RemovePoint(p *Point)
	// Condition is the defining template, bound to the defining points.
	Condition() Candidate
	// Candidates lists every template binding that expresses membership of
	// p using only points with a smaller index than p.
	Candidates(p *Point) []Candidate
}

// PointSet is the membership list embedded by set kinds.
type PointSet struct{ points []*Point }

func (s *PointSet) Points() []*Point {
	out := make([]*Point, len(s.points))
	copy(out, s.points)
	return out
}

func (s *PointSet) Contains(p *Point) bool {
	for _, q := range s.points {
		if q == p {
			return true
		}
	}
	return false
}

func (s *PointSet) AddPoint(p *Point) {
	if p != nil && !s.Contains(p) {
		s.points = append(s.points, p)
	}
}

func (s *PointSet) RemovePoint(p *Point) {
	for i, q := range s.points {
		if q == p {
			s.points = append(s.points[:i], s.points[i+1:]...)
			return
		}
	}
}

// Before returns the registered members with an index smaller than p's,
// ordered by index.
func (s *PointSet) Before(p *Point) []*Point {
	var out []*Point
	for _, q := range s.points {
		if q != p && q.Registered() && q.Index() < p.Index() {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}

// ============================================================
// Point definitions
// ============================================================

// Definition is the kind-specific payload of a point.
type Definition interface {
	Kind() Kind
	Inputs() []Construction
	// Sets lists the sets the point lies on: none for free and
	// self-conditional points, one for random points, two for
	// intersections.
	Sets() []SetOfPoints
	Describe(label string) string
}

// SelfConditional definitions give explicit coordinate equations with one
// fixed binding.
type SelfConditional interface {
	Definition
	Conditions() ([]*algebra.Template, algebra.Binding)
}

// Fallback is implemented by self-conditional definitions whose i-th
// condition can vanish identically for valid inputs. The replacement is
// instantiated with the point in SlotM.
type Fallback interface {
	Fallback(i int) (Candidate, bool)
}

// ============================================================
// Statements and degenerate forms
// ============================================================

// Statement is the theorem goal.
type Statement interface {
	Name() string
	Inputs() []Construction
	Goal() Candidate
}

// Form is a known degenerate configuration of a construction.
type Form struct {
	Description string
	Polynomial  *algebra.Polynomial
}

// Degenerate is implemented by constructions and point definitions that
// know their forbidden forms.
type Degenerate interface {
	DegenerateForms() ([]Form, error)
}
