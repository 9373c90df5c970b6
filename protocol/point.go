package protocol

import (
	"strconv"

	"github.com/njchilds90/geoprover/algebra"
)

// State tracks a point through compilation.
type State uint8

const (
	Uninitialized State = iota
	Initialized
	Instantiated
	Reinstantiated
	Renamed
	Unchanged
)

var stateNames = [...]string{"uninitialized", "initialized", "instantiated", "reinstantiated", "renamed", "unchanged"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

type role uint8

const (
	unassigned role = iota
	roleFree
	roleDependent
	roleZero
)

type coord struct {
	role role
	v    algebra.Variable
}

func (c coord) polynomial() *algebra.Polynomial {
	if c.role == roleZero {
		return algebra.Zero()
	}
	return algebra.Var(c.v)
}

func (c coord) String() string {
	switch c.role {
	case unassigned:
		return "?"
	case roleZero:
		return "0"
	}
	return c.v.String()
}

// ============================================================
// Point
// ============================================================

// Point is a construction with coordinates. The back-reference to the
// owning protocol lives in Base.
type Point struct {
	Base
	def      Definition
	x, y     coord
	state    State
	compiled bool
}

// NewPoint returns an unregistered point with the given definition.
func NewPoint(label string, def Definition) *Point {
	return &Point{Base: NewBase(label), def: def}
}

func (p *Point) Kind() Kind               { return p.def.Kind() }
func (p *Point) Inputs() []Construction   { return p.def.Inputs() }
func (p *Point) Definition() Definition   { return p.def }
func (p *Point) Describe() string         { return p.def.Describe(p.Label()) }
func (p *Point) State() State             { return p.state }
func (p *Point) Compiled() bool           { return p.compiled }
func (p *Point) CoordinateString() string { return "(" + p.x.String() + ", " + p.y.String() + ")" }

func (p *Point) assigned() bool { return p.x.role != unassigned && p.y.role != unassigned }

// DegenerateForms delegates to the definition.
func (p *Point) DegenerateForms() ([]Form, error) {
	if d, ok := p.def.(Degenerate); ok {
		return d.DegenerateForms()
	}
	return nil, nil
}

// Coordinates implements algebra.Coordinates.
func (p *Point) Coordinates() (x, y *algebra.Polynomial, ok bool) {
	if !p.assigned() {
		return nil, nil, false
	}
	return p.x.polynomial(), p.y.polynomial(), true
}

// Dependent returns the point's dependent coordinate variables.
func (p *Point) Dependent() []algebra.Variable {
	var out []algebra.Variable
	for _, c := range []coord{p.x, p.y} {
		if c.role == roleDependent {
			out = append(out, c.v)
		}
	}
	return out
}

// scratch is a read-only snapshot of a point's coordinate assignment, used
// to score candidates without touching the point.
type scratch struct {
	label string
	x, y  coord
}

func (p *Point) scratch() scratch { return scratch{label: p.Label(), x: p.x, y: p.y} }

func (s scratch) Label() string { return s.label }

func (s scratch) Coordinates() (x, y *algebra.Polynomial, ok bool) {
	if s.x.role == unassigned || s.y.role == unassigned {
		return nil, nil, false
	}
	return s.x.polynomial(), s.y.polynomial(), true
}

// swap exchanges which coordinate is free and which is dependent, keeping
// both variables.
func (p *Point) swap() { p.x, p.y = p.y, p.x }
