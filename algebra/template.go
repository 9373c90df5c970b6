package algebra

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnboundSlot is returned when a template slot has no binding.
	ErrUnboundSlot = errors.New("algebra: unbound template slot")
	// ErrUnassignedCoordinates is returned when a bound point has no coordinates yet.
	ErrUnassignedCoordinates = errors.New("algebra: point has no assigned coordinates")
	// ErrNotSymbolic is returned when a template mentions a free or dependent variable.
	ErrNotSymbolic = errors.New("algebra: template must only use symbolic coordinates")
)

// ============================================================
// Template: symbolic polynomial over role slots
// ============================================================

// Template is an immutable symbolic polynomial. Its slot set is computed
// once, at construction.
type Template struct {
	name  string
	poly  *Polynomial
	slots []Slot
}

// NewTemplate wraps p, which may only contain symbolic coordinates.
func NewTemplate(name string, p *Polynomial) (*Template, error) {
	seen := map[Slot]struct{}{}
	var slots []Slot
	for _, v := range p.Variables() {
		if v.Kind != Symbolic {
			return nil, fmt.Errorf("%w: %s contains %s", ErrNotSymbolic, name, v)
		}
		if _, ok := seen[v.Slot]; !ok {
			seen[v.Slot] = struct{}{}
			slots = append(slots, v.Slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return &Template{name: name, poly: p.Clone(), slots: slots}, nil
}

// MustTemplate is like NewTemplate but panics on error. It is meant for
// templates built from constant expressions.
func MustTemplate(name string, p *Polynomial) *Template {
	t, err := NewTemplate(name, p)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) Name() string { return t.name }

// Slots returns the slots used by t in order.
func (t *Template) Slots() []Slot {
	out := make([]Slot, len(t.slots))
	copy(out, t.slots)
	return out
}

// Uses reports whether t mentions slot s.
func (t *Template) Uses(s Slot) bool {
	for _, ts := range t.slots {
		if ts == s {
			return true
		}
	}
	return false
}

// Polynomial returns a copy of the symbolic polynomial.
func (t *Template) Polynomial() *Polynomial { return t.poly.Clone() }

func (t *Template) String() string { return t.name + ": " + t.poly.String() }

// Rebind returns a template with slot from renamed to to. It fails when to
// is already used.
func (t *Template) Rebind(name string, from, to Slot) (*Template, error) {
	if from != to && t.Uses(to) {
		return nil, fmt.Errorf("algebra: rebind %s: slot %s already used", t.name, to)
	}
	m := map[Variable]*Polynomial{
		SX(from): Var(SX(to)),
		SY(from): Var(SY(to)),
	}
	return NewTemplate(name, t.poly.Substitute(m))
}

// ============================================================
// Instantiation
// ============================================================

// Coordinates is anything that can stand in for a template slot.
type Coordinates interface {
	Label() string
	// Coordinates returns the coordinate polynomials, ok=false when the
	// point has none assigned yet.
	Coordinates() (x, y *Polynomial, ok bool)
}

// Binding maps template slots to points.
type Binding map[Slot]Coordinates

// With returns a copy of b with s bound to c.
func (b Binding) With(s Slot, c Coordinates) Binding {
	out := make(Binding, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	out[s] = c
	return out
}

func (b Binding) String() string {
	keys := make([]Slot, 0, len(b))
	for s := range b {
		keys = append(keys, s)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	parts := make([]string, len(keys))
	for i, s := range keys {
		label := "<nil>"
		if b[s] != nil {
			label = b[s].Label()
		}
		parts[i] = s.String() + "=" + label
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Instantiate substitutes the coordinates of the bound points into t.
// It fails, without substituting anything, when a slot of t is unbound or a
// bound point has no coordinates. t is never modified.
func Instantiate(t *Template, b Binding) (*Polynomial, error) {
	m := make(map[Variable]*Polynomial, 2*len(t.slots))
	for _, s := range t.slots {
		c, ok := b[s]
		if !ok || c == nil {
			return nil, fmt.Errorf("%w: %s in %s", ErrUnboundSlot, s, t.name)
		}
		x, y, ok := c.Coordinates()
		if !ok {
			return nil, fmt.Errorf("%w: %s bound to %s in %s", ErrUnassignedCoordinates, c.Label(), s, t.name)
		}
		m[SX(s)] = x
		m[SY(s)] = y
	}
	return t.poly.Substitute(m), nil
}
