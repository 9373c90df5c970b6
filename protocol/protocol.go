package protocol

import (
	"fmt"

	"github.com/njchilds90/geoprover/algebra"
)

// Hypothesis is one polynomial of the system, tagged with the construction
// that produced it.
type Hypothesis struct {
	Label      string
	Polynomial *algebra.Polynomial
}

// System is the compiled output handed to a solver.
type System struct {
	Name           string
	Hypotheses     []Hypothesis
	Statement      string
	Goal           *algebra.Polynomial
	FreeCount      int
	DependentCount int
}

// Polynomials returns the hypothesis polynomials in order.
func (s *System) Polynomials() []*algebra.Polynomial {
	out := make([]*algebra.Polynomial, len(s.Hypotheses))
	for i, h := range s.Hypotheses {
		out[i] = h.Polynomial
	}
	return out
}

// ============================================================
// Protocol
// ============================================================

// Protocol is the ordered, index-checked registry of the constructions of
// one theorem, together with the variable counters and the hypothesis
// system built from them. It is not safe for concurrent use.
type Protocol struct {
	name          string
	constructions []Construction
	byLabel       map[string]Construction
	freeCount     int
	depCount      int
	freePoints    int
	hypotheses    []Hypothesis
	statement     Statement
	goal          *algebra.Polynomial
}

// New returns an empty protocol.
func New(name string) *Protocol {
	return &Protocol{name: name, byLabel: map[string]Construction{}}
}

func (cp *Protocol) Name() string { return cp.name }

// Len is the number of registered constructions.
func (cp *Protocol) Len() int { return len(cp.constructions) }

// FreeCount is the number of free parameters handed out so far.
func (cp *Protocol) FreeCount() int { return cp.freeCount }

// DependentCount is the number of dependent variables handed out so far.
func (cp *Protocol) DependentCount() int { return cp.depCount }

func (cp *Protocol) Constructions() []Construction {
	out := make([]Construction, len(cp.constructions))
	copy(out, cp.constructions)
	return out
}

// Points returns the registered points in index order.
func (cp *Protocol) Points() []*Point {
	var out []*Point
	for _, c := range cp.constructions {
		if p, ok := c.(*Point); ok {
			out = append(out, p)
		}
	}
	return out
}

// Lookup finds a registered construction by label.
func (cp *Protocol) Lookup(label string) (Construction, bool) {
	c, ok := cp.byLabel[label]
	return c, ok
}

// Hypotheses returns the current hypothesis system.
func (cp *Protocol) Hypotheses() []Hypothesis {
	out := make([]Hypothesis, len(cp.hypotheses))
	copy(out, cp.hypotheses)
	return out
}

// Statement returns the goal statement, nil if none is set.
func (cp *Protocol) Statement() Statement { return cp.statement }

// Goal returns the compiled goal polynomial, nil before compilation.
func (cp *Protocol) Goal() *algebra.Polynomial { return cp.goal }

// ============================================================
// Registration
// ============================================================

// Validate reports why c cannot be the next step of cp. It is purely
// structural: every input must be registered in cp with a smaller index
// than c, and the label must be new.
func (cp *Protocol) Validate(c Construction) error {
	if c == nil {
		return ErrNilConstruction
	}
	if c.Label() == "" {
		return ErrEmptyLabel
	}
	idx := len(cp.constructions)
	switch b := c.base(); {
	case b.cp == cp:
		idx = b.index
	case b.cp != nil:
		return fmt.Errorf("%w: %s", ErrForeignConstruction, c.Label())
	}
	if other, ok := cp.byLabel[c.Label()]; ok && other != c {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, c.Label())
	}
	return cp.validateInputs(c.Label(), c.Inputs(), idx)
}

func (cp *Protocol) validateInputs(label string, inputs []Construction, idx int) error {
	for _, in := range inputs {
		if in == nil {
			return fmt.Errorf("%w: %s has a nil input", ErrUnregisteredInput, label)
		}
		ib := in.base()
		if ib.cp != cp {
			return fmt.Errorf("%w: %s uses %s", ErrUnregisteredInput, label, in.Label())
		}
		if ib.index >= idx {
			return fmt.Errorf("%w: %s uses %s (index %d >= %d)", ErrInputOutOfOrder, label, in.Label(), ib.index, idx)
		}
	}
	return nil
}

// IsValidConstructionStep is the boolean form of Validate.
func (cp *Protocol) IsValidConstructionStep(c Construction) bool {
	return cp.Validate(c) == nil
}

// Add validates c and registers it with the next index. A rejected
// construction leaves cp unchanged.
func (cp *Protocol) Add(c Construction) error {
	if err := cp.Validate(c); err != nil {
		return err
	}
	b := c.base()
	if b.cp == cp {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, c.Label())
	}
	b.cp = cp
	b.index = len(cp.constructions)
	cp.constructions = append(cp.constructions, c)
	cp.byLabel[c.Label()] = c
	return nil
}

// SetStatement sets the goal. Its inputs must already be registered.
func (cp *Protocol) SetStatement(s Statement) error {
	if s == nil {
		return ErrNilConstruction
	}
	if err := cp.validateInputs(s.Name(), s.Inputs(), len(cp.constructions)); err != nil {
		return err
	}
	cp.statement = s
	cp.goal = nil
	return nil
}

// ============================================================
// Compilation
// ============================================================

// Transform compiles every uncompiled point in order and then the goal.
// On failure the returned error is a *CompileError; constructions before
// the failing one stay compiled and the failing one leaves no trace, so
// Transform may be called again.
func (cp *Protocol) Transform(ctx *Context) (*System, error) {
	for _, c := range cp.constructions {
		p, ok := c.(*Point)
		if !ok || p.compiled {
			continue
		}
		if err := cp.compilePoint(ctx, p); err != nil {
			return nil, err
		}
	}
	if cp.statement != nil && cp.goal == nil {
		if err := cp.compileGoal(ctx); err != nil {
			return nil, err
		}
	}
	return cp.System(), nil
}

// System snapshots the compiled output.
func (cp *Protocol) System() *System {
	s := &System{
		Name:           cp.name,
		Hypotheses:     cp.Hypotheses(),
		FreeCount:      cp.freeCount,
		DependentCount: cp.depCount,
	}
	if cp.statement != nil {
		s.Statement = cp.statement.Name()
	}
	if cp.goal != nil {
		s.Goal = cp.goal.Clone()
	}
	return s
}

func (cp *Protocol) compileGoal(ctx *Context) error {
	goal := cp.statement.Goal()
	poly, err := algebra.Instantiate(goal.Template, goal.Binding)
	if err != nil {
		return newCompileError(cp.statement.Name(), err)
	}
	poly = poly.ReduceByFreeTermDivision()
	step := Step{
		Label:      cp.statement.Name(),
		Action:     ActionGoal,
		Template:   goal.Template.Name(),
		Binding:    goal.Binding.String(),
		Polynomial: poly,
	}
	if err := ctx.write([]Step{step}); err != nil {
		return newCompileError(cp.statement.Name(), fmt.Errorf("%w: %v", ErrOutput, err))
	}
	cp.goal = poly
	ctx.logger().Info("goal compiled", "statement", cp.statement.Name(), "terms", poly.Len())
	return nil
}

func (cp *Protocol) nextFree() algebra.Variable {
	cp.freeCount++
	return algebra.U(cp.freeCount)
}

func (cp *Protocol) nextDependent() algebra.Variable {
	cp.depCount++
	return algebra.X(cp.depCount)
}
