package protocol

import (
	"fmt"

	"github.com/njchilds90/geoprover/algebra"
)

// ============================================================
// Checkpoint / restore
// ============================================================

// checkpoint records everything compiling one point may change.
type checkpoint struct {
	freeCount  int
	depCount   int
	freePoints int
	hypotheses int
	point      *Point
	x, y       coord
	state      State
	joined     []SetOfPoints
}

func (cp *Protocol) checkpoint(p *Point) *checkpoint {
	return &checkpoint{
		freeCount:  cp.freeCount,
		depCount:   cp.depCount,
		freePoints: cp.freePoints,
		hypotheses: len(cp.hypotheses),
		point:      p,
		x:          p.x,
		y:          p.y,
		state:      p.state,
	}
}

func (cp *Protocol) restore(c *checkpoint) {
	cp.freeCount = c.freeCount
	cp.depCount = c.depCount
	cp.freePoints = c.freePoints
	cp.hypotheses = cp.hypotheses[:c.hypotheses]
	c.point.x, c.point.y = c.x, c.y
	c.point.state = c.state
	c.point.compiled = false
	for _, s := range c.joined {
		s.RemovePoint(c.point)
	}
}

// ============================================================
// Scoring
// ============================================================

type scored struct {
	cand   Candidate
	poly   *algebra.Polynomial
	degree int
	terms  int
}

func (s *scored) less(o *scored) bool {
	if s.degree != o.degree {
		return s.degree < o.degree
	}
	return s.terms < o.terms
}

// search scores every candidate of set for p on a scratch copy of p's
// coordinates and returns the lexicographically smallest (degree, terms)
// pair. Ties keep the first candidate. Nothing is mutated.
func (cp *Protocol) search(ctx *Context, p *Point, set SetOfPoints) (*scored, error) {
	cands := set.Candidates(p)
	if max := ctx.options().MaxCandidates; max > 0 && len(cands) > max {
		cands = cands[:max]
	}
	view := p.scratch()
	var best *scored
	for _, c := range cands {
		poly, err := algebra.Instantiate(c.Template, c.Binding.With(algebra.SlotM, view))
		if err != nil {
			return nil, fmt.Errorf("%s on %s: %w", p.Label(), set.Label(), err)
		}
		poly = poly.ReduceByFreeTermDivision()
		ctx.observer().CandidateScored(p.Kind())
		if poly.IsZero() {
			ctx.logger().Debug("candidate vanishes", "point", p.Label(), "template", c.Template.Name(), "binding", c.Binding.String())
			continue
		}
		s := &scored{cand: c, poly: poly, degree: poly.Degree(), terms: poly.Len()}
		ctx.logger().Debug("candidate scored",
			"point", p.Label(),
			"template", c.Template.Name(),
			"binding", c.Binding.String(),
			"degree", s.degree,
			"terms", s.terms)
		if best == nil || s.less(best) {
			best = s
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s on %s (%d candidates)", ErrBadPolynomial, p.Label(), set.Label(), len(cands))
	}
	return best, nil
}

// constrains reports whether poly mentions one of p's dependent coordinates.
func constrains(poly *algebra.Polynomial, p *Point) bool {
	for _, v := range p.Dependent() {
		if poly.Contains(v) {
			return true
		}
	}
	return false
}

// ============================================================
// Point compilation
// ============================================================

func (cp *Protocol) compilePoint(ctx *Context, p *Point) (err error) {
	mark := cp.checkpoint(p)
	defer func() {
		if err != nil {
			cp.restore(mark)
			ce := newCompileError(p.Label(), err)
			ctx.observer().CompileFailed(p.Kind(), ce.Reason)
			ctx.logger().Warn("construction rejected", "label", p.Label(), "reason", ce.Reason, "error", err)
			err = ce
		}
	}()

	var steps []Step
	if sc, ok := p.def.(SelfConditional); ok {
		steps, err = cp.compileSelfConditional(ctx, p, sc, mark)
	} else {
		switch sets := p.def.Sets(); len(sets) {
		case 0:
			steps = cp.compileFree(ctx, p)
		case 1:
			steps, err = cp.compileOnSet(ctx, p, sets[0], mark)
		case 2:
			steps, err = cp.compileIntersection(ctx, p, sets, mark)
		default:
			err = fmt.Errorf("%w: %s lies on %d sets", ErrUnsupportedDefinition, p.Label(), len(sets))
		}
	}
	if err != nil {
		return err
	}
	for _, s := range p.def.Sets() {
		if !s.Contains(p) {
			s.AddPoint(p)
			mark.joined = append(mark.joined, s)
		}
	}
	p.compiled = true
	if werr := ctx.write(steps); werr != nil {
		return fmt.Errorf("%w: %v", ErrOutput, werr)
	}
	ctx.logger().Info("point compiled",
		"label", p.Label(),
		"kind", p.Kind().String(),
		"coordinates", p.CoordinateString(),
		"state", p.state.String())
	return nil
}

func (cp *Protocol) compileFree(ctx *Context, p *Point) []Step {
	zero := coord{role: roleZero}
	switch {
	case ctx.options().FixBasePoints && cp.freePoints == 0:
		p.x, p.y = zero, zero
	case ctx.options().FixBasePoints && cp.freePoints == 1:
		p.x, p.y = coord{role: roleFree, v: cp.nextFree()}, zero
	default:
		p.x = coord{role: roleFree, v: cp.nextFree()}
		p.y = coord{role: roleFree, v: cp.nextFree()}
	}
	cp.freePoints++
	p.state = Instantiated
	return []Step{{Label: p.Label(), Kind: p.Kind(), Action: ActionFree, Coordinates: p.CoordinateString()}}
}

// compileOnSet handles a point with one free and one dependent coordinate.
// A winner that does not mention the dependent coordinate means the default
// axis choice is degenerate; the coordinates are swapped once and the
// search repeated. A second degeneracy is fatal.
func (cp *Protocol) compileOnSet(ctx *Context, p *Point, set SetOfPoints, mark *checkpoint) ([]Step, error) {
	p.x = coord{role: roleFree, v: cp.nextFree()}
	p.y = coord{role: roleDependent, v: cp.nextDependent()}
	p.state = Initialized

	var steps []Step
	renamed := false
	for {
		best, err := cp.search(ctx, p, set)
		if err != nil {
			return nil, err
		}
		if constrains(best.poly, p) {
			if renamed {
				p.state = Reinstantiated
			} else {
				p.state = Instantiated
			}
			return append(steps, cp.apply(ctx, p, best, mark)), nil
		}
		if renamed {
			return nil, fmt.Errorf("%w: %s on %s after rename: %s", ErrDegenerate, p.Label(), set.Label(), best.poly)
		}
		// the step pairs the relation with the coordinates it was scored on
		scoredOn := p.CoordinateString()
		p.swap()
		p.state = Renamed
		renamed = true
		ctx.observer().PointRenamed(p.Kind())
		ctx.logger().Debug("point renamed", "label", p.Label(), "from", scoredOn, "to", p.CoordinateString(), "relation", best.poly.String())
		steps = append(steps, Step{Label: p.Label(), Kind: p.Kind(), Action: ActionRenamed, Coordinates: scoredOn, Polynomial: best.poly})
		p.state = Unchanged
	}
}

func (cp *Protocol) compileIntersection(ctx *Context, p *Point, sets []SetOfPoints, mark *checkpoint) ([]Step, error) {
	p.x = coord{role: roleDependent, v: cp.nextDependent()}
	p.y = coord{role: roleDependent, v: cp.nextDependent()}
	p.state = Initialized

	steps := make([]Step, 0, len(sets))
	for _, set := range sets {
		best, err := cp.search(ctx, p, set)
		if err != nil {
			return nil, err
		}
		if !constrains(best.poly, p) {
			return nil, fmt.Errorf("%w: %s on %s: %s", ErrDegenerate, p.Label(), set.Label(), best.poly)
		}
		steps = append(steps, cp.apply(ctx, p, best, mark))
	}
	p.state = Instantiated
	return steps, nil
}

func (cp *Protocol) compileSelfConditional(ctx *Context, p *Point, sc SelfConditional, mark *checkpoint) ([]Step, error) {
	p.x = coord{role: roleDependent, v: cp.nextDependent()}
	p.y = coord{role: roleDependent, v: cp.nextDependent()}
	p.state = Initialized

	templates, binding := sc.Conditions()
	steps := make([]Step, 0, len(templates))
	for i, t := range templates {
		cand := Candidate{Template: t, Binding: binding}
		poly, err := cp.instantiateCondition(ctx, p, cand)
		if err != nil {
			return nil, err
		}
		if fb, ok := sc.(Fallback); ok && poly.IsZero() {
			if alt, ok := fb.Fallback(i); ok {
				ctx.logger().Debug("condition vanishes, using fallback", "point", p.Label(), "template", t.Name(), "fallback", alt.Template.Name())
				cand = alt
				if poly, err = cp.instantiateCondition(ctx, p, cand); err != nil {
					return nil, err
				}
			}
		}
		if poly.IsZero() {
			return nil, fmt.Errorf("%w: %s: %s vanishes", ErrBadPolynomial, p.Label(), cand.Template.Name())
		}
		if !constrains(poly, p) {
			return nil, fmt.Errorf("%w: %s: %s", ErrDegenerate, p.Label(), poly)
		}
		steps = append(steps, cp.apply(ctx, p, &scored{cand: cand, poly: poly}, mark))
	}
	p.state = Instantiated
	return steps, nil
}

func (cp *Protocol) instantiateCondition(ctx *Context, p *Point, c Candidate) (*algebra.Polynomial, error) {
	poly, err := algebra.Instantiate(c.Template, c.Binding.With(algebra.SlotM, p.scratch()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Label(), err)
	}
	ctx.observer().CandidateScored(p.Kind())
	return poly.ReduceByFreeTermDivision(), nil
}

// apply commits a winning polynomial. A polynomial that is just a multiple
// of one of p's dependent coordinates pins that coordinate to zero instead
// of entering the system; the point lies on an axis by construction.
func (cp *Protocol) apply(ctx *Context, p *Point, s *scored, mark *checkpoint) Step {
	step := Step{
		Label:      p.Label(),
		Kind:       p.Kind(),
		Template:   s.cand.Template.Name(),
		Binding:    s.cand.Binding.String(),
		Polynomial: s.poly,
	}
	for _, c := range []*coord{&p.x, &p.y} {
		if c.role == roleDependent && s.poly.IsMultipleOf(c.v) {
			v := c.v
			*c = coord{role: roleZero}
			cp.zeroInSystem(v, mark.hypotheses)
			step.Action = ActionZeroed
			step.Coordinates = p.CoordinateString()
			return step
		}
	}
	cp.hypotheses = append(cp.hypotheses, Hypothesis{Label: p.Label(), Polynomial: s.poly})
	ctx.observer().PolynomialAdded(p.Kind())
	step.Action = ActionAdded
	step.Coordinates = p.CoordinateString()
	return step
}

// zeroInSystem substitutes v = 0 into the hypotheses added since from.
// Only the point being compiled can have introduced v.
func (cp *Protocol) zeroInSystem(v algebra.Variable, from int) {
	m := map[algebra.Variable]*algebra.Polynomial{v: algebra.Zero()}
	kept := cp.hypotheses[:from]
	for _, h := range cp.hypotheses[from:] {
		poly := h.Polynomial.Substitute(m).ReduceByFreeTermDivision()
		if poly.IsZero() {
			continue
		}
		kept = append(kept, Hypothesis{Label: h.Label, Polynomial: poly})
	}
	cp.hypotheses = kept
}
