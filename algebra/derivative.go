package algebra

import "math/big"

// ============================================================
// Differentiation
// ============================================================

// Derivative is the partial derivative of p with respect to v.
func (p *Polynomial) Derivative(v Variable) *Polynomial {
	out := make([]*Term, 0, len(p.terms))
	for _, t := range p.terms {
		e := t.Exponent(v)
		if e == 0 {
			continue
		}
		ps := make([]Power, 0, len(t.powers))
		for _, pw := range t.powers {
			if pw.Var == v {
				pw.Exp--
			}
			ps = append(ps, pw)
		}
		out = append(out, &Term{coeff: ratMul(t.coeff, new(big.Rat).SetInt64(int64(e))), powers: ps})
	}
	return Canonicalize(out)
}

// DerivativeByPoint treats p = 0 as an implicit curve traced by the point in
// slot s and returns its slope dy/dx as numerator and denominator:
// -∂p/∂x over ∂p/∂y. The denominator may be the zero polynomial when the
// curve is vertical at every point.
func DerivativeByPoint(p *Polynomial, s Slot) (num, den *Polynomial) {
	return p.Derivative(SX(s)).Neg(), p.Derivative(SY(s))
}
