package algebra

import (
	"errors"
	"fmt"
)

// ErrZeroDenominator is returned when a fraction would divide by zero.
var ErrZeroDenominator = errors.New("algebra: zero denominator")

// ============================================================
// Fraction: rational function of polynomials
// ============================================================

// Fraction is Num/Den. It models coefficients that are rational functions
// of the free parameters, and rational coordinate expressions in general.
type Fraction struct {
	Num *Polynomial
	Den *Polynomial
}

// NewFraction returns num/den, folding a constant denominator into the
// numerator.
func NewFraction(num, den *Polynomial) (*Fraction, error) {
	if den.IsZero() {
		return nil, ErrZeroDenominator
	}
	if den.IsConstant() {
		inv := den.terms[0].Coeff()
		inv.Inv(inv)
		return &Fraction{Num: num.Scale(inv), Den: Int(1)}, nil
	}
	return &Fraction{Num: num.Clone(), Den: den.Clone()}, nil
}

// FromPolynomial returns p/1.
func FromPolynomial(p *Polynomial) *Fraction { return &Fraction{Num: p.Clone(), Den: Int(1)} }

func (f *Fraction) IsZero() bool { return f.Num.IsZero() }

func (f *Fraction) Add(g *Fraction) *Fraction {
	if f.Den.Equal(g.Den) {
		return &Fraction{Num: f.Num.Add(g.Num), Den: f.Den.Clone()}
	}
	return &Fraction{
		Num: f.Num.Mul(g.Den).Add(g.Num.Mul(f.Den)),
		Den: f.Den.Mul(g.Den),
	}
}

func (f *Fraction) Neg() *Fraction { return &Fraction{Num: f.Num.Neg(), Den: f.Den.Clone()} }

func (f *Fraction) Sub(g *Fraction) *Fraction { return f.Add(g.Neg()) }

func (f *Fraction) Mul(g *Fraction) *Fraction {
	return &Fraction{Num: f.Num.Mul(g.Num), Den: f.Den.Mul(g.Den)}
}

func (f *Fraction) Div(g *Fraction) (*Fraction, error) {
	if g.IsZero() {
		return nil, ErrZeroDenominator
	}
	return NewFraction(f.Num.Mul(g.Den), f.Den.Mul(g.Num))
}

// Equal compares by cross multiplication.
func (f *Fraction) Equal(g *Fraction) bool {
	return f.Num.Mul(g.Den).Equal(g.Num.Mul(f.Den))
}

// Equate clears denominators of the equation p = f and returns
// p*Den - Num, which vanishes exactly where the equation holds.
func (f *Fraction) Equate(p *Polynomial) *Polynomial {
	return p.Mul(f.Den).Sub(f.Num)
}

func (f *Fraction) String() string {
	if f.Den.IsConstant() {
		return f.Num.String()
	}
	return fmt.Sprintf("(%s)/(%s)", f.Num, f.Den)
}
