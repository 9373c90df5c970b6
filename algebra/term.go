package algebra

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Power
// ============================================================

// Power is a variable raised to a positive integer exponent.
type Power struct {
	Var Variable
	Exp int
}

func (p Power) String() string {
	if p.Exp == 1 {
		return p.Var.String()
	}
	return p.Var.String() + "^" + strconv.Itoa(p.Exp)
}

// normalizePowers sorts by variable, merges repeated variables and drops
// zero exponents. The input is not modified.
func normalizePowers(in []Power) []Power {
	if len(in) == 0 {
		return nil
	}
	ps := make([]Power, len(in))
	copy(ps, in)
	sort.SliceStable(ps, func(i, j int) bool { return compareVars(ps[i].Var, ps[j].Var) < 0 })
	out := ps[:0]
	for _, p := range ps {
		if n := len(out); n > 0 && out[n-1].Var == p.Var {
			out[n-1].Exp += p.Exp
			continue
		}
		out = append(out, p)
	}
	kept := out[:0]
	for _, p := range out {
		if p.Exp != 0 {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// mulPowers merges two normalized power lists.
func mulPowers(a, b []Power) []Power {
	out := make([]Power, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := compareVars(a[i].Var, b[j].Var); {
		case c < 0:
			out = append(out, a[i])
			i++
		case c > 0:
			out = append(out, b[j])
			j++
		default:
			out = append(out, Power{Var: a[i].Var, Exp: a[i].Exp + b[j].Exp})
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	if len(out) == 0 {
		return nil
	}
	return out
}

// powersKey identifies a monomial structurally. Rendered names are not
// unique: the symbolic x0 and the dependent x0 print alike.
func powersKey(ps []Power) string {
	var sb strings.Builder
	for _, p := range ps {
		sb.WriteByte(byte('0' + p.Var.Kind))
		sb.WriteByte(byte('0' + p.Var.Axis))
		sb.WriteByte(byte('0' + p.Var.Slot))
		sb.WriteString(strconv.Itoa(p.Var.Index))
		sb.WriteByte('^')
		sb.WriteString(strconv.Itoa(p.Exp))
		sb.WriteByte(';')
	}
	return sb.String()
}

func powersString(ps []Power) string {
	var sb strings.Builder
	for i, p := range ps {
		if i > 0 {
			sb.WriteByte('*')
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}

func dependentDegree(ps []Power) int {
	d := 0
	for _, p := range ps {
		if p.Var.Kind == Dependent {
			d += p.Exp
		}
	}
	return d
}

func totalDegree(ps []Power) int {
	d := 0
	for _, p := range ps {
		d += p.Exp
	}
	return d
}

// compareMonomials is the canonical term order: higher dependent degree
// first, then higher total degree, then lexicographic from the highest
// variable down.
func compareMonomials(a, b []Power) int {
	if c := cmpInt(dependentDegree(b), dependentDegree(a)); c != 0 {
		return c
	}
	if c := cmpInt(totalDegree(b), totalDegree(a)); c != 0 {
		return c
	}
	i, j := len(a)-1, len(b)-1
	for i >= 0 && j >= 0 {
		if c := compareVars(b[j].Var, a[i].Var); c != 0 {
			return c
		}
		if c := cmpInt(b[j].Exp, a[i].Exp); c != 0 {
			return c
		}
		i--
		j--
	}
	return cmpInt(j, i)
}

// ============================================================
// Term
// ============================================================

// Term is a rational coefficient times a monomial. Terms are never mutated
// after construction.
type Term struct {
	coeff  *big.Rat
	powers []Power
}

// NewTerm builds a term, normalizing its powers.
func NewTerm(coeff *big.Rat, powers ...Power) *Term {
	return &Term{coeff: ratCopy(coeff), powers: normalizePowers(powers)}
}

// Coeff returns a copy of the coefficient.
func (t *Term) Coeff() *big.Rat { return ratCopy(t.coeff) }

// Powers returns a copy of the monomial.
func (t *Term) Powers() []Power {
	out := make([]Power, len(t.powers))
	copy(out, t.powers)
	return out
}

// Degree is the total exponent over dependent variables.
func (t *Term) Degree() int { return dependentDegree(t.powers) }

// TotalDegree counts every variable.
func (t *Term) TotalDegree() int { return totalDegree(t.powers) }

// Exponent returns the exponent of v in t, zero if absent.
func (t *Term) Exponent(v Variable) int {
	for _, p := range t.powers {
		if p.Var == v {
			return p.Exp
		}
	}
	return 0
}

func (t *Term) key() string { return powersKey(t.powers) }

func (t *Term) clone() *Term {
	return &Term{coeff: ratCopy(t.coeff), powers: t.Powers()}
}

func (t *Term) String() string {
	mono := powersString(t.powers)
	switch {
	case mono == "":
		return ratString(t.coeff)
	case ratIsOne(t.coeff):
		return mono
	case ratIsNegOne(t.coeff):
		return "-" + mono
	}
	return ratString(t.coeff) + "*" + mono
}
