package algebra

import (
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Polynomial: canonical sum of terms
// ============================================================

// Polynomial is a canonical, immutable sum of terms: sorted by the
// canonical monomial order, no two terms share a monomial and no
// coefficient is zero. The zero polynomial has no terms.
type Polynomial struct{ terms []*Term }

// Zero returns the zero polynomial.
func Zero() *Polynomial { return &Polynomial{} }

// Const returns the constant polynomial r.
func Const(r *big.Rat) *Polynomial { return Canonicalize([]*Term{NewTerm(r)}) }

// Int returns the constant polynomial n.
func Int(n int64) *Polynomial { return Const(ratInt(n)) }

// Var returns the polynomial consisting of v alone.
func Var(v Variable) *Polynomial {
	return &Polynomial{terms: []*Term{{coeff: ratInt(1), powers: []Power{{Var: v, Exp: 1}}}}}
}

// Monomial returns coeff times the given powers.
func Monomial(coeff *big.Rat, powers ...Power) *Polynomial {
	return Canonicalize([]*Term{NewTerm(coeff, powers...)})
}

// Canonicalize merges like terms, drops zero coefficients and sorts into
// canonical order. The input terms are not modified; applying it to the
// terms of a canonical polynomial yields an equal polynomial.
func Canonicalize(terms []*Term) *Polynomial {
	acc := make(map[string]*Term, len(terms))
	order := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == nil || t.coeff.Sign() == 0 {
			continue
		}
		ps := normalizePowers(t.powers)
		k := powersKey(ps)
		if prev, ok := acc[k]; ok {
			prev.coeff = ratAdd(prev.coeff, t.coeff)
			continue
		}
		acc[k] = &Term{coeff: ratCopy(t.coeff), powers: ps}
		order = append(order, k)
	}
	out := make([]*Term, 0, len(order))
	for _, k := range order {
		if t := acc[k]; t.coeff.Sign() != 0 {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return compareMonomials(out[i].powers, out[j].powers) < 0 })
	return &Polynomial{terms: out}
}

// Terms returns the canonical term list. The terms must not be modified.
func (p *Polynomial) Terms() []*Term {
	out := make([]*Term, len(p.terms))
	copy(out, p.terms)
	return out
}

// Len is the number of terms.
func (p *Polynomial) Len() int { return len(p.terms) }

func (p *Polynomial) IsZero() bool { return len(p.terms) == 0 }

// IsConstant reports whether p has no variables (zero included).
func (p *Polynomial) IsConstant() bool {
	return len(p.terms) == 0 || (len(p.terms) == 1 && len(p.terms[0].powers) == 0)
}

// Clone returns a deep copy, coefficients included.
func (p *Polynomial) Clone() *Polynomial {
	out := make([]*Term, len(p.terms))
	for i, t := range p.terms {
		out[i] = t.clone()
	}
	return &Polynomial{terms: out}
}

// ============================================================
// Arithmetic
// ============================================================

func (p *Polynomial) Add(q *Polynomial) *Polynomial {
	all := make([]*Term, 0, len(p.terms)+len(q.terms))
	all = append(all, p.terms...)
	all = append(all, q.terms...)
	return Canonicalize(all)
}

func (p *Polynomial) Sub(q *Polynomial) *Polynomial { return p.Add(q.Neg()) }

func (p *Polynomial) Neg() *Polynomial { return p.Scale(ratInt(-1)) }

// Scale multiplies every coefficient by r.
func (p *Polynomial) Scale(r *big.Rat) *Polynomial {
	if r.Sign() == 0 {
		return Zero()
	}
	out := make([]*Term, len(p.terms))
	for i, t := range p.terms {
		out[i] = &Term{coeff: ratMul(t.coeff, r), powers: t.Powers()}
	}
	return &Polynomial{terms: out}
}

func (p *Polynomial) Mul(q *Polynomial) *Polynomial {
	if p.IsZero() || q.IsZero() {
		return Zero()
	}
	all := make([]*Term, 0, len(p.terms)*len(q.terms))
	for _, a := range p.terms {
		for _, b := range q.terms {
			all = append(all, &Term{coeff: ratMul(a.coeff, b.coeff), powers: mulPowers(a.powers, b.powers)})
		}
	}
	return Canonicalize(all)
}

// Pow raises p to a non-negative power.
func (p *Polynomial) Pow(n int) *Polynomial {
	if n < 0 {
		panic("algebra: negative polynomial exponent")
	}
	result := Int(1)
	base := p
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base)
		}
	}
	return result
}

// Sum adds any number of polynomials.
func Sum(ps ...*Polynomial) *Polynomial {
	var all []*Term
	for _, p := range ps {
		all = append(all, p.terms...)
	}
	return Canonicalize(all)
}

// ============================================================
// Degrees and variables
// ============================================================

// Degree is the maximum total exponent over dependent variables only.
// Free parameters do not count.
func (p *Polynomial) Degree() int {
	d := 0
	for _, t := range p.terms {
		if td := t.Degree(); td > d {
			d = td
		}
	}
	return d
}

// TotalDegree is the maximum total exponent over all variables.
func (p *Polynomial) TotalDegree() int {
	d := 0
	for _, t := range p.terms {
		if td := t.TotalDegree(); td > d {
			d = td
		}
	}
	return d
}

// DegreeIn is the maximum exponent of v.
func (p *Polynomial) DegreeIn(v Variable) int {
	d := 0
	for _, t := range p.terms {
		if e := t.Exponent(v); e > d {
			d = e
		}
	}
	return d
}

func (p *Polynomial) Contains(v Variable) bool { return p.DegreeIn(v) > 0 }

// Variables returns the distinct variables of p in canonical order.
func (p *Polynomial) Variables() []Variable {
	seen := map[Variable]struct{}{}
	var out []Variable
	for _, t := range p.terms {
		for _, pw := range t.powers {
			if _, ok := seen[pw.Var]; !ok {
				seen[pw.Var] = struct{}{}
				out = append(out, pw.Var)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return compareVars(out[i], out[j]) < 0 })
	return out
}

// IsMultipleOf reports whether p is a nonzero constant times v.
func (p *Polynomial) IsMultipleOf(v Variable) bool {
	return len(p.terms) == 1 && len(p.terms[0].powers) == 1 &&
		p.terms[0].powers[0].Var == v && p.terms[0].powers[0].Exp == 1
}

// ============================================================
// Substitution
// ============================================================

// Substitute replaces every variable that is a key of m by its image.
// Variables without an image are kept.
func (p *Polynomial) Substitute(m map[Variable]*Polynomial) *Polynomial {
	parts := make([]*Polynomial, 0, len(p.terms))
	for _, t := range p.terms {
		kept := make([]Power, 0, len(t.powers))
		factor := Int(1)
		for _, pw := range t.powers {
			if img, ok := m[pw.Var]; ok {
				factor = factor.Mul(img.Pow(pw.Exp))
				continue
			}
			kept = append(kept, pw)
		}
		if factor.IsZero() {
			continue
		}
		parts = append(parts, factor.Mul(Monomial(t.coeff, kept...)))
	}
	return Sum(parts...)
}

// ============================================================
// Free-term reduction and normal forms
// ============================================================

// ReduceByFreeTermDivision divides out the largest product of free
// parameters common to every term. Such a factor cannot vanish, so it adds
// nothing to the system.
func (p *Polynomial) ReduceByFreeTermDivision() *Polynomial {
	if len(p.terms) == 0 {
		return Zero()
	}
	common := map[Variable]int{}
	for _, pw := range p.terms[0].powers {
		if pw.Var.Kind == Free {
			common[pw.Var] = pw.Exp
		}
	}
	for _, t := range p.terms[1:] {
		for v, e := range common {
			te := t.Exponent(v)
			switch {
			case te == 0:
				delete(common, v)
			case te < e:
				common[v] = te
			}
		}
		if len(common) == 0 {
			break
		}
	}
	if len(common) == 0 {
		return p.Clone()
	}
	out := make([]*Term, len(p.terms))
	for i, t := range p.terms {
		ps := make([]Power, 0, len(t.powers))
		for _, pw := range t.powers {
			if e, ok := common[pw.Var]; ok {
				pw.Exp -= e
			}
			if pw.Exp > 0 {
				ps = append(ps, pw)
			}
		}
		out[i] = &Term{coeff: ratCopy(t.coeff), powers: ps}
	}
	return Canonicalize(out)
}

// Primitive scales p to integer coefficients with gcd 1 and a positive
// leading coefficient. Two polynomials that differ by a nonzero rational
// factor share a primitive form.
func (p *Polynomial) Primitive() *Polynomial {
	if len(p.terms) == 0 {
		return Zero()
	}
	den := big.NewInt(1)
	for _, t := range p.terms {
		den = lcm(den, t.coeff.Denom())
	}
	var g *big.Int
	for _, t := range p.terms {
		n := new(big.Int).Mul(t.coeff.Num(), new(big.Int).Quo(den, t.coeff.Denom()))
		n.Abs(n)
		if g == nil {
			g = n
		} else {
			g = new(big.Int).GCD(nil, nil, g, n)
		}
	}
	scale := new(big.Rat).SetFrac(den, g)
	if p.terms[0].coeff.Sign() < 0 {
		scale.Neg(scale)
	}
	return p.Scale(scale)
}

// ============================================================
// Collecting by a subset of variables
// ============================================================

// CollectedTerm is a monomial over the selected variables with a
// polynomial coefficient over the remaining ones.
type CollectedTerm struct {
	Powers []Power
	Coeff  *Polynomial
}

// Collect groups p by the monomials over the variables accepted by sel.
// The result is ordered by the canonical monomial order.
func (p *Polynomial) Collect(sel func(Variable) bool) []CollectedTerm {
	groups := map[string][]*Term{}
	monos := map[string][]Power{}
	var keys []string
	for _, t := range p.terms {
		var in, rest []Power
		for _, pw := range t.powers {
			if sel(pw.Var) {
				in = append(in, pw)
			} else {
				rest = append(rest, pw)
			}
		}
		k := powersKey(in)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
			monos[k] = in
		}
		groups[k] = append(groups[k], &Term{coeff: t.coeff, powers: rest})
	}
	sort.Slice(keys, func(i, j int) bool { return compareMonomials(monos[keys[i]], monos[keys[j]]) < 0 })
	out := make([]CollectedTerm, len(keys))
	for i, k := range keys {
		out[i] = CollectedTerm{Powers: monos[k], Coeff: Canonicalize(groups[k])}
	}
	return out
}

// DependentTerms is the view of p as a polynomial in dependent variables
// whose coefficients are polynomials in the free parameters.
func (p *Polynomial) DependentTerms() []CollectedTerm {
	return p.Collect(Variable.IsDependent)
}

// CoefficientOf returns the coefficient of the monomial over the selected
// variables, zero when it does not occur.
func (p *Polynomial) CoefficientOf(sel func(Variable) bool, mono ...Power) *Polynomial {
	k := powersKey(normalizePowers(mono))
	for _, ct := range p.Collect(sel) {
		if powersKey(ct.Powers) == k {
			return ct.Coeff
		}
	}
	return Zero()
}

// ============================================================
// Equality and rendering
// ============================================================

// Equal is canonical equality.
func (p *Polynomial) Equal(q *Polynomial) bool {
	if p == nil || q == nil {
		return p == q
	}
	if len(p.terms) != len(q.terms) {
		return false
	}
	for i := range p.terms {
		if p.terms[i].key() != q.terms[i].key() || p.terms[i].coeff.Cmp(q.terms[i].coeff) != 0 {
			return false
		}
	}
	return true
}

func (p *Polynomial) String() string {
	if len(p.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range p.terms {
		s := t.String()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}
