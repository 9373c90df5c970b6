package algebra

import "math/big"

// ============================================================
// Rational helpers over math/big.Rat
// ============================================================

func ratInt(n int64) *big.Rat { return new(big.Rat).SetInt64(n) }

// Frac returns p/q. It panics when q is zero.
func Frac(p, q int64) *big.Rat {
	if q == 0 {
		panic("algebra: denominator is zero")
	}
	return new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))
}

func ratAdd(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func ratMul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
func ratCopy(a *big.Rat) *big.Rat   { return new(big.Rat).Set(a) }
func ratIsOne(a *big.Rat) bool      { return a.IsInt() && a.Num().IsInt64() && a.Num().Int64() == 1 }
func ratIsNegOne(a *big.Rat) bool   { return a.IsInt() && a.Num().IsInt64() && a.Num().Int64() == -1 }

func ratString(a *big.Rat) string {
	if a.IsInt() {
		return a.Num().String()
	}
	return a.RatString()
}

func lcm(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	g := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Quo(new(big.Int).Abs(a), g)
	return out.Mul(out, new(big.Int).Abs(b))
}
