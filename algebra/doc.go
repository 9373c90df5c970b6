// Package algebra is the exact polynomial kernel behind the construction
// compiler.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat), no floats anywhere
//   - One canonical term order, so structural equality is canonical equality
//   - Immutable values: every operation returns a fresh Polynomial
//   - Templates over role slots, instantiated against concrete points
//
// Variables come in three kinds. Symbolic coordinates (xA, yA, x0, ...) only
// appear inside templates. Free parameters (u1, u2, ...) are independent and
// never solved for. Dependent variables (x1, x2, ...) are the unknowns the
// hypothesis system constrains.
package algebra
