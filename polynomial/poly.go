// Package polynomial implements dense univariate polynomial arithmetic over
// Zp, the scalar field backing the pairing layer. It mirrors the structure
// of a Reed-Solomon polynomial toolkit -- one function per operation, coeffs
// stored ascending by degree -- ported from GF(2^8) arithmetic to Zp.
package polynomial

import "github.com/eth2030/vds/pairing"

// Poly is a dense polynomial over Zp, coefficients stored ascending by
// degree: Poly{c0, c1, c2, ...} represents c0 + c1*X + c2*X^2 + ...
// A nil or empty Poly represents the zero polynomial.
type Poly []pairing.Scalar

// One returns the constant polynomial 1.
func One() Poly {
	return Poly{pairing.OneScalar()}
}

// Degree returns the degree of p, or -1 for the zero polynomial. Trailing
// zero coefficients are ignored, so the result is the exact degree even
// though other operations in this package do not trim them.
func (p Poly) Degree() int {
	n := p.normalizedLen()
	if n == 0 {
		return -1
	}
	return n - 1
}

// normalizedLen returns the length of p with trailing zero coefficients
// dropped.
func (p Poly) normalizedLen() int {
	n := len(p)
	for n > 0 && p[n-1].IsZero() {
		n--
	}
	return n
}

// Normalize returns p with trailing zero coefficients removed.
func (p Poly) Normalize() Poly {
	return append(Poly{}, p[:p.normalizedLen()]...)
}

// Eval evaluates p at x using Horner's method.
func (p Poly) Eval(x pairing.Scalar) pairing.Scalar {
	acc := pairing.ZeroScalar()
	for i := len(p) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(p[i])
	}
	return acc
}

// MulByLinear returns p * (X + c), the product of p with a monic linear
// factor. This is the core update step used to grow the accumulator
// polynomial f(X) = prod (X + x_i) one blacklisted index at a time.
func (p Poly) MulByLinear(c pairing.Scalar) Poly {
	if len(p) == 0 {
		return Poly{}
	}
	out := make(Poly, len(p)+1)
	for i, coeff := range p {
		// contribution of coeff*X^i * X -> X^(i+1)
		out[i+1] = out[i+1].Add(coeff)
		// contribution of coeff*X^i * c -> c*coeff*X^i
		out[i] = out[i].Add(coeff.Mul(c))
	}
	return out
}

// DivByLinear divides p by the monic linear factor (X + c) using synthetic
// division, returning the quotient q such that p = q*(X+c) + r. It reports
// an error if the remainder r is nonzero, i.e. if -c is not a root of p.
// The accumulator divides f(X) - f(-y) by (X + y), which is exact for every
// y, so there a nonzero remainder signals inconsistent stored state.
func (p Poly) DivByLinear(c pairing.Scalar) (Poly, error) {
	n := p.normalizedLen()
	if n == 0 {
		return Poly{}, nil
	}
	// Synthetic division of p(X) by (X - r) uses root r = -c.
	r := c.Neg()
	q := make(Poly, n-1)
	coeff := p[n-1]
	for i := n - 2; i >= 0; i-- {
		if i < len(q) {
			q[i] = coeff
		}
		coeff = p[i].Add(coeff.Mul(r))
	}
	if !coeff.IsZero() {
		return nil, errNonzeroRemainder
	}
	return q, nil
}

// Add returns p+q, coefficient-wise, zero-padding the shorter operand.
func (p Poly) Add(q Poly) Poly {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(Poly, n)
	for i := 0; i < n; i++ {
		var a, b pairing.Scalar
		if i < len(p) {
			a = p[i]
		} else {
			a = pairing.ZeroScalar()
		}
		if i < len(q) {
			b = q[i]
		} else {
			b = pairing.ZeroScalar()
		}
		out[i] = a.Add(b)
	}
	return out
}

// SubScalar returns p - c, i.e. p with c subtracted from its constant term.
// Used to form f(X) - v before dividing by (X + y) in the non-membership
// witness construction.
func (p Poly) SubScalar(c pairing.Scalar) Poly {
	out := append(Poly{}, p...)
	if len(out) == 0 {
		out = Poly{pairing.ZeroScalar()}
	}
	out[0] = out[0].Sub(c)
	return out
}

// FromRoots builds f(X) = prod (X + x_i) for the given roots, in order.
func FromRoots(roots []pairing.Scalar) Poly {
	f := One()
	for _, x := range roots {
		f = f.MulByLinear(x)
	}
	return f
}
