package pairing

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// g2Size is the canonical compressed encoding length of a G2 point.
const g2Size = bls12381.SizeOfG2AffineCompressed

// G2 is an element of the second source group.
type G2 struct {
	p bls12381.G2Jac
}

// G2Generator returns the canonical generator of G2.
func G2Generator() G2 {
	_, _, _, g2Aff := bls12381.Generators()
	var g G2
	g.p.FromAffine(&g2Aff)
	return g
}

// G2Identity returns the identity element of G2.
func G2Identity() G2 {
	var g G2
	g.p.X.SetZero()
	g.p.Y.SetOne()
	g.p.Z.SetZero()
	return g
}

// Add returns a+b.
func (a G2) Add(b G2) G2 {
	var out G2
	out.p.Set(&a.p)
	out.p.AddAssign(&b.p)
	return out
}

// Neg returns -a.
func (a G2) Neg() G2 {
	var out G2
	out.p.Set(&a.p)
	out.p.Neg(&out.p)
	return out
}

// ScalarMul returns a*k, the point a added to itself k times.
func (a G2) ScalarMul(k Scalar) G2 {
	var out G2
	out.p.ScalarMultiplication(&a.p, k.BigInt())
	return out
}

// IsIdentity reports whether a is the identity element of G2.
func (a G2) IsIdentity() bool {
	var aff bls12381.G2Affine
	aff.FromJacobian(&a.p)
	return aff.IsInfinity()
}

// Equal reports whether a and b denote the same point of G2.
func (a G2) Equal(b G2) bool {
	var affA, affB bls12381.G2Affine
	affA.FromJacobian(&a.p)
	affB.FromJacobian(&b.p)
	return affA.Equal(&affB)
}

// affine normalizes a to its affine representation.
func (a G2) affine() bls12381.G2Affine {
	var aff bls12381.G2Affine
	aff.FromJacobian(&a.p)
	return aff
}

// MarshalBinary encodes a in canonical compressed form (96 bytes).
func (a G2) MarshalBinary() ([]byte, error) {
	aff := a.affine()
	b := aff.Bytes()
	return b[:], nil
}

// UnmarshalG2 decodes a canonical compressed G2 point, rejecting points not
// on the curve or not in the correct subgroup.
func UnmarshalG2(buf []byte) (G2, error) {
	if len(buf) != g2Size {
		return G2{}, errInvalidLength("G2 point", g2Size, len(buf))
	}
	var aff bls12381.G2Affine
	var arr [bls12381.SizeOfG2AffineCompressed]byte
	copy(arr[:], buf)
	if _, err := aff.SetBytes(arr[:]); err != nil {
		return G2{}, errMalformed("G2 point")
	}
	if !aff.IsInSubGroup() {
		return G2{}, errMalformed("G2 point not in subgroup")
	}
	var g G2
	g.p.FromAffine(&aff)
	return g, nil
}
