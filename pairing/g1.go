package pairing

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// g1Size is the canonical compressed encoding length of a G1 point.
const g1Size = bls12381.SizeOfG1AffineCompressed

// G1 is an element of the first source group.
type G1 struct {
	p bls12381.G1Jac
}

// G1Generator returns the canonical generator of G1.
func G1Generator() G1 {
	_, _, g1Aff, _ := bls12381.Generators()
	var g G1
	g.p.FromAffine(&g1Aff)
	return g
}

// G1Identity returns the identity element of G1.
func G1Identity() G1 {
	var g G1
	g.p.X.SetZero()
	g.p.Y.SetOne()
	g.p.Z.SetZero()
	return g
}

// Add returns a+b.
func (a G1) Add(b G1) G1 {
	var out G1
	out.p.Set(&a.p)
	out.p.AddAssign(&b.p)
	return out
}

// Neg returns -a.
func (a G1) Neg() G1 {
	var out G1
	out.p.Set(&a.p)
	out.p.Neg(&out.p)
	return out
}

// ScalarMul returns a*k, the point a added to itself k times.
func (a G1) ScalarMul(k Scalar) G1 {
	var out G1
	out.p.ScalarMultiplication(&a.p, k.BigInt())
	return out
}

// IsIdentity reports whether a is the identity element of G1.
func (a G1) IsIdentity() bool {
	var aff bls12381.G1Affine
	aff.FromJacobian(&a.p)
	return aff.IsInfinity()
}

// Equal reports whether a and b denote the same point of G1.
func (a G1) Equal(b G1) bool {
	var affA, affB bls12381.G1Affine
	affA.FromJacobian(&a.p)
	affB.FromJacobian(&b.p)
	return affA.Equal(&affB)
}

// affine normalizes a to its affine representation.
func (a G1) affine() bls12381.G1Affine {
	var aff bls12381.G1Affine
	aff.FromJacobian(&a.p)
	return aff
}

// MarshalBinary encodes a in canonical compressed form (48 bytes).
func (a G1) MarshalBinary() ([]byte, error) {
	aff := a.affine()
	b := aff.Bytes()
	return b[:], nil
}

// UnmarshalG1 decodes a canonical compressed G1 point, rejecting points not
// on the curve or not in the correct subgroup.
func UnmarshalG1(buf []byte) (G1, error) {
	if len(buf) != g1Size {
		return G1{}, errInvalidLength("G1 point", g1Size, len(buf))
	}
	var aff bls12381.G1Affine
	var arr [bls12381.SizeOfG1AffineCompressed]byte
	copy(arr[:], buf)
	if _, err := aff.SetBytes(arr[:]); err != nil {
		return G1{}, errMalformed("G1 point")
	}
	if !aff.IsInSubGroup() {
		return G1{}, errMalformed("G1 point not in subgroup")
	}
	var g G1
	g.p.FromAffine(&aff)
	return g, nil
}
