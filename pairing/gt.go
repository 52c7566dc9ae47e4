package pairing

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// gtSize is the canonical encoding length of a GT element (12 Fp limbs).
const gtSize = bls12381.SizeOfGT

// GT is an element of the pairing target group, a subgroup of the degree-12
// extension field over Fp.
type GT struct {
	v bls12381.GT
}

// Pairing computes the product of pairings prod_i e(g1[i], g2[i]). Passing
// multiple pairs lets callers check a multi-term pairing equation (e.g.
// e(A,B)*e(C,D) == 1) with a single Miller loop + final exponentiation
// instead of one per term.
func Pairing(g1 []G1, g2 []G2) (GT, error) {
	if len(g1) != len(g2) {
		return GT{}, errMalformed("pairing: mismatched operand count")
	}
	affG1 := make([]bls12381.G1Affine, len(g1))
	affG2 := make([]bls12381.G2Affine, len(g2))
	for i := range g1 {
		affG1[i] = g1[i].affine()
		affG2[i] = g2[i].affine()
	}
	res, err := bls12381.Pair(affG1, affG2)
	if err != nil {
		return GT{}, errMalformed("pairing: Miller loop failed")
	}
	return GT{v: res}, nil
}

// IsOne reports whether v is the identity of GT. A multi-term pairing
// equation prod e(A_i,B_i) == 1 is checked via this predicate after folding
// in negations on the G1 (or G2) side of each term.
func (v GT) IsOne() bool {
	return v.v.IsOne()
}

// Equal reports whether v and w denote the same element of GT.
func (v GT) Equal(w GT) bool {
	return v.v.Equal(&w.v)
}

// MarshalBinary encodes v in canonical form.
func (v GT) MarshalBinary() ([]byte, error) {
	b := v.v.Bytes()
	return b[:], nil
}

// UnmarshalGT decodes a canonical GT element.
func UnmarshalGT(buf []byte) (GT, error) {
	if len(buf) != gtSize {
		return GT{}, errInvalidLength("GT element", gtSize, len(buf))
	}
	var v bls12381.GT
	if _, err := v.SetBytes(buf); err != nil {
		return GT{}, errMalformed("GT element")
	}
	return GT{v: v}, nil
}
