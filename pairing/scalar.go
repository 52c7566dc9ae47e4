package pairing

import (
	"crypto/sha256"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// scalarSize is the canonical big-endian encoding length of a Zp element
// for the BLS12-381 scalar field (Fr).
const scalarSize = fr.Bytes

// Scalar is an element of Zp, the BLS12-381 scalar field shared by G1, G2,
// and GT.
type Scalar struct {
	v fr.Element
}

// ZeroScalar returns the additive identity.
func ZeroScalar() Scalar {
	var s Scalar
	s.v.SetZero()
	return s
}

// OneScalar returns the multiplicative identity.
func OneScalar() Scalar {
	var s Scalar
	s.v.SetOne()
	return s
}

// RandomScalar draws a uniform element of Zp using the supplied entropy
// source.
func RandomScalar(rnd io.Reader) (Scalar, error) {
	buf := make([]byte, scalarSize+16) // extra bytes to reduce modulo bias
	if _, err := io.ReadFull(rnd, buf); err != nil {
		return Scalar{}, errMalformed("random scalar")
	}
	var s Scalar
	s.v.SetBigInt(new(big.Int).SetBytes(buf))
	return s, nil
}

// HashToScalar maps domain||msg to Zp: SHA-256 of the concatenation,
// interpreted as a big-endian integer and reduced modulo the group order.
// domain is a short ASCII tag (e.g. "ACC_SIG") that separates uses of this
// function from each other. Uses in this module: the accumulator's
// blacklist hashing ("ACC_SIG"), the CVC leaf-data and child-pointer hashes
// (empty domain), and the CVC per-node PRF ("CVC_PRF" followed by the key).
func HashToScalar(domain, msg []byte) Scalar {
	h := sha256.New()
	h.Write(domain)
	h.Write(msg)
	sum := h.Sum(nil)

	var s Scalar
	s.v.SetBigInt(new(big.Int).SetBytes(sum))
	return s
}

// Add returns a+b.
func (a Scalar) Add(b Scalar) Scalar {
	var out Scalar
	out.v.Add(&a.v, &b.v)
	return out
}

// Sub returns a-b.
func (a Scalar) Sub(b Scalar) Scalar {
	var out Scalar
	out.v.Sub(&a.v, &b.v)
	return out
}

// Neg returns -a.
func (a Scalar) Neg() Scalar {
	var out Scalar
	out.v.Neg(&a.v)
	return out
}

// Mul returns a*b.
func (a Scalar) Mul(b Scalar) Scalar {
	var out Scalar
	out.v.Mul(&a.v, &b.v)
	return out
}

// Equal reports whether a and b denote the same element of Zp.
func (a Scalar) Equal(b Scalar) bool {
	return a.v.Equal(&b.v)
}

// IsZero reports whether a is the additive identity.
func (a Scalar) IsZero() bool {
	return a.v.IsZero()
}

// BigInt returns the canonical non-negative representative of a in [0, p).
func (a Scalar) BigInt() *big.Int {
	var out big.Int
	a.v.BigInt(&out)
	return &out
}

// MarshalBinary encodes a in canonical big-endian form.
func (a Scalar) MarshalBinary() ([]byte, error) {
	b := a.v.Bytes()
	return b[:], nil
}

// UnmarshalScalar decodes a canonical big-endian Zp element.
func UnmarshalScalar(buf []byte) (Scalar, error) {
	if len(buf) != scalarSize {
		return Scalar{}, errInvalidLength("scalar", scalarSize, len(buf))
	}
	var s Scalar
	s.v.SetBytes(buf)
	return s, nil
}
