package pairing

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestScalarRoundTrip(t *testing.T) {
	s, err := RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	buf, err := s.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got, err := UnmarshalScalar(buf)
	if err != nil {
		t.Fatalf("UnmarshalScalar: %v", err)
	}
	if !s.Equal(got) {
		t.Fatalf("round-trip mismatch")
	}
}

func TestScalarArithmetic(t *testing.T) {
	one := OneScalar()
	zero := ZeroScalar()
	if !one.Add(zero).Equal(one) {
		t.Fatalf("one+zero != one")
	}
	if !one.Sub(one).Equal(zero) {
		t.Fatalf("one-one != zero")
	}
	if !one.Neg().Add(one).Equal(zero) {
		t.Fatalf("-one+one != zero")
	}
	two := one.Add(one)
	if !two.Mul(one).Equal(two) {
		t.Fatalf("two*one != two")
	}
}

func TestHashToScalarDeterministic(t *testing.T) {
	a := HashToScalar([]byte("ACC_SIG"), []byte("some signature bytes"))
	b := HashToScalar([]byte("ACC_SIG"), []byte("some signature bytes"))
	if !a.Equal(b) {
		t.Fatalf("HashToScalar not deterministic")
	}
	c := HashToScalar([]byte("OTHER"), []byte("some signature bytes"))
	if a.Equal(c) {
		t.Fatalf("domain separation failed: different domains collided")
	}
}

func TestG1RoundTripAndIdentity(t *testing.T) {
	g := G1Generator()
	buf, err := g.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got, err := UnmarshalG1(buf)
	if err != nil {
		t.Fatalf("UnmarshalG1: %v", err)
	}
	if !g.Equal(got) {
		t.Fatalf("G1 round-trip mismatch")
	}

	id := G1Identity()
	if !id.IsIdentity() {
		t.Fatalf("G1Identity().IsIdentity() == false")
	}
	idBuf, err := id.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary identity: %v", err)
	}
	idGot, err := UnmarshalG1(idBuf)
	if err != nil {
		t.Fatalf("UnmarshalG1 identity: %v", err)
	}
	if !idGot.IsIdentity() {
		t.Fatalf("identity did not round-trip as identity")
	}
}

func TestG1ScalarMulLinearity(t *testing.T) {
	g := G1Generator()
	k, err := RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	lhs := g.ScalarMul(k).Add(g.ScalarMul(k))
	rhs := g.ScalarMul(k.Add(k))
	if !lhs.Equal(rhs) {
		t.Fatalf("g^k + g^k != g^(2k)")
	}
}

func TestPairingBilinearity(t *testing.T) {
	g1 := G1Generator()
	g2 := G2Generator()
	a, err := RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	b, err := RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}

	lhs, err := Pairing([]G1{g1.ScalarMul(a)}, []G2{g2.ScalarMul(b)})
	if err != nil {
		t.Fatalf("Pairing: %v", err)
	}
	rhs, err := Pairing([]G1{g1}, []G2{g2.ScalarMul(a.Mul(b))})
	if err != nil {
		t.Fatalf("Pairing: %v", err)
	}
	if !lhs.Equal(rhs) {
		t.Fatalf("e(g1^a, g2^b) != e(g1, g2^(ab))")
	}
}

func TestPairingMultiTermIdentity(t *testing.T) {
	g1 := G1Generator()
	g2 := G2Generator()
	a, err := RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}

	// e(g1^a, g2) * e(g1, g2^a)^-1 == 1, folding the inverse into a negated
	// G1 term so a single Pairing call with two operand pairs checks it.
	res, err := Pairing([]G1{g1.ScalarMul(a), g1.Neg()}, []G2{g2, g2.ScalarMul(a)})
	if err != nil {
		t.Fatalf("Pairing: %v", err)
	}
	if !res.IsOne() {
		t.Fatalf("multi-term pairing product expected identity")
	}
}

func TestUnmarshalRejectsWrongLength(t *testing.T) {
	if _, err := UnmarshalG1(bytes.Repeat([]byte{0xAB}, 10)); err == nil {
		t.Fatalf("UnmarshalG1 accepted wrong-length buffer")
	}
	if _, err := UnmarshalG2(bytes.Repeat([]byte{0xAB}, 10)); err == nil {
		t.Fatalf("UnmarshalG2 accepted wrong-length buffer")
	}
	if _, err := UnmarshalScalar(bytes.Repeat([]byte{0xAB}, 10)); err == nil {
		t.Fatalf("UnmarshalScalar accepted wrong-length buffer")
	}
}
