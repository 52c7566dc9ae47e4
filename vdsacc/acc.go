// Package vdsacc implements VDS-ACC: Ed25519-style signatures bound to
// indices, authenticated against a bilinear (Nguyen) accumulator that
// certifies a presented signature has not been superseded. See spec §4.6.
package vdsacc

import (
	"crypto/rand"
	"fmt"

	"github.com/eth2030/vds/item"
	"github.com/eth2030/vds/log"
	"github.com/eth2030/vds/pairing"
	"github.com/eth2030/vds/polynomial"
	"github.com/eth2030/vds/signature"
	"github.com/eth2030/vds/storage"
	"github.com/eth2030/vds/vds"
)

// accSigDomain is the domain-separation tag for hashing signatures into
// Zp, prepended so this use of hash_to_scalar never collides with CVC's
// data-hashing use. See spec §6 / §9.
var accSigDomain = []byte("ACC_SIG")

// PublicParams is the ACCPublic value published at setup: generators,
// verification key, and the current accumulator value.
type PublicParams struct {
	G1          pairing.G1
	H           pairing.G2
	Hs          pairing.G2
	VK          signature.VerificationKey
	Accumulator pairing.G1
}

// ClientState is the small local state a VDS-ACC client retains: its
// signing key, the accumulator trapdoor, the generators, the current
// accumulator value, and the powers cache needed to build witnesses.
type ClientState struct {
	SK     signature.SigningKey
	S      pairing.Scalar
	G1     pairing.G1
	H      pairing.G2
	Hs     pairing.G2
	A      pairing.G1
	Powers []pairing.G1
	Upto   uint64
	Cnt    uint64
}

// Engine runs the VDS-ACC operations against a storage.ACCStore.
type Engine struct {
	store storage.ACCStore
	log   *log.Logger
}

// NewEngine builds an Engine over the given storage surface.
func NewEngine(store storage.ACCStore) *Engine {
	return &Engine{store: store, log: log.Default().Module("vdsacc")}
}

// Setup samples a fresh signing key and accumulator trapdoor, initializes
// the accumulator to the empty set (A=g1, f=[1]), and persists the initial
// server-side state.
func (e *Engine) Setup() (*PublicParams, *ClientState, error) {
	sk, vk, err := signature.Keygen()
	if err != nil {
		return nil, nil, vds.NewGroupError("acc_setup", err)
	}
	s, err := pairing.RandomScalar(rand.Reader)
	if err != nil {
		return nil, nil, vds.NewGroupError("acc_setup", err)
	}
	g1 := pairing.G1Generator()
	h := pairing.G2Generator()
	hs := h.ScalarMul(s)

	a := g1
	powers := []pairing.G1{g1, g1.ScalarMul(s)}
	f := polynomial.One()

	if err := e.persistState(a, powers); err != nil {
		return nil, nil, err
	}
	if err := e.persistPoly(f); err != nil {
		return nil, nil, err
	}

	pub := &PublicParams{G1: g1, H: h, Hs: hs, VK: vk, Accumulator: a}
	cs := &ClientState{SK: sk, S: s, G1: g1, H: h, Hs: hs, A: a, Powers: powers, Upto: 0, Cnt: 0}
	e.log.Info("acc setup complete")
	return pub, cs, nil
}

// Append signs (data, fresh tag, next index) and persists the item. idx is
// server-authoritative: it is one past the current item count, regardless
// of the client's own counter.
func (e *Engine) Append(cs *ClientState, data []byte) (vds.AppendReceipt, error) {
	count, err := e.store.ACCCount()
	if err != nil {
		return vds.AppendReceipt{}, err
	}
	idx := count + 1

	tag := make([]byte, 16)
	if _, err := rand.Read(tag); err != nil {
		return vds.AppendReceipt{}, vds.NewGroupError("acc_append", err)
	}
	msg, err := item.Encode(data, tag, idx)
	if err != nil {
		return vds.AppendReceipt{}, vds.NewDecodeError("acc item", err)
	}
	sigma := signature.Sign(cs.SK, msg)

	if err := e.store.SaveACCItem(idx, storage.ACCItem{Data: data, Tag: tag, Index: idx, Sigma: sigma}); err != nil {
		return vds.AppendReceipt{}, err
	}
	cs.Cnt = idx

	rootBytes, err := cs.A.MarshalBinary()
	if err != nil {
		return vds.AppendReceipt{}, vds.NewGroupError("acc_append", err)
	}
	return vds.AppendReceipt{Index: idx, Root: vds.RootDigest(rootBytes)}, nil
}

// Query builds a non-membership proof for the item's current signature:
// evaluates v=f(-y), divides the shifted polynomial by (X+y), and folds
// the quotient's coefficients into the powers cache to form the witness w.
func (e *Engine) Query(idx uint64) (vds.QueryProof, error) {
	it, err := e.store.GetACCItem(idx)
	if err != nil {
		return vds.QueryProof{}, err
	}
	f, err := e.loadPoly()
	if err != nil {
		return vds.QueryProof{}, err
	}
	state, err := e.loadState()
	if err != nil {
		return vds.QueryProof{}, err
	}

	y := pairing.HashToScalar(accSigDomain, it.Sigma)
	v := f.Eval(y.Neg())
	g := f.SubScalar(v)
	q, err := g.DivByLinear(y)
	if err != nil {
		return vds.QueryProof{}, vds.NewStorageError("acc_query", err)
	}
	if len(q) > len(state.Powers) {
		return vds.QueryProof{}, vds.NewStorageError("acc_query", fmt.Errorf("insufficient cached powers: need %d, have %d", len(q), len(state.Powers)))
	}

	w := pairing.G1Identity()
	for k, coeff := range q {
		w = w.Add(state.Powers[k].ScalarMul(coeff))
	}

	wBytes, err := w.MarshalBinary()
	if err != nil {
		return vds.QueryProof{}, vds.NewGroupError("acc_query", err)
	}
	vBytes, err := v.MarshalBinary()
	if err != nil {
		return vds.QueryProof{}, vds.NewGroupError("acc_query", err)
	}
	payload := vds.ACCPayload{Sigma: it.Sigma, W: wBytes, V: vBytes, Tag: it.Tag}
	return vds.QueryProof{Scheme: vds.SchemeACC, Index: idx, Payload: payload.ToMap()}, nil
}

// Verify is total: any malformed input or failed check returns false, never
// an error. It checks (in order) the scheme tag, the Ed25519 signature over
// the reconstructed message, and the non-membership pairing equation
// e(w, h^y . hs) = e(A . g1^-v, h).
func (e *Engine) Verify(pub *PublicParams, idx uint64, data []byte, proof vds.QueryProof) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if proof.Scheme != vds.SchemeACC {
		return false
	}
	payload, err := vds.ACCPayloadFromMap(proof.Payload)
	if err != nil {
		return false
	}
	msg, err := item.Encode(data, payload.Tag, idx)
	if err != nil {
		return false
	}
	if !signature.Verify(pub.VK, msg, payload.Sigma) {
		return false
	}

	w, err := normalizeG1(payload.W)
	if err != nil {
		return false
	}
	v, err := pairing.UnmarshalScalar(payload.V)
	if err != nil {
		return false
	}
	y := pairing.HashToScalar(accSigDomain, payload.Sigma)

	lhsG2 := pub.H.ScalarMul(y).Add(pub.Hs)
	rhsG1 := pub.Accumulator.Add(pub.G1.ScalarMul(v.Neg()))

	lhs, err := pairing.Pairing([]pairing.G1{w}, []pairing.G2{lhsG2})
	if err != nil {
		return false
	}
	rhs, err := pairing.Pairing([]pairing.G1{rhsG1}, []pairing.G2{pub.H})
	if err != nil {
		return false
	}
	return lhs.Equal(rhs)
}

// normalizeG1 decodes w, treating a buffer whose canonical bytes equal the
// G1 identity's canonical bytes as the identity element -- a serialization
// quirk the producer side must be matched against, not rejected. See spec
// §9 "Identity-element handling".
func normalizeG1(buf []byte) (pairing.G1, error) {
	identityBytes, err := pairing.G1Identity().MarshalBinary()
	if err == nil && len(buf) == len(identityBytes) {
		same := true
		for i := range buf {
			if buf[i] != identityBytes[i] {
				same = false
				break
			}
		}
		if same {
			return pairing.G1Identity(), nil
		}
	}
	return pairing.UnmarshalG1(buf)
}

// Update adds the item's old signature to the blacklist (advancing the
// accumulator and the server's polynomial), then signs and stores fresh
// data under a fresh tag at the same index.
func (e *Engine) Update(cs *ClientState, idx uint64, newData []byte) (vds.UpdateReceipt, error) {
	old, err := e.store.GetACCItem(idx)
	if err != nil {
		return vds.UpdateReceipt{}, err
	}
	y := pairing.HashToScalar(accSigDomain, old.Sigma)

	cs.A = cs.A.ScalarMul(y.Add(cs.S))
	cs.Upto++
	lastPower := cs.Powers[len(cs.Powers)-1]
	cs.Powers = append(cs.Powers, lastPower.ScalarMul(cs.S))

	f, err := e.loadPoly()
	if err != nil {
		return vds.UpdateReceipt{}, err
	}
	f = f.MulByLinear(y)
	if err := e.persistPoly(f); err != nil {
		return vds.UpdateReceipt{}, err
	}
	if err := e.persistState(cs.A, cs.Powers); err != nil {
		return vds.UpdateReceipt{}, err
	}

	tag := make([]byte, 16)
	if _, err := rand.Read(tag); err != nil {
		return vds.UpdateReceipt{}, vds.NewGroupError("acc_update", err)
	}
	msg, err := item.Encode(newData, tag, idx)
	if err != nil {
		return vds.UpdateReceipt{}, vds.NewDecodeError("acc item", err)
	}
	sigmaNew := signature.Sign(cs.SK, msg)
	if err := e.store.SaveACCItem(idx, storage.ACCItem{Data: newData, Tag: tag, Index: idx, Sigma: sigmaNew}); err != nil {
		return vds.UpdateReceipt{}, err
	}

	rootBytes, err := cs.A.MarshalBinary()
	if err != nil {
		return vds.UpdateReceipt{}, vds.NewGroupError("acc_update", err)
	}
	e.log.Info("acc update applied", "index", idx, "upto", cs.Upto)
	return vds.UpdateReceipt{Index: idx, Root: vds.RootDigest(rootBytes)}, nil
}

func (e *Engine) persistState(a pairing.G1, powers []pairing.G1) error {
	aBytes, err := a.MarshalBinary()
	if err != nil {
		return vds.NewGroupError("persist_acc_state", err)
	}
	powerBytes := make([][]byte, len(powers))
	for i, p := range powers {
		b, err := p.MarshalBinary()
		if err != nil {
			return vds.NewGroupError("persist_acc_state", err)
		}
		powerBytes[i] = b
	}
	return e.store.SetACCState(storage.ACCState{A: aBytes, Powers: powerBytes})
}

func (e *Engine) loadState() (*ClientState, error) {
	st, err := e.store.GetACCState()
	if err != nil {
		return nil, err
	}
	a, err := pairing.UnmarshalG1(st.A)
	if err != nil {
		return nil, vds.NewGroupError("load_acc_state", err)
	}
	powers := make([]pairing.G1, len(st.Powers))
	for i, b := range st.Powers {
		p, err := pairing.UnmarshalG1(b)
		if err != nil {
			return nil, vds.NewGroupError("load_acc_state", err)
		}
		powers[i] = p
	}
	return &ClientState{A: a, Powers: powers}, nil
}

func (e *Engine) persistPoly(f polynomial.Poly) error {
	coeffs := make([][]byte, len(f))
	for i, c := range f {
		b, err := c.MarshalBinary()
		if err != nil {
			return vds.NewGroupError("persist_acc_poly", err)
		}
		coeffs[i] = b
	}
	return e.store.SetACCPoly(coeffs)
}

func (e *Engine) loadPoly() (polynomial.Poly, error) {
	coeffs, err := e.store.GetACCPoly()
	if err != nil {
		return nil, err
	}
	f := make(polynomial.Poly, len(coeffs))
	for i, b := range coeffs {
		s, err := pairing.UnmarshalScalar(b)
		if err != nil {
			return nil, vds.NewGroupError("load_acc_poly", err)
		}
		f[i] = s
	}
	return f, nil
}
