// Package vdscvc implements VDS-CVC: a q-ary tree of Chameleon Vector
// Commitments, each node committing to q child-pointer slots plus one data
// slot, opened slot-by-slot up the path to the root under a pairing check.
// See spec §4.7.
package vdscvc

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/eth2030/vds/log"
	"github.com/eth2030/vds/pairing"
	"github.com/eth2030/vds/signature"
	"github.com/eth2030/vds/storage"
	"github.com/eth2030/vds/vds"
)

var cvcPRFDomain = []byte("CVC_PRF")

// CVCBase is a slot base hᵢ in its two pairing-compatible representations:
// the G1 form used to build and open commitments, and the G2 form used as
// the second argument of the slot-verification pairing so e: G1xG2->GT
// type-checks against the G1-valued commitment/proof/pointer values.
type CVCBase struct {
	G1 pairing.G1
	G2 pairing.G2
}

// PublicParams is the CVCParamsPK value published at setup: the commitment
// generator, its G2 dual, the q+1 slot bases with their signed bindings,
// the arity q, and the verification key for those bindings.
type PublicParams struct {
	G        pairing.G1
	G2       pairing.G2
	Hi       []CVCBase // length q+1; Hi[k] is base for slot_idx k+1
	SignedHi [][]byte  // length q+1; signature over Hi[k].G1 bytes || u32BE(k+1)
	Q        uint32
	VK       signature.VerificationKey
}

// ClientState is the CVCParamsSK value: the PRF key (used by Append/Update
// to derive each newly touched node's r), the trapdoors used at setup
// (retained but not read by any engine operation), plus the generators,
// bases, arity, and append counter that Append/Update use.
type ClientState struct {
	PRFKey []byte
	Z      []pairing.Scalar
	SK     signature.SigningKey
	G      pairing.G1
	G2     pairing.G2
	Hi     []CVCBase
	Q      uint32
	Cnt    uint64
}

// backend is the storage surface the CVC engine needs: node records plus
// the scheme-agnostic root cache.
type backend interface {
	storage.CVCStore
	storage.RootStore
}

// Engine runs the VDS-CVC operations against a storage backend. It caches
// the public bootstrap material (bases, cross-terms, signed bindings) set
// up once at Setup, since Query's interface takes only an index.
type Engine struct {
	store backend
	log   *log.Logger

	g        pairing.G1
	g2       pairing.G2
	hi       []CVCBase
	hcross   map[[2]uint32]pairing.G1 // key (i,j), 1-indexed, i!=j
	signedHi [][]byte
	q        uint32
	vk       signature.VerificationKey
}

// NewEngine builds an Engine over the given storage surface. Call Setup
// before any other operation.
func NewEngine(store backend) *Engine {
	return &Engine{store: store, log: log.Default().Module("vdscvc")}
}

// Setup samples the PRF key, the q+1 trapdoors, and their G1/G2 bases, signs
// each base's index binding, and initializes the root node (idx=1) to its
// empty state.
func (e *Engine) Setup(q uint32) (*PublicParams, *ClientState, error) {
	sk, vk, err := signature.Keygen()
	if err != nil {
		return nil, nil, vds.NewGroupError("cvc_setup", err)
	}
	g := pairing.G1Generator()
	g2 := pairing.G2Generator()

	n := int(q) + 1
	z := make([]pairing.Scalar, n)
	hi := make([]CVCBase, n)
	signedHi := make([][]byte, n)
	for i := 0; i < n; i++ {
		zi, err := pairing.RandomScalar(rand.Reader)
		if err != nil {
			return nil, nil, vds.NewGroupError("cvc_setup", err)
		}
		z[i] = zi
		hi[i] = CVCBase{G1: g.ScalarMul(zi), G2: g2.ScalarMul(zi)}
		hiBytes, err := hi[i].G1.MarshalBinary()
		if err != nil {
			return nil, nil, vds.NewGroupError("cvc_setup", err)
		}
		signedHi[i] = signature.Sign(sk, signedHiMessage(hiBytes, uint32(i+1)))
	}

	hcross := make(map[[2]uint32]pairing.G1)
	for i := 1; i <= n; i++ {
		for j := 1; j <= n; j++ {
			if i == j {
				continue
			}
			hcross[[2]uint32{uint32(i), uint32(j)}] = g.ScalarMul(z[i-1].Mul(z[j-1]))
		}
	}

	prfKey := make([]byte, 32)
	if _, err := rand.Read(prfKey); err != nil {
		return nil, nil, vds.NewGroupError("cvc_setup", err)
	}

	e.g, e.g2, e.hi, e.hcross, e.signedHi, e.q, e.vk = g, g2, hi, hcross, signedHi, q, vk

	// Initialize the root node to its empty state: r = PRF(prfKey, 1),
	// m = zero vector, C = g^r.
	rRoot := prfScalar(prfKey, 1)
	mRoot := make([]pairing.Scalar, n)
	for i := range mRoot {
		mRoot[i] = pairing.ZeroScalar()
	}
	cRoot := commitVec(g, rRoot, mRoot, hi)
	if err := e.persistNode(1, rRoot, mRoot, cRoot); err != nil {
		return nil, nil, err
	}
	if err := e.store.SetCVCCount(0); err != nil {
		return nil, nil, err
	}
	rootBytes, err := cRoot.MarshalBinary()
	if err != nil {
		return nil, nil, vds.NewGroupError("cvc_setup", err)
	}
	if err := e.setRoot(rootBytes); err != nil {
		return nil, nil, err
	}

	pub := &PublicParams{G: g, G2: g2, Hi: hi, SignedHi: signedHi, Q: q, VK: vk}
	cs := &ClientState{PRFKey: prfKey, Z: z, SK: sk, G: g, G2: g2, Hi: hi, Q: q, Cnt: 0}
	e.log.Info("cvc setup complete", "q", q)
	return pub, cs, nil
}

// Append places data at the next leaf index (one past the current count),
// then walks upward recomputing each ancestor's child-pointer slot.
func (e *Engine) Append(cs *ClientState, data []byte) (vds.AppendReceipt, error) {
	count, err := e.store.CVCCount()
	if err != nil {
		return vds.AppendReceipt{}, err
	}
	idx := count + 1

	n := int(cs.Q) + 1
	r := prfScalar(cs.PRFKey, idx)
	m := make([]pairing.Scalar, n)
	for i := range m {
		m[i] = pairing.ZeroScalar()
	}
	m[0] = pairing.HashToScalar(nil, data)
	c := commitVec(cs.G, r, m, cs.Hi)
	if err := e.persistNode(idx, r, m, c); err != nil {
		return vds.AppendReceipt{}, err
	}

	if err := e.propagateUpward(cs, idx, c); err != nil {
		return vds.AppendReceipt{}, err
	}
	if err := e.store.SetCVCCount(idx); err != nil {
		return vds.AppendReceipt{}, err
	}
	cs.Cnt = idx

	root, err := e.store.GetRoot(vds.SchemeCVC)
	if err != nil {
		return vds.AppendReceipt{}, err
	}
	return vds.AppendReceipt{Index: idx, Root: root}, nil
}

// Update replaces a leaf's data slot in place and walks upward recomputing
// pointer deltas exactly as Append does, since the child's commitment
// changed.
func (e *Engine) Update(cs *ClientState, idx uint64, newData []byte) (vds.UpdateReceipt, error) {
	rec, err := e.store.GetCVCNode(idx)
	if err != nil {
		return vds.UpdateReceipt{}, err
	}
	r, m, c, err := decodeNode(rec)
	if err != nil {
		return vds.UpdateReceipt{}, err
	}

	newM0 := pairing.HashToScalar(nil, newData)
	delta := newM0.Sub(m[0])
	c = c.Add(cs.Hi[0].G1.ScalarMul(delta))
	m[0] = newM0
	if err := e.persistNode(idx, r, m, c); err != nil {
		return vds.UpdateReceipt{}, err
	}

	if err := e.propagateUpward(cs, idx, c); err != nil {
		return vds.UpdateReceipt{}, err
	}

	root, err := e.store.GetRoot(vds.SchemeCVC)
	if err != nil {
		return vds.UpdateReceipt{}, err
	}
	e.log.Info("cvc update applied", "index", idx)
	return vds.UpdateReceipt{Index: idx, Root: root}, nil
}

// propagateUpward walks from idx to the root, recomputing each ancestor's
// pointer slot to reflect childCommit, and refreshes the cached root digest.
func (e *Engine) propagateUpward(cs *ClientState, idx uint64, childCommit pairing.G1) error {
	cur := idx
	cc := childCommit
	for cur != 1 {
		p := parentOf(cur, cs.Q)
		slot := slotOf(cur, cs.Q) // 1..q; m-index and hi-index are both `slot`

		rec, err := e.store.GetCVCNode(p)
		var r pairing.Scalar
		var m []pairing.Scalar
		var c pairing.G1
		if err != nil {
			n := int(cs.Q) + 1
			r = prfScalar(cs.PRFKey, p)
			m = make([]pairing.Scalar, n)
			for i := range m {
				m[i] = pairing.ZeroScalar()
			}
			c = commitVec(cs.G, r, m, cs.Hi)
		} else {
			r, m, c, err = decodeNode(rec)
			if err != nil {
				return err
			}
		}

		childBytes, err := cc.MarshalBinary()
		if err != nil {
			return vds.NewGroupError("cvc_append", err)
		}
		mPtr := pairing.HashToScalar(nil, childBytes)
		delta := mPtr.Sub(m[slot])
		c = c.Add(cs.Hi[slot].G1.ScalarMul(delta))
		m[slot] = mPtr

		if err := e.persistNode(p, r, m, c); err != nil {
			return err
		}
		cc = c
		cur = p
	}
	rootBytes, err := cc.MarshalBinary()
	if err != nil {
		return vds.NewGroupError("cvc_append", err)
	}
	return e.setRoot(rootBytes)
}

// Query assembles a proof for idx: the leaf's own data-slot opening, plus
// one segment per ancestor on the path to the root.
func (e *Engine) Query(idx uint64) (vds.QueryProof, error) {
	leafRec, err := e.store.GetCVCNode(idx)
	if err != nil {
		return vds.QueryProof{}, err
	}
	leafR, leafM, leafC, err := decodeNode(leafRec)
	if err != nil {
		return vds.QueryProof{}, err
	}
	leafPi := e.openSlot(1, leafR, leafM)

	leafCommitBytes, err := leafC.MarshalBinary()
	if err != nil {
		return vds.QueryProof{}, vds.NewGroupError("cvc_query", err)
	}
	leafPiBytes, err := leafPi.MarshalBinary()
	if err != nil {
		return vds.QueryProof{}, vds.NewGroupError("cvc_query", err)
	}
	leafHBytes, err := e.hi[0].G1.MarshalBinary()
	if err != nil {
		return vds.QueryProof{}, vds.NewGroupError("cvc_query", err)
	}

	var segments []vds.CVCSegment
	cur := idx
	for cur != 1 {
		p := parentOf(cur, e.q)
		slot := slotOf(cur, e.q)
		slotIdx := slot + 1

		rec, err := e.store.GetCVCNode(p)
		if err != nil {
			return vds.QueryProof{}, err
		}
		r, m, c, err := decodeNode(rec)
		if err != nil {
			return vds.QueryProof{}, err
		}
		pi := e.openSlot(slotIdx, r, m)

		commitBytes, err := c.MarshalBinary()
		if err != nil {
			return vds.QueryProof{}, vds.NewGroupError("cvc_query", err)
		}
		piBytes, err := pi.MarshalBinary()
		if err != nil {
			return vds.QueryProof{}, vds.NewGroupError("cvc_query", err)
		}
		hBytes, err := e.hi[slot].G1.MarshalBinary()
		if err != nil {
			return vds.QueryProof{}, vds.NewGroupError("cvc_query", err)
		}
		segments = append(segments, vds.CVCSegment{
			NodeCommit: commitBytes,
			Proof:      piBytes,
			H:          hBytes,
			SignedHi:   e.signedHi[slot],
			Slot:       uint32(slotIdx),
		})
		cur = p
	}

	payload := vds.CVCPayload{
		LeafCommit:   leafCommitBytes,
		LeafPi:       leafPiBytes,
		LeafH:        leafHBytes,
		LeafSignedHi: e.signedHi[0],
		Segments:     segments,
	}
	return vds.QueryProof{Scheme: vds.SchemeCVC, Index: idx, Payload: payload.ToMap()}, nil
}

// Verify is total: any malformed input or failed check returns false. It
// checks each cited base's signed binding, the leaf-slot equation against
// data, then inductively verifies each ancestor segment, finally requiring
// the topmost commitment to equal root.
func (e *Engine) Verify(pub *PublicParams, root vds.RootDigest, idx uint64, data []byte, proof vds.QueryProof) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if proof.Scheme != vds.SchemeCVC {
		return false
	}
	payload, err := vds.CVCPayloadFromMap(proof.Payload)
	if err != nil {
		return false
	}

	if !verifySignedHi(pub.VK, payload.LeafH, 1, payload.LeafSignedHi) {
		return false
	}
	leafH, err := pairing.UnmarshalG1(payload.LeafH)
	if err != nil {
		return false
	}
	leafPi, err := pairing.UnmarshalG1(payload.LeafPi)
	if err != nil {
		return false
	}
	leafCommit, err := pairing.UnmarshalG1(payload.LeafCommit)
	if err != nil {
		return false
	}
	mi := pairing.HashToScalar(nil, data)
	if !verifySlotEquation(leafCommit, leafH, e.baseG2For(pub, payload.LeafH), mi, leafPi, pub.G2) {
		return false
	}

	childCommit := leafCommit
	for _, seg := range payload.Segments {
		if !verifySignedHi(pub.VK, seg.H, seg.Slot, seg.SignedHi) {
			return false
		}
		h, err := pairing.UnmarshalG1(seg.H)
		if err != nil {
			return false
		}
		pi, err := pairing.UnmarshalG1(seg.Proof)
		if err != nil {
			return false
		}
		nodeCommit, err := pairing.UnmarshalG1(seg.NodeCommit)
		if err != nil {
			return false
		}
		childBytes, err := childCommit.MarshalBinary()
		if err != nil {
			return false
		}
		mPtr := pairing.HashToScalar(nil, childBytes)
		if !verifySlotEquation(nodeCommit, h, e.baseG2For(pub, seg.H), mPtr, pi, pub.G2) {
			return false
		}
		childCommit = nodeCommit
	}

	topBytes, err := childCommit.MarshalBinary()
	if err != nil {
		return false
	}
	return bytes.Equal(topBytes, []byte(root))
}

// baseG2For looks up the G2 dual of a G1 base cited in a proof, by matching
// its canonical bytes against the published Hi table. A base not found
// among the published bases cannot produce a matching G2 dual, so callers
// must still rely on verifySignedHi to reject substituted bases; this is a
// convenience lookup, not itself a security check.
func (e *Engine) baseG2For(pub *PublicParams, g1Bytes []byte) pairing.G2 {
	for _, base := range pub.Hi {
		b, err := base.G1.MarshalBinary()
		if err == nil && bytes.Equal(b, g1Bytes) {
			return base.G2
		}
	}
	return pairing.G2Identity()
}

func commitVec(g pairing.G1, r pairing.Scalar, m []pairing.Scalar, hi []CVCBase) pairing.G1 {
	c := g.ScalarMul(r)
	for i, mi := range m {
		if mi.IsZero() {
			continue
		}
		c = c.Add(hi[i].G1.ScalarMul(mi))
	}
	return c
}

func (e *Engine) openSlot(slotIdx uint32, r pairing.Scalar, m []pairing.Scalar) pairing.G1 {
	i := int(slotIdx)
	pi := e.hi[i-1].G1.ScalarMul(r)
	for j := 1; j <= len(m); j++ {
		if j == i {
			continue
		}
		if m[j-1].IsZero() {
			continue
		}
		cross, ok := e.hcross[[2]uint32{uint32(i), uint32(j)}]
		if !ok {
			continue
		}
		pi = pi.Add(cross.ScalarMul(m[j-1]))
	}
	return pi
}

// verifySlotEquation checks e(C . hi^-mi, hiG2) = e(pi, g2).
func verifySlotEquation(c, hi pairing.G1, hiG2 pairing.G2, mi pairing.Scalar, pi pairing.G1, g2 pairing.G2) bool {
	lhsG1 := c.Add(hi.ScalarMul(mi.Neg()))
	lhs, err := pairing.Pairing([]pairing.G1{lhsG1}, []pairing.G2{hiG2})
	if err != nil {
		return false
	}
	rhs, err := pairing.Pairing([]pairing.G1{pi}, []pairing.G2{g2})
	if err != nil {
		return false
	}
	return lhs.Equal(rhs)
}

func verifySignedHi(vk signature.VerificationKey, hiBytes []byte, slot uint32, signedHi []byte) bool {
	return signature.Verify(vk, signedHiMessage(hiBytes, slot), signedHi)
}

func signedHiMessage(hiBytes []byte, slot uint32) []byte {
	msg := make([]byte, len(hiBytes)+4)
	copy(msg, hiBytes)
	binary.BigEndian.PutUint32(msg[len(hiBytes):], slot)
	return msg
}

func prfScalar(prfKey []byte, idx uint64) pairing.Scalar {
	idxBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idxBytes, idx)
	domain := append(append([]byte{}, cvcPRFDomain...), prfKey...)
	return pairing.HashToScalar(domain, idxBytes)
}

// parentOf returns the parent of node x in a 1-indexed, heap-style q-ary
// tree: parent(x) = floor((x-2)/q) + 1.
func parentOf(x uint64, q uint32) uint64 {
	return (x-2)/uint64(q) + 1
}

// slotOf returns x's position (1..q) among its parent's children.
func slotOf(x uint64, q uint32) uint32 {
	p := parentOf(x, q)
	return uint32(x - (uint64(q)*(p-1) + 2) + 1)
}

func (e *Engine) persistNode(idx uint64, r pairing.Scalar, m []pairing.Scalar, c pairing.G1) error {
	rBytes, err := r.MarshalBinary()
	if err != nil {
		return vds.NewGroupError("persist_cvc_node", err)
	}
	cBytes, err := c.MarshalBinary()
	if err != nil {
		return vds.NewGroupError("persist_cvc_node", err)
	}
	mBytes := make([][]byte, len(m)+1)
	mBytes[0] = rBytes
	for i, mi := range m {
		b, err := mi.MarshalBinary()
		if err != nil {
			return vds.NewGroupError("persist_cvc_node", err)
		}
		mBytes[i+1] = b
	}
	return e.store.PutCVCNode(storage.CVCNodeRecord{Idx: idx, Commit: cBytes, M: mBytes, Populated: true})
}

// decodeNode unpacks r, m, and C from a stored record. r is smuggled as the
// first element of the M slice (see persistNode) to avoid widening the
// storage.CVCNodeRecord shape with a field only this engine needs.
func decodeNode(rec storage.CVCNodeRecord) (pairing.Scalar, []pairing.Scalar, pairing.G1, error) {
	if len(rec.M) < 1 {
		return pairing.Scalar{}, nil, pairing.G1{}, vds.NewDecodeError("cvc node record", fmt.Errorf("missing r"))
	}
	r, err := pairing.UnmarshalScalar(rec.M[0])
	if err != nil {
		return pairing.Scalar{}, nil, pairing.G1{}, vds.NewGroupError("decode_cvc_node", err)
	}
	m := make([]pairing.Scalar, len(rec.M)-1)
	for i := 1; i < len(rec.M); i++ {
		s, err := pairing.UnmarshalScalar(rec.M[i])
		if err != nil {
			return pairing.Scalar{}, nil, pairing.G1{}, vds.NewGroupError("decode_cvc_node", err)
		}
		m[i-1] = s
	}
	c, err := pairing.UnmarshalG1(rec.Commit)
	if err != nil {
		return pairing.Scalar{}, nil, pairing.G1{}, vds.NewGroupError("decode_cvc_node", err)
	}
	return r, m, c, nil
}

func (e *Engine) setRoot(rootBytes []byte) error {
	return e.store.SetRoot(vds.SchemeCVC, vds.RootDigest(rootBytes))
}
