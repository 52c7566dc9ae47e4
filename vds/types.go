package vds

// Scheme identifies which construction produced a proof: "acc" for
// VDS-ACC, "cvc" for VDS-CVC. A proof's scheme tag is checked before any
// scheme-specific unpacking, never dispatched on beyond that outer check.
type Scheme string

const (
	SchemeACC Scheme = "acc"
	SchemeCVC Scheme = "cvc"
)

// QueryProof is the logical return value of query(index): a scheme tag, the
// index it attests to, and an opaque scheme-specific payload. Engines marshal
// their own payload types (ACCPayload, CVCPayload) to/from Payload via
// ToMap/FromMap.
type QueryProof struct {
	Scheme  Scheme
	Index   uint64
	Payload map[string]any
}

// AppendReceipt is returned by append(data): the assigned index and the
// root digest immediately after the append.
type AppendReceipt struct {
	Index uint64
	Root  RootDigest
}

// UpdateReceipt is returned by update(index, newData): the updated index
// and the root digest immediately after the update.
type UpdateReceipt struct {
	Index uint64
	Root  RootDigest
}

// RootDigest is the client's authoritative succinct summary of the log:
// the canonical serialization of the accumulator value A (ACC) or of the
// root node's commitment C (CVC).
type RootDigest []byte

// Equal reports whether two root digests denote the same canonical bytes.
func (r RootDigest) Equal(o RootDigest) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}

// ACCPayload is the VDS-ACC proof payload: the item's current signature,
// the non-membership witness w, the evaluation v = f(-y), and the item's
// tag (needed to reconstruct the signed message).
type ACCPayload struct {
	Sigma []byte
	W     []byte
	V     []byte
	Tag   []byte
}

// ToMap renders p as the stable wire map described in spec §6.
func (p ACCPayload) ToMap() map[string]any {
	return map[string]any{
		"sigma": p.Sigma,
		"w":     p.W,
		"u":     p.V,
		"tag":   p.Tag,
	}
}

// ACCPayloadFromMap reconstructs an ACCPayload from the wire map produced
// by ToMap, failing with a DecodeError if any field is missing or the wrong
// type.
func ACCPayloadFromMap(m map[string]any) (ACCPayload, error) {
	sigma, ok1 := m["sigma"].([]byte)
	w, ok2 := m["w"].([]byte)
	v, ok3 := m["u"].([]byte)
	tag, ok4 := m["tag"].([]byte)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return ACCPayload{}, NewDecodeError("acc payload", nil)
	}
	return ACCPayload{Sigma: sigma, W: w, V: v, Tag: tag}, nil
}

// CVCSegment is one step of the upward walk from a leaf to the root: the
// visited node's commitment, the opening proof for the child's slot, the
// slot's base hᵢ, its signed binding, and the slot index itself.
type CVCSegment struct {
	NodeCommit []byte
	Proof      []byte
	H          []byte
	SignedHi   []byte
	Slot       uint32
}

// CVCPayload is the VDS-CVC proof payload: the leaf's own commitment and
// opening of slot 1 (the data slot), plus the chain of segments walking
// from the leaf's parent up to the root.
type CVCPayload struct {
	LeafCommit   []byte
	LeafPi       []byte
	LeafH        []byte
	LeafSignedHi []byte
	Segments     []CVCSegment
}

// ToMap renders p as the stable wire map described in spec §6.
func (p CVCPayload) ToMap() map[string]any {
	segs := make([]map[string]any, len(p.Segments))
	for i, s := range p.Segments {
		segs[i] = map[string]any{
			"node_commit": s.NodeCommit,
			"proof":       s.Proof,
			"h":           s.H,
			"signed_hi":   s.SignedHi,
			"slot":        s.Slot,
		}
	}
	return map[string]any{
		"leaf_commit":    p.LeafCommit,
		"leaf_pi":        p.LeafPi,
		"leaf_h":         p.LeafH,
		"leaf_signed_hi": p.LeafSignedHi,
		"segments":       segs,
	}
}

// CVCPayloadFromMap reconstructs a CVCPayload from the wire map produced by
// ToMap.
func CVCPayloadFromMap(m map[string]any) (CVCPayload, error) {
	leafCommit, ok1 := m["leaf_commit"].([]byte)
	leafPi, ok2 := m["leaf_pi"].([]byte)
	leafH, ok3 := m["leaf_h"].([]byte)
	leafSignedHi, ok4 := m["leaf_signed_hi"].([]byte)
	rawSegs, ok5 := m["segments"].([]map[string]any)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return CVCPayload{}, NewDecodeError("cvc payload", nil)
	}
	segs := make([]CVCSegment, len(rawSegs))
	for i, rs := range rawSegs {
		nodeCommit, a := rs["node_commit"].([]byte)
		proof, b := rs["proof"].([]byte)
		h, c := rs["h"].([]byte)
		signedHi, d := rs["signed_hi"].([]byte)
		slot, e := rs["slot"].(uint32)
		if !a || !b || !c || !d || !e {
			return CVCPayload{}, NewDecodeError("cvc payload segment", nil)
		}
		segs[i] = CVCSegment{NodeCommit: nodeCommit, Proof: proof, H: h, SignedHi: signedHi, Slot: slot}
	}
	return CVCPayload{
		LeafCommit:   leafCommit,
		LeafPi:       leafPi,
		LeafH:        leafH,
		LeafSignedHi: leafSignedHi,
		Segments:     segs,
	}, nil
}
