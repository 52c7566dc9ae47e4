package vdsacc

import "github.com/eth2030/vds/pairing"

// ExportedClientState is the wire form of ClientState, used to hand off a
// client's local state to a fresh process that will continue appending and
// verifying against the same accumulator history (spec §8 property 8).
type ExportedClientState struct {
	SK     []byte
	S      []byte
	G1     []byte
	H      []byte
	Hs     []byte
	A      []byte
	Powers [][]byte
	Upto   uint64
	Cnt    uint64
}

// ExportClientState serializes cs into its wire form.
func ExportClientState(cs *ClientState) (ExportedClientState, error) {
	sBytes, err := cs.S.MarshalBinary()
	if err != nil {
		return ExportedClientState{}, err
	}
	g1Bytes, err := cs.G1.MarshalBinary()
	if err != nil {
		return ExportedClientState{}, err
	}
	hBytes, err := cs.H.MarshalBinary()
	if err != nil {
		return ExportedClientState{}, err
	}
	hsBytes, err := cs.Hs.MarshalBinary()
	if err != nil {
		return ExportedClientState{}, err
	}
	aBytes, err := cs.A.MarshalBinary()
	if err != nil {
		return ExportedClientState{}, err
	}
	powers := make([][]byte, len(cs.Powers))
	for i, p := range cs.Powers {
		b, err := p.MarshalBinary()
		if err != nil {
			return ExportedClientState{}, err
		}
		powers[i] = b
	}
	return ExportedClientState{
		SK:     append([]byte(nil), cs.SK...),
		S:      sBytes,
		G1:     g1Bytes,
		H:      hBytes,
		Hs:     hsBytes,
		A:      aBytes,
		Powers: powers,
		Upto:   cs.Upto,
		Cnt:    cs.Cnt,
	}, nil
}

// ImportClientState reconstructs a ClientState from its wire form.
func ImportClientState(ex ExportedClientState) (*ClientState, error) {
	s, err := pairing.UnmarshalScalar(ex.S)
	if err != nil {
		return nil, err
	}
	g1, err := pairing.UnmarshalG1(ex.G1)
	if err != nil {
		return nil, err
	}
	h, err := pairing.UnmarshalG2(ex.H)
	if err != nil {
		return nil, err
	}
	hs, err := pairing.UnmarshalG2(ex.Hs)
	if err != nil {
		return nil, err
	}
	a, err := pairing.UnmarshalG1(ex.A)
	if err != nil {
		return nil, err
	}
	powers := make([]pairing.G1, len(ex.Powers))
	for i, b := range ex.Powers {
		p, err := pairing.UnmarshalG1(b)
		if err != nil {
			return nil, err
		}
		powers[i] = p
	}
	return &ClientState{
		SK:     append([]byte(nil), ex.SK...),
		S:      s,
		G1:     g1,
		H:      h,
		Hs:     hs,
		A:      a,
		Powers: powers,
		Upto:   ex.Upto,
		Cnt:    ex.Cnt,
	}, nil
}
