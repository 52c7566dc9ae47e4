package vdsacc

import (
	"testing"

	"github.com/eth2030/vds/storage"
	"github.com/eth2030/vds/vds"
)

func newTestEngine(t *testing.T) (*Engine, *PublicParams, *ClientState) {
	t.Helper()
	store := storage.NewMemStore()
	engine := NewEngine(store)
	pub, cs, err := engine.Setup()
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return engine, pub, cs
}

// S1: append three items, query and verify the middle one.
func TestS1AppendVerify(t *testing.T) {
	engine, pub, cs := newTestEngine(t)

	mustAppend := func(data []byte) vds.AppendReceipt {
		r, err := engine.Append(cs, data)
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		return r
	}
	mustAppend([]byte("aaaaaaaaaa"))
	r2 := mustAppend([]byte("bbbbbbbbbb"))
	mustAppend([]byte("cccccccccc"))
	if r2.Index != 2 {
		t.Fatalf("index = %d, want 2", r2.Index)
	}

	pub.Accumulator = cs.A
	proof, err := engine.Query(2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !engine.Verify(pub, 2, []byte("bbbbbbbbbb"), proof) {
		t.Fatalf("verify failed for a fresh append-only proof")
	}
}

// S2: update an item, then verify a fresh proof against the new root.
func TestS2Update(t *testing.T) {
	engine, pub, cs := newTestEngine(t)
	for _, d := range [][]byte{[]byte("aaaaaaaaaa"), []byte("bbbbbbbbbb"), []byte("cccccccccc")} {
		if _, err := engine.Append(cs, d); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	if _, err := engine.Update(cs, 2, []byte("BBBBBBBBBBBB")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	pub.Accumulator = cs.A

	proof, err := engine.Query(2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !engine.Verify(pub, 2, []byte("BBBBBBBBBBBB"), proof) {
		t.Fatalf("verify failed for fresh proof after update")
	}
}

// S3: a proof captured before an update must fail against the post-update
// root, and a fresh proof against the new data must succeed.
func TestS3OldProofInvalidation(t *testing.T) {
	engine, pub, cs := newTestEngine(t)
	if _, err := engine.Append(cs, []byte("hello")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := engine.Append(cs, []byte("world")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	pub.Accumulator = cs.A
	oldProof, err := engine.Query(1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !engine.Verify(pub, 1, []byte("hello"), oldProof) {
		t.Fatalf("initial proof should verify")
	}

	if _, err := engine.Update(cs, 1, []byte("HELLO")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	pub.Accumulator = cs.A

	if engine.Verify(pub, 1, []byte("hello"), oldProof) {
		t.Fatalf("stale proof unexpectedly verified against the new root")
	}

	newProof, err := engine.Query(1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !engine.Verify(pub, 1, []byte("HELLO"), newProof) {
		t.Fatalf("fresh proof failed to verify against the new root")
	}
}

// S4: export client state, migrate items to a fresh store, import, and
// confirm proofs still verify.
func TestS4ExportImport(t *testing.T) {
	engine, pub, cs := newTestEngine(t)
	if _, err := engine.Append(cs, []byte("x")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := engine.Append(cs, []byte("y")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	exported, err := ExportClientState(cs)
	if err != nil {
		t.Fatalf("ExportClientState: %v", err)
	}

	newStore := storage.NewMemStore()
	// Migrate items by copying their records verbatim into the fresh store.
	for idx := uint64(1); idx <= 2; idx++ {
		it, err := engine.store.GetACCItem(idx)
		if err != nil {
			t.Fatalf("GetACCItem: %v", err)
		}
		if err := newStore.SaveACCItem(idx, it); err != nil {
			t.Fatalf("SaveACCItem: %v", err)
		}
	}
	// Replay the accumulator/polynomial state alongside the items.
	st, err := engine.store.GetACCState()
	if err != nil {
		t.Fatalf("GetACCState: %v", err)
	}
	if err := newStore.SetACCState(st); err != nil {
		t.Fatalf("SetACCState: %v", err)
	}
	poly, err := engine.store.GetACCPoly()
	if err != nil {
		t.Fatalf("GetACCPoly: %v", err)
	}
	if err := newStore.SetACCPoly(poly); err != nil {
		t.Fatalf("SetACCPoly: %v", err)
	}

	importedCS, err := ImportClientState(exported)
	if err != nil {
		t.Fatalf("ImportClientState: %v", err)
	}

	newEngine := NewEngine(newStore)
	newPub := &PublicParams{G1: importedCS.G1, H: importedCS.H, Hs: importedCS.Hs, VK: pub.VK, Accumulator: importedCS.A}

	proof, err := newEngine.Query(1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !newEngine.Verify(newPub, 1, []byte("x"), proof) {
		t.Fatalf("imported state failed to verify a continuing proof")
	}
}

// Property 4: verifying with data other than the item's current data fails.
func TestWrongDataRejected(t *testing.T) {
	engine, pub, cs := newTestEngine(t)
	if _, err := engine.Append(cs, []byte("right")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	pub.Accumulator = cs.A
	proof, err := engine.Query(1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if engine.Verify(pub, 1, []byte("wrong"), proof) {
		t.Fatalf("verify accepted mismatched data")
	}
}

// Property 5: a proof tagged for a different scheme is rejected outright.
func TestSchemeTagRejected(t *testing.T) {
	engine, pub, cs := newTestEngine(t)
	if _, err := engine.Append(cs, []byte("data")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	pub.Accumulator = cs.A
	proof, err := engine.Query(1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	proof.Scheme = vds.SchemeCVC
	if engine.Verify(pub, 1, []byte("data"), proof) {
		t.Fatalf("verify accepted a mismatched scheme tag")
	}
}
