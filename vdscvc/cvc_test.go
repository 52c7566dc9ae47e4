package vdscvc

import (
	"math/rand"
	"testing"

	"github.com/eth2030/vds/storage"
	"github.com/eth2030/vds/vds"
)

func newTestEngine(t *testing.T, q uint32) (*Engine, *PublicParams, *ClientState) {
	t.Helper()
	store := storage.NewMemStore()
	engine := NewEngine(store)
	pub, cs, err := engine.Setup(q)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return engine, pub, cs
}

func TestAppendThenVerify(t *testing.T) {
	engine, pub, cs := newTestEngine(t, 4)
	receipt, err := engine.Append(cs, []byte("leaf-zero-data"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	proof, err := engine.Query(receipt.Index)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !engine.Verify(pub, receipt.Root, receipt.Index, []byte("leaf-zero-data"), proof) {
		t.Fatalf("verify failed for a fresh append-only proof")
	}
}

// S5: q=8, append 32 random 16-byte items, then update five random indices
// and verify each resulting proof against the new root.
func TestS5UpdateFlow(t *testing.T) {
	engine, pub, cs := newTestEngine(t, 8)
	rng := rand.New(rand.NewSource(1))

	var root vds.RootDigest
	for i := 0; i < 32; i++ {
		data := make([]byte, 16)
		rng.Read(data)
		receipt, err := engine.Append(cs, data)
		if err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
		root = receipt.Root
	}

	for trial := 0; trial < 5; trial++ {
		idx := uint64(rng.Intn(32) + 1)
		newData := make([]byte, 24)
		rng.Read(newData)

		receipt, err := engine.Update(cs, idx, newData)
		if err != nil {
			t.Fatalf("Update(%d): %v", idx, err)
		}
		root = receipt.Root

		proof, err := engine.Query(idx)
		if err != nil {
			t.Fatalf("Query(%d): %v", idx, err)
		}
		if !engine.Verify(pub, root, idx, newData, proof) {
			t.Fatalf("verify failed after update of index %d", idx)
		}
	}
}

func TestUpdateInvalidatesOldProof(t *testing.T) {
	engine, pub, cs := newTestEngine(t, 4)
	receipt, err := engine.Append(cs, []byte("original-data"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	oldProof, err := engine.Query(receipt.Index)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !engine.Verify(pub, receipt.Root, receipt.Index, []byte("original-data"), oldProof) {
		t.Fatalf("initial proof should verify")
	}

	updateReceipt, err := engine.Update(cs, receipt.Index, []byte("replacement-data"))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if engine.Verify(pub, updateReceipt.Root, receipt.Index, []byte("original-data"), oldProof) {
		t.Fatalf("stale proof unexpectedly verified against the new root")
	}
}

func TestDeepTreeInternalNodePairing(t *testing.T) {
	// q=2 forces internal nodes to be exercised after only a handful of
	// appends, directly covering the resolved Open Question that internal-
	// node pairing checks (not just leaf checks) must pass.
	engine, pub, cs := newTestEngine(t, 2)
	var lastReceipt vds.AppendReceipt
	for i := 0; i < 15; i++ {
		data := []byte{byte(i), byte(i + 1), byte(i + 2)}
		receipt, err := engine.Append(cs, data)
		if err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
		lastReceipt = receipt
	}
	for idx := uint64(1); idx <= lastReceipt.Index; idx++ {
		proof, err := engine.Query(idx)
		if err != nil {
			t.Fatalf("Query(%d): %v", idx, err)
		}
		data := []byte{byte(idx - 1), byte(idx), byte(idx + 1)}
		if !engine.Verify(pub, lastReceipt.Root, idx, data, proof) {
			t.Fatalf("verify failed at index %d (internal-node pairing)", idx)
		}
	}
}

func TestWrongDataRejected(t *testing.T) {
	engine, pub, cs := newTestEngine(t, 4)
	receipt, err := engine.Append(cs, []byte("right-data"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	proof, err := engine.Query(receipt.Index)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if engine.Verify(pub, receipt.Root, receipt.Index, []byte("wrong-data"), proof) {
		t.Fatalf("verify accepted mismatched data")
	}
}

func TestSchemeTagRejected(t *testing.T) {
	engine, pub, cs := newTestEngine(t, 4)
	receipt, err := engine.Append(cs, []byte("data"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	proof, err := engine.Query(receipt.Index)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	proof.Scheme = vds.SchemeACC
	if engine.Verify(pub, receipt.Root, receipt.Index, []byte("data"), proof) {
		t.Fatalf("verify accepted a mismatched scheme tag")
	}
}
