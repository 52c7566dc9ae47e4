package storage

import (
	"testing"

	"github.com/eth2030/vds/vds"
)

func TestMemStoreACCItemRoundTrip(t *testing.T) {
	s := NewMemStore()
	if _, err := s.GetACCItem(1); err == nil {
		t.Fatalf("GetACCItem on empty store should fail")
	}
	item := ACCItem{Data: []byte("d"), Tag: []byte("t"), Index: 1, Sigma: []byte("s")}
	if err := s.SaveACCItem(1, item); err != nil {
		t.Fatalf("SaveACCItem: %v", err)
	}
	got, err := s.GetACCItem(1)
	if err != nil {
		t.Fatalf("GetACCItem: %v", err)
	}
	if string(got.Data) != "d" || string(got.Tag) != "t" || string(got.Sigma) != "s" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	count, err := s.ACCCount()
	if err != nil {
		t.Fatalf("ACCCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestMemStoreRootCache(t *testing.T) {
	s := NewMemStore()
	if _, err := s.GetRoot(vds.SchemeACC); err == nil {
		t.Fatalf("GetRoot on empty store should fail")
	}
	if err := s.SetRoot(vds.SchemeACC, vds.RootDigest([]byte{1, 2, 3})); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	got, err := s.GetRoot(vds.SchemeACC)
	if err != nil {
		t.Fatalf("GetRoot: %v", err)
	}
	if !got.Equal(vds.RootDigest([]byte{1, 2, 3})) {
		t.Fatalf("root mismatch")
	}
}

func TestMemStoreCVCNodes(t *testing.T) {
	s := NewMemStore()
	if has, _ := s.HasCVCNode(1); has {
		t.Fatalf("HasCVCNode on empty store should be false")
	}
	rec := CVCNodeRecord{Idx: 1, Commit: []byte("c"), M: [][]byte{[]byte("r")}, Populated: true}
	if err := s.PutCVCNode(rec); err != nil {
		t.Fatalf("PutCVCNode: %v", err)
	}
	if has, _ := s.HasCVCNode(1); !has {
		t.Fatalf("HasCVCNode should be true after Put")
	}
	got, err := s.GetCVCNode(1)
	if err != nil {
		t.Fatalf("GetCVCNode: %v", err)
	}
	if string(got.Commit) != "c" {
		t.Fatalf("commit mismatch")
	}
}
