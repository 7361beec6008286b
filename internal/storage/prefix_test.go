package storage

import (
	"bytes"
	"testing"
)

func TestPrefixDB_Isolation(t *testing.T) {
	inner := NewMemory()
	a := NewPrefixDB(inner, []byte("a/"))
	b := NewPrefixDB(inner, []byte("b/"))

	a.Put([]byte("k"), []byte("from-a"))
	b.Put([]byte("k"), []byte("from-b"))

	va, err := a.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !bytes.Equal(va, []byte("from-a")) {
		t.Errorf("a.Get() = %q, want from-a", va)
	}

	vb, _ := b.Get([]byte("k"))
	if !bytes.Equal(vb, []byte("from-b")) {
		t.Errorf("b.Get() = %q, want from-b", vb)
	}
}

func TestPrefixDB_ForEachStripsPrefix(t *testing.T) {
	inner := NewMemory()
	p := NewPrefixDB(inner, []byte("ns/"))
	p.Put([]byte("x1"), []byte("1"))
	p.Put([]byte("x2"), []byte("2"))
	inner.Put([]byte("unrelated"), []byte("3"))

	var keys []string
	err := p.ForEach([]byte("x"), func(key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach() error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("ForEach() visited %d keys, want 2", len(keys))
	}
	for _, k := range keys {
		if k != "x1" && k != "x2" {
			t.Errorf("unexpected key %q (prefix not stripped?)", k)
		}
	}
}

func TestPrefixDB_Batch(t *testing.T) {
	inner := NewMemory()
	p := NewPrefixDB(inner, []byte("ns/"))

	batch := p.NewBatch()
	batch.Put([]byte("k1"), []byte("v1"))
	batch.Delete([]byte("k2"))
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	// The write went through the prefix.
	if ok, _ := inner.Has([]byte("ns/k1")); !ok {
		t.Error("batch Put did not apply under prefix")
	}
	if ok, _ := inner.Has([]byte("k1")); ok {
		t.Error("batch Put leaked outside prefix")
	}
}
