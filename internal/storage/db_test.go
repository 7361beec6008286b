package storage

import (
	"bytes"
	"testing"
)

// testDB runs the shared test suite against a DB implementation.
func testDB(t *testing.T, db DB) {
	t.Helper()

	t.Run("PutAndGet", func(t *testing.T) {
		err := db.Put([]byte("key1"), []byte("value1"))
		if err != nil {
			t.Fatalf("Put() error: %v", err)
		}

		val, err := db.Get([]byte("key1"))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(val, []byte("value1")) {
			t.Errorf("Get() = %q, want %q", val, "value1")
		}
	})

	t.Run("GetNonexistent", func(t *testing.T) {
		_, err := db.Get([]byte("nonexistent"))
		if err == nil {
			t.Error("Get() for missing key should return error")
		}
	})

	t.Run("Has", func(t *testing.T) {
		db.Put([]byte("exists"), []byte("yes"))

		ok, err := db.Has([]byte("exists"))
		if err != nil {
			t.Fatalf("Has() error: %v", err)
		}
		if !ok {
			t.Error("Has() = false for existing key")
		}

		ok, err = db.Has([]byte("missing"))
		if err != nil {
			t.Fatalf("Has() error: %v", err)
		}
		if ok {
			t.Error("Has() = true for missing key")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		db.Put([]byte("ow"), []byte("first"))
		db.Put([]byte("ow"), []byte("second"))

		val, err := db.Get([]byte("ow"))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(val, []byte("second")) {
			t.Errorf("Get() after overwrite = %q, want %q", val, "second")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db.Put([]byte("del"), []byte("x"))
		if err := db.Delete([]byte("del")); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		ok, _ := db.Has([]byte("del"))
		if ok {
			t.Error("key still present after Delete()")
		}
	})

	t.Run("ForEachPrefix", func(t *testing.T) {
		db.Put([]byte("fx/a"), []byte("1"))
		db.Put([]byte("fx/b"), []byte("2"))
		db.Put([]byte("other"), []byte("3"))

		seen := map[string]string{}
		err := db.ForEach([]byte("fx/"), func(key, value []byte) error {
			seen[string(key)] = string(value)
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach() error: %v", err)
		}
		if len(seen) != 2 {
			t.Errorf("ForEach() visited %d keys, want 2", len(seen))
		}
		if seen["fx/a"] != "1" || seen["fx/b"] != "2" {
			t.Errorf("ForEach() results wrong: %v", seen)
		}
	})

	t.Run("BatchCommit", func(t *testing.T) {
		batcher, ok := db.(Batcher)
		if !ok {
			t.Skip("DB does not support batching")
		}
		batch := batcher.NewBatch()
		batch.Put([]byte("b/1"), []byte("one"))
		batch.Put([]byte("b/2"), []byte("two"))

		// Nothing visible before commit.
		if ok, _ := db.Has([]byte("b/1")); ok {
			t.Error("batch write visible before Commit()")
		}

		if err := batch.Commit(); err != nil {
			t.Fatalf("Commit() error: %v", err)
		}
		v, err := db.Get([]byte("b/2"))
		if err != nil || !bytes.Equal(v, []byte("two")) {
			t.Errorf("Get() after batch commit = %q, %v", v, err)
		}
	})
}

func TestMemoryDB(t *testing.T) {
	testDB(t, NewMemory())
}

func TestBadgerDB(t *testing.T) {
	db, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	defer db.Close()
	testDB(t, db)
}
