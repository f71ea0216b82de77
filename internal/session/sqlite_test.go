package session

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "state.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteSetAndGet(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set(KeyToken, "tok-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := store.Get(KeyToken)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || v != "tok-1" {
		t.Errorf("Get = (%q, %v), want (%q, true)", v, ok, "tok-1")
	}
}

func TestSQLiteGetMissing(t *testing.T) {
	store := newTestStore(t)

	v, ok, err := store.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || v != "" {
		t.Errorf("Get missing = (%q, %v), want (\"\", false)", v, ok)
	}
}

func TestSQLiteOverwrite(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set(KeyUserID, "u1"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(KeyUserID, "u2"); err != nil {
		t.Fatal(err)
	}
	v, _, _ := store.Get(KeyUserID)
	if v != "u2" {
		t.Errorf("last writer should win, got %q", v)
	}
	keys, err := store.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 {
		t.Errorf("Keys len = %d, want 1", len(keys))
	}
}

func TestSQLiteDelete(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set(KeyFlash, "hello"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(KeyFlash); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get(KeyFlash); ok {
		t.Error("key still present after Delete")
	}
	// Deleting a missing key is fine.
	if err := store.Delete(KeyFlash); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(KeyToken, "persisted"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	v, ok, err := reopened.Get(KeyToken)
	if err != nil || !ok || v != "persisted" {
		t.Errorf("after reopen Get = (%q, %v, %v)", v, ok, err)
	}
}
