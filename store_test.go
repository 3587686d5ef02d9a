package journal

import (
	"path/filepath"
	"testing"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "journal.db")

	s, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSQLiteStorage(t *testing.T) {
	s := setupTestStorage(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestStorageSetGetRemove(t *testing.T) {
	storages := map[string]Storage{
		"sqlite": setupTestStorage(t),
		"memory": NewMemoryStorage(),
	}
	for name, s := range storages {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get("user"); err != nil || ok {
				t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
			}

			if err := s.Set("user", `{"id":"u1"}`); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := s.Set("user", `{"id":"u2"}`); err != nil {
				t.Fatalf("Set overwrite failed: %v", err)
			}
			v, ok, err := s.Get("user")
			if err != nil || !ok {
				t.Fatalf("Get failed: ok=%v err=%v", ok, err)
			}
			if v != `{"id":"u2"}` {
				t.Errorf("expected overwritten value, got %q", v)
			}

			if err := s.Remove("user"); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}
			if _, ok, _ := s.Get("user"); ok {
				t.Error("key should be gone after Remove")
			}
			if err := s.Remove("user"); err != nil {
				t.Errorf("removing a missing key should not fail: %v", err)
			}
		})
	}
}

func TestSQLiteStorageSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("user", "persisted"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.Close()

	s, err = NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	v, ok, err := s.Get("user")
	if err != nil || !ok || v != "persisted" {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", v, ok, err)
	}
}
