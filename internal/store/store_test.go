package store

import (
	"path/filepath"
	"strconv"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "storage.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := map[string]string{"a": "1", "b": "2"}
	if err := s.PutJSON(KeyTasks, in); err != nil {
		t.Fatalf("PutJSON failed: %v", err)
	}

	var out map[string]string
	ok, err := s.GetJSON(KeyTasks, &out)
	if err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if !ok {
		t.Fatal("expected key to be present")
	}
	if len(out) != 2 || out["a"] != "1" || out["b"] != "2" {
		t.Errorf("round trip mismatch: %v", out)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)

	var out map[string]string
	ok, err := s.GetJSON("nope", &out)
	if err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing key")
	}
}

func TestMalformedValueReadsAsAbsent(t *testing.T) {
	s := openTestStore(t)

	if err := s.PutRaw(KeyDocuments, []byte("{not json")); err != nil {
		t.Fatalf("PutRaw failed: %v", err)
	}

	var out map[string]string
	ok, err := s.GetJSON(KeyDocuments, &out)
	if err != nil {
		t.Fatalf("expected no error for malformed value, got %v", err)
	}
	if ok {
		t.Error("malformed value should read as absent")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	if err := s.PutJSON(KeyCurrentUser, "alice@example.com"); err != nil {
		t.Fatalf("PutJSON failed: %v", err)
	}
	if err := s.Delete(KeyCurrentUser); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(KeyCurrentUser); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}

	var out string
	if ok, _ := s.GetJSON(KeyCurrentUser, &out); ok {
		t.Error("key should be gone after delete")
	}
}

func TestBumpVersionMonotonic(t *testing.T) {
	s := openTestStore(t)

	var prev int64
	for i := 0; i < 10; i++ {
		raw, err := s.BumpVersion()
		if err != nil {
			t.Fatalf("BumpVersion failed: %v", err)
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			t.Fatalf("version %q is not numeric: %v", raw, err)
		}
		if v <= prev {
			t.Fatalf("version did not increase: %d then %d", prev, v)
		}
		prev = v
	}

	if s.Version() != strconv.FormatInt(prev, 10) {
		t.Errorf("Version() = %q, want %d", s.Version(), prev)
	}
}
