package backup

import (
	"strings"
	"testing"
	"time"

	"github.com/fieldhand/mowtrack/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func storedKeys(t *testing.T, s *store.Store) []string {
	t.Helper()
	keys, err := s.ListKeys()
	if err != nil {
		t.Fatal(err)
	}
	return keys
}

// ============================================================
// Build
// ============================================================

func TestBuildCollectsAllRecords(t *testing.T) {
	s := newTestStore(t)
	s.Set("mowtrack:2025-06-02", `{"a":1}`)
	s.Set("mowtrack:2025-06-03", `{"b":2}`)

	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	doc, err := Build(s, now)
	if err != nil {
		t.Fatal(err)
	}

	if doc.Kind != Kind || doc.Version != Version {
		t.Fatalf("bad document tags: %+v", doc)
	}
	if doc.ExportedAt != "2025-06-04T12:00:00Z" {
		t.Fatalf("ExportedAt = %q", doc.ExportedAt)
	}
	if len(doc.Data) != 2 || doc.Data["mowtrack:2025-06-02"] != `{"a":1}` {
		t.Fatalf("data = %+v", doc.Data)
	}
}

func TestBuildEmptyStore(t *testing.T) {
	s := newTestStore(t)
	doc, err := Build(s, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Data) != 0 {
		t.Fatalf("expected empty data, got %+v", doc.Data)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	s.Set("mowtrack:2025-06-02", `{"segments":[]}`)

	doc, err := Build(s, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	raw, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(raw, Kind) {
		t.Fatal("encoded document should carry the format marker")
	}

	dst := newTestStore(t)
	n, err := Restore(dst, raw)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("restored %d records, want 1", n)
	}
	v, ok, _ := dst.Get("mowtrack:2025-06-02")
	if !ok || v != `{"segments":[]}` {
		t.Fatalf("restored record = %q, %v", v, ok)
	}
}

// ============================================================
// Restore validation
// ============================================================

func TestRestoreRejectsMissingMarker(t *testing.T) {
	s := newTestStore(t)
	s.Set("keep", "me")

	_, err := Restore(s, `{"version":1,"data":{"k":"v"}}`)
	if err == nil {
		t.Fatal("expected rejection without the format marker")
	}
	if got := storedKeys(t, s); len(got) != 1 || got[0] != "keep" {
		t.Fatalf("store should be unchanged, got %v", got)
	}
}

func TestRestoreRejectsWrongKind(t *testing.T) {
	s := newTestStore(t)
	_, err := Restore(s, `{"kind":"other-app","version":1,"data":{"k":"v"}}`)
	if err == nil {
		t.Fatal("expected rejection of a foreign document")
	}
}

func TestRestoreRejectsNewerVersion(t *testing.T) {
	s := newTestStore(t)
	_, err := Restore(s, `{"kind":"mowtrack-backup","version":99,"data":{"k":"v"}}`)
	if err == nil {
		t.Fatal("expected rejection of a newer format version")
	}
}

func TestRestoreRejectsEmptyPayload(t *testing.T) {
	s := newTestStore(t)
	for _, raw := range []string{
		`{"kind":"mowtrack-backup","version":1,"data":{}}`,
		`{"kind":"mowtrack-backup","version":1}`,
	} {
		if _, err := Restore(s, raw); err == nil {
			t.Fatalf("expected rejection of empty payload: %s", raw)
		}
	}
}

func TestRestoreRejectsMalformed(t *testing.T) {
	s := newTestStore(t)
	for _, raw := range []string{
		"",
		"not json",
		`{"kind":"mowtrack-backup","version":1,"data":{"k":42}}`,
		`{"kind":"mowtrack-backup","version":1,"data":{"k":""}}`,
	} {
		if _, err := Restore(s, raw); err == nil {
			t.Fatalf("expected rejection: %s", raw)
		}
	}
	if len(storedKeys(t, s)) != 0 {
		t.Fatal("rejected restores must make zero writes")
	}
}

func TestRestoreMergeOverwrite(t *testing.T) {
	s := newTestStore(t)
	s.Set("mowtrack:2025-06-01", "old-untouched")
	s.Set("mowtrack:2025-06-02", "old-overwritten")

	raw := `{"kind":"mowtrack-backup","version":1,"exportedAt":"2025-06-04T12:00:00Z",
		"data":{"mowtrack:2025-06-02":"new","mowtrack:2025-06-03":"added"}}`
	n, err := Restore(s, raw)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("restored %d, want 2", n)
	}

	v, _, _ := s.Get("mowtrack:2025-06-01")
	if v != "old-untouched" {
		t.Fatal("keys absent from the document must be left alone")
	}
	v, _, _ = s.Get("mowtrack:2025-06-02")
	if v != "new" {
		t.Fatal("keys present in the document must be overwritten")
	}
	v, _, _ = s.Get("mowtrack:2025-06-03")
	if v != "added" {
		t.Fatal("new keys must be written")
	}
}
