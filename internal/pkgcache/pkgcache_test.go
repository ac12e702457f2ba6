package pkgcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aurelia/aot/internal/diag"
)

func TestPutThenGetRoundTrips(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %s", err)
	}
	entry := CacheEntry{
		PackagePath:  "aurelia-binding",
		PackageName:  "aurelia-binding",
		Version:      "2.5.3",
		ManifestHash: "deadbeef",
		Fingerprint:  "fp-1",
		Result:       map[string]any{"resources": []any{"foo"}},
	}
	if err := c.Put(entry); err != nil {
		t.Fatalf("Put: %s", err)
	}

	got, ok, gap := c.Get("aurelia-binding", "aurelia-binding", "2.5.3", "deadbeef", "fp-1")
	if gap != nil {
		t.Fatalf("unexpected gap: %+v", gap)
	}
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if got.PackagePath != entry.PackagePath || got.SchemaVersion != SchemaVersion {
		t.Errorf("got %+v", got)
	}
}

func TestGetMissesOnManifestHashMismatch(t *testing.T) {
	dir := t.TempDir()
	c, _ := Open(dir)
	c.Put(CacheEntry{PackagePath: "p", PackageName: "p", Version: "1.0.0", ManifestHash: "a", Fingerprint: "f"})

	_, ok, gap := c.Get("p", "p", "1.0.0", "b", "f")
	if ok {
		t.Errorf("expected a miss when manifestHash changed")
	}
	if gap != nil {
		t.Errorf("a hash mismatch is a plain miss, not a corrupt-cache gap: %+v", gap)
	}
}

func TestGetMissesOnSchemaVersionBump(t *testing.T) {
	dir := t.TempDir()
	c, _ := Open(dir)
	c.Put(CacheEntry{PackagePath: "p", PackageName: "p", Version: "1.0.0", ManifestHash: "a", Fingerprint: "f"})

	path := filepath.Join(dir, filename("p", "p", "1.0.0"))
	// Overwrite with a deliberately bumped schemaVersion to simulate an
	// entry written by a future schema.
	future := `{"schemaVersion":999,"packagePath":"p","packageName":"p","version":"1.0.0","manifestHash":"a","fingerprint":"f"}`
	if err := os.WriteFile(path, []byte(future), 0666); err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	_, ok, gap := c.Get("p", "p", "1.0.0", "a", "f")
	if ok {
		t.Errorf("expected a miss for a stale schemaVersion")
	}
	if gap != nil {
		t.Errorf("a schema bump is a plain miss, not a corrupt-cache gap: %+v", gap)
	}
}

func TestGetReportsCacheCorruptGapOnUndecodableJSON(t *testing.T) {
	dir := t.TempDir()
	c, _ := Open(dir)
	path := filepath.Join(dir, filename("p", "p", "1.0.0"))
	os.WriteFile(path, []byte("{not json"), 0666)

	_, ok, gap := c.Get("p", "p", "1.0.0", "a", "f")
	if ok {
		t.Errorf("expected a miss for undecodable JSON")
	}
	if gap == nil || gap.Kind != diag.GapCacheCorrupt {
		t.Errorf("expected a cache-corrupt gap, got %+v", gap)
	}
}

func TestGetMissesWithoutErrorWhenFileAbsent(t *testing.T) {
	dir := t.TempDir()
	c, _ := Open(dir)
	_, ok, gap := c.Get("nope", "nope", "1.0.0", "a", "f")
	if ok || gap != nil {
		t.Errorf("expected a plain miss for a never-written entry")
	}
}

func TestRemoveDeletesEntry(t *testing.T) {
	dir := t.TempDir()
	c, _ := Open(dir)
	c.Put(CacheEntry{PackagePath: "p", PackageName: "p", Version: "1.0.0", ManifestHash: "a", Fingerprint: "f"})
	if err := c.Remove("p", "p", "1.0.0"); err != nil {
		t.Fatalf("Remove: %s", err)
	}
	_, ok, _ := c.Get("p", "p", "1.0.0", "a", "f")
	if ok {
		t.Errorf("expected entry to be gone after Remove")
	}
	if err := c.Remove("p", "p", "1.0.0"); err != nil {
		t.Errorf("Remove of an already-absent entry should not error: %s", err)
	}
}

func TestFilenameIsSanitizedAndHashed(t *testing.T) {
	name := filename("@scope/pkg", "@scope/pkg", "1.0.0")
	if filepath.Ext(name) != ".json" {
		t.Errorf("expected a .json suffix, got %s", name)
	}
	for _, r := range name {
		if r == '@' || r == '/' {
			t.Errorf("expected sanitized filename, got %s", name)
		}
	}
}
