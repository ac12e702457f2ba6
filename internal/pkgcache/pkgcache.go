// Package pkgcache persists package-analysis results to disk (§6.8), so a
// second discoverProjectSemantics run for an unchanged dependency can skip
// re-walking its export surface entirely.
//
// The on-disk layout is grounded on the teacher's mod/modcache package: one
// file per cached entry, written to a temporary name in the same directory
// and renamed into place (mod/modcache/cache.go's writeDiskCache), so a
// process killed mid-write never leaves a half-written cache file behind.
// Where modcache escapes a module path into a directory tree, pkgcache
// instead hashes the package path into a fixed-width suffix the way the
// teacher's gopls/cache/check.go derives its on-disk key from a sha256 sum
// of a package's inputs — a flat directory of
// "{name}.{12-char-hash}.json" files needs no directory-escaping scheme of
// its own, since the hash absorbs every character a bare path could not
// safely contribute to a filename.
package pkgcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/source"
)

// SchemaVersion is bumped whenever CacheEntry's shape or meaning changes.
// A cached entry written under an older version is treated as absent.
const SchemaVersion = 1

// CacheEntry is one cached package-analysis result (§6.8).
type CacheEntry struct {
	SchemaVersion int    `json:"schemaVersion"`
	PackagePath   string `json:"packagePath"`
	PackageName   string `json:"packageName"`
	Version       string `json:"version"`
	ManifestHash  string `json:"manifestHash"`
	Fingerprint   string `json:"fingerprint"`
	PreferSource  bool   `json:"preferSource"`
	Timestamp     int64  `json:"timestamp"`
	Result        any    `json:"result"`
}

// Cache reads and writes CacheEntry files under a single directory.
type Cache struct {
	dir string
}

// Open returns a Cache rooted at dir, creating dir if it does not exist.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

var sanitizeRE = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// filename returns the sanitized "{name}.{12-char-hash}.json" cache file
// name for packagePath, at version.
func filename(packagePath, packageName, version string) string {
	sum := sha256.Sum256([]byte(packagePath + "@" + version))
	hash := hex.EncodeToString(sum[:])[:12]
	name := sanitizeRE.ReplaceAllString(packageName, "_")
	if name == "" {
		name = "pkg"
	}
	return name + "." + hash + ".json"
}

// Get looks up the entry for packagePath/packageName/version, returning
// ok=false if no entry is cached, the cached entry's SchemaVersion is
// stale, or its ManifestHash/Fingerprint do not match the ones supplied —
// any of these is treated as a cache miss, never an error, since callers
// always have a live-recompute fallback.
//
// A cache file that exists but fails to decode as JSON is reported via a
// cache-corrupt gap rather than a returned error: a corrupt cache file is
// a condition analysis continues through (by recomputing), not one that
// should abort discoverProjectSemantics (§7).
func (c *Cache) Get(packagePath, packageName, version, manifestHash, fingerprint string) (entry CacheEntry, ok bool, gap *diag.Gap) {
	path := filepath.Join(c.dir, filename(packagePath, packageName, version))
	data, err := os.ReadFile(path)
	if err != nil {
		return CacheEntry{}, false, nil
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return CacheEntry{}, false, &diag.Gap{
			Kind: diag.GapCacheCorrupt,
			What: fmt.Sprintf("package cache entry %s is corrupt", filepath.Base(path)),
			Why:  err.Error(),
			Where: &diag.Where{
				File: source.NormalizedPath(path),
			},
			Suggestion: fmt.Sprintf("Delete %s to regenerate it", path),
		}
	}
	if entry.SchemaVersion != SchemaVersion {
		return CacheEntry{}, false, nil
	}
	if entry.ManifestHash != manifestHash || entry.Fingerprint != fingerprint {
		return CacheEntry{}, false, nil
	}
	return entry, true, nil
}

// Put writes entry to its cache file, setting SchemaVersion to the current
// SchemaVersion regardless of whatever value entry.SchemaVersion held.
func (c *Cache) Put(entry CacheEntry) error {
	entry.SchemaVersion = SchemaVersion
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(c.dir, filename(entry.PackagePath, entry.PackageName, entry.Version))

	tmp, err := os.CreateTemp(c.dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmpName, path); err != nil {
		return err
	}
	return nil
}

// Remove deletes the cache entry for packagePath/packageName/version, if
// any. It is not an error for no such entry to exist.
func (c *Cache) Remove(packagePath, packageName, version string) error {
	path := filepath.Join(c.dir, filename(packagePath, packageName, version))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the directory this Cache reads and writes, primarily for
// tests and diagnostics that want to report where a cache lives.
func (c *Cache) Dir() string { return c.dir }
