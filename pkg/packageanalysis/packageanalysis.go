// Package packageanalysis implements the package analysis API (§6.3):
// analyzing one npm-style Aurelia package (its custom elements, value
// converters, binding behaviors, and registrations) without requiring the
// caller to hand-assemble a program host themselves, and persisting the
// result through internal/pkgcache so a monorepo with many dependent
// packages doesn't re-run full discovery on every pull.
package packageanalysis

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/aurelia/aot/internal/cfgflag"
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/evaluate"
	"github.com/aurelia/aot/internal/obslog"
	"github.com/aurelia/aot/internal/pkgcache"
	"github.com/aurelia/aot/internal/registry"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/pkg/aot"
)

// Loader produces a program host for packageRoot, or false if this
// strategy has nothing to offer (e.g. the source loader when a package
// ships compiled output only). Two Loaders back the "source analysis
// first, then compiled JS" preference of §6.3: one built from the
// package's TypeScript/source tree, one from its built `dist/` output.
type Loader func(packageRoot string, fsHost aot.FileSystemHost) (aot.ProgramHost, bool)

// CacheOptions configures internal/pkgcache for AnalyzePackage (§6.8).
// A zero Dir disables caching regardless of Mode.
type CacheOptions struct {
	Dir           string
	SchemaVersion int
	Fingerprint   string
	Mode          cfgflag.CacheMode
}

func (c CacheOptions) reads() bool {
	return c.Dir != "" && (c.Mode == cfgflag.CacheReadOnly || c.Mode == cfgflag.CacheReadWrite)
}

func (c CacheOptions) writes() bool {
	return c.Dir != "" && (c.Mode == cfgflag.CacheWriteOnly || c.Mode == cfgflag.CacheReadWrite)
}

// Options bundles AnalyzePackage's configuration.
type Options struct {
	// PreferSource selects source-before-compiled-JS strategy order
	// (§6.3's default). Set false to reverse it.
	PreferSource bool
	// SourceLoader and CompiledLoader supply the two strategies; either
	// may be nil if the caller has no such capability.
	SourceLoader   Loader
	CompiledLoader Loader

	Cache       CacheOptions
	FailOnFiles evaluate.FailOnFiles
	Logger      *obslog.Logger
}

// PackageAnalysis is one package's recognized resources and
// configurations (§6.3).
type PackageAnalysis struct {
	Name           string                  `json:"name"`
	Version        string                  `json:"version"`
	Resources      []*resource.ResourceDef `json:"resources"`
	Configurations []registry.Evidence     `json:"configurations"`
}

// Result is AnalyzePackage's return value (§6.3).
type Result struct {
	Analysis        PackageAnalysis `json:"analysis"`
	Confidence      diag.Confidence `json:"confidence"`
	Gaps            []diag.Gap      `json:"gaps"`
	PrimaryStrategy string          `json:"primaryStrategy,omitempty"`
	FromCache       bool            `json:"-"`

	// Graph is the resource/scope graph a fresh (non-cached) run produced,
	// for a caller (e.g. pkg/inspect) that wants the dependency structure
	// behind Analysis.Configurations. Nil on a cache hit: the cache only
	// persists the flat PackageAnalysis, not the scope graph.
	Graph *resource.Graph `json:"-"`
}

// AnalyzePackage analyzes one package rooted at packageRoot (§6.3).
// fsHost resolves package.json and any template siblings the chosen
// program host doesn't already embed.
func AnalyzePackage(ctx context.Context, packageRoot string, fsHost aot.FileSystemHost, opts Options) Result {
	manifest, gaps := readManifest(packageRoot, fsHost)
	if manifest == nil {
		return Result{
			Analysis:   PackageAnalysis{Name: path.Base(packageRoot)},
			Confidence: diag.ConfidenceManual,
			Gaps:       gaps,
		}
	}

	name, _ := manifest["name"].(string)
	if name == "" {
		name = path.Base(packageRoot)
		gaps = append(gaps, diag.Gap{
			Kind: diag.GapMissingPackageField,
			What: "package.json has no \"name\" field",
			Why:  "falling back to the directory name",
			Where: &diag.Where{File: source.NormalizedPath(path.Join(packageRoot, "package.json"))},
		})
	}
	version, _ := manifest["version"].(string)

	var cache *pkgcache.Cache
	manifestHash := manifestHashOf(manifest)
	if opts.Cache.reads() || opts.Cache.writes() {
		if c, err := pkgcache.Open(opts.Cache.Dir); err == nil {
			cache = c
		}
	}
	if cache != nil && opts.Cache.reads() {
		if entry, ok, gap := cache.Get(packageRoot, name, version, manifestHash, opts.Cache.Fingerprint); ok {
			if analysis, rerr := decodeCachedResult(entry.Result); rerr == nil {
				return Result{
					Analysis:        analysis,
					Confidence:      diag.ConfidenceFromGaps(diag.ConfidenceExact, nil),
					PrimaryStrategy: "cache",
					FromCache:       true,
				}
			}
		} else if gap != nil {
			gaps = append(gaps, *gap)
		}
	}

	strategies := []struct {
		name   string
		loader Loader
	}{
		{"source", opts.SourceLoader},
		{"compiled", opts.CompiledLoader},
	}
	if !opts.PreferSource {
		strategies[0], strategies[1] = strategies[1], strategies[0]
	}

	var program aot.ProgramHost
	var primary string
	for _, s := range strategies {
		if s.loader == nil {
			continue
		}
		if p, ok := s.loader(packageRoot, fsHost); ok {
			program, primary = p, s.name
			break
		}
	}
	if program == nil {
		gaps = append(gaps, diag.Gap{
			Kind:       diag.GapNoSource,
			What:       fmt.Sprintf("no usable source or compiled output found for %s", name),
			Suggestion: "supply a SourceLoader or CompiledLoader that can parse this package's files",
		})
		return Result{
			Analysis:   PackageAnalysis{Name: name, Version: version},
			Confidence: diag.ConfidenceManual,
			Gaps:       gaps,
		}
	}

	discovery := aot.DiscoverProjectSemantics(program, fsHost, aot.Config{
		FailOnFiles: opts.FailOnFiles,
		Logger:      opts.Logger,
	})

	for _, d := range discovery.Diagnostics.Items() {
		if g, ok := d.Data.(diag.Gap); ok {
			gaps = append(gaps, g)
		}
	}

	analysis := PackageAnalysis{
		Name:           name,
		Version:        version,
		Resources:      discovery.Resources,
		Configurations: discovery.Registration.Evidence,
	}
	confidence := diag.ConfidenceFromGaps(diag.ConfidenceExact, gaps)
	if primary == "compiled" && confidence == diag.ConfidenceExact {
		confidence = diag.ConfidenceHigh
	}

	if cache != nil && opts.Cache.writes() {
		cache.Put(pkgcache.CacheEntry{
			PackagePath:  packageRoot,
			PackageName:  name,
			Version:      version,
			ManifestHash: manifestHash,
			Fingerprint:  opts.Cache.Fingerprint,
			Result:       analysis,
		})
	}

	return Result{
		Analysis:        analysis,
		Confidence:      confidence,
		Gaps:            gaps,
		PrimaryStrategy: primary,
		Graph:           discovery.Registration.Graph,
	}
}

// AnalyzePackages runs AnalyzePackage over every path, stopping early if
// ctx is cancelled between packages — analysis is cancellation-safe only
// at the package boundary (§5), never mid-package.
func AnalyzePackages(ctx context.Context, paths []string, fsHost aot.FileSystemHost, opts Options) map[string]Result {
	out := make(map[string]Result, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			break
		}
		out[p] = AnalyzePackage(ctx, p, fsHost, opts)
	}
	return out
}

// IsAureliaPackage is the fast heuristic of §C.3: a package.json is
// treated as an Aurelia package if any of its dependency maps names an
// `aurelia`/`@aurelia/`-namespaced key.
func IsAureliaPackage(packageRoot string, fsHost aot.FileSystemHost) bool {
	manifest, _ := readManifest(packageRoot, fsHost)
	if manifest == nil {
		return false
	}
	for _, field := range []string{"dependencies", "devDependencies", "peerDependencies"} {
		deps, ok := manifest[field].(map[string]any)
		if !ok {
			continue
		}
		for dep := range deps {
			if dep == "aurelia" || strings.HasPrefix(dep, "aurelia-") || strings.HasPrefix(dep, "@aurelia/") {
				return true
			}
		}
	}
	return false
}

func readManifest(packageRoot string, fsHost aot.FileSystemHost) (map[string]any, []diag.Gap) {
	manifestPath := source.NormalizedPath(path.Join(packageRoot, "package.json"))
	text, ok := fsHost.Read(manifestPath)
	if !ok {
		return nil, []diag.Gap{{
			Kind:       diag.GapPackageNotFound,
			What:       fmt.Sprintf("no package.json found under %s", packageRoot),
			Where:      &diag.Where{File: manifestPath},
			Suggestion: "confirm packageRoot points at a directory containing package.json",
		}}
	}
	var manifest map[string]any
	if err := json.Unmarshal([]byte(text), &manifest); err != nil {
		return nil, []diag.Gap{{
			Kind:  diag.GapInvalidPackageJSON,
			What:  fmt.Sprintf("%s does not parse as JSON", manifestPath),
			Why:   err.Error(),
			Where: &diag.Where{File: manifestPath},
		}}
	}
	if _, hasExports := manifest["exports"]; hasExports {
		if _, simple := manifest["exports"].(string); !simple {
			if _, ok := manifest["main"]; !ok {
				return manifest, []diag.Gap{{
					Kind:       diag.GapComplexExports,
					What:       "package.json has a conditional \"exports\" map and no \"main\" fallback",
					Why:        "this analyzer only resolves string or object-with-main exports fields",
					Where:      &diag.Where{File: manifestPath},
					Suggestion: "supply an explicit entry point via a SourceLoader/CompiledLoader instead of relying on \"exports\" resolution",
				}}
			}
		}
	}
	return manifest, nil
}

func manifestHashOf(manifest map[string]any) string {
	b, err := json.Marshal(manifest)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", fnv64(b))
}

// fnv64 is a tiny non-cryptographic hash for manifest-change detection;
// the cache key doesn't need collision resistance, only change detection
// against the previous run's stored hash.
func fnv64(data []byte) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for _, b := range data {
		h ^= uint64(b)
		h *= prime
	}
	return h
}

func decodeCachedResult(raw any) (PackageAnalysis, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return PackageAnalysis{}, err
	}
	var analysis PackageAnalysis
	if err := json.Unmarshal(b, &analysis); err != nil {
		return PackageAnalysis{}, err
	}
	return analysis, nil
}
