// Package snapshot implements the stable-snapshot API (§6.6): content-
// addressed views of a package's resources and public API surface, meant
// for diffing two analyses of the same logical package (e.g. across a
// dependency bump) without id churn caused by running the analysis from
// a different checkout directory.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/pkg/packageanalysis"
)

// SemanticVersion is SemanticSnapshot's format tag (§6.6).
const SemanticVersion = "aurelia-semantic-snapshot@1"

// Origin classifies where a symbol's defining source lives, one of the
// two axes (alongside relative source path) a stable id is keyed on.
type Origin string

const (
	OriginSource     Origin = "source"
	OriginDependency Origin = "dependency"
)

// Symbol is one named entity captured by a snapshot: a resource
// definition, keyed by a content-derived id stable across root
// directories.
type Symbol struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Origin  Origin `json:"origin"`
	Source  string `json:"source"`
	Package string `json:"package,omitempty"`
}

// SemanticSnapshot is the full resource-level view of a package (§6.6),
// meant for diffing/manifests.
type SemanticSnapshot struct {
	Version string   `json:"version"`
	Package string   `json:"package"`
	Symbols []Symbol `json:"symbols"`
}

// ApiSurfaceSnapshot restricts SemanticSnapshot to the subset of symbols
// a consumer of the package can actually see and use: exported,
// non-internal resources.
type ApiSurfaceSnapshot struct {
	Version string   `json:"version"`
	Package string   `json:"package"`
	Symbols []Symbol `json:"symbols"`
}

// SymbolID computes the stable `sym:{hash}` id of §6.6: the hash input is
// the tuple {kind, name, origin, source, package}, using the symbol's
// root-relative source path (never an absolute one) so the same logical
// package analyzed from two different checkouts produces identical ids.
func SymbolID(kind, name string, origin Origin, relativeSource, pkg string) string {
	input := fmt.Sprintf("%s\x00%s\x00%s\x00%s\x00%s", kind, name, origin, relativeSource, pkg)
	sum := sha256.Sum256([]byte(input))
	return "sym:" + hex.EncodeToString(sum[:])
}

// BuildSemanticSnapshot builds a SemanticSnapshot from a package analysis
// result. origin marks whether pkg is the project's own source (the
// common case for a single-package snapshot) or a dependency being
// folded into a workspace-wide snapshot. relativize converts a
// resource's absolute/host-normalized File path into the root-relative
// path SymbolID hashes on; passing `filepath.Rel`-style logic lets the
// same package produce identical snapshots regardless of where it
// happens to be checked out.
func BuildSemanticSnapshot(pkg packageanalysis.PackageAnalysis, origin Origin, relativize func(resourceFile string) string) SemanticSnapshot {
	symbols := make([]Symbol, 0, len(pkg.Resources))
	for _, def := range pkg.Resources {
		symbols = append(symbols, symbolFor(def, pkg.Name, origin, relativize))
	}
	return SemanticSnapshot{Version: SemanticVersion, Package: pkg.Name, Symbols: symbols}
}

// BuildApiSurfaceSnapshot restricts BuildSemanticSnapshot's symbol set to
// resources an importer of the package can reach: anything recognized at
// all currently counts, since this analyzer has no notion of an
// unexported resource definition (Aurelia resources are always named and
// registered to be used, never module-private) — isPublic is supplied as
// a seam for a future host that does distinguish them.
func BuildApiSurfaceSnapshot(pkg packageanalysis.PackageAnalysis, origin Origin, relativize func(resourceFile string) string, isPublic func(*resource.ResourceDef) bool) ApiSurfaceSnapshot {
	if isPublic == nil {
		isPublic = func(*resource.ResourceDef) bool { return true }
	}
	symbols := make([]Symbol, 0, len(pkg.Resources))
	for _, def := range pkg.Resources {
		if !isPublic(def) {
			continue
		}
		symbols = append(symbols, symbolFor(def, pkg.Name, origin, relativize))
	}
	return ApiSurfaceSnapshot{Version: SemanticVersion, Package: pkg.Name, Symbols: symbols}
}

func symbolFor(def *resource.ResourceDef, pkg string, origin Origin, relativize func(string) string) Symbol {
	relSource := string(def.File)
	if relativize != nil {
		relSource = relativize(relSource)
	}
	return Symbol{
		ID:      SymbolID(string(def.Kind), def.Name.Val, origin, relSource, pkg),
		Kind:    string(def.Kind),
		Name:    def.Name.Val,
		Origin:  origin,
		Source:  relSource,
		Package: pkg,
	}
}
