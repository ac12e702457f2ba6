// Package inspect implements the inspection API (§6.4): a
// JSON-serializable view of one package's analysis meant for a debugging
// CLI or editor extension to render directly, rather than the richer
// Go-native Result type pkg/packageanalysis returns.
package inspect

import (
	"context"
	"strconv"
	"time"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/registry"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/pkg/aot"
	"github.com/aurelia/aot/pkg/packageanalysis"
)

// GapView is one diag.Gap reshaped into the what/why/where/suggestion
// display quadruple §6.4 specifies.
type GapView struct {
	Kind       string `json:"kind"`
	What       string `json:"what"`
	Why        string `json:"why,omitempty"`
	Where      string `json:"where,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// DependencyNode is one scope's entry in the inspection's dependency
// adjacency list: the scope it inherits from (empty for the root) and the
// resource names registered directly into it.
type DependencyNode struct {
	Label     string   `json:"label"`
	Parent    string   `json:"parent,omitempty"`
	Resources []string `json:"resources"`
}

// Meta carries the run metadata §6.4 asks for.
type Meta struct {
	PrimaryStrategy string    `json:"primaryStrategy,omitempty"`
	AnalyzedFiles   []string  `json:"analyzedFiles,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// InspectionResult is the concrete shape of §C.1.
type InspectionResult struct {
	Resources      []*resource.ResourceDef   `json:"resources"`
	Dependencies   map[string]DependencyNode `json:"dependencies"`
	Configurations []registry.Evidence       `json:"configurations"`
	Gaps           []GapView                 `json:"gaps"`
	Meta           Meta                      `json:"meta"`
}

// Options bundles Inspect's inputs. AnalyzedFiles and Now are supplied by
// the caller rather than derived here, so a CLI can reproduce a byte-
// identical InspectionResult across runs for golden-file testing.
type Options struct {
	Analysis packageanalysis.Options
	// AnalyzedFiles lists every file the host's program host exposed;
	// the caller knows this list, Inspect does not re-derive it.
	AnalyzedFiles []string
	// Now stamps Meta.Timestamp. A nil Now calls time.Now.
	Now func() time.Time
}

// Inspect runs package analysis over packageRoot and reshapes the result
// into the JSON-serializable InspectionResult §6.4 specifies.
func Inspect(ctx context.Context, packageRoot string, fsHost aot.FileSystemHost, opts Options) InspectionResult {
	result := packageanalysis.AnalyzePackage(ctx, packageRoot, fsHost, opts.Analysis)

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return InspectionResult{
		Resources:      result.Analysis.Resources,
		Dependencies:   dependencyGraph(result.Graph),
		Configurations: result.Analysis.Configurations,
		Gaps:           gapViews(result.Gaps),
		Meta: Meta{
			PrimaryStrategy: result.PrimaryStrategy,
			AnalyzedFiles:   opts.AnalyzedFiles,
			Timestamp:       now(),
		},
	}
}

func gapViews(gaps []diag.Gap) []GapView {
	out := make([]GapView, 0, len(gaps))
	for _, g := range gaps {
		v := GapView{Kind: string(g.Kind), What: g.What, Why: g.Why, Suggestion: g.Suggestion}
		if g.Where != nil {
			v.Where = string(g.Where.File)
			if g.Where.Line > 0 {
				v.Where += ":" + strconv.Itoa(g.Where.Line)
			}
		}
		out = append(out, v)
	}
	return out
}

func dependencyGraph(graph *resource.Graph) map[string]DependencyNode {
	out := map[string]DependencyNode{}
	if graph == nil {
		return out
	}
	addScope := func(s *resource.Scope) {
		if s == nil {
			return
		}
		node := DependencyNode{Label: s.Label, Resources: scopeResourceNames(s)}
		if s.Parent != nil {
			node.Parent = s.Parent.ID
		}
		out[s.ID] = node
	}
	addScope(graph.Root)
	for _, local := range graph.Locals {
		addScope(local)
	}
	return out
}

func scopeResourceNames(s *resource.Scope) []string {
	seen := map[string]bool{}
	var names []string
	collect := func(bucket map[string]*resource.ResourceDef) {
		for _, def := range bucket {
			if def.File == "" {
				continue // built-in, not a project dependency
			}
			if !seen[def.Name.Val] {
				seen[def.Name.Val] = true
				names = append(names, def.Name.Val)
			}
		}
	}
	collect(s.Col.Elements)
	collect(s.Col.Attributes)
	collect(s.Col.Controllers)
	collect(s.Col.ValueConverters)
	collect(s.Col.BindingBehaviors)
	return names
}
