// Package exports implements the cross-file export binding resolver
// (§4.2): a map from (file, local name) to (origin file, origin symbol),
// resolving named re-exports, aliased imports, and namespace passthroughs
// transitively, and terminating on cycles.
package exports

import (
	"fmt"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/facts"
	"github.com/aurelia/aot/internal/hostast"
	"github.com/aurelia/aot/internal/source"
)

// ImportResolver resolves a module specifier relative to a file to a
// project-local normalized path. It returns ok=false for bare specifiers
// that don't resolve to a file inside the project (external packages).
type ImportResolver func(specifier string, from source.NormalizedPath) (source.NormalizedPath, bool)

// Key identifies one (file, local export name) pair.
type Key struct {
	File source.NormalizedPath
	Name string
}

// Target is where a binding ultimately originates.
type Target struct {
	File     source.NormalizedPath
	Symbol   string
	External bool   // true when the chain terminates at a bare package specifier
	Package  string // set when External
}

// Map is the resolved (file, name) -> Target table, built once per build
// pass and consulted by partial evaluation (§4.3) and registration
// analysis (§4.5).
type Map struct {
	resolved map[Key]Target
}

// Resolve looks up an already-built binding.
func (m *Map) Resolve(file source.NormalizedPath, name string) (Target, bool) {
	t, ok := m.resolved[Key{file, name}]
	return t, ok
}

// Build resolves the export graph of every file in the program.
func Build(program map[source.NormalizedPath]*facts.FileFacts, resolveImport ImportResolver) diag.Diagnosed[*Map] {
	b := &builder{
		program:  program,
		resolve:  resolveImport,
		resolved: make(map[Key]Target),
		memo:     make(map[Key]resolveState),
	}
	var diags diag.List
	for file, ff := range program {
		for _, ex := range ff.Exports {
			name := ex.Name
			if name == "" {
				continue // bare `export *` entries have no single name to seed
			}
			target, gaps := b.resolveExport(file, name, map[Key]bool{})
			diags.Merge(listFrom(gaps))
			b.resolved[Key{file, name}] = target
		}
	}
	return diag.WithDiags(&Map{resolved: b.resolved}, diags)
}

func listFrom(gaps []diag.Gap) diag.List {
	var l diag.List
	for _, g := range gaps {
		l.Add(diag.Diagnostic{
			Code:     string(g.Kind),
			Stage:    diag.StageDiscovery,
			Severity: diag.Warning,
			Message:  g.What,
		})
	}
	return l
}

type resolveState struct {
	target Target
	gaps   []diag.Gap
	done   bool
}

type builder struct {
	program  map[source.NormalizedPath]*facts.FileFacts
	resolve  ImportResolver
	resolved map[Key]Target
	memo     map[Key]resolveState
}

// resolveExport resolves the export named name declared in file, following
// re-exports, aliased imports, and namespace passthroughs.
func (b *builder) resolveExport(file source.NormalizedPath, name string, visiting map[Key]bool) (Target, []diag.Gap) {
	key := Key{file, name}
	if st, ok := b.memo[key]; ok && st.done {
		return st.target, st.gaps
	}
	if visiting[key] {
		gap := diag.Gap{
			Kind: diag.GapCircularImport,
			What: fmt.Sprintf("circular export chain at %s#%s", file, name),
			Why:  "the export graph revisited a binding that was already being resolved",
		}
		return Target{File: file, Symbol: name}, []diag.Gap{gap}
	}
	visiting[key] = true
	defer delete(visiting, key)

	ff := b.program[file]
	if ff == nil {
		t, gaps := Target{File: file, Symbol: name}, []diag.Gap{{
			Kind: diag.GapUnresolvedImport,
			What: fmt.Sprintf("file %s not found while resolving export %q", file, name),
		}}
		b.memo[key] = resolveState{t, gaps, true}
		return t, gaps
	}

	for _, ex := range ff.Exports {
		if ex.Star || ex.Name != name {
			continue
		}
		t, gaps := b.followExport(file, ff, ex, visiting)
		b.memo[key] = resolveState{t, gaps, true}
		return t, gaps
	}

	// No exact named export: try namespace passthroughs in declaration order.
	for _, ex := range ff.Exports {
		if !ex.Star || ex.From == "" {
			continue
		}
		origin, ok := b.resolve(ex.From, file)
		if !ok {
			continue
		}
		if t, gaps := b.resolveExport(origin, name, visiting); len(gaps) == 0 || gaps[0].Kind != diag.GapUnresolvedImport {
			b.memo[key] = resolveState{t, gaps, true}
			return t, gaps
		}
	}

	t, gaps := Target{File: file, Symbol: name}, []diag.Gap{{
		Kind: diag.GapUnresolvedImport,
		What: fmt.Sprintf("no export named %q found reachable from %s", name, file),
	}}
	b.memo[key] = resolveState{t, gaps, true}
	return t, gaps
}

func (b *builder) followExport(file source.NormalizedPath, ff *facts.FileFacts, ex *hostast.ExportDecl, visiting map[Key]bool) (Target, []diag.Gap) {
	if ex.From != "" {
		origin, ok := b.resolve(ex.From, file)
		if !ok {
			return Target{External: true, Package: ex.From, Symbol: localOrName(ex)}, []diag.Gap{{
				Kind: diag.GapExternalPackage,
				What: fmt.Sprintf("export %q re-exports from external package %q", ex.Name, ex.From),
			}}
		}
		sourceName := ex.Local
		if sourceName == "" {
			sourceName = ex.Name
		}
		return b.resolveExport(origin, sourceName, visiting)
	}

	local := ex.Local
	if local == "" {
		local = ex.Name
	}
	// Does `local` alias an import in this file? If so, chase the import.
	for _, imp := range ff.Imports {
		switch local {
		case imp.Default:
			return b.followImport(file, imp.Specifier, "default", visiting)
		case imp.Namespace:
			return b.followImport(file, imp.Specifier, "*", visiting)
		}
		for exportName, localName := range imp.Named {
			if localName == local {
				return b.followImport(file, imp.Specifier, exportName, visiting)
			}
		}
	}
	return Target{File: file, Symbol: local}, nil
}

func (b *builder) followImport(file source.NormalizedPath, specifier, exportName string, visiting map[Key]bool) (Target, []diag.Gap) {
	origin, ok := b.resolve(specifier, file)
	if !ok {
		return Target{External: true, Package: specifier, Symbol: exportName}, []diag.Gap{{
			Kind: diag.GapExternalPackage,
			What: fmt.Sprintf("import from external package %q", specifier),
		}}
	}
	if exportName == "*" {
		return Target{File: origin, Symbol: "*"}, nil
	}
	return b.resolveExport(origin, exportName, visiting)
}

func localOrName(ex *hostast.ExportDecl) string {
	if ex.Local != "" {
		return ex.Local
	}
	return ex.Name
}
