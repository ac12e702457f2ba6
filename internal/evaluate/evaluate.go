// Package evaluate drives partial evaluation (§4.3) across the whole
// program: for each file it builds a LexicalScope from declarations and
// imports, then resolves classes, define-call arguments, and static
// members through that scope, reaching across files via the export
// binding map (§4.2) when a reference turns out to be an import.
package evaluate

import (
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/exports"
	"github.com/aurelia/aot/internal/facts"
	"github.com/aurelia/aot/internal/hostast"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/internal/value"
)

// Program bundles the inputs a Driver needs to cross files during
// resolution: the FileFacts table, the export binding map, and a
// specifier-aware import resolver shared with the exports.Build pass.
type Program struct {
	Files    map[source.NormalizedPath]*facts.FileFacts
	Bindings *exports.Map
	Resolve  exports.ImportResolver
}

// FailOnFiles is the test hook (§4.3) that forces an analysis-failed gap
// for specific files instead of evaluating them, used to exercise
// downstream degradation paths deterministically.
type FailOnFiles map[source.NormalizedPath]bool

// Driver resolves values across the whole program, building one
// LexicalScope per file and caching it.
type Driver struct {
	program Program
	failOn  FailOnFiles
	scopes  map[source.NormalizedPath]*value.LexicalScope
}

func NewDriver(program Program, failOn FailOnFiles) *Driver {
	return &Driver{program: program, failOn: failOn, scopes: make(map[source.NormalizedPath]*value.LexicalScope)}
}

// ScopeFor returns (building and caching on first use) the root lexical
// scope for file, populated from its top-level imports and the class
// declarations in its FileFacts. FileFacts carries no const/let/var,
// function or enum declarations, so such names are not bound here and
// resolve to Unknown.
func (d *Driver) ScopeFor(file source.NormalizedPath) *value.LexicalScope {
	if s, ok := d.scopes[file]; ok {
		return s
	}
	scope := value.NewLexicalScope(file)
	ff := d.program.Files[file]
	if ff != nil {
		for _, imp := range ff.Imports {
			declareImport(scope, imp)
		}
		for _, cls := range ff.Classes {
			scope.Declare(cls.Name, value.NewClass(cls.Span, cls.Name, file))
		}
	}
	d.scopes[file] = scope
	return scope
}

func declareImport(scope *value.LexicalScope, imp *hostast.ImportDecl) {
	if imp.Default != "" {
		scope.DeclareImport(imp.Default, value.ImportBinding{Specifier: imp.Specifier, ExportName: "default", Span: imp.Span})
	}
	if imp.Namespace != "" {
		scope.DeclareImport(imp.Namespace, value.ImportBinding{Specifier: imp.Specifier, ExportName: "*", Span: imp.Span})
	}
	for exportName, local := range imp.Named {
		scope.DeclareImport(local, value.ImportBinding{Specifier: imp.Specifier, ExportName: exportName, Span: imp.Span})
	}
}

// Resolve resolves v in the context of file, chasing Import values across
// the export binding map into the target file's own scope (cross-file
// resolution) up to one hop per Import encountered; chains of re-exports
// were already flattened by exports.Build.
func (d *Driver) Resolve(file source.NormalizedPath, v value.Value) diag.Diagnosed[value.Value] {
	var diags diag.List
	if d.failOn[file] {
		return diag.WithDiags[value.Value](value.NewUnknown(v.Span(), diag.GapAnalysisFailed, "forced by failOnFiles test hook"), diags)
	}
	scope := d.ScopeFor(file)
	resolved := value.Resolve(v, scope)
	return diag.WithDiags(d.crossFileFollow(file, resolved, 0), diags)
}

// crossFileFollow chases an Import result across files: once value.Resolve
// converts a Reference into an Import (because the name binds to an import
// entry), crossFileFollow resolves the specifier to a project file,
// re-derives the exported symbol's ultimate origin via the export binding
// map, and continues resolving in the origin file's own scope. depth
// guards against pathological alias cycles the export binding map's own
// cycle detection didn't already collapse.
func (d *Driver) crossFileFollow(file source.NormalizedPath, v value.Value, depth int) value.Value {
	imp, ok := v.(*value.Import)
	if !ok || depth > 32 || d.program.Resolve == nil {
		return v
	}
	specFile, ok := d.program.Resolve(imp.Specifier, file)
	if !ok {
		return v // external package: stays an Import, surfaced by exports.Build as a gap
	}
	exportName := imp.ExportName
	if exportName == "*" {
		return v // namespace import: left for the member-access fold to resolve per-property
	}
	target, ok := d.Bindings().Resolve(specFile, exportName)
	if !ok {
		return v
	}
	if target.External {
		return value.NewImport(v.Span(), target.Package, target.Symbol)
	}
	originScope := d.ScopeFor(target.File)
	bound, ok := originScope.Lookup(target.Symbol)
	if !ok {
		return v
	}
	resolved := value.Resolve(bound, originScope)
	return d.crossFileFollow(target.File, resolved, depth+1)
}

// Bindings exposes the export binding map this driver was built with.
func (d *Driver) Bindings() *exports.Map { return d.program.Bindings }
