// Package facts implements per-file fact extraction (§4.1): walking one
// already-parsed host AST file into classes, define-calls, imports, and
// exports, without following imports or doing any cross-file resolution.
package facts

import (
	"strings"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/hostast"
	"github.com/aurelia/aot/internal/source"
)

// FileFacts is the per-file extraction result (§4.1).
type FileFacts struct {
	Path      source.NormalizedPath
	Classes   []*hostast.ClassDecl
	Defines   []*hostast.DefineCall
	Registers []*hostast.RegisterCall
	Imports   []*hostast.ImportDecl
	Exports   []*hostast.ExportDecl
}

// IsDeclarationFile reports whether path is a `.d.ts` file, which the
// extractor always skips (§4.1 Key policies).
func IsDeclarationFile(path source.NormalizedPath) bool {
	return strings.HasSuffix(string(path), ".d.ts")
}

// Extract produces FileFacts for one file. Extract is pure with respect to
// the rest of the program: it never looks beyond the given file's own AST,
// and never resolves a module specifier. The `.js` specifier written in
// a compiled-output import and the `.ts` file that actually produced it
// (§4.1) are reconciled once, centrally, by the export-binding resolver
// (internal/exports.Build) and by evaluate.Driver — both take the same
// ResolveModuleName function a ProgramHost supplies, so every layer that
// needs a resolved target agrees with it instead of each recomputing its
// own answer.
func Extract(file *hostast.File) diag.Diagnosed[*FileFacts] {
	var diags diag.List
	canonical := source.Normalize(string(file.Path))
	if IsDeclarationFile(canonical) {
		return diag.WithDiags[*FileFacts](nil, diags)
	}
	ff := &FileFacts{
		Path:      canonical,
		Classes:   file.Classes,
		Defines:   file.Defines,
		Registers: file.Registers,
		Imports:   file.Imports,
		Exports:   file.Exports,
	}
	return diag.WithDiags(ff, diags)
}

// ExtractProgram extracts FileFacts for every non-declaration file in
// files, keyed by normalized path.
func ExtractProgram(files []*hostast.File) diag.Diagnosed[map[source.NormalizedPath]*FileFacts] {
	out := make(map[source.NormalizedPath]*FileFacts, len(files))
	var diags diag.List
	for _, f := range files {
		d := Extract(f)
		diags.Merge(d.Diags)
		if d.Value != nil {
			out[d.Value.Path] = d.Value
		}
	}
	return diag.WithDiags(out, diags)
}

// ClassByName returns the class declaration with the given name, if any.
func (f *FileFacts) ClassByName(name string) *hostast.ClassDecl {
	for _, c := range f.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}
