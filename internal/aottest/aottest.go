// Package aottest holds the in-memory FileSystemHost and ProgramHost
// fixtures pkg/aot's own tests and every package built on top of it
// (pkg/packageanalysis, pkg/inspect) need to drive DiscoverProjectSemantics
// without a real host. It plays the role cuelang.org/go/internal/cuetxtar
// plays for CUE: one shared harness package instead of each consumer
// hand-rolling its own fakes.
package aottest

import (
	"github.com/aurelia/aot/internal/hostast"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/internal/value"
)

// FS is an in-memory aot.FileSystemHost backed by a flat file map.
type FS struct {
	Files map[source.NormalizedPath]string
}

// NewFS builds an FS from files, a normalized-path-to-contents map.
func NewFS(files map[source.NormalizedPath]string) *FS {
	if files == nil {
		files = map[source.NormalizedPath]string{}
	}
	return &FS{Files: files}
}

func (fs *FS) Read(path source.NormalizedPath) (string, bool) {
	text, ok := fs.Files[path]
	return text, ok
}

func (fs *FS) Exists(path source.NormalizedPath) bool {
	_, ok := fs.Files[path]
	return ok
}

// Program is an in-memory aot.ProgramHost over a fixed set of already-
// parsed files. Resolve defaults to always-unresolved, the common case for
// tests that exercise recognition/emit rather than cross-file imports; set
// it to exercise a specific module-resolution outcome.
type Program struct {
	Files   []*hostast.File
	Resolve func(specifier string, fromFile source.NormalizedPath) (source.NormalizedPath, bool)
}

// NewProgram builds a Program over files.
func NewProgram(files ...*hostast.File) *Program {
	return &Program{Files: files}
}

func (p *Program) SourceFiles() []*hostast.File { return p.Files }

func (p *Program) ResolveModuleName(specifier string, fromFile source.NormalizedPath) (source.NormalizedPath, bool) {
	if p.Resolve == nil {
		return "", false
	}
	return p.Resolve(specifier, fromFile)
}

// StringLiteral returns a string value.Literal quoted the way the host
// language's own decorator-argument text would be, for tests that build
// hostast fixtures by hand instead of parsing real source.
func StringLiteral(s string) *value.Literal {
	return value.NewLiteral(source.Span{}, value.LitString, "'"+s+"'")
}

// SingleClassFile builds a one-class hostast.File with a single decorator
// call, the shape most recognizer/discovery tests need: a file declaring
// one class carrying one decorator and its arguments.
func SingleClassFile(file source.NormalizedPath, className, decorator string, args ...value.Value) *hostast.File {
	return &hostast.File{
		Path: file,
		Classes: []*hostast.ClassDecl{
			{
				Name: className,
				Decorators: []*hostast.Decorator{
					{Name: decorator, Args: args},
				},
			},
		},
	}
}
