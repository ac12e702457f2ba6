// Package hostast declares the node types of the host-language AST that a
// Program (§6.2) hands to the core. The core never parses host-language
// source itself; it only walks a tree already produced by the host's
// parser. The shape here is intentionally small: just enough structure
// (classes, decorators, static members, calls, imports, exports, function
// bodies as value-model statements) for file-fact extraction (§4.1) and
// partial evaluation (§4.3) to operate on.
package hostast

import (
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/internal/value"
)

// Node is implemented by every host-AST node, mirroring the Pos/End
// convention used throughout the toolchain's own syntax tree.
type Node interface {
	Pos() source.Span
}

// File is the root of one parsed source file.
type File struct {
	Path      source.NormalizedPath
	Classes   []*ClassDecl
	Defines   []*DefineCall
	Registers []*RegisterCall
	Imports   []*ImportDecl
	Exports   []*ExportDecl
}

func (f *File) Pos() source.Span { return source.Span{File: f.Path} }

// Decorator is `@name(args...)` (or `@name` with no call) attached to a
// class, method, or property.
type Decorator struct {
	Span source.Span
	Name string
	Args []value.Value
}

func (d *Decorator) Pos() source.Span { return d.Span }

// StaticMember is a `static <name> = <value>` or `static <name>(...) {}`
// class member.
type StaticMember struct {
	Span   source.Span
	Name   string
	Value  value.Value // nil for method members
	Method *value.Function
}

func (m *StaticMember) Pos() source.Span { return m.Span }

// ClassDecl is one `class Foo { ... }` declaration.
type ClassDecl struct {
	Span          source.Span
	Name          string
	Decorators    []*Decorator
	StaticMembers []*StaticMember
	Exported      bool
	DefaultExport bool
}

func (c *ClassDecl) Pos() source.Span { return c.Span }

// DecoratorByName returns the first decorator with the given name, or nil.
func (c *ClassDecl) DecoratorByName(name string) *Decorator {
	for _, d := range c.Decorators {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// StaticByName returns the first static member with the given name, or nil.
func (c *ClassDecl) StaticByName(name string) *StaticMember {
	for _, m := range c.StaticMembers {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// DefineCall is a top-level factory invocation registered on the host API,
// e.g. `CustomElement.define({ name: 'foo-bar' }, FooBar)` (§4.4 recognizer
// 4).
type DefineCall struct {
	Span     source.Span
	Callee   string // dotted callee path, e.g. "CustomElement.define"
	Args     []value.Value
	ClassRef string // class name the define call targets, if statically known
}

func (d *DefineCall) Pos() source.Span { return d.Span }

// RegisterCall is a top-level call that registers resources or plugins
// into the application's global scope, e.g. `Aurelia.register(FooPlugin)`
// or `container.register(BarElement, BazValueConverter)` (§4.5).
type RegisterCall struct {
	Span   source.Span
	Callee string // dotted callee path, e.g. "Aurelia.register"
	Args   []value.Value
}

func (r *RegisterCall) Pos() source.Span { return r.Span }

// ImportDecl is one `import ... from "specifier"` statement.
type ImportDecl struct {
	Span       source.Span
	Specifier  string
	Default    string            // local name bound to the default export, "" if none
	Namespace  string            // local name bound to `* as NS`, "" if none
	Named      map[string]string // exported name -> local binding name
}

func (i *ImportDecl) Pos() source.Span { return i.Span }

// ExportDecl is one `export ...` statement: either a re-export (From set)
// or a local export.
type ExportDecl struct {
	Span  source.Span
	Name  string // exported name
	Local string // local name bound to it; for re-exports, the name in the source module
	From  string // non-empty for `export { x } from "specifier"` / `export * from "specifier"`
	Star  bool   // true for `export * from "specifier"` (namespace passthrough)
}

func (e *ExportDecl) Pos() source.Span { return e.Span }
