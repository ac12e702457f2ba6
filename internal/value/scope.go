package value

import "github.com/aurelia/aot/internal/source"

// ImportBinding is one named import entry of a file.
type ImportBinding struct {
	Specifier  string
	ExportName string // "default" or "*" for default/namespace imports
	Span       source.Span
}

// LexicalScope is the per-file (or per-function) binding environment used
// during partial evaluation: declarations (const/let/var, functions,
// classes, enums) plus imports, with an optional parent scope for nested
// function bodies (§4.3).
type LexicalScope struct {
	FilePath source.NormalizedPath
	Bindings map[string]Value
	Imports  map[string]ImportBinding
	Parent   *LexicalScope
}

// NewLexicalScope creates an empty root scope for a file.
func NewLexicalScope(file source.NormalizedPath) *LexicalScope {
	return &LexicalScope{
		FilePath: file,
		Bindings: make(map[string]Value),
		Imports:  make(map[string]ImportBinding),
	}
}

// Child creates a nested scope (e.g. for a function body) whose lookups
// fall through to parent on miss.
func (s *LexicalScope) Child() *LexicalScope {
	return &LexicalScope{
		FilePath: s.FilePath,
		Bindings: make(map[string]Value),
		Imports:  make(map[string]ImportBinding),
		Parent:   s,
	}
}

// Declare binds name to v in this scope, shadowing any outer binding.
func (s *LexicalScope) Declare(name string, v Value) {
	s.Bindings[name] = v
}

// DeclareImport records an import binding.
func (s *LexicalScope) DeclareImport(name string, b ImportBinding) {
	s.Imports[name] = b
}

// Lookup walks the scope chain for a value binding, exported for callers
// (such as package evaluate) that cross file boundaries after resolving an
// Import to its defining file's own scope.
func (s *LexicalScope) Lookup(name string) (Value, bool) {
	return s.lookupBinding(name)
}

// lookupBinding walks the scope chain for a value binding.
func (s *LexicalScope) lookupBinding(name string) (Value, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if v, ok := sc.Bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// lookupImport walks the scope chain for an import binding.
func (s *LexicalScope) lookupImport(name string) (ImportBinding, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if b, ok := sc.Imports[name]; ok {
			return b, true
		}
	}
	return ImportBinding{}, false
}
