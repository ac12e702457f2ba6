// Package value implements the partially-evaluated value model (§3.4):
// a tagged union over literals, arrays, objects, references, imports,
// classes, functions, property accesses, calls, spreads, and an explicit
// "unknown" case carrying a typed gap reason. Resolution walks references
// through a chain of lexical scopes the way a host interpreter's binding
// resolution would, without ever executing code.
package value

import (
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/source"
)

// Kind tags the variant of a Value.
type Kind string

const (
	KindLiteral        Kind = "literal"
	KindArray          Kind = "array"
	KindObject         Kind = "object"
	KindReference      Kind = "reference"
	KindImport         Kind = "import"
	KindClass          Kind = "class"
	KindFunction       Kind = "function"
	KindPropertyAccess Kind = "propertyAccess"
	KindCall           Kind = "call"
	KindSpread         Kind = "spread"
	KindUnknown        Kind = "unknown"
)

// Value is implemented by every variant of AnalyzableValue.
type Value interface {
	Kind() Kind
	Span() source.Span
}

// base carries the fields common to every variant.
type base struct {
	span source.Span
}

func (b base) Span() source.Span { return b.span }

// LiteralType distinguishes the host primitive kinds a Literal can carry.
type LiteralType string

const (
	LitString  LiteralType = "string"
	LitNumber  LiteralType = "number"
	LitBool    LiteralType = "bool"
	LitNull    LiteralType = "null"
	LitUndef   LiteralType = "undefined"
)

// Literal is a compile-time-known primitive.
type Literal struct {
	base
	Type LiteralType
	Raw  string // source text, e.g. `"foo-bar"` or `42`
}

func NewLiteral(span source.Span, t LiteralType, raw string) *Literal {
	return &Literal{base: base{span}, Type: t, Raw: raw}
}

func (*Literal) Kind() Kind { return KindLiteral }

// StringValue returns the unquoted string value when Type is LitString.
func (l *Literal) StringValue() (string, bool) {
	if l.Type != LitString {
		return "", false
	}
	if len(l.Raw) >= 2 {
		q := l.Raw[0]
		if (q == '"' || q == '\'' || q == '`') && l.Raw[len(l.Raw)-1] == q {
			return l.Raw[1 : len(l.Raw)-1], true
		}
	}
	return l.Raw, true
}

// Array is an ordered list of elements, any of which may itself be a
// Spread awaiting expansion.
type Array struct {
	base
	Elements []Value
}

func NewArray(span source.Span, elements []Value) *Array {
	return &Array{base: base{span}, Elements: elements}
}

func (*Array) Kind() Kind { return KindArray }

// Property is one key/value pair of an Object.
type Property struct {
	Key      string
	Computed bool // true when the key itself was a non-literal expression
	Val      Value
}

// Method is a named function member of an Object or Class.
type Method struct {
	Name string
	Fn   *Function
}

// Object is a partially evaluated object/struct literal.
type Object struct {
	base
	Properties []Property
	Methods    []Method
}

func NewObject(span source.Span, props []Property, methods []Method) *Object {
	return &Object{base: base{span}, Properties: props, Methods: methods}
}

func (*Object) Kind() Kind { return KindObject }

// Property looks up a property by key, returning ok=false if absent or
// computed (a computed key cannot be looked up by static name).
func (o *Object) Property(key string) (Value, bool) {
	for _, p := range o.Properties {
		if !p.Computed && p.Key == key {
			return p.Val, true
		}
	}
	return nil, false
}

// Reference is an unresolved (or partially resolved) identifier lookup.
// Resolve does not fill Target: it returns the value the reference leads
// to in place of the Reference, so Target stays nil unless a caller sets it.
type Reference struct {
	base
	Name   string
	Target Value
}

func NewReference(span source.Span, name string) *Reference {
	return &Reference{base: base{span}, Name: name}
}

func (*Reference) Kind() Kind { return KindReference }

// Import is a reference that resolved to a module import: the module
// specifier plus the exported name being imported (or "default"/"*").
type Import struct {
	base
	Specifier  string
	ExportName string
}

func NewImport(span source.Span, specifier, exportName string) *Import {
	return &Import{base: base{span}, Specifier: specifier, ExportName: exportName}
}

func (*Import) Kind() Kind { return KindImport }

// Class is a reference to a class declaration, identified by its exported
// name and the file that declares it. Decorators/static members live on
// the FileFacts record (§4.1); Class here is only the cross-file handle
// used by the value model.
type Class struct {
	base
	ClassName string
	FilePath  source.NormalizedPath
}

func NewClass(span source.Span, className string, file source.NormalizedPath) *Class {
	return &Class{base: base{span}, ClassName: className, FilePath: file}
}

func (*Class) Kind() Kind { return KindClass }

// Function is a partially evaluated function/method value.
type Function struct {
	base
	Params []string
	Body   []Stmt
}

func NewFunction(span source.Span, params []string, body []Stmt) *Function {
	return &Function{base: base{span}, Params: params, Body: body}
}

func (*Function) Kind() Kind { return KindFunction }

// PropertyAccess is `base.key` (or `base[computedKey]`) prior to folding.
type PropertyAccess struct {
	base
	Base     Value
	Key      string
	Computed Value // non-nil when the key itself is a dynamic expression
}

func NewPropertyAccess(span source.Span, b Value, key string) *PropertyAccess {
	return &PropertyAccess{base: base{span}, Base: b, Key: key}
}

func (*PropertyAccess) Kind() Kind { return KindPropertyAccess }

// Call is a function/method invocation prior to (never) being executed;
// the value model never calls functions, it only records the call shape
// for registration-site recognition (§4.5).
type Call struct {
	base
	Callee Value
	Args   []Value
}

func NewCall(span source.Span, callee Value, args []Value) *Call {
	return &Call{base: base{span}, Callee: callee, Args: args}
}

func (*Call) Kind() Kind { return KindCall }

// Spread is `...target`; Expanded holds the target's elements once the
// target resolves to an Array, nil until then.
type Spread struct {
	base
	Target   Value
	Expanded []Value
}

func NewSpread(span source.Span, target Value) *Spread {
	return &Spread{base: base{span}, Target: target}
}

func (*Spread) Kind() Kind { return KindSpread }

// Unknown marks a value the evaluator could not reduce, carrying a typed
// gap reason (§4.3, §7) rather than failing the analysis.
type Unknown struct {
	base
	Reason diag.GapKind
	Detail string
}

func NewUnknown(span source.Span, reason diag.GapKind, detail string) *Unknown {
	return &Unknown{base: base{span}, Reason: reason, Detail: detail}
}

func (*Unknown) Kind() Kind { return KindUnknown }
