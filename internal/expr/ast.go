// Package expr implements the binding-expression microsyntax: the small
// grammar used inside binding attributes and interpolations (`value.bind`,
// `${expr}`), distinct from the host language itself. Grounded on the
// teacher's own small-parser shape (cue/scanner + cue/parser): a
// hand-rolled scanner feeding a recursive-descent, operator-precedence
// parser that builds a sealed expression tree.
package expr

import "github.com/aurelia/aot/internal/source"

// Kind tags the variant of a binding expression node.
type Kind string

const (
	KindAccessThis       Kind = "accessThis"
	KindAccessScope      Kind = "accessScope"
	KindAccessMember     Kind = "accessMember"
	KindAccessKeyed      Kind = "accessKeyed"
	KindCallScope        Kind = "callScope"
	KindCallMember       Kind = "callMember"
	KindCallFunction     Kind = "callFunction"
	KindLiteralPrimitive Kind = "literalPrimitive"
	KindLiteralArray     Kind = "literalArray"
	KindLiteralObject    Kind = "literalObject"
	KindTemplate         Kind = "template" // tagged/plain template literal
	KindUnary            Kind = "unary"
	KindBinary           Kind = "binary"
	KindConditional      Kind = "conditional"
	KindAssign           Kind = "assign"
	KindValueConverter   Kind = "valueConverter"
	KindBindingBehavior  Kind = "bindingBehavior"
	KindInterpolation    Kind = "interpolation"
	KindForOfBinding     Kind = "forOfBinding"
)

// Expr is implemented by every binding-expression node.
type Expr interface {
	Kind() Kind
	Span() source.Span
}

type base struct{ span source.Span }

func (b base) Span() source.Span { return b.span }

// AccessThis is `$this` (Ancestor 0) or `$parent` repeated Ancestor times.
type AccessThis struct {
	base
	Ancestor int
}

func (*AccessThis) Kind() Kind { return KindAccessThis }

// AccessScope is a bare identifier resolved against the binding scope
// chain, optionally prefixed by `$parent.` hops.
type AccessScope struct {
	base
	Name     string
	Ancestor int
}

func (*AccessScope) Kind() Kind { return KindAccessScope }

// AccessMember is `object.name` (or `object?.name` when Optional).
type AccessMember struct {
	base
	Object   Expr
	Name     string
	Optional bool
}

func (*AccessMember) Kind() Kind { return KindAccessMember }

// AccessKeyed is `object[key]`.
type AccessKeyed struct {
	base
	Object Expr
	Key    Expr
}

func (*AccessKeyed) Kind() Kind { return KindAccessKeyed }

// CallScope is `name(args)` resolved against the scope chain.
type CallScope struct {
	base
	Name     string
	Args     []Expr
	Ancestor int
}

func (*CallScope) Kind() Kind { return KindCallScope }

// CallMember is `object.name(args)`.
type CallMember struct {
	base
	Object   Expr
	Name     string
	Args     []Expr
	Optional bool
}

func (*CallMember) Kind() Kind { return KindCallMember }

// CallFunction is `fn(args)` where fn is itself an expression.
type CallFunction struct {
	base
	Func Expr
	Args []Expr
}

func (*CallFunction) Kind() Kind { return KindCallFunction }

// LiteralPrimitive is a string, number, boolean, or null literal.
type LiteralPrimitive struct {
	base
	Raw string
}

func (*LiteralPrimitive) Kind() Kind { return KindLiteralPrimitive }

// LiteralArray is `[a, b, c]`.
type LiteralArray struct {
	base
	Elements []Expr
}

func (*LiteralArray) Kind() Kind { return KindLiteralArray }

// LiteralObject is `{ a: 1, b: 2 }`.
type LiteralObject struct {
	base
	Keys   []string
	Values []Expr
}

func (*LiteralObject) Kind() Kind { return KindLiteralObject }

// Unary is a prefix operator: `!`, `-`, `+`, `typeof`, `void`.
type Unary struct {
	base
	Op      string
	Operand Expr
}

func (*Unary) Kind() Kind { return KindUnary }

// Binary is an infix operator expression.
type Binary struct {
	base
	Op          string
	Left, Right Expr
}

func (*Binary) Kind() Kind { return KindBinary }

// Conditional is `cond ? yes : no`.
type Conditional struct {
	base
	Cond, Yes, No Expr
}

func (*Conditional) Kind() Kind { return KindConditional }

// Assign is `target = value`, valid only as a two-way binding's source.
type Assign struct {
	base
	Target, Value Expr
}

func (*Assign) Kind() Kind { return KindAssign }

// ValueConverter is `expr | name:arg1:arg2`.
type ValueConverter struct {
	base
	Expr Expr
	Name string
	Args []Expr
}

func (*ValueConverter) Kind() Kind { return KindValueConverter }

// BindingBehavior is `expr & name:arg1:arg2`.
type BindingBehavior struct {
	base
	Expr Expr
	Name string
	Args []Expr
}

func (*BindingBehavior) Kind() Kind { return KindBindingBehavior }

// Interpolation is `a${expr}b${expr2}c`: Parts has len(Exprs)+1 entries.
type Interpolation struct {
	base
	Parts []string
	Exprs []Expr
}

func (*Interpolation) Kind() Kind { return KindInterpolation }

// ForOfBinding is `item of items` (or `[k, v] of entries`), the
// declaration form `repeat.for` parses (§4.7 repeat's ForOf expression).
type ForOfBinding struct {
	base
	Declaration string // identifier or raw destructuring source text
	Iterable    Expr
}

func (*ForOfBinding) Kind() Kind { return KindForOfBinding }
