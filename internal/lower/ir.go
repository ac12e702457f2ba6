// Package lower implements template lowering (§4.6, "10-lower"): parsing
// raw template HTML into a DOM tree, classifying attributes against the
// resource scope and binding-command grammar, parsing binding expressions
// (spanned relative to their attribute value or text node, not the
// document), and synthesizing controller-hydration nodes for shorthand
// template controllers.
package lower

import (
	"github.com/aurelia/aot/internal/expr"
	"github.com/aurelia/aot/internal/source"
)

// AttrKind classifies one parsed HTML attribute (§4.6).
type AttrKind string

const (
	AttrStatic             AttrKind = "static"
	AttrInterpolation      AttrKind = "interpolation"
	AttrBindingCommand     AttrKind = "bindingCommand"
	AttrControllerShorthand AttrKind = "controllerShorthand"
)

// bindingCommandSuffixes are the dotted command suffixes that mark an
// attribute as a binding rather than a static attribute (§4.6): these
// names must never be emitted as `setAttribute`.
var bindingCommandSuffixes = []string{
	".bind", ".one-time", ".to-view", ".from-view", ".two-way",
	".trigger", ".capture", ".for", ".ref",
}

// IrAttr is one classified HTML attribute, its binding command (if any),
// and the ExprId of its parsed expression (NoExprID for static attrs).
type IrAttr struct {
	Name           string
	Kind           AttrKind
	RawValue       string
	Command        string // "bind", "trigger", "for", "ref", "to-view", ... ("" for static/interpolation)
	TargetProperty string // attribute name with the command suffix stripped, camelCased at link time
	ExprID         source.ExprID
	Span           source.Span

	// Parts/ExprIDs are set instead of ExprID for Kind == AttrInterpolation,
	// carrying every segment of a multi-expression interpolated attribute
	// value with the same len(Parts) == len(ExprIDs)+1 invariant as DomText.
	Parts   []string
	ExprIDs []source.ExprID
}

// IsBindingAttribute reports whether name carries one of the reserved
// binding-command suffixes (§4.6): such attributes are never emitted as
// static attributes even if their expression could not be parsed.
func IsBindingAttribute(name string) bool {
	for _, suf := range bindingCommandSuffixes {
		if len(name) > len(suf) && name[len(name)-len(suf):] == suf {
			return true
		}
	}
	return false
}

// DomNode is implemented by *DomElement and *DomText.
type DomNode interface {
	Pos() source.Span
}

// DomElement is one parsed HTML element, or a synthesized
// `hydrateTemplateController` wrapper node when Controller is set.
type DomElement struct {
	Span        source.Span
	Tag         string
	Attrs       []IrAttr
	Children    []DomNode
	SelfClosing bool

	// Controller is non-nil when this node represents a synthesized
	// controller-hydration wrapper (§4.6): Controller.Template is the
	// nested template it hydrates, which may itself be another wrapper
	// when multiple controller shorthands stack on the same element.
	Controller *ControllerUsage
}

func (e *DomElement) Pos() source.Span { return e.Span }

// ControllerUsage is one synthesized template-controller hydration: the
// controller's canonical name, the shorthand attribute it was read from,
// and the nested template it controls.
type ControllerUsage struct {
	Name     string
	Attr     IrAttr
	Template *DomElement
}

// DomText is a text node, plain or interpolated (`${...}`).
type DomText struct {
	Span    source.Span
	Raw     string
	Parts   []string        // len(Parts) == len(ExprIDs)+1; Parts[i] surrounds ExprIDs[i]
	ExprIDs []source.ExprID // empty for plain text
}

func (t *DomText) Pos() source.Span { return t.Span }

// ExprTable is the per-template table of parsed binding expressions,
// keyed by ExprId (§3.5).
type ExprTable struct {
	byID  map[source.ExprID]expr.Expr
	order []source.ExprID
	alloc *source.IDAllocator
}

func newExprTable(alloc *source.IDAllocator) *ExprTable {
	return &ExprTable{byID: map[source.ExprID]expr.Expr{}, alloc: alloc}
}

// Add registers e and returns its newly allocated ExprId.
func (t *ExprTable) Add(e expr.Expr) source.ExprID {
	id := t.alloc.NextExpr()
	t.byID[id] = e
	t.order = append(t.order, id)
	return id
}

// Get returns the expression registered under id.
func (t *ExprTable) Get(id source.ExprID) (expr.Expr, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// Order returns every ExprId in allocation order.
func (t *ExprTable) Order() []source.ExprID {
	return append([]source.ExprID(nil), t.order...)
}

// IrModule is template lowering's output (§4.6): the DOM tree plus the
// expression table every binding in it was parsed into.
type IrModule struct {
	File source.NormalizedPath
	Root *DomElement
	Exprs *ExprTable
}
