// Package link implements host linking (§4.7, "20-link"): resolving each
// lowered DOM instruction against the active resource scope, turning
// attribute-shaped guesses (§4.6) into concrete bind/hydrate/listener
// instructions tied to a resolved ResourceDef where one applies.
package link

import (
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/lower"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
)

// InstrKind is the tag of the LinkedInstr union.
type InstrKind string

const (
	InstrSetAttribute          InstrKind = "setAttribute"
	InstrSetClassAttribute     InstrKind = "setClassAttribute"
	InstrSetStyleAttribute     InstrKind = "setStyleAttribute"
	InstrInterpolationAttr     InstrKind = "interpolationAttribute"
	InstrSetProperty           InstrKind = "propertyBinding"
	InstrHydrateElement        InstrKind = "hydrateElement"
	InstrHydrateAttribute      InstrKind = "hydrateAttribute"
	InstrHydrateTemplateCtrl   InstrKind = "hydrateTemplateController"
	InstrListener              InstrKind = "listenerBinding"
	InstrRef                   InstrKind = "refBinding"
	InstrIteratorBinding       InstrKind = "iteratorBinding"
	InstrTextBinding           InstrKind = "textBinding"
)

// LinkedInstr is one resolved instruction attached to an element or text
// node. ExprID is NoExprID for instructions with no bound expression
// (plain setAttribute).
type LinkedInstr struct {
	Kind     InstrKind
	Span     source.Span
	Property string
	ExprID   source.ExprID
	Mode     resource.BindingMode
	Capture  bool // true for a "capture" listener, false for "trigger"

	// Parts/ExprIDs carry a multi-expression interpolated attribute value,
	// mirroring lower.IrAttr's own Parts/ExprIDs for Kind == InstrInterpolationAttr.
	Parts   []string
	ExprIDs []source.ExprID

	// Def is the resolved resource for InstrHydrateElement (the custom
	// element) and InstrHydrateAttribute (the custom attribute), nil
	// otherwise.
	Def *resource.ResourceDef
}

// LinkedNode is implemented by *LinkedElement and *LinkedText.
type LinkedNode interface {
	Pos() source.Span
}

// LinkedElement is one DOM element after host linking: its own instruction
// list (attribute/property/listener bindings plus, for a custom element, a
// leading hydrateElement instruction), its children, and — when the source
// DomElement was a synthesized controller wrapper — the resolved
// LinkedController in place of Instrs/Children.
type LinkedElement struct {
	Span     source.Span
	Tag      string
	Def      *resource.ResourceDef // non-nil when Tag resolves to a custom element
	Instrs   []LinkedInstr
	Children []LinkedNode

	Controller *LinkedController
}

func (e *LinkedElement) Pos() source.Span { return e.Span }

// LinkedController is a resolved template-controller hydration: the
// controller resource (nil if the shorthand name did not resolve, recorded
// as a diagnostic instead), its own hydrateTemplateController instruction,
// and the nested template it controls.
type LinkedController struct {
	Def      *resource.ResourceDef
	Instr    LinkedInstr
	Template *LinkedElement
}

// LinkedText is a text node carrying zero or more interpolated expressions.
type LinkedText struct {
	Span    source.Span
	Parts   []string
	ExprIDs []source.ExprID
}

func (t *LinkedText) Pos() source.Span { return t.Span }

// Link resolves every node of mod.Root against scope, producing the
// LinkedElement tree host binding/typecheck/plan consume downstream.
func Link(mod *lower.IrModule, scope *resource.Scope) (*LinkedElement, diag.List) {
	var diags diag.List
	root := linkElement(mod.Root, scope, &diags)
	return root, diags
}

func linkElement(el *lower.DomElement, scope *resource.Scope, diags *diag.List) *LinkedElement {
	if el.Controller != nil {
		def, ok := scope.Controller(el.Controller.Name)
		if !ok {
			diags.Addf(diag.StageLink, "unresolved-controller", el.Controller.Attr.Span,
				"unrecognized template controller %q", el.Controller.Name)
		}
		instr := LinkedInstr{
			Kind:     InstrHydrateTemplateCtrl,
			Span:     el.Controller.Attr.Span,
			Property: el.Controller.Name,
			ExprID:   el.Controller.Attr.ExprID,
		}
		nested := linkElement(el.Controller.Template, scope, diags)
		return &LinkedElement{
			Span: el.Span, Tag: el.Tag,
			Controller: &LinkedController{Def: def, Instr: instr, Template: nested},
		}
	}

	def, isElement := scope.Element(resource.CanonicalTagName(el.Tag))
	var instrs []LinkedInstr
	if isElement {
		instrs = append(instrs, LinkedInstr{Kind: InstrHydrateElement, Span: el.Span, Property: def.Name.Val, Def: def})
	}
	for _, a := range el.Attrs {
		instrs = append(instrs, linkAttr(a, def, scope, diags))
	}
	children := make([]LinkedNode, 0, len(el.Children))
	for _, c := range el.Children {
		children = append(children, linkNode(c, scope, diags))
	}
	for i := 1; i < len(el.Children); i++ {
		cur, ok := el.Children[i].(*lower.DomElement)
		if !ok || cur.Controller == nil || cur.Controller.Name != "else" {
			continue
		}
		if prev, ok := el.Children[i-1].(*lower.DomElement); !ok || prev.Controller == nil {
			diags.Addf(diag.StageLink, string(diag.GapControllerPairingAmbiguous), cur.Controller.Attr.Span,
				"else is separated from its if by a sibling that is not a template controller")
		}
	}
	var elementDef *resource.ResourceDef
	if isElement {
		elementDef = def
	}
	return &LinkedElement{Span: el.Span, Tag: el.Tag, Def: elementDef, Instrs: instrs, Children: children}
}

func linkNode(n lower.DomNode, scope *resource.Scope, diags *diag.List) LinkedNode {
	switch x := n.(type) {
	case *lower.DomElement:
		return linkElement(x, scope, diags)
	case *lower.DomText:
		if len(x.ExprIDs) == 0 {
			return &LinkedText{Span: x.Span, Parts: x.Parts}
		}
		return &LinkedText{Span: x.Span, Parts: x.Parts, ExprIDs: x.ExprIDs}
	default:
		return &LinkedText{}
	}
}

// linkAttr resolves one classified attribute into a concrete instruction
// (§4.7): binding commands resolve against the element's bindables first,
// then against a same-named custom attribute, falling back to a plain
// native property binding.
func linkAttr(a lower.IrAttr, elementDef *resource.ResourceDef, scope *resource.Scope, diags *diag.List) LinkedInstr {
	switch a.Kind {
	case lower.AttrStatic:
		return LinkedInstr{Kind: staticAttrKind(a.Name), Span: a.Span, Property: a.Name}

	case lower.AttrInterpolation:
		return LinkedInstr{Kind: InstrInterpolationAttr, Span: a.Span, Property: a.Name, Parts: a.Parts, ExprIDs: a.ExprIDs}

	case lower.AttrBindingCommand:
		switch a.Command {
		case "ref":
			return LinkedInstr{Kind: InstrRef, Span: a.Span, Property: a.TargetProperty, ExprID: a.ExprID}
		case "trigger", "capture":
			return LinkedInstr{Kind: InstrListener, Span: a.Span, Property: a.TargetProperty, ExprID: a.ExprID, Capture: a.Command == "capture"}
		case "for":
			return LinkedInstr{Kind: InstrIteratorBinding, Span: a.Span, Property: a.TargetProperty, ExprID: a.ExprID}
		}

		mode := modeForCommand(a.Command)
		if elementDef != nil {
			camel := resource.CanonicalBindableName(a.TargetProperty)
			if _, ok := elementDef.Bindables[camel]; ok {
				return LinkedInstr{Kind: InstrSetProperty, Span: a.Span, Property: camel, ExprID: a.ExprID, Mode: mode}
			}
		}
		canonical := resource.CanonicalTagName(a.TargetProperty)
		if customDef, ok := scope.Attribute(canonical); ok {
			return LinkedInstr{Kind: InstrHydrateAttribute, Span: a.Span, Property: a.TargetProperty, ExprID: a.ExprID, Mode: mode, Def: customDef}
		}
		return LinkedInstr{Kind: InstrSetProperty, Span: a.Span, Property: resource.CanonicalBindableName(a.TargetProperty), ExprID: a.ExprID, Mode: mode}

	default:
		diags.Addf(diag.StageLink, "unclassified-attribute", a.Span, "attribute %q left unclassified by lowering", a.Name)
		return LinkedInstr{Kind: InstrSetAttribute, Span: a.Span, Property: a.Name}
	}
}

func staticAttrKind(name string) InstrKind {
	switch name {
	case "class":
		return InstrSetClassAttribute
	case "style":
		return InstrSetStyleAttribute
	default:
		return InstrSetAttribute
	}
}

// modeForCommand maps a binding-command suffix to its BindingMode. "bind"
// carries no inherent mode and maps to ModeDefault; no later stage in this
// module replaces ModeDefault with the bindable's declared mode.
func modeForCommand(command string) resource.BindingMode {
	switch command {
	case "one-time":
		return resource.ModeOneTime
	case "to-view":
		return resource.ModeToView
	case "from-view":
		return resource.ModeFromView
	case "two-way":
		return resource.ModeTwoWay
	default:
		return resource.ModeDefault
	}
}
