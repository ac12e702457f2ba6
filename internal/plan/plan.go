// Package plan implements the plan stage (§3.5, §3.6, §4.7, "50-plan"):
// transforming the linked template tree into a nested PlanNode tree with
// per-template-scope target indices, applying the controller re-parenting
// rule (§8 invariant 7) — an element carrying a controller receives no
// target of its own in the parent scope; its bindings move into the
// controller's nested template, itself a fresh target-index scope starting
// back at 0.
package plan

import (
	"github.com/aurelia/aot/internal/link"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
)

// NodeKind is the tag of the PlanNode union.
type NodeKind string

const (
	NodeFragment NodeKind = "fragment"
	NodeElement  NodeKind = "element"
	NodeText     NodeKind = "text"
	NodeComment  NodeKind = "comment"
)

// NoTargetIndex marks a node that carries no binding target (§4.7 rule 6).
const NoTargetIndex = -1

// PlanController is one controller hydration attached to a marker node:
// the instruction that carries its own expression, the resolved resource
// (nil if it never resolved), and the nested template it owns.
type PlanController struct {
	Instr  link.LinkedInstr
	Def    *resource.ResourceDef
	Nested *PlanNode
}

// PlanNode is one node of the plan tree (§3.5). Only NodeElement nodes
// populate Tag/Bindings/CustomElement/CustomAttrs/Controllers/LetElement;
// only NodeText nodes populate TextParts/TextExprIDs.
type PlanNode struct {
	Kind        NodeKind
	Tag         string
	TargetIndex int

	Bindings      []link.LinkedInstr
	CustomElement *resource.ResourceDef
	CustomAttrs   []link.LinkedInstr
	LetElement    bool
	Controllers   []*PlanController

	TextParts   []string
	TextExprIDs []source.ExprID

	Children []*PlanNode
}

type planBuilder struct {
	next int
}

func newPlanBuilder() *planBuilder { return &planBuilder{} }

func (b *planBuilder) allocTarget() int {
	idx := b.next
	b.next++
	return idx
}

// Plan transforms root (a template's linked root, whose own Tag/Instrs are
// not meaningful — it is lowering's synthetic container) into a fragment
// plan node, allocating target indices from 0 within this template scope.
func Plan(root *link.LinkedElement) *PlanNode {
	b := newPlanBuilder()
	return b.planFragment(root)
}

func (b *planBuilder) planFragment(el *link.LinkedElement) *PlanNode {
	frag := &PlanNode{Kind: NodeFragment, TargetIndex: NoTargetIndex}
	for _, c := range el.Children {
		frag.Children = append(frag.Children, b.planNode(c))
	}
	return frag
}

func (b *planBuilder) planNode(n link.LinkedNode) *PlanNode {
	switch x := n.(type) {
	case *link.LinkedElement:
		return b.planElement(x)
	case *link.LinkedText:
		return b.planText(x)
	default:
		return &PlanNode{Kind: NodeComment, TargetIndex: NoTargetIndex}
	}
}

// planElement applies the controller re-parenting rule: a controller
// wrapper becomes a target-bearing marker in the current scope, its
// wrapped content re-planned from scratch in a brand new target-index
// scope (§4.7 "50-plan" critical rules).
func (b *planBuilder) planElement(el *link.LinkedElement) *PlanNode {
	if el.Controller != nil {
		nested := newPlanBuilder().planElement(el.Controller.Template)
		marker := &PlanNode{
			Kind: NodeElement, Tag: el.Tag, TargetIndex: b.allocTarget(),
			Controllers: []*PlanController{{Instr: el.Controller.Instr, Def: el.Controller.Def, Nested: nested}},
		}
		return marker
	}

	node := &PlanNode{Kind: NodeElement, Tag: el.Tag, TargetIndex: NoTargetIndex, CustomElement: el.Def}
	for _, instr := range el.Instrs {
		if instr.Kind == link.InstrHydrateElement {
			continue // already captured as node.CustomElement
		}
		if instr.Kind == link.InstrHydrateAttribute {
			node.CustomAttrs = append(node.CustomAttrs, instr)
			continue
		}
		node.Bindings = append(node.Bindings, instr)
	}
	for _, c := range el.Children {
		node.Children = append(node.Children, b.planNode(c))
	}
	if node.CustomElement != nil || len(node.Bindings) > 0 || len(node.CustomAttrs) > 0 || node.LetElement {
		node.TargetIndex = b.allocTarget()
	}
	return node
}

func (b *planBuilder) planText(t *link.LinkedText) *PlanNode {
	node := &PlanNode{Kind: NodeText, TargetIndex: NoTargetIndex, TextParts: t.Parts, TextExprIDs: t.ExprIDs}
	if len(t.ExprIDs) > 0 {
		node.TargetIndex = b.allocTarget()
	}
	return node
}
