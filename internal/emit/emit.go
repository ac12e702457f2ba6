// Package emit implements the emit stage (§3.6, §4.7, "60-emit"):
// serializing a plan tree into the definition/expressions pair a runtime
// consumes — definition.instructions[i] holds the instructions for target i
// of a template, nestedTemplates[k] holds the k-th encountered controller's
// own definition in plan order, and expressions is the hoisted table of
// every parsed expression, keyed by ExprId (§3.5).
package emit

import (
	"encoding/json"

	"github.com/aurelia/aot/internal/expr"
	"github.com/aurelia/aot/internal/link"
	"github.com/aurelia/aot/internal/lower"
	"github.com/aurelia/aot/internal/plan"
	"github.com/aurelia/aot/internal/source"
)

// Instruction is one emitted binding/hydration instruction, JSON-shaped
// for the runtime's instruction interpreter.
type Instruction struct {
	Type    string       `json:"type"`
	To      string       `json:"to,omitempty"`
	Expr    *int         `json:"expr,omitempty"`
	Exprs   []int        `json:"exprs,omitempty"`
	Parts   []string     `json:"parts,omitempty"`
	Mode    string       `json:"mode,omitempty"`
	Capture bool         `json:"capture,omitempty"`
	Res     string       `json:"res,omitempty"`
	Def     *ResourceRef `json:"def,omitempty"`

	// Nested indexes into the owning Definition's NestedTemplates, the
	// k-th encountered controller's own definition (§3.6).
	Nested *int `json:"nestedTemplate,omitempty"`
}

// ResourceRef is the minimal resource identity carried alongside a
// hydration instruction: enough for the runtime to look the resource up by
// name without re-serializing its full authoring metadata.
type ResourceRef struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// Definition is one template scope's emitted plan: one instruction list
// per target index, plus every nested template a controller in this scope
// owns, in plan order (§3.6).
type Definition struct {
	Tag             string         `json:"tag,omitempty"`
	TargetCount     int            `json:"targetCount"`
	Instructions    [][]Instruction `json:"instructions"`
	NestedTemplates []*Definition  `json:"nestedTemplates,omitempty"`
}

// Output is emit's top-level result: the root template's definition plus
// the hoisted expression table every Instruction.Expr/Exprs index refers
// into.
type Output struct {
	Definition  *Definition       `json:"definition"`
	Expressions []json.RawMessage `json:"expressions"`
}

// Emit serializes root (plan's output) against exprs, the same expression
// table lowering populated and bind/typecheck annotated in place.
func Emit(root *plan.PlanNode, exprs *lower.ExprTable) (*Output, error) {
	exprIndex, rawExprs, err := serializeExprs(exprs)
	if err != nil {
		return nil, err
	}
	def := emitDefinition(root, exprIndex)
	return &Output{Definition: def, Expressions: rawExprs}, nil
}

// serializeExprs renders every expression in allocation order into JSON and
// builds an ExprId -> array-index lookup (the wire format references
// expressions positionally, the way the runtime's own array-of-expressions
// format does).
func serializeExprs(exprs *lower.ExprTable) (map[source.ExprID]int, []json.RawMessage, error) {
	order := exprs.Order()
	index := make(map[source.ExprID]int, len(order))
	raw := make([]json.RawMessage, 0, len(order))
	for i, id := range order {
		index[id] = i
		e, _ := exprs.Get(id)
		node := serializeExpr(e)
		b, err := json.Marshal(node)
		if err != nil {
			return nil, nil, err
		}
		raw = append(raw, b)
	}
	return index, raw, nil
}

func emitDefinition(node *plan.PlanNode, exprIndex map[source.ExprID]int) *Definition {
	def := &Definition{Tag: node.Tag}
	targets := collectTargets(node)
	def.TargetCount = len(targets)
	def.Instructions = make([][]Instruction, len(targets))
	for _, t := range targets {
		def.Instructions[t.TargetIndex] = instructionsFor(t, exprIndex, def)
	}
	return def
}

// collectTargets walks node depth-first, gathering every descendant
// (including node itself) that carries a target index in *this* template
// scope — traversal stops at a controller boundary, since a controller's
// contents belong to a different scope with its own target indices.
func collectTargets(node *plan.PlanNode) []*plan.PlanNode {
	var out []*plan.PlanNode
	var walk func(n *plan.PlanNode)
	walk = func(n *plan.PlanNode) {
		if n.TargetIndex != plan.NoTargetIndex {
			out = append(out, n)
		}
		if len(n.Controllers) > 0 {
			return // nested template is a separate scope, collected by its own emitDefinition call
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if node.Kind == plan.NodeFragment {
		for _, c := range node.Children {
			walk(c)
		}
	} else {
		walk(node)
	}
	return out
}

func instructionsFor(node *plan.PlanNode, exprIndex map[source.ExprID]int, owner *Definition) []Instruction {
	var out []Instruction
	if node.CustomElement != nil {
		out = append(out, Instruction{Type: string(link.InstrHydrateElement), Res: node.CustomElement.Name.Val})
	}
	for _, c := range node.Controllers {
		out = append(out, controllerInstruction(c, exprIndex, owner))
	}
	for _, a := range node.CustomAttrs {
		out = append(out, Instruction{
			Type: string(link.InstrHydrateAttribute), Res: a.Def.Name.Val, To: a.Property,
			Expr: exprRef(a.ExprID, exprIndex), Mode: string(a.Mode),
		})
	}
	for _, b := range node.Bindings {
		out = append(out, bindingInstruction(b, exprIndex))
	}
	if node.Kind == plan.NodeText {
		out = append(out, Instruction{Type: string(link.InstrTextBinding), Parts: node.TextParts, Exprs: exprRefs(node.TextExprIDs, exprIndex)})
	}
	return out
}

// controllerInstruction appends c's nested definition onto owner's
// NestedTemplates and records its index on the instruction itself, so the
// k-th encountered controller (in plan order) lands at NestedTemplates[k].
func controllerInstruction(c *plan.PlanController, exprIndex map[source.ExprID]int, owner *Definition) Instruction {
	owner.NestedTemplates = append(owner.NestedTemplates, emitDefinition(c.Nested, exprIndex))
	idx := len(owner.NestedTemplates) - 1
	instr := Instruction{
		Type:   string(link.InstrHydrateTemplateCtrl),
		To:     c.Instr.Property,
		Expr:   exprRef(c.Instr.ExprID, exprIndex),
		Nested: &idx,
	}
	if c.Def != nil {
		instr.Def = &ResourceRef{Kind: string(c.Def.Kind), Name: c.Def.Name.Val}
	}
	return instr
}

func bindingInstruction(b link.LinkedInstr, exprIndex map[source.ExprID]int) Instruction {
	switch b.Kind {
	case link.InstrSetAttribute, link.InstrSetClassAttribute, link.InstrSetStyleAttribute:
		return Instruction{Type: string(b.Kind), To: b.Property}
	case link.InstrInterpolationAttr:
		return Instruction{Type: string(b.Kind), To: b.Property, Parts: b.Parts, Exprs: exprRefs(b.ExprIDs, exprIndex)}
	case link.InstrSetProperty:
		return Instruction{Type: string(b.Kind), To: b.Property, Expr: exprRef(b.ExprID, exprIndex), Mode: string(b.Mode)}
	case link.InstrListener:
		return Instruction{Type: string(b.Kind), To: b.Property, Expr: exprRef(b.ExprID, exprIndex), Capture: b.Capture}
	case link.InstrRef, link.InstrIteratorBinding:
		return Instruction{Type: string(b.Kind), To: b.Property, Expr: exprRef(b.ExprID, exprIndex)}
	default:
		return Instruction{Type: string(b.Kind), To: b.Property}
	}
}

func exprRef(id source.ExprID, index map[source.ExprID]int) *int {
	if id == source.NoExprID {
		return nil
	}
	i, ok := index[id]
	if !ok {
		return nil
	}
	return &i
}

func exprRefs(ids []source.ExprID, index map[source.ExprID]int) []int {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if i, ok := index[id]; ok {
			out = append(out, i)
		}
	}
	return out
}

// serializeExpr renders a parsed expression to a JSON-friendly node tree.
// There is no reverse (unparse-to-source) path: the wire format carries
// structure, not text, matching how the runtime's own expression objects
// are themselves structured (never re-stringified).
func serializeExpr(e expr.Expr) map[string]any {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *expr.AccessThis:
		return map[string]any{"$kind": "AccessThis", "ancestor": x.Ancestor}
	case *expr.AccessScope:
		return map[string]any{"$kind": "AccessScope", "name": x.Name, "ancestor": x.Ancestor}
	case *expr.AccessMember:
		return map[string]any{"$kind": "AccessMember", "object": serializeExpr(x.Object), "name": x.Name, "optional": x.Optional}
	case *expr.AccessKeyed:
		return map[string]any{"$kind": "AccessKeyed", "object": serializeExpr(x.Object), "key": serializeExpr(x.Key)}
	case *expr.CallScope:
		return map[string]any{"$kind": "CallScope", "name": x.Name, "args": serializeExprList(x.Args), "ancestor": x.Ancestor}
	case *expr.CallMember:
		return map[string]any{"$kind": "CallMember", "object": serializeExpr(x.Object), "name": x.Name, "args": serializeExprList(x.Args), "optional": x.Optional}
	case *expr.CallFunction:
		return map[string]any{"$kind": "CallFunction", "func": serializeExpr(x.Func), "args": serializeExprList(x.Args)}
	case *expr.LiteralPrimitive:
		return map[string]any{"$kind": "LiteralPrimitive", "raw": x.Raw}
	case *expr.LiteralArray:
		return map[string]any{"$kind": "LiteralArray", "elements": serializeExprList(x.Elements)}
	case *expr.LiteralObject:
		return map[string]any{"$kind": "LiteralObject", "keys": x.Keys, "values": serializeExprList(x.Values)}
	case *expr.Unary:
		return map[string]any{"$kind": "Unary", "op": x.Op, "operand": serializeExpr(x.Operand)}
	case *expr.Binary:
		return map[string]any{"$kind": "Binary", "op": x.Op, "left": serializeExpr(x.Left), "right": serializeExpr(x.Right)}
	case *expr.Conditional:
		return map[string]any{"$kind": "Conditional", "cond": serializeExpr(x.Cond), "yes": serializeExpr(x.Yes), "no": serializeExpr(x.No)}
	case *expr.Assign:
		return map[string]any{"$kind": "Assign", "target": serializeExpr(x.Target), "value": serializeExpr(x.Value)}
	case *expr.ValueConverter:
		return map[string]any{"$kind": "ValueConverter", "expr": serializeExpr(x.Expr), "name": x.Name, "args": serializeExprList(x.Args)}
	case *expr.BindingBehavior:
		return map[string]any{"$kind": "BindingBehavior", "expr": serializeExpr(x.Expr), "name": x.Name, "args": serializeExprList(x.Args)}
	case *expr.Interpolation:
		return map[string]any{"$kind": "Interpolation", "parts": x.Parts, "exprs": serializeExprList(x.Exprs)}
	case *expr.ForOfBinding:
		return map[string]any{"$kind": "ForOfBinding", "declaration": x.Declaration, "iterable": serializeExpr(x.Iterable)}
	default:
		return map[string]any{"$kind": "Unknown"}
	}
}

func serializeExprList(xs []expr.Expr) []map[string]any {
	if len(xs) == 0 {
		return nil
	}
	out := make([]map[string]any, len(xs))
	for i, x := range xs {
		out[i] = serializeExpr(x)
	}
	return out
}
