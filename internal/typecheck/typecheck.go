// Package typecheck implements the typecheck stage (§4.7, "40-typecheck"):
// annotating every bound expression with its expected type (derived from
// where it is used — a controller condition, an iterable, an interpolated
// part) and its inferred type (derived from the expression's own shape),
// flagging a mismatch as a diagnostic rather than failing the pipeline.
//
// A full implementation delegates to the host language's own type engine
// through a synthesized ambient overlay program; this package models that
// overlay's *interface* (expectedByExpr/inferredByExpr keyed by ExprId)
// with a structural inference pass over the expression shape itself, since
// no host type engine is wired into this module (see DESIGN.md).
package typecheck

import (
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/link"
	"github.com/aurelia/aot/internal/lower"
	"github.com/aurelia/aot/internal/source"
)

// Kind is a coarse structural type, not a full host-language type.
type Kind string

const (
	KindString    Kind = "string"
	KindNumber    Kind = "number"
	KindBoolean   Kind = "boolean"
	KindArray     Kind = "array"
	KindObject    Kind = "object"
	KindNull      Kind = "null"
	KindUndefined Kind = "undefined"
	KindFunction  Kind = "function"
	KindUnknown   Kind = "unknown"
	KindAny       Kind = "any"
)

// Type is the unit typecheck annotates every expression with.
type Type struct {
	Kind Kind
}

var (
	unknown = Type{Kind: KindUnknown}
	any_    = Type{Kind: KindAny}
)

// Result is typecheck's output: the expected and inferred type of every
// expression reached while walking the linked template, keyed by ExprId.
type Result struct {
	Expected map[source.ExprID]Type
	Inferred map[source.ExprID]Type
}

func newResult() *Result {
	return &Result{Expected: map[source.ExprID]Type{}, Inferred: map[source.ExprID]Type{}}
}

// Typecheck walks root, inferring and cross-checking every bound
// expression found in exprs.
func Typecheck(root *link.LinkedElement, exprs *lower.ExprTable) (*Result, diag.List) {
	var diags diag.List
	r := newResult()
	walk(root, exprs, r, &diags)
	return r, diags
}

func walk(el *link.LinkedElement, exprs *lower.ExprTable, r *Result, diags *diag.List) {
	if el.Controller != nil {
		checkControllerExpr(el.Controller, exprs, r, diags)
		walk(el.Controller.Template, exprs, r, diags)
		return
	}
	for _, instr := range el.Instrs {
		checkInstr(instr, exprs, r, diags)
	}
	for _, c := range el.Children {
		switch x := c.(type) {
		case *link.LinkedElement:
			walk(x, exprs, r, diags)
		case *link.LinkedText:
			for _, id := range x.ExprIDs {
				annotate(id, KindString, exprs, r, diags)
			}
		}
	}
}

func checkControllerExpr(ctrl *link.LinkedController, exprs *lower.ExprTable, r *Result, diags *diag.List) {
	id := ctrl.Instr.ExprID
	switch ctrl.Instr.Property {
	case "if", "else":
		annotate(id, KindBoolean, exprs, r, diags)
	case "repeat":
		annotateForOf(id, exprs, r, diags)
	case "with":
		annotate(id, KindObject, exprs, r, diags)
	case "portal":
		annotate(id, KindString, exprs, r, diags)
	default:
		annotate(id, KindUnknown, exprs, r, diags)
	}
}

func checkInstr(instr link.LinkedInstr, exprs *lower.ExprTable, r *Result, diags *diag.List) {
	switch instr.Kind {
	case link.InstrInterpolationAttr:
		for _, id := range instr.ExprIDs {
			annotate(id, KindString, exprs, r, diags)
		}
	case link.InstrIteratorBinding:
		annotateForOf(instr.ExprID, exprs, r, diags)
	case link.InstrSetProperty, link.InstrHydrateAttribute, link.InstrListener, link.InstrRef:
		if instr.ExprID != source.NoExprID {
			annotate(instr.ExprID, KindUnknown, exprs, r, diags)
		}
	}
}
