package typecheck

import (
	"strconv"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/expr"
	"github.com/aurelia/aot/internal/lower"
	"github.com/aurelia/aot/internal/source"
)

// annotate records expected for id, infers its structural type, and
// records a type-mismatch diagnostic when both sides are concrete and
// disagree.
func annotate(id source.ExprID, expected Kind, exprs *lower.ExprTable, r *Result, diags *diag.List) {
	if id == source.NoExprID {
		return
	}
	e, ok := exprs.Get(id)
	if !ok {
		return
	}
	exp := Type{Kind: expected}
	inf := infer(e)
	r.Expected[id] = exp
	r.Inferred[id] = inf
	if mismatches(exp, inf) {
		diags.Add(diag.Diagnostic{
			Code: "type-mismatch", Stage: diag.StageTypecheck, Severity: diag.Warning,
			Message: "expression inferred as " + string(inf.Kind) + " but used where " + string(exp.Kind) + " is expected",
			Span:    e.Span(),
		})
	}
}

// annotateForOf annotates the repeat.for iterable's expression id (the
// ForOfBinding's Iterable, not the ForOfBinding node itself) against an
// expected array type.
func annotateForOf(id source.ExprID, exprs *lower.ExprTable, r *Result, diags *diag.List) {
	if id == source.NoExprID {
		return
	}
	e, ok := exprs.Get(id)
	if !ok {
		return
	}
	fo, ok := e.(*expr.ForOfBinding)
	if !ok || fo.Iterable == nil {
		return
	}
	exp := Type{Kind: KindArray}
	inf := infer(fo.Iterable)
	r.Expected[id] = exp
	r.Inferred[id] = inf
	if mismatches(exp, inf) {
		diags.Add(diag.Diagnostic{
			Code: "type-mismatch", Stage: diag.StageTypecheck, Severity: diag.Warning,
			Message: "repeat.for iterable inferred as " + string(inf.Kind) + ", expected an array",
			Span:    fo.Iterable.Span(),
		})
	}
}

func mismatches(expected, inferred Type) bool {
	if expected.Kind == KindUnknown || expected.Kind == KindAny {
		return false
	}
	if inferred.Kind == KindUnknown || inferred.Kind == KindAny {
		return false
	}
	return expected.Kind != inferred.Kind
}

// infer derives a structural type from an expression's own shape. Any node
// that reaches into scope data (AccessScope, AccessMember, CallScope,
// CallMember) is unknown without a host type engine.
func infer(e expr.Expr) Type {
	switch x := e.(type) {
	case *expr.LiteralPrimitive:
		return inferLiteral(x.Raw)
	case *expr.LiteralArray:
		return Type{Kind: KindArray}
	case *expr.LiteralObject:
		return Type{Kind: KindObject}
	case *expr.Unary:
		switch x.Op {
		case "!":
			return Type{Kind: KindBoolean}
		case "-", "+":
			return Type{Kind: KindNumber}
		case "typeof":
			return Type{Kind: KindString}
		default:
			return unknown
		}
	case *expr.Binary:
		switch x.Op {
		case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "&&", "||", "in", "instanceof":
			return Type{Kind: KindBoolean}
		case "+", "-", "*", "/", "%":
			return Type{Kind: KindNumber}
		default:
			return unknown
		}
	case *expr.Conditional:
		yes, no := infer(x.Yes), infer(x.No)
		if yes.Kind == no.Kind {
			return yes
		}
		return unknown
	case *expr.Assign:
		return infer(x.Value)
	case *expr.ValueConverter, *expr.BindingBehavior:
		return unknown
	case *expr.AccessThis, *expr.AccessScope, *expr.AccessMember, *expr.AccessKeyed,
		*expr.CallScope, *expr.CallMember, *expr.CallFunction:
		return unknown
	default:
		return unknown
	}
}

func inferLiteral(raw string) Type {
	switch raw {
	case "true", "false":
		return Type{Kind: KindBoolean}
	case "null":
		return Type{Kind: KindNull}
	case "undefined":
		return Type{Kind: KindUndefined}
	}
	if len(raw) >= 2 && (raw[0] == '\'' || raw[0] == '"') {
		return Type{Kind: KindString}
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return Type{Kind: KindNumber}
	}
	return any_
}
