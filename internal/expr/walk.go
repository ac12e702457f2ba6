package expr

// Walk calls visit for e and every sub-expression it contains, depth
// first, mirroring go/ast.Inspect's traversal shape (as cue/ast/astutil's
// Apply does for the host grammar) generalized to this package's smaller
// expression tree.
func Walk(e Expr, visit func(Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch x := e.(type) {
	case *AccessMember:
		Walk(x.Object, visit)
	case *AccessKeyed:
		Walk(x.Object, visit)
		Walk(x.Key, visit)
	case *CallScope:
		for _, a := range x.Args {
			Walk(a, visit)
		}
	case *CallMember:
		Walk(x.Object, visit)
		for _, a := range x.Args {
			Walk(a, visit)
		}
	case *CallFunction:
		Walk(x.Func, visit)
		for _, a := range x.Args {
			Walk(a, visit)
		}
	case *LiteralArray:
		for _, el := range x.Elements {
			Walk(el, visit)
		}
	case *LiteralObject:
		for _, v := range x.Values {
			Walk(v, visit)
		}
	case *Unary:
		Walk(x.Operand, visit)
	case *Binary:
		Walk(x.Left, visit)
		Walk(x.Right, visit)
	case *Conditional:
		Walk(x.Cond, visit)
		Walk(x.Yes, visit)
		Walk(x.No, visit)
	case *Assign:
		Walk(x.Target, visit)
		Walk(x.Value, visit)
	case *ValueConverter:
		Walk(x.Expr, visit)
		for _, a := range x.Args {
			Walk(a, visit)
		}
	case *BindingBehavior:
		Walk(x.Expr, visit)
		for _, a := range x.Args {
			Walk(a, visit)
		}
	case *Interpolation:
		for _, ie := range x.Exprs {
			Walk(ie, visit)
		}
	case *ForOfBinding:
		Walk(x.Iterable, visit)
	}
}
