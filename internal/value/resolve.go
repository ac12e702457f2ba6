package value

import "github.com/aurelia/aot/internal/diag"

// resolver carries the cycle-breaking state for one top-level call to
// Resolve: the set of reference names currently being chased, so that a
// self- or mutually-referential chain degrades to Unknown instead of
// looping forever (§4.3).
type resolver struct {
	inFlight map[string]bool
}

// Resolve walks v through scope, replacing References that terminate at a
// literal/class/function, converting name References to Imports when the
// binding is an import entry, expanding Spreads whose target resolves to
// an Array, and folding PropertyAccesses when the base resolves to an
// Object/Array with the key statically available. Values that cannot be
// reduced are returned as Unknown with a typed gap reason; Resolve never
// panics or errors for malformed author input.
func Resolve(v Value, scope *LexicalScope) Value {
	r := &resolver{inFlight: make(map[string]bool)}
	return r.resolve(v, scope)
}

func (r *resolver) resolve(v Value, scope *LexicalScope) Value {
	switch x := v.(type) {
	case *Reference:
		return r.resolveReference(x, scope)
	case *PropertyAccess:
		return r.resolvePropertyAccess(x, scope)
	case *Spread:
		return r.resolveSpread(x, scope)
	case *Array:
		elems := make([]Value, len(x.Elements))
		for i, e := range x.Elements {
			elems[i] = r.resolve(e, scope)
		}
		return NewArray(x.span, elems)
	case *Object:
		props := make([]Property, len(x.Properties))
		for i, p := range x.Properties {
			p.Val = r.resolve(p.Val, scope)
			props[i] = p
		}
		return NewObject(x.span, props, x.Methods)
	case *Call:
		callee := r.resolve(x.Callee, scope)
		args := make([]Value, len(x.Args))
		for i, a := range x.Args {
			args[i] = r.resolve(a, scope)
		}
		return NewCall(x.span, callee, args)
	default:
		// Literal, Import, Class, Function, Unknown are already in
		// normal form with respect to reference resolution.
		return v
	}
}

func (r *resolver) resolveReference(ref *Reference, scope *LexicalScope) Value {
	name := ref.Name
	if r.inFlight[name] {
		return NewUnknown(ref.span, diag.GapDynamicValue, "cyclic reference to "+name)
	}
	if imp, ok := scope.lookupImport(name); ok {
		return NewImport(ref.span, imp.Specifier, imp.ExportName)
	}
	bound, ok := scope.lookupBinding(name)
	if !ok {
		return NewUnknown(ref.span, diag.GapDynamicValue, "unresolved identifier "+name)
	}
	r.inFlight[name] = true
	resolved := r.resolve(bound, scope)
	delete(r.inFlight, name)
	return resolved
}

func (r *resolver) resolveSpread(sp *Spread, scope *LexicalScope) Value {
	target := r.resolve(sp.Target, scope)
	arr, ok := target.(*Array)
	if !ok {
		return NewSpread(sp.span, target)
	}
	out := &Spread{base: base{sp.span}, Target: target, Expanded: arr.Elements}
	return out
}

func (r *resolver) resolvePropertyAccess(pa *PropertyAccess, scope *LexicalScope) Value {
	base := r.resolve(pa.Base, scope)
	if pa.Computed != nil {
		// A dynamic key can't be folded even if the base is known.
		return NewUnknown(pa.span, diag.GapComputedProperty, "computed member access")
	}
	switch b := base.(type) {
	case *Object:
		if val, ok := b.Property(pa.Key); ok {
			return r.resolve(val, scope)
		}
		return NewUnknown(pa.span, diag.GapDynamicValue, "no such property "+pa.Key)
	case *Array:
		return NewUnknown(pa.span, diag.GapDynamicValue, "property access on array: "+pa.Key)
	case *Unknown:
		return NewUnknown(pa.span, b.Reason, "property access on unknown base")
	default:
		return NewUnknown(pa.span, diag.GapDynamicValue, "property access on non-object")
	}
}
