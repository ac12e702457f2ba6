package aot

import (
	"github.com/aurelia/aot/internal/bind"
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/emit"
	"github.com/aurelia/aot/internal/link"
	"github.com/aurelia/aot/internal/lower"
	"github.com/aurelia/aot/internal/plan"
	"github.com/aurelia/aot/internal/registry"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/internal/typecheck"
)

// TemplateResult is one template's full pipeline output, from lowered IR
// through the emitted definition (§4.7, §3.5/§3.6).
type TemplateResult struct {
	Module *lower.IrModule
	Linked *link.LinkedElement
	Bind   *bind.Result
	Type   *typecheck.Result
	Plan   *plan.PlanNode
	Emit   *emit.Output
}

// compileLoweredTemplate runs the host-linking-through-emit stages
// (§4.7) over an already-lowered template, sharing one IDAllocator across
// bind's frame/expr-adjacent allocations so ids stay unique across every
// template compiled in the same discovery run.
func compileLoweredTemplate(mod *lower.IrModule, scope *resource.Scope, alloc *source.IDAllocator) (*TemplateResult, diag.List) {
	var diags diag.List

	linked, linkDiags := link.Link(mod, scope)
	diags.Merge(linkDiags)

	boundResult := bind.Bind(linked, mod.Exprs, alloc)

	typed, typeDiags := typecheck.Typecheck(linked, mod.Exprs)
	diags.Merge(typeDiags)

	planned := plan.Plan(linked)

	emitted, err := emit.Emit(planned, mod.Exprs)
	if err != nil {
		diags.Add(diag.Diagnostic{
			Code:     "emit-failed",
			Stage:    diag.StageEmit,
			Severity: diag.Error,
			Message:  err.Error(),
			URI:      source.DocumentURI(mod.File),
		})
	}

	return &TemplateResult{
		Module: mod,
		Linked: linked,
		Bind:   boundResult,
		Type:   typed,
		Plan:   planned,
		Emit:   emitted,
	}, diags
}

// CompileTemplate is the public compile API (§6.5): lowering raw template
// text against scope and running it through host-linking, scope binding,
// typecheck, plan, and emit in one pass. It is the same pipeline
// discoverProjectSemantics runs per-resource, exposed standalone for a
// caller (e.g. an editor extension) that wants to compile one template
// without a full project scan.
func CompileTemplate(html string, file source.NormalizedPath, scope *resource.Scope, alloc *source.IDAllocator) (*TemplateResult, diag.List) {
	mod, diags := lower.Lower(html, file, scope, alloc)
	res, compileDiags := compileLoweredTemplate(mod, scope, alloc)
	diags.Merge(compileDiags)
	return res, diags
}

// discoverTemplateImports walks a lowered template's DOM tree for
// `<import from="...">` tags and `<template as-custom-element="name">`
// local-template definitions (§4.5's template-import/local-template
// evidence), resolving each `from` specifier the same way a host
// ResolveModuleName call would, against the project's recognized
// resources.
func discoverTemplateImports(mod *lower.IrModule, owner source.NormalizedPath, byClassName func(className string) *resource.ResourceDef, resolveSpecifier func(specifier string) *resource.ResourceDef) []registry.TemplateImport {
	var out []registry.TemplateImport
	var walk func(n lower.DomNode)
	walk = func(n lower.DomNode) {
		el, ok := n.(*lower.DomElement)
		if !ok {
			return
		}
		switch el.Tag {
		case "import":
			if from, ok := staticAttr(el, "from"); ok {
				out = append(out, registry.TemplateImport{
					Owner:    owner,
					From:     from,
					Resolved: resolveSpecifier(from),
					Span:     el.Span,
				})
			}
		case "template":
			if name, ok := staticAttr(el, "as-custom-element"); ok {
				out = append(out, registry.TemplateImport{
					Owner:    owner,
					From:     name,
					Local:    true,
					Resolved: byClassName(name),
					Span:     el.Span,
				})
			}
		}
		for _, c := range el.Children {
			walk(c)
		}
	}
	walk(mod.Root)
	return out
}

func staticAttr(el *lower.DomElement, name string) (string, bool) {
	for _, a := range el.Attrs {
		if a.Name == name {
			return a.RawValue, true
		}
	}
	return "", false
}
