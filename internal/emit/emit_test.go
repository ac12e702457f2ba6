package emit

import (
	"encoding/json"
	"testing"

	"github.com/aurelia/aot/internal/link"
	"github.com/aurelia/aot/internal/lower"
	"github.com/aurelia/aot/internal/plan"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
)

func TestEmitRoundTripsInterpolatedText(t *testing.T) {
	scope := resource.NewRootScope()
	alloc := source.NewIDAllocator()
	mod, diags := lower.Lower(`<div>Hello ${name}</div>`, "t.html", scope, alloc)
	if diags.HasErrors() {
		t.Fatalf("unexpected lower diagnostics: %s", diags.Details())
	}
	root, ldiags := link.Link(mod, scope)
	if ldiags.HasErrors() {
		t.Fatalf("unexpected link diagnostics: %s", ldiags.Details())
	}
	p := plan.Plan(root)
	out, err := Emit(p, mod.Exprs)
	if err != nil {
		t.Fatalf("unexpected emit error: %s", err)
	}
	if len(out.Expressions) != 1 {
		t.Fatalf("expected one hoisted expression, got %d", len(out.Expressions))
	}
	var node map[string]any
	if err := json.Unmarshal(out.Expressions[0], &node); err != nil {
		t.Fatalf("expression did not serialize as JSON: %s", err)
	}
	if node["$kind"] != "AccessScope" || node["name"] != "name" {
		t.Errorf("expected a serialized AccessScope 'name', got %#v", node)
	}

	if out.Definition.TargetCount != 1 {
		t.Fatalf("expected exactly one target (the interpolated text node; the div itself has no bindings), got %d", out.Definition.TargetCount)
	}
	instrs := out.Definition.Instructions[0]
	if len(instrs) != 1 || instrs[0].Type != "textBinding" {
		t.Fatalf("expected a single textBinding instruction, got %#v", instrs)
	}
	if len(instrs[0].Parts) != 2 || instrs[0].Parts[0] != "Hello " {
		t.Errorf("expected parts [\"Hello \", \"\"], got %v", instrs[0].Parts)
	}
	if len(instrs[0].Exprs) != 1 || instrs[0].Exprs[0] != 0 {
		t.Errorf("expected the text binding to reference expression index 0, got %v", instrs[0].Exprs)
	}
}

func TestEmitNestsControllerTemplates(t *testing.T) {
	scope := resource.NewRootScope()
	alloc := source.NewIDAllocator()
	mod, diags := lower.Lower(`<li repeat.for="item of items">${item}</li>`, "t.html", scope, alloc)
	if diags.HasErrors() {
		t.Fatalf("unexpected lower diagnostics: %s", diags.Details())
	}
	root, ldiags := link.Link(mod, scope)
	if ldiags.HasErrors() {
		t.Fatalf("unexpected link diagnostics: %s", ldiags.Details())
	}
	p := plan.Plan(root)
	out, err := Emit(p, mod.Exprs)
	if err != nil {
		t.Fatalf("unexpected emit error: %s", err)
	}
	if out.Definition.TargetCount != 1 {
		t.Fatalf("expected one target (the repeat marker), got %d", out.Definition.TargetCount)
	}
	instrs := out.Definition.Instructions[0]
	if len(instrs) != 1 || instrs[0].Type != "hydrateTemplateController" || instrs[0].To != "repeat" {
		t.Fatalf("expected a single hydrateTemplateController instruction for 'repeat', got %#v", instrs)
	}
	if instrs[0].Nested == nil || *instrs[0].Nested != 0 {
		t.Fatalf("expected the controller instruction to reference nestedTemplates[0], got %#v", instrs[0].Nested)
	}
	if len(out.Definition.NestedTemplates) != 1 {
		t.Errorf("expected one nested template hoisted onto the parent definition, got %d", len(out.Definition.NestedTemplates))
	}
}
