package link

import (
	"testing"

	"github.com/aurelia/aot/internal/lower"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
)

func TestLinkResolvesBindableAgainstCustomElement(t *testing.T) {
	scope := resource.NewRootScope()
	def := &resource.ResourceDef{
		Kind: resource.KindCustomElement,
		Name: resource.NewSourced("name-tag", source.NoSpan, nil),
		Bindables: map[string]resource.Bindable{
			"name": {Name: resource.NewSourced("name", source.NoSpan, nil)},
		},
	}
	scope.Col.Add(def)

	alloc := source.NewIDAllocator()
	mod, diags := lower.Lower(`<name-tag name.bind="user.name"></name-tag>`, "t.html", scope, alloc)
	if diags.HasErrors() {
		t.Fatalf("unexpected lower diagnostics: %s", diags.Details())
	}

	root, ldiags := Link(mod, scope)
	if ldiags.HasErrors() {
		t.Fatalf("unexpected link diagnostics: %s", ldiags.Details())
	}
	el, ok := root.Children[0].(*LinkedElement)
	if !ok {
		t.Fatalf("expected a LinkedElement, got %#v", root.Children[0])
	}
	if el.Def == nil || el.Def.Name.Val != "name-tag" {
		t.Fatalf("expected resolved custom element def, got %#v", el.Def)
	}
	var found bool
	for _, instr := range el.Instrs {
		if instr.Kind == InstrSetProperty && instr.Property == "name" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a propertyBinding instruction targeting bindable 'name', got %#v", el.Instrs)
	}
}

func TestLinkPrefersElementBindableOverSameNamedCustomAttribute(t *testing.T) {
	scope := resource.NewRootScope()
	elDef := &resource.ResourceDef{
		Kind: resource.KindCustomElement,
		Name: resource.NewSourced("name-tag", source.NoSpan, nil),
		Bindables: map[string]resource.Bindable{
			"tooltip": {Name: resource.NewSourced("tooltip", source.NoSpan, nil)},
		},
	}
	attrDef := &resource.ResourceDef{
		Kind: resource.KindCustomAttribute,
		Name: resource.NewSourced("tooltip", source.NoSpan, nil),
	}
	scope.Col.Add(elDef)
	scope.Col.Add(attrDef)

	alloc := source.NewIDAllocator()
	mod, diags := lower.Lower(`<name-tag tooltip.bind="text"></name-tag>`, "t.html", scope, alloc)
	if diags.HasErrors() {
		t.Fatalf("unexpected lower diagnostics: %s", diags.Details())
	}

	root, ldiags := Link(mod, scope)
	if ldiags.HasErrors() {
		t.Fatalf("unexpected link diagnostics: %s", ldiags.Details())
	}
	el, ok := root.Children[0].(*LinkedElement)
	if !ok {
		t.Fatalf("expected a LinkedElement, got %#v", root.Children[0])
	}
	for _, instr := range el.Instrs {
		if instr.Kind == InstrHydrateAttribute {
			t.Fatalf("expected the element's own bindable to shadow the global custom attribute, got a hydrate-attribute instruction: %#v", instr)
		}
	}
	var found bool
	for _, instr := range el.Instrs {
		if instr.Kind == InstrSetProperty && instr.Property == "tooltip" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a property binding targeting bindable 'tooltip', got %#v", el.Instrs)
	}
}

func TestLinkResolvesTemplateController(t *testing.T) {
	scope := resource.NewRootScope()
	alloc := source.NewIDAllocator()
	mod, diags := lower.Lower(`<div if.bind="show"></div>`, "t.html", scope, alloc)
	if diags.HasErrors() {
		t.Fatalf("unexpected lower diagnostics: %s", diags.Details())
	}
	root, ldiags := Link(mod, scope)
	if ldiags.HasErrors() {
		t.Fatalf("unexpected link diagnostics: %s", ldiags.Details())
	}
	wrapper, ok := root.Children[0].(*LinkedElement)
	if !ok || wrapper.Controller == nil {
		t.Fatalf("expected a linked controller wrapper, got %#v", root.Children[0])
	}
	if wrapper.Controller.Def == nil || wrapper.Controller.Def.Name.Val != "if" {
		t.Errorf("expected the built-in 'if' controller to resolve, got %#v", wrapper.Controller.Def)
	}
}

func TestLinkFallsBackToNativePropertyBinding(t *testing.T) {
	scope := resource.NewRootScope()
	alloc := source.NewIDAllocator()
	mod, diags := lower.Lower(`<input value.bind="name">`, "t.html", scope, alloc)
	if diags.HasErrors() {
		t.Fatalf("unexpected lower diagnostics: %s", diags.Details())
	}
	root, ldiags := Link(mod, scope)
	if ldiags.HasErrors() {
		t.Fatalf("unexpected link diagnostics: %s", ldiags.Details())
	}
	el := root.Children[0].(*LinkedElement)
	if el.Def != nil {
		t.Fatalf("did not expect 'input' to resolve as a custom element")
	}
	var found bool
	for _, instr := range el.Instrs {
		if instr.Kind == InstrSetProperty && instr.Property == "value" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a propertyBinding instruction targeting 'value', got %#v", el.Instrs)
	}
}
