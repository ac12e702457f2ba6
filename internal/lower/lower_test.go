package lower

import (
	"testing"

	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
)

func TestLowerSynthesizesControllerWrapper(t *testing.T) {
	alloc := source.NewIDAllocator()
	mod, diags := Lower(`<div if.bind="show">Hello ${name}</div>`, "t.html", resource.NewRootScope(), alloc)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.Details())
	}
	if len(mod.Root.Children) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(mod.Root.Children))
	}
	wrapper, ok := mod.Root.Children[0].(*DomElement)
	if !ok || wrapper.Controller == nil {
		t.Fatalf("expected a controller wrapper element, got %#v", mod.Root.Children[0])
	}
	if wrapper.Controller.Name != "if" {
		t.Errorf("expected controller name 'if', got %q", wrapper.Controller.Name)
	}
	if _, ok := mod.Exprs.Get(wrapper.Controller.Attr.ExprID); !ok {
		t.Errorf("expected the if.bind expression to be registered in the expr table")
	}

	inner := wrapper.Controller.Template
	if inner == nil || inner.Controller != nil {
		t.Fatalf("expected the nested template to be the plain div, got %#v", inner)
	}
	if len(inner.Children) != 1 {
		t.Fatalf("expected 1 child of the nested div, got %d", len(inner.Children))
	}
	text, ok := inner.Children[0].(*DomText)
	if !ok {
		t.Fatalf("expected a text node, got %T", inner.Children[0])
	}
	if len(text.ExprIDs) != 1 || len(text.Parts) != 2 {
		t.Errorf("expected one interpolated expression with 2 surrounding parts, got parts=%v exprs=%v", text.Parts, text.ExprIDs)
	}
}

func TestLowerClassifiesStaticAndBindingAttrs(t *testing.T) {
	alloc := source.NewIDAllocator()
	mod, diags := Lower(`<input value.bind="name" type="text" disabled.bind="isLocked">`, "t.html", resource.NewRootScope(), alloc)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.Details())
	}
	el, ok := mod.Root.Children[0].(*DomElement)
	if !ok {
		t.Fatalf("expected a DomElement, got %#v", mod.Root.Children[0])
	}
	if el.Controller != nil {
		t.Fatalf("did not expect a controller wrapper for an ordinary bindable input")
	}
	byName := map[string]IrAttr{}
	for _, a := range el.Attrs {
		byName[a.Name] = a
	}
	if byName["type"].Kind != AttrStatic {
		t.Errorf("expected 'type' to be static, got %s", byName["type"].Kind)
	}
	if byName["value.bind"].Kind != AttrBindingCommand {
		t.Errorf("expected 'value.bind' to be a binding command, got %s", byName["value.bind"].Kind)
	}
	if byName["disabled.bind"].Kind != AttrBindingCommand {
		t.Errorf("expected 'disabled.bind' to be a binding command, got %s", byName["disabled.bind"].Kind)
	}
	if IsBindingAttribute("value.bind") == false || IsBindingAttribute("type") {
		t.Errorf("IsBindingAttribute misclassified static/binding attribute names")
	}
}

func TestLowerRepeatForParsesForOfDeclaration(t *testing.T) {
	alloc := source.NewIDAllocator()
	mod, diags := Lower(`<li repeat.for="item of items">${item}</li>`, "t.html", resource.NewRootScope(), alloc)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.Details())
	}
	wrapper := mod.Root.Children[0].(*DomElement)
	if wrapper.Controller == nil || wrapper.Controller.Name != "repeat" {
		t.Fatalf("expected a repeat controller wrapper, got %#v", wrapper)
	}
}
