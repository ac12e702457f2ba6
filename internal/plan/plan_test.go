package plan

import (
	"testing"

	"github.com/aurelia/aot/internal/link"
	"github.com/aurelia/aot/internal/lower"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
)

func TestPlanReparentsControllerBindings(t *testing.T) {
	scope := resource.NewRootScope()
	alloc := source.NewIDAllocator()
	mod, diags := lower.Lower(`<li repeat.for="item of items"><div if.bind="item.active">${item.name}</div></li>`, "t.html", scope, alloc)
	if diags.HasErrors() {
		t.Fatalf("unexpected lower diagnostics: %s", diags.Details())
	}
	root, ldiags := link.Link(mod, scope)
	if ldiags.HasErrors() {
		t.Fatalf("unexpected link diagnostics: %s", ldiags.Details())
	}

	fragment := Plan(root)
	if fragment.Kind != NodeFragment {
		t.Fatalf("expected a fragment root, got %s", fragment.Kind)
	}
	if len(fragment.Children) != 1 {
		t.Fatalf("expected one top-level child, got %d", len(fragment.Children))
	}
	repeatMarker := fragment.Children[0]
	if len(repeatMarker.Controllers) != 1 || repeatMarker.Controllers[0].Def.Name.Val != "repeat" {
		t.Fatalf("expected a repeat controller marker, got %#v", repeatMarker)
	}
	if repeatMarker.TargetIndex != 0 {
		t.Errorf("expected the repeat marker to be target 0 of the root scope, got %d", repeatMarker.TargetIndex)
	}
	if len(repeatMarker.Bindings) != 0 || len(repeatMarker.CustomAttrs) != 0 {
		t.Errorf("controller marker must carry no bindings of its own, got %#v", repeatMarker)
	}

	repeatNested := repeatMarker.Controllers[0].Nested
	if repeatNested.Tag != "li" || repeatNested.TargetIndex != NoTargetIndex || len(repeatNested.Children) != 1 {
		t.Fatalf("expected the repeat's nested template to be the li (no target of its own) with one child, got %#v", repeatNested)
	}
	ifMarker := repeatNested.Children[0]
	if len(ifMarker.Controllers) != 1 || ifMarker.Controllers[0].Def.Name.Val != "if" {
		t.Fatalf("expected the repeat's nested template to hold the if controller, got %#v", ifMarker)
	}
	if ifMarker.TargetIndex != 0 {
		t.Errorf("expected the if marker to be target 0 of the repeat's own scope, got %d", ifMarker.TargetIndex)
	}

	innerDiv := ifMarker.Controllers[0].Nested
	if innerDiv.Tag != "div" || innerDiv.TargetIndex != NoTargetIndex {
		t.Fatalf("expected the innermost div to carry no target of its own (no bindings), got %#v", innerDiv)
	}
	if len(innerDiv.Children) != 1 || innerDiv.Children[0].Kind != NodeText {
		t.Fatalf("expected the div's only child to be an interpolated text node, got %#v", innerDiv.Children)
	}
	if innerDiv.Children[0].TargetIndex != 0 {
		t.Errorf("expected the text node to be target 0 of the if's own scope, got %d", innerDiv.Children[0].TargetIndex)
	}
}
