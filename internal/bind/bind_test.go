package bind

import (
	"testing"

	"github.com/aurelia/aot/internal/expr"
	"github.com/aurelia/aot/internal/link"
	"github.com/aurelia/aot/internal/lower"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
)

func TestBindAllocatesOverlayFrameForRepeat(t *testing.T) {
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

	result := Bind(root, mod.Exprs, alloc)
	if len(result.Frames) != 2 {
		t.Fatalf("expected root + one overlay frame, got %d", len(result.Frames))
	}
	wrapper := root.Children[0].(*link.LinkedElement)
	overlay := result.Frames[result.resolveOverlayFrame(result.Root)]
	if overlay == nil || overlay.Kind != FrameOverlay || overlay.Owner != "repeat" {
		t.Fatalf("expected an overlay frame owned by 'repeat', got %#v", overlay)
	}
	found := false
	for _, l := range overlay.Locals {
		if l == "item" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected overlay frame to expose local 'item', got %v", overlay.Locals)
	}

	// The iterable expression ("items") resolves in the outer (root) frame.
	iterableExpr, _ := mod.Exprs.Get(wrapper.Controller.Instr.ExprID)
	fo := iterableExpr.(*expr.ForOfBinding)
	accessScope := fo.Iterable.(*expr.AccessScope)
	if result.ExprFrame[accessScope] != result.Root {
		t.Errorf("expected iterable to resolve in the root frame, got %v", result.ExprFrame[accessScope])
	}
}

// resolveOverlayFrame is a tiny test helper: with exactly one overlay frame
// registered, find its id by scanning Frames for the non-root entry.
func (r *Result) resolveOverlayFrame(root source.FrameID) source.FrameID {
	for id, f := range r.Frames {
		if id != root && f.Kind == FrameOverlay {
			return id
		}
	}
	return source.NoFrameID
}

func TestBindResolvesParentAncestorHops(t *testing.T) {
	scope := resource.NewRootScope()
	alloc := source.NewIDAllocator()
	mod, diags := lower.Lower(`<li repeat.for="item of items">${$parent.title}</li>`, "t.html", scope, alloc)
	if diags.HasErrors() {
		t.Fatalf("unexpected lower diagnostics: %s", diags.Details())
	}
	root, ldiags := link.Link(mod, scope)
	if ldiags.HasErrors() {
		t.Fatalf("unexpected link diagnostics: %s", ldiags.Details())
	}
	result := Bind(root, mod.Exprs, alloc)

	wrapper := root.Children[0].(*link.LinkedElement)
	inner := wrapper.Controller.Template
	text := inner.Children[0].(*link.LinkedText)
	titleExpr, _ := mod.Exprs.Get(text.ExprIDs[0])
	access, ok := titleExpr.(*expr.AccessScope)
	if !ok || access.Name != "title" {
		t.Fatalf("expected $parent.title to parse as AccessScope{title, Ancestor:1}, got %#v", titleExpr)
	}
	if access.Ancestor != 1 {
		t.Fatalf("expected Ancestor 1 for $parent.title, got %d", access.Ancestor)
	}
	if result.ExprFrame[access] != result.Root {
		t.Errorf("expected $parent.title to resolve to the root frame, got %v (root=%v)", result.ExprFrame[access], result.Root)
	}
}
