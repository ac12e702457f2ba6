package expr

import (
	"testing"

	"github.com/aurelia/aot/internal/source"
)

func TestParseAccessMemberChain(t *testing.T) {
	e, diags := Parse("user.profile.name", "t.html", 0)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.Details())
	}
	member, ok := e.(*AccessMember)
	if !ok {
		t.Fatalf("expected *AccessMember, got %T", e)
	}
	if member.Name != "name" {
		t.Errorf("expected outer member 'name', got %q", member.Name)
	}
	inner, ok := member.Object.(*AccessMember)
	if !ok || inner.Name != "profile" {
		t.Fatalf("expected inner member 'profile', got %#v", member.Object)
	}
	root, ok := inner.Object.(*AccessScope)
	if !ok || root.Name != "user" {
		t.Fatalf("expected root scope access 'user', got %#v", inner.Object)
	}
}

func TestParseValueConverterAndBehavior(t *testing.T) {
	e, diags := Parse("value | number:2 & debounce:500", "t.html", 0)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.Details())
	}
	bb, ok := e.(*BindingBehavior)
	if !ok || bb.Name != "debounce" {
		t.Fatalf("expected outer bindingBehavior 'debounce', got %#v", e)
	}
	vc, ok := bb.Expr.(*ValueConverter)
	if !ok || vc.Name != "number" {
		t.Fatalf("expected inner valueConverter 'number', got %#v", bb.Expr)
	}
	if len(vc.Args) != 1 {
		t.Fatalf("expected one converter arg, got %d", len(vc.Args))
	}
}

func TestParseSpanRebasesToDocumentOffset(t *testing.T) {
	e, _ := Parse("foo", "t.html", 100)
	if e.Span() != (source.Span{Start: 100, End: 103, File: "t.html"}) {
		t.Errorf("expected span rebased to document offset, got %+v", e.Span())
	}
}

func TestParseForOfSimpleDeclaration(t *testing.T) {
	fo, diags := ParseForOf("item of items", "t.html", 0)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.Details())
	}
	if fo.Declaration != "item" {
		t.Errorf("expected declaration 'item', got %q", fo.Declaration)
	}
	iterable, ok := fo.Iterable.(*AccessScope)
	if !ok || iterable.Name != "items" {
		t.Fatalf("expected iterable scope access 'items', got %#v", fo.Iterable)
	}
}

func TestParseConditionalAndCall(t *testing.T) {
	e, diags := Parse("isActive ? label() : fallback.value", "t.html", 0)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.Details())
	}
	cond, ok := e.(*Conditional)
	if !ok {
		t.Fatalf("expected *Conditional, got %T", e)
	}
	if _, ok := cond.Yes.(*CallScope); !ok {
		t.Errorf("expected yes branch to be a call, got %T", cond.Yes)
	}
	if _, ok := cond.No.(*AccessMember); !ok {
		t.Errorf("expected no branch to be a member access, got %T", cond.No)
	}
}
