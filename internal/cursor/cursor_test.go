package cursor

import (
	"testing"

	"github.com/aurelia/aot/internal/source"
)

func TestResolvePrefersNarrowestEnclosingSpan(t *testing.T) {
	ix := New()
	ix.Add(&Entry{Kind: KindFrame, URI: "t.html", Start: 0, End: 100, FrameID: 1})
	ix.Add(&Entry{Kind: KindNode, URI: "t.html", Start: 10, End: 30, NodeID: 2})
	ix.Add(&Entry{Kind: KindExpression, URI: "t.html", Start: 15, End: 20, ExprID: 3})

	got := ix.Resolve(source.DocumentURI("t.html"), 17)
	if got == nil || got.Kind != KindExpression || got.ExprID != 3 {
		t.Fatalf("expected the narrowest (expression) entry to win, got %#v", got)
	}
}

func TestResolveBreaksEqualSpanTiesByKind(t *testing.T) {
	ix := New()
	ix.Add(&Entry{Kind: KindNode, URI: "t.html", Start: 5, End: 15, NodeID: 1})
	ix.Add(&Entry{Kind: KindExpression, URI: "t.html", Start: 5, End: 15, ExprID: 2})

	got := ix.Resolve(source.DocumentURI("t.html"), 10)
	if got == nil || got.Kind != KindExpression {
		t.Fatalf("expected the expression entry to win an equal-span tie, got %#v", got)
	}
}

func TestResolveReturnsNilOutsideEveryEntry(t *testing.T) {
	ix := New()
	ix.Add(&Entry{Kind: KindNode, URI: "t.html", Start: 0, End: 5})
	if got := ix.Resolve(source.DocumentURI("t.html"), 50); got != nil {
		t.Fatalf("expected no resolution outside every registered span, got %#v", got)
	}
}

func TestAtIsolatesDocumentsByURI(t *testing.T) {
	ix := New()
	ix.Add(&Entry{Kind: KindNode, URI: "a.html", Start: 0, End: 10})
	if hits := ix.At(source.DocumentURI("b.html"), 5); len(hits) != 0 {
		t.Fatalf("expected no cross-document hits, got %d", len(hits))
	}
}
