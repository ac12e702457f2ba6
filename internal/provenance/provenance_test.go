package provenance

import (
	"testing"

	"github.com/aurelia/aot/internal/source"
)

func TestLookupFromRanksOverlayMemberAboveOverlayExpr(t *testing.T) {
	ix := New()
	ix.Add(&Edge{Kind: KindOverlayExpr, From: Endpoint{URI: "t.html", Start: 0, End: 20}, To: Endpoint{URI: "overlay.ts", Start: 0, End: 5}})
	ix.Add(&Edge{Kind: KindOverlayMember, From: Endpoint{URI: "t.html", Start: 5, End: 10}, To: Endpoint{URI: "overlay.ts", Start: 10, End: 15}, Tag: "user.profile.name"})

	hits := ix.AtOffset(source.DocumentURI("t.html"), 7)
	if len(hits) != 2 {
		t.Fatalf("expected both edges to overlap offset 7, got %d", len(hits))
	}
	if Best(hits).Kind != KindOverlayMember {
		t.Errorf("expected the overlayMember edge to rank first, got %s", Best(hits).Kind)
	}
}

func TestLookupFromPrefersShorterSpanOnTie(t *testing.T) {
	ix := New()
	wide := &Edge{Kind: KindOverlayExpr, From: Endpoint{URI: "t.html", Start: 0, End: 100}, To: Endpoint{URI: "overlay.ts", Start: 0, End: 100}}
	narrow := &Edge{Kind: KindOverlayExpr, From: Endpoint{URI: "t.html", Start: 40, End: 50}, To: Endpoint{URI: "overlay.ts", Start: 40, End: 50}}
	ix.Add(wide)
	ix.Add(narrow)

	hits := ix.AtOffset(source.DocumentURI("t.html"), 45)
	if len(hits) != 2 {
		t.Fatalf("expected both edges to overlap offset 45, got %d", len(hits))
	}
	if Best(hits) != narrow {
		t.Errorf("expected the narrower edge to win the tie, got span [%d,%d)", Best(hits).From.Start, Best(hits).From.End)
	}
}

func TestLookupFromBreaksOverlayMemberTiesByLongerTag(t *testing.T) {
	ix := New()
	shallow := &Edge{Kind: KindOverlayMember, From: Endpoint{URI: "t.html", Start: 0, End: 10}, Tag: "user"}
	deep := &Edge{Kind: KindOverlayMember, From: Endpoint{URI: "t.html", Start: 0, End: 10}, Tag: "user.profile.name"}
	ix.Add(shallow)
	ix.Add(deep)

	hits := ix.AtOffset(source.DocumentURI("t.html"), 5)
	if Best(hits) != deep {
		t.Errorf("expected the deeper member-access edge to win, got tag %q", Best(hits).Tag)
	}
}

func TestLookupToFindsReverseEdges(t *testing.T) {
	ix := New()
	edge := &Edge{Kind: KindSSRNode, From: Endpoint{URI: "t.html", Start: 0, End: 5}, To: Endpoint{URI: "ssr.html", Start: 100, End: 110}}
	ix.Add(edge)

	hits := ix.LookupTo(source.DocumentURI("ssr.html"), 102, 103)
	if len(hits) != 1 || hits[0] != edge {
		t.Fatalf("expected to find the edge via its To side, got %#v", hits)
	}
	if len(ix.FromURI(source.DocumentURI("t.html"))) != 1 {
		t.Errorf("expected the edge to also be indexed by its From URI")
	}
}

func TestLookupFromReturnsNothingOutsideEveryRange(t *testing.T) {
	ix := New()
	ix.Add(&Edge{Kind: KindOverlayExpr, From: Endpoint{URI: "t.html", Start: 0, End: 5}})
	if hits := ix.AtOffset(source.DocumentURI("t.html"), 50); len(hits) != 0 {
		t.Errorf("expected no hits outside the edge's range, got %d", len(hits))
	}
}
