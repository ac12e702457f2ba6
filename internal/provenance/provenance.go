// Package provenance implements the provenance edge index (§3.7): a
// lookup structure recording "this span in the output came from that span
// in the input" relationships, kept in two offset-searchable maps (by
// source URI and by target URI) and ranked at lookup time so the most
// specific edge touching a given range wins.
//
// The offset-bucketed-then-linear-scan shape is grounded on the same
// "group by document, then walk the group's entries checking span
// overlap" pattern cue/ast's position-to-node lookups use when mapping a
// byte offset back to a syntax node, generalized from "file" to "URI"
// since overlay documents (synthesized ambient programs) never exist on
// disk and so have no NormalizedPath of their own.
package provenance

import (
	"sort"

	"github.com/aurelia/aot/internal/source"
)

// Kind classifies what relationship a ProvenanceEdge records (§3.7).
type Kind string

const (
	KindOverlayExpr   Kind = "overlayExpr"
	KindOverlayMember Kind = "overlayMember"
	KindSSRNode       Kind = "ssrNode"
	KindCustom        Kind = "custom"
)

// rank orders Kind for lookup tie-breaking: overlayMember is the most
// specific (a single property access within a synthesized ambient
// program), overlayExpr next, everything else last (§3.7 "overlayMember <
// overlayExpr < other").
func (k Kind) rank() int {
	switch k {
	case KindOverlayMember:
		return 0
	case KindOverlayExpr:
		return 1
	default:
		return 2
	}
}

// Endpoint is one side of a ProvenanceEdge: a byte range within a
// document, optionally tied to the specific expression or DOM node it
// came from. Endpoint keeps its own Start/End rather than reusing
// source.Span's File field, since a ProvenanceEdge's documents are
// identified by DocumentURI — overlay documents (synthesized ambient
// programs) have a URI but no on-disk NormalizedPath.
type Endpoint struct {
	URI    source.DocumentURI
	Start  int
	End    int
	ExprID source.ExprID // source.NoExprID if not expression-shaped
	NodeID source.NodeID // source.NoNodeID if not DOM-shaped
}

func (e Endpoint) len() int { return e.End - e.Start }

func (e Endpoint) overlap(start, end int) int {
	lo, hi := max(e.Start, start), min(e.End, end)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Edge is one ProvenanceEdge (§3.7). Tag carries e.g. a member-access path
// ("user.profile.name") for overlayMember edges, used to break ties by
// depth of access.
type Edge struct {
	Kind Kind
	From Endpoint
	To   Endpoint
	Tag  string
}

// Index is the provenance edge store for one build: every edge kept in
// two URI-bucketed slices, one searchable from its From side and one from
// its To side.
type Index struct {
	byFrom map[source.DocumentURI][]*Edge
	byTo   map[source.DocumentURI][]*Edge
}

// New returns an empty Index.
func New() *Index {
	return &Index{byFrom: map[source.DocumentURI][]*Edge{}, byTo: map[source.DocumentURI][]*Edge{}}
}

// Add records e in both buckets.
func (ix *Index) Add(e *Edge) {
	ix.byFrom[e.From.URI] = append(ix.byFrom[e.From.URI], e)
	ix.byTo[e.To.URI] = append(ix.byTo[e.To.URI], e)
}

// FromURI returns every edge whose From.URI is uri, in insertion order.
func (ix *Index) FromURI(uri source.DocumentURI) []*Edge { return ix.byFrom[uri] }

// ToURI returns every edge whose To.URI is uri, in insertion order.
func (ix *Index) ToURI(uri source.DocumentURI) []*Edge { return ix.byTo[uri] }

// LookupFrom returns every edge whose From range overlaps [start, end) in
// uri, ranked most-specific first per §3.7's ordering (overlayMember <
// overlayExpr < other; ties broken by greater overlap with the query
// range, then a shorter edge span; overlayMember ties broken by a longer
// Tag, i.e. a deeper member-access path).
func (ix *Index) LookupFrom(uri source.DocumentURI, start, end int) []*Edge {
	return lookup(ix.byFrom, uri, start, end, func(e *Edge) Endpoint { return e.From })
}

// LookupTo mirrors LookupFrom over the To side, used when walking a
// provenance chain backwards from a generated location to its source.
func (ix *Index) LookupTo(uri source.DocumentURI, start, end int) []*Edge {
	return lookup(ix.byTo, uri, start, end, func(e *Edge) Endpoint { return e.To })
}

// AtOffset returns LookupFrom narrowed to the single byte at offset, the
// common case for a cursor-style "what produced the output at this point"
// query.
func (ix *Index) AtOffset(uri source.DocumentURI, offset int) []*Edge {
	return ix.LookupFrom(uri, offset, offset+1)
}

// Best returns the single highest-ranked edge among candidates, or nil if
// candidates is empty. candidates is typically the result of LookupFrom,
// LookupTo, or AtOffset.
func Best(candidates []*Edge) *Edge {
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

func lookup(buckets map[source.DocumentURI][]*Edge, uri source.DocumentURI, start, end int, endpointOf func(*Edge) Endpoint) []*Edge {
	var hits []*Edge
	for _, e := range buckets[uri] {
		if endpointOf(e).overlap(start, end) > 0 {
			hits = append(hits, e)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if ra, rb := a.Kind.rank(), b.Kind.rank(); ra != rb {
			return ra < rb
		}
		ea, eb := endpointOf(a), endpointOf(b)
		if oa, ob := ea.overlap(start, end), eb.overlap(start, end); oa != ob {
			return oa > ob
		}
		if la, lb := ea.len(), eb.len(); la != lb {
			return la < lb
		}
		if a.Kind == KindOverlayMember && b.Kind == KindOverlayMember && len(a.Tag) != len(b.Tag) {
			return len(a.Tag) > len(b.Tag)
		}
		return false
	})
	return hits
}
