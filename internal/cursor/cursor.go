// Package cursor resolves a byte offset in a template or source document
// to its nearest enclosing semantic entity — an expression, a DOM node, a
// binding frame, or a resource reference — for editor-facing features
// (hover, go-to-definition, find-references) that need "what is at this
// position" rather than a diagnostic's fixed span.
//
// The offset-bucketed interval structure mirrors internal/provenance's
// index almost exactly (group entries by document URI, scan for span
// overlap, rank by specificity); cursor resolution differs only in its
// ranking rule — narrowest enclosing span wins outright, with entity kind
// only as a tie-break — since there is no analog here to provenance's
// overlayMember/overlayExpr distinction, just "which registered entity
// most tightly encloses this point."
package cursor

import (
	"sort"

	"github.com/aurelia/aot/internal/source"
)

// Kind tags which semantic entity an Entry describes.
type Kind string

const (
	KindExpression Kind = "expression"
	KindNode       Kind = "node"
	KindFrame      Kind = "frame"
	KindResource   Kind = "resourceRef"
)

// rank breaks a tie between two entries of equal span length: the more
// granular kind wins, on the theory that an editor feature asking "what's
// at this byte" usually wants the tightest-scoped thing it can act on
// (the expression under the cursor, not the frame it happens to live in).
func (k Kind) rank() int {
	switch k {
	case KindExpression:
		return 0
	case KindNode:
		return 1
	case KindFrame:
		return 2
	default:
		return 3
	}
}

// Entry is one resolvable semantic entity registered against a span of a
// document. Only the id field matching Kind is meaningful; the others are
// left at their zero/sentinel value.
type Entry struct {
	Kind  Kind
	URI   source.DocumentURI
	Start int
	End   int

	ExprID       source.ExprID
	NodeID       source.NodeID
	FrameID      source.FrameID
	ResourceName string
}

func (e *Entry) len() int { return e.End - e.Start }

func (e *Entry) contains(offset int) bool { return offset >= e.Start && offset < e.End }

// Index is the cursor-resolution table for one build.
type Index struct {
	byURI map[source.DocumentURI][]*Entry
}

// New returns an empty Index.
func New() *Index {
	return &Index{byURI: map[source.DocumentURI][]*Entry{}}
}

// Add registers e for lookup.
func (ix *Index) Add(e *Entry) {
	ix.byURI[e.URI] = append(ix.byURI[e.URI], e)
}

// At returns every entry enclosing offset within uri, narrowest first;
// entries of equal span length are ordered by Kind.rank (expression before
// node before frame before resource reference).
func (ix *Index) At(uri source.DocumentURI, offset int) []*Entry {
	var hits []*Entry
	for _, e := range ix.byURI[uri] {
		if e.contains(offset) {
			hits = append(hits, e)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if la, lb := a.len(), b.len(); la != lb {
			return la < lb
		}
		return a.Kind.rank() < b.Kind.rank()
	})
	return hits
}

// Resolve returns the single narrowest entity enclosing offset within
// uri, or nil if nothing is registered there.
func (ix *Index) Resolve(uri source.DocumentURI, offset int) *Entry {
	hits := ix.At(uri, offset)
	if len(hits) == 0 {
		return nil
	}
	return hits[0]
}
