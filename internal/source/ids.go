// Package source defines the stable identifiers and source spans shared by
// every other package in the module: normalized file paths, per-template
// monotonic ids, and half-open byte-offset spans.
package source

import (
	"fmt"
	"path"
	"strings"
)

// NormalizedPath is a canonical forward-slash absolute path, used as the
// map key for every file-scoped table in the module.
type NormalizedPath string

// Normalize converts an arbitrary OS path into a NormalizedPath: backslashes
// become slashes, the result is cleaned, and a leading slash is enforced for
// paths that already look absolute. Normalize is total and idempotent.
func Normalize(p string) NormalizedPath {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean(p)
	if p == "." {
		return ""
	}
	return NormalizedPath(p)
}

func (p NormalizedPath) String() string { return string(p) }

// SourceFileID identifies a single source file within a program. Two files
// with the same NormalizedPath always share a SourceFileID.
type SourceFileID struct {
	Path NormalizedPath
}

// DocumentURI is the editor-facing identifier for a file, kept distinct from
// SourceFileID because hosts may hand the core a URI scheme (file://, or a
// virtual overlay scheme) that differs from the canonical path used as map
// key internally.
type DocumentURI string

// ExprID identifies one parsed expression within a single template. ExprIDs
// are assigned in DOM pre-order during lowering and are stable across
// re-compilations of the same template text (§3.1).
type ExprID uint32

// NodeID identifies one DOM node within a single template's IR.
type NodeID uint32

// FrameID identifies one lexical frame (root or overlay) within a single
// template's scope module.
type FrameID uint32

// NoExprID, NoNodeID and NoFrameID are the zero-value sentinels: an
// allocator never assigns them to a real node.
const (
	NoExprID  ExprID  = 0
	NoNodeID  NodeID  = 0
	NoFrameID FrameID = 0
)

// IDAllocator hands out monotonically increasing ids of the three template
// id kinds, starting at 1 so the zero value remains a usable "none" sentinel.
type IDAllocator struct {
	nextExpr  ExprID
	nextNode  NodeID
	nextFrame FrameID
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{nextExpr: 1, nextNode: 1, nextFrame: 1}
}

func (a *IDAllocator) NextExpr() ExprID {
	id := a.nextExpr
	a.nextExpr++
	return id
}

func (a *IDAllocator) NextNode() NodeID {
	id := a.nextNode
	a.nextNode++
	return id
}

func (a *IDAllocator) NextFrame() FrameID {
	id := a.nextFrame
	a.nextFrame++
	return id
}

// Span is a half-open byte-offset range, optionally tied to a file. The zero
// Span is invalid (Start == End == 0 with no File) and IsValid reports false
// for it.
type Span struct {
	Start, End int
	File       NormalizedPath
}

// NoSpan is the invalid, file-less span.
var NoSpan = Span{}

// IsValid reports whether the span has non-negative, ordered offsets.
func (s Span) IsValid() bool {
	return s.Start >= 0 && s.End >= s.Start && (s.Start != 0 || s.End != 0 || s.File != "")
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether offset lies within the half-open span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Overlap returns the number of bytes s and o have in common, 0 if none or
// if they are in different files.
func (s Span) Overlap(o Span) int {
	if s.File != o.File {
		return 0
	}
	start := max(s.Start, o.Start)
	end := min(s.End, o.End)
	if end <= start {
		return 0
	}
	return end - start
}

// Rebase returns s shifted so that an offset measured relative to base
// becomes absolute within the containing document. Nothing in this module
// calls it; internal/expr takes its base offset at parse time instead.
func (s Span) Rebase(base int) Span {
	return Span{Start: s.Start + base, End: s.End + base, File: s.File}
}

func (s Span) String() string {
	if !s.IsValid() {
		return "-"
	}
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Start, s.End)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start, s.End)
}
