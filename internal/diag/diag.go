// Package diag defines the diagnostic and gap types shared by every
// pipeline stage, modeled on the error list used throughout the teacher
// toolchain: a typed, position-aware error with a sortable, de-duplicating
// list accumulator and a continuation-friendly Diagnosed[T] writer.
package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/aurelia/aot/internal/source"
)

// Severity classifies a Diagnostic for display and confidence scoring.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Stage tags which pipeline stage produced a Diagnostic (§6.7).
type Stage string

const (
	StageExtract   Stage = "extract"
	StageEvaluate  Stage = "evaluate"
	StageRecognize Stage = "recognize"
	StageRegister  Stage = "register"
	StageLower     Stage = "lower"
	StageLink      Stage = "link"
	StageBind      Stage = "bind"
	StageTypecheck Stage = "typecheck"
	StagePlan      Stage = "plan"
	StageEmit      Stage = "emit"
	StageDiscovery Stage = "discovery"
)

// Diagnostic is a single typed, positioned diagnostic with a stable code.
type Diagnostic struct {
	Code     string
	Stage    Stage
	Severity Severity
	Message  string
	Span     source.Span
	URI      source.DocumentURI
	Data     any
}

func (d Diagnostic) Error() string {
	if d.Span.IsValid() {
		return fmt.Sprintf("%s: %s [%s]", d.Span, d.Message, d.Code)
	}
	return fmt.Sprintf("%s [%s]", d.Message, d.Code)
}

// List is an accumulating, sortable collection of Diagnostics. The zero
// List is ready to use.
type List struct {
	items []Diagnostic
}

// Add appends a Diagnostic.
func (l *List) Add(d Diagnostic) { l.items = append(l.items, d) }

// Addf appends an Error-severity Diagnostic built from a code and format.
func (l *List) Addf(stage Stage, code string, span source.Span, format string, args ...any) {
	l.Add(Diagnostic{
		Code:     code,
		Stage:    stage,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// Merge appends every item of other into l.
func (l *List) Merge(other List) { l.items = append(l.items, other.items...) }

// Items returns the accumulated diagnostics.
func (l List) Items() []Diagnostic { return l.items }

// Len reports the number of diagnostics.
func (l List) Len() int { return len(l.items) }

// HasErrors reports whether any item has Error severity.
func (l List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by (URI, span start, code) for stable,
// deterministic presentation; the sort is stable, so diagnostics equal on
// all three keep their production order. Stage is not a sort key. Sort is
// only used for display; pipeline-order emission is preserved in Items
// unless Sort is called explicitly.
func (l *List) Sort() {
	slices.SortStableFunc(l.items, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.URI, b.URI); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Span.Start, b.Span.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
}

// Sanitize removes every diagnostic whose code, URI and span repeat an
// earlier one's (message, stage and severity are not compared), preserving
// first-seen order.
func (l *List) Sanitize() {
	seen := make(map[string]bool, len(l.items))
	out := l.items[:0]
	for _, d := range l.items {
		key := fmt.Sprintf("%s|%s|%s", d.Code, d.URI, d.Span)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	l.items = out
}

// Details renders every diagnostic as one line, for debugging and tests.
func (l List) Details() string {
	var b strings.Builder
	for _, d := range l.items {
		fmt.Fprintf(&b, "%s: %s (%s/%s)\n", d.Severity, d.Error(), d.Stage, d.Code)
	}
	return b.String()
}

// Diagnosed pairs a value with the diagnostics accumulated while producing
// it. Every stage boundary (§A.1, §7 "Propagation") returns one of these
// instead of throwing: callers merge the List and continue with Value.
type Diagnosed[T any] struct {
	Value T
	Diags List
}

// Of wraps a value with an empty diagnostic list.
func Of[T any](v T) Diagnosed[T] { return Diagnosed[T]{Value: v} }

// WithDiags wraps a value with the given diagnostics.
func WithDiags[T any](v T, diags List) Diagnosed[T] {
	return Diagnosed[T]{Value: v, Diags: diags}
}

// Map transforms the wrapped value, preserving diagnostics.
func Map[T, U any](d Diagnosed[T], f func(T) U) Diagnosed[U] {
	return Diagnosed[U]{Value: f(d.Value), Diags: d.Diags}
}
