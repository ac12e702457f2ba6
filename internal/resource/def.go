// Package resource implements the resource-definition data model (§3.2)
// and the resource/scope graph (§3.3): custom elements, custom attributes,
// template controllers, value converters, and binding behaviors, each
// canonicalized and tied back to their authoring location.
package resource

import (
	"encoding/json"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/internal/value"
)

// Kind is the tag of the ResourceDef union.
type Kind string

const (
	KindCustomElement      Kind = "custom-element"
	KindCustomAttribute    Kind = "custom-attribute"
	KindTemplateController Kind = "template-controller"
	KindValueConverter     Kind = "value-converter"
	KindBindingBehavior    Kind = "binding-behavior"
)

// EvidenceSourceKind records which recognizer (or manifest) produced a
// piece of evidence for a resource, used both for display and as the
// primary key of convergence ranking (§4.4).
type EvidenceSourceKind string

const (
	SourceManifest    EvidenceSourceKind = "manifest-resource"
	SourceDecorator   EvidenceSourceKind = "analyzed/decorator"
	SourceDefine      EvidenceSourceKind = "analyzed/define"
	SourceStaticShape EvidenceSourceKind = "analyzed/static-shape"
	SourceConvention  EvidenceSourceKind = "analyzed/convention"
)

// EvidenceRank orders EvidenceSourceKind for convergence: lower wins.
// manifest-resource(0) > analysis-explicit decorator/define(1) >
// analysis-explicit static-shape(2) > analysis-convention(4), matching the
// numeric gaps called out in §4.4 (3 is intentionally unused headroom for
// a future evidence kind).
func EvidenceRank(k EvidenceSourceKind) int {
	switch k {
	case SourceManifest:
		return 0
	case SourceDecorator, SourceDefine:
		return 1
	case SourceStaticShape:
		return 2
	case SourceConvention:
		return 4
	default:
		return 5
	}
}

// Sourced pairs a canonicalized value with its provenance: the span it was
// read from and, when available, the partially-evaluated expression node
// that produced it (§3.2).
type Sourced[T any] struct {
	Val    T
	Span   source.Span
	Origin value.Value
}

// NewSourced builds a Sourced pair.
func NewSourced[T any](v T, span source.Span, origin value.Value) Sourced[T] {
	return Sourced[T]{Val: v, Span: span, Origin: origin}
}

// sourcedWire is Sourced[T]'s JSON shape. Origin is an evaluation-time
// handle back into the partially-evaluated value graph, not serializable
// data, so it is dropped on the way out and left nil on the way back in —
// the same provenance-stripping pkg/inspect and pkg/snapshot need for
// diffable output (cfgflag.StripSourced trims the rest: Span).
type sourcedWire[T any] struct {
	Val  T           `json:"val"`
	Span source.Span `json:"span,omitempty"`
}

func (s Sourced[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(sourcedWire[T]{Val: s.Val, Span: s.Span})
}

func (s *Sourced[T]) UnmarshalJSON(data []byte) error {
	var w sourcedWire[T]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.Val, s.Span, s.Origin = w.Val, w.Span, nil
	return nil
}

// BindingMode mirrors the runtime's binding-mode enum.
type BindingMode string

const (
	ModeDefault  BindingMode = "default"
	ModeOneTime  BindingMode = "oneTime"
	ModeToView   BindingMode = "toView"
	ModeFromView BindingMode = "fromView"
	ModeTwoWay   BindingMode = "twoWay"
)

// Bindable describes one bindable property of an element-like resource.
type Bindable struct {
	Name      Sourced[string] // canonical camelCase
	Attribute Sourced[string] // canonical kebab-case; zero value means "derive from Name"
	Mode      BindingMode
	Primary   bool
}

// EffectiveAttribute returns the bindable's attribute alias, deriving it
// from the canonical property name when no explicit attribute was given.
func (b Bindable) EffectiveAttribute() string {
	if b.Attribute.Val != "" {
		return b.Attribute.Val
	}
	return CanonicalTagName(b.Name.Val)
}

// ResourceDef is the tagged union of §3.2: a discovered UI resource with
// its scope-independent metadata. Exactly one ResourceDef per logical
// resource survives convergence (§4.4); prior to convergence, several
// candidate ResourceDefs may exist for the same class/name.
type ResourceDef struct {
	Kind      Kind
	Name      Sourced[string]
	ClassName Sourced[string]
	File      source.NormalizedPath
	Aliases   []string

	// Element-like fields (custom-element, custom-attribute, template-controller).
	Bindables      map[string]Bindable
	Containerless  bool
	InlineTemplate string
	Dependencies   []string

	// custom-attribute / template-controller only.
	IsTemplateController bool
	NoMultiBindings      bool

	SourceKind EvidenceSourceKind
	Confidence diag.Confidence

	// CandidateID is a stable id for the pre-convergence evidence record
	// this definition was built from; convergence tie-breaks on it.
	CandidateID string
}

// IsElementLike reports whether this kind carries a Bindables map.
func (k Kind) IsElementLike() bool {
	switch k {
	case KindCustomElement, KindCustomAttribute, KindTemplateController:
		return true
	default:
		return false
	}
}

// Validate reports whether the canonicalization invariants hold (§3.2,
// §8.1). Authoring paths canonicalize at construction time and do not call
// it; nothing else in this module calls it either.
func (d *ResourceDef) Validate() bool {
	name := d.Name.Val
	switch d.Kind {
	case KindCustomElement, KindCustomAttribute, KindTemplateController:
		if CanonicalTagName(name) != name {
			return false
		}
	case KindValueConverter, KindBindingBehavior:
		if CanonicalLowerTrim(name) != name {
			return false
		}
	}
	aliases := append([]string(nil), d.Aliases...)
	canon := CanonicalAliases(aliases)
	if len(canon) != len(aliases) {
		return false
	}
	for i := range canon {
		if canon[i] != aliases[i] {
			return false
		}
	}
	return true
}
