package recognize

import (
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/hostast"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/internal/value"
)

// staticShapeMember is the conventional static property name under which a
// class carries its compile-time resource configuration, e.g.
// `static $au = { type: 'custom-element', name: 'foo-bar' }`.
const staticShapeMember = "$au"

var staticShapeKinds = map[string]resource.Kind{
	"custom-element":      resource.KindCustomElement,
	"custom-attribute":    resource.KindCustomAttribute,
	"value-converter":     resource.KindValueConverter,
	"binding-behavior":    resource.KindBindingBehavior,
	"template-controller": resource.KindCustomAttribute,
}

// RecognizeStaticShape is recognizer 2 of §4.4: a static property bearing
// a compile-time configuration object tagged with a `type` discriminator.
func RecognizeStaticShape(file source.NormalizedPath, class *hostast.ClassDecl, seq *candidateSeq) (*Candidate, bool) {
	m := class.StaticByName(staticShapeMember)
	if m == nil || m.Value == nil {
		return nil, false
	}
	obj, ok := m.Value.(*value.Object)
	if !ok {
		return &Candidate{Gaps: []diag.Gap{{
			Kind: diag.GapDynamicValue,
			What: "static $au is not an object literal",
			Why:  "static-shape recognition requires a compile-time-known configuration object",
		}}}, true
	}
	typeVal, ok := obj.Property("type")
	if !ok {
		return nil, false
	}
	lit, ok := typeVal.(*value.Literal)
	if !ok || lit.Type != value.LitString {
		return &Candidate{Gaps: []diag.Gap{{Kind: diag.GapDynamicValue, What: "static $au.type is not a string literal"}}}, true
	}
	typeName, _ := lit.StringValue()
	kind, ok := staticShapeKinds[typeName]
	if !ok {
		return &Candidate{Gaps: []diag.Gap{{Kind: diag.GapInvalidResourceName, What: "unknown static $au.type " + typeName}}}, true
	}

	def := &resource.ResourceDef{
		Kind:       kind,
		ClassName:  resource.NewSourced(class.Name, class.Span, nil),
		File:       file,
		SourceKind: resource.SourceStaticShape,
		Confidence: diag.ConfidenceHigh,
	}
	if typeName == "template-controller" {
		def.IsTemplateController = true
	}
	if kind.IsElementLike() {
		def.Bindables = map[string]resource.Bindable{}
	}
	var gaps []diag.Gap
	applyConfigObject(def, kind, obj, &gaps)
	if def.Name.Val == "" {
		def.Name = resource.NewSourced(resource.CanonicalTagName(class.Name), class.Span, nil)
	}
	def.CandidateID = seq.next()
	return &Candidate{Def: def, Gaps: gaps}, true
}
