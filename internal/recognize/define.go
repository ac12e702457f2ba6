package recognize

import (
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/hostast"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/internal/value"
)

// defineCallees maps a recognized top-level factory call's dotted callee
// to the resource Kind it declares (recognizer 4, §4.4).
var defineCallees = map[string]resource.Kind{
	"CustomElement.define":   resource.KindCustomElement,
	"CustomAttribute.define": resource.KindCustomAttribute,
	"ValueConverter.define":  resource.KindValueConverter,
	"BindingBehavior.define": resource.KindBindingBehavior,
}

// RecognizeDefine is recognizer 4 of §4.4: a top-level factory call
// registered on the host API, e.g.
// `CustomElement.define({ name: 'foo-bar' }, FooBar)`.
func RecognizeDefine(file source.NormalizedPath, call *hostast.DefineCall, classes map[string]*hostast.ClassDecl, seq *candidateSeq) (*Candidate, bool) {
	kind, ok := defineCallees[call.Callee]
	if !ok {
		return nil, false
	}
	if len(call.Args) == 0 {
		return &Candidate{Gaps: []diag.Gap{{Kind: diag.GapDynamicValue, What: call.Callee + " called with no arguments"}}}, true
	}

	className := call.ClassRef
	classSpan := call.Span
	if cls, ok := classes[className]; ok {
		classSpan = cls.Span
	}

	def := &resource.ResourceDef{
		Kind:       kind,
		ClassName:  resource.NewSourced(className, classSpan, nil),
		File:       file,
		SourceKind: resource.SourceDefine,
		Confidence: diag.ConfidenceHigh,
	}
	if kind.IsElementLike() {
		def.Bindables = map[string]resource.Bindable{}
	}

	var gaps []diag.Gap
	switch first := call.Args[0].(type) {
	case *value.Literal:
		if first.Type == value.LitString {
			s, _ := first.StringValue()
			def.Name = resource.NewSourced(canonicalNameForKind(kind, s), first.Span(), first)
		} else {
			gaps = append(gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "define() name argument is not a string literal"})
		}
	case *value.Object:
		applyConfigObject(def, kind, first, &gaps)
	default:
		gaps = append(gaps, diag.Gap{Kind: diag.GapDynamicValue, What: "define() first argument has an unrecognized shape"})
	}
	if def.Name.Val == "" && className != "" {
		def.Name = resource.NewSourced(canonicalNameForKind(kind, className), classSpan, nil)
	}
	if className == "" {
		gaps = append(gaps, diag.Gap{
			Kind: diag.GapDynamicValue,
			What: "define() class argument could not be statically resolved",
			Why:  "the second argument was not a direct class reference",
		})
	}

	def.CandidateID = seq.next()
	return &Candidate{Def: def, Gaps: gaps}, true
}
