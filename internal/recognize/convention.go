package recognize

import (
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/hostast"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
)

// SiblingTemplateChecker reports whether a same-basename `.html` file
// exists next to a `.ts`/`.js` source file, the sibling-file convention
// (§4.1 Glossary) this recognizer relies on. Supplied by the host via the
// FS context (§6.1); recognize never touches the filesystem directly.
type SiblingTemplateChecker func(file source.NormalizedPath) (source.NormalizedPath, bool)

// RecognizeConvention is recognizer 3 of §4.4: class-name + sibling-file
// inference, e.g. `foo.ts` + `foo.html` implies a custom element `foo`.
// Confidence is "low" in isolation (Example 2); convergence raises it to
// "high" when combined with other evidence for the same name.
func RecognizeConvention(file source.NormalizedPath, class *hostast.ClassDecl, checkSibling SiblingTemplateChecker, seq *candidateSeq) (*Candidate, bool) {
	if checkSibling == nil {
		return nil, false
	}
	if !class.Exported && !class.DefaultExport {
		return nil, false
	}
	if _, ok := checkSibling(file); !ok {
		return nil, false
	}
	name := resource.CanonicalTagName(class.Name)
	if name == "" {
		return &Candidate{Gaps: []diag.Gap{{
			Kind: diag.GapInvalidResourceName,
			What: "class name does not canonicalize to a usable element name",
		}}}, true
	}
	def := &resource.ResourceDef{
		Kind:       resource.KindCustomElement,
		Name:       resource.NewSourced(name, class.Span, nil),
		ClassName:  resource.NewSourced(class.Name, class.Span, nil),
		File:       file,
		SourceKind: resource.SourceConvention,
		Confidence: diag.ConfidenceLow,
		Bindables:  map[string]resource.Bindable{},
	}
	def.CandidateID = seq.next()
	return &Candidate{Def: def}, true
}
