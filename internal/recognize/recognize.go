package recognize

import (
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/facts"
	"github.com/aurelia/aot/internal/hostast"
)

// FileResult is one file's recognition output: every candidate produced by
// any recognizer, ready for convergence (§4.4).
type FileResult struct {
	Candidates []*Candidate
	Gaps       []diag.Gap
}

// RecognizeFile runs all four recognizers over one file's FileFacts.
// Recognizers 1-3 run per class, in order, with the first match winning
// for that class; recognizer 4 runs once per top-level define call. A
// class recognized by 1-3 and also targeted by a define call elsewhere in
// the same file yields two separate Candidates that convergence reduces
// together by shared (file, className).
func RecognizeFile(ff *facts.FileFacts, checkSibling SiblingTemplateChecker) FileResult {
	seq := newCandidateSeq(ff.Path)
	var result FileResult

	classesByName := make(map[string]*hostast.ClassDecl, len(ff.Classes))
	for _, c := range ff.Classes {
		classesByName[c.Name] = c
	}

	for _, class := range ff.Classes {
		if cand, ok := RecognizeDecorator(ff.Path, class, seq); ok {
			appendCandidate(&result, cand)
			continue
		}
		if cand, ok := RecognizeStaticShape(ff.Path, class, seq); ok {
			appendCandidate(&result, cand)
			continue
		}
		if cand, ok := RecognizeConvention(ff.Path, class, checkSibling, seq); ok {
			appendCandidate(&result, cand)
		}
	}

	for _, call := range ff.Defines {
		if cand, ok := RecognizeDefine(ff.Path, call, classesByName, seq); ok {
			appendCandidate(&result, cand)
		}
	}

	return result
}

func appendCandidate(result *FileResult, cand *Candidate) {
	if cand.Def != nil {
		result.Candidates = append(result.Candidates, cand)
	}
	result.Gaps = append(result.Gaps, cand.Gaps...)
}
