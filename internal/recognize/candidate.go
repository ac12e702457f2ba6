// Package recognize implements the four pattern recognizers and
// definition convergence of §4.4: decorator, static-shape, convention,
// and define-call matchers each produce at most one Candidate per class,
// and convergence reduces every Candidate sharing a logical resource
// identity into one authoritative resource.ResourceDef.
package recognize

import (
	"fmt"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
)

// Candidate is one recognizer's output for one class: a not-yet-converged
// ResourceDef plus any gaps produced while reading partially-evaluated
// configuration.
type Candidate struct {
	Def  *resource.ResourceDef
	Gaps []diag.Gap
}

// candidateSeq assigns stable, increasing candidate ids so that
// convergence's tie-break ("stable candidate id") is deterministic given
// the same input regardless of map iteration order.
type candidateSeq struct {
	file    source.NormalizedPath
	counter int
}

func newCandidateSeq(file source.NormalizedPath) *candidateSeq {
	return &candidateSeq{file: file}
}

func (s *candidateSeq) next() string {
	s.counter++
	return fmt.Sprintf("%s#%d", s.file, s.counter)
}
