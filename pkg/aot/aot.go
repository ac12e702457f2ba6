// Package aot implements the compile API (§6.5): discoverProjectSemantics
// walks a whole project's source files through file-fact extraction,
// export binding, partial evaluation, pattern recognition, and
// registration analysis, then compiles every recognized resource's
// template through host-linking, scope binding, typecheck, plan, and
// emit. compileTemplate (template.go) exposes the same per-template
// pipeline standalone, for a caller that already has one template and a
// resource scope in hand.
package aot

import (
	"strings"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/evaluate"
	"github.com/aurelia/aot/internal/exports"
	"github.com/aurelia/aot/internal/facts"
	"github.com/aurelia/aot/internal/hostast"
	"github.com/aurelia/aot/internal/lower"
	"github.com/aurelia/aot/internal/obslog"
	"github.com/aurelia/aot/internal/recognize"
	"github.com/aurelia/aot/internal/registry"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
)

// ProgramHost is the pre-parsed program a caller supplies (§6.2): every
// source file's already-parsed host AST, plus module-specifier
// resolution. Program never parses host-language source itself.
type ProgramHost interface {
	SourceFiles() []*hostast.File
	ResolveModuleName(specifier string, fromFile source.NormalizedPath) (source.NormalizedPath, bool)
}

// FileSystemHost is the abstract file-system context of §6.1: the core
// only reads through it, it never writes.
type FileSystemHost interface {
	Read(path source.NormalizedPath) (string, bool)
	Exists(path source.NormalizedPath) bool
}

// Config bundles discoverProjectSemantics' options.
type Config struct {
	// FailOnFiles forces an analysis-failed gap for specific files
	// instead of evaluating them (§4.3's test hook).
	FailOnFiles evaluate.FailOnFiles
	Logger      *obslog.Logger
}

// ResolutionResult is discoverProjectSemantics' output (§6.5): semantics
// (facts + bindings), the converged catalog (resources), the resource/
// scope graph, compiled templates, and every diagnostic produced along
// the way.
type ResolutionResult struct {
	Facts    map[source.NormalizedPath]*facts.FileFacts
	Bindings *exports.Map

	Resources    []*resource.ResourceDef
	Registration registry.Result

	// Templates holds one compiled TemplateResult per resource that owns
	// a template, keyed by the resource's CandidateID (stable across a
	// run even when two resources share a File, e.g. two local templates
	// defined in the same module).
	Templates map[string]*TemplateResult

	Diagnostics diag.List
}

// DiscoverProjectSemantics runs the whole static-analysis pipeline over
// program (§6.5).
func DiscoverProjectSemantics(program ProgramHost, fsHost FileSystemHost, config Config) *ResolutionResult {
	logger := config.Logger
	if logger == nil {
		logger = obslog.New("discovery", nil)
	}
	var diags diag.List

	files := program.SourceFiles()
	extracted := facts.ExtractProgram(files)
	diags.Merge(extracted.Diags)
	programFacts := extracted.Value

	bindingsD := exports.Build(programFacts, program.ResolveModuleName)
	diags.Merge(bindingsD.Diags)
	bindings := bindingsD.Value

	driver := evaluate.NewDriver(evaluate.Program{
		Files:    programFacts,
		Bindings: bindings,
		Resolve:  program.ResolveModuleName,
	}, config.FailOnFiles)
	resolveProgram(driver, programFacts)

	siblingChecker := siblingTemplateChecker(fsHost)

	var candidates []*recognize.Candidate
	for _, ff := range programFacts {
		fr := recognize.RecognizeFile(ff, siblingChecker)
		candidates = append(candidates, fr.Candidates...)
		diags.Merge(gapsToList(diag.StageRecognize, fr.Gaps))
	}

	defs, convergeGaps := recognize.Converge(candidates)
	diags.Merge(gapsToList(diag.StageRecognize, convergeGaps))

	alloc := source.NewIDAllocator()
	preliminary, preliminaryDiags := registry.Build(programFacts, defs, nil)
	diags.Merge(preliminaryDiags)

	defsByFile := indexDefsByFile(defs)
	modules := map[string]moduleAndOwner{}
	var templateImports []registry.TemplateImport

	byClassName := func(owner *resource.ResourceDef) func(name string) *resource.ResourceDef {
		return func(name string) *resource.ResourceDef {
			for _, d := range defsByFile[owner.File] {
				if d.Name.Val == resource.CanonicalTagName(name) {
					return d
				}
			}
			return nil
		}
	}
	resolveSpecifier := func(owner *resource.ResourceDef) func(specifier string) *resource.ResourceDef {
		return func(specifier string) *resource.ResourceDef {
			targetFile, ok := program.ResolveModuleName(specifier, owner.File)
			if !ok {
				return nil
			}
			targetDefs := defsByFile[targetFile]
			if len(targetDefs) == 0 {
				return nil
			}
			return targetDefs[0]
		}
	}

	for _, def := range defs {
		if !def.Kind.IsElementLike() {
			continue
		}
		text, ok := templateTextFor(def, fsHost, siblingChecker)
		if !ok {
			continue
		}
		scope := preliminary.Graph.LocalFor(def.File)
		mod, lowerDiags := lower.Lower(text, def.File, scope, alloc)
		diags.Merge(lowerDiags)
		modules[def.CandidateID] = moduleAndOwner{mod: mod, owner: def}

		imports := discoverTemplateImports(mod, def.File, byClassName(def), resolveSpecifier(def))
		templateImports = append(templateImports, imports...)
	}

	final, finalDiags := registry.Build(programFacts, defs, templateImports)
	diags.Merge(finalDiags)

	templates := map[string]*TemplateResult{}
	for candidateID, mo := range modules {
		scope := final.Graph.LocalFor(mo.owner.File)
		res, compileDiags := compileLoweredTemplate(mo.mod, scope, alloc)
		diags.Merge(compileDiags)
		templates[candidateID] = res
	}

	logger.Stage(diag.StageDiscovery).Info("discovery complete",
		"resources", len(defs),
		"templates", len(templates),
		"diagnostics", diags.Len())

	return &ResolutionResult{
		Facts:        programFacts,
		Bindings:     bindings,
		Resources:    defs,
		Registration: final,
		Templates:    templates,
		Diagnostics:  diags,
	}
}

type moduleAndOwner struct {
	mod   *lower.IrModule
	owner *resource.ResourceDef
}

func gapsToList(stage diag.Stage, gaps []diag.Gap) diag.List {
	var l diag.List
	for _, g := range gaps {
		sev := diag.Warning
		if g.Kind == diag.GapAnalysisFailed {
			sev = diag.Error
		}
		d := diag.Diagnostic{
			Code:     string(g.Kind),
			Stage:    stage,
			Severity: sev,
			Message:  g.What,
			Data:     g,
		}
		if g.Where != nil {
			d.URI = source.DocumentURI(g.Where.File)
		}
		l.Add(d)
	}
	return l
}

func indexDefsByFile(defs []*resource.ResourceDef) map[source.NormalizedPath][]*resource.ResourceDef {
	out := map[source.NormalizedPath][]*resource.ResourceDef{}
	for _, d := range defs {
		out[d.File] = append(out[d.File], d)
	}
	return out
}

func siblingTemplateChecker(fsHost FileSystemHost) recognize.SiblingTemplateChecker {
	return func(file source.NormalizedPath) (source.NormalizedPath, bool) {
		if fsHost == nil {
			return "", false
		}
		candidate := htmlSiblingPath(file)
		if fsHost.Exists(candidate) {
			return candidate, true
		}
		return "", false
	}
}

func htmlSiblingPath(file source.NormalizedPath) source.NormalizedPath {
	s := string(file)
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[:i]
	}
	return source.NormalizedPath(s + ".html")
}

func templateTextFor(def *resource.ResourceDef, fsHost FileSystemHost, checkSibling recognize.SiblingTemplateChecker) (string, bool) {
	if def.InlineTemplate != "" {
		return def.InlineTemplate, true
	}
	if fsHost == nil {
		return "", false
	}
	siblingPath, ok := checkSibling(def.File)
	if !ok {
		return "", false
	}
	return fsHost.Read(siblingPath)
}
