// Package registry implements registration analysis and the resource/scope
// graph of §4.5: it walks partially-evaluated module-scope values looking
// for registration sites, ties each to an evidence record, and assembles
// the root-plus-local scope graph those sites populate.
package registry

import (
	"strings"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/facts"
	"github.com/aurelia/aot/internal/hostast"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/internal/value"
)

// ScopeKind is the intended registration scope of one Evidence record.
type ScopeKind string

const (
	ScopeGlobal ScopeKind = "global"
	ScopeLocal  ScopeKind = "local"
)

// SiteKind classifies the registration site that produced an Evidence
// record (§4.5).
type SiteKind string

const (
	SitePluginEntry           SiteKind = "plugin-entry"
	SiteContainerRegister     SiteKind = "container-register"
	SiteStaticDependencies    SiteKind = "static-dependencies"
	SiteDecoratorDependencies SiteKind = "decorator-dependencies"
	SiteTemplateImport        SiteKind = "template-import"
	SiteLocalTemplate         SiteKind = "local-template"
)

// Evidence is one registration site: a resourceRef (resolved or
// unresolved) tied to the scope it registers into.
type Evidence struct {
	Site       SiteKind
	File       source.NormalizedPath
	Scope      ScopeKind
	Owner      source.NormalizedPath // component path owning a local scope; empty for global
	Ref        *resource.ResourceDef
	Unresolved bool
	Reason     string
	Span       source.Span
}

// TemplateImport is one `<import from="...">` or local-template definition
// found in a lowered template (§4.6); pkg/aot's discoverTemplateImports
// builds these from an owner's lowered DOM and passes them to Build.
type TemplateImport struct {
	Owner    source.NormalizedPath
	From     string
	Local    bool // true for a local-template definition rather than an <import>
	Resolved *resource.ResourceDef
	Span     source.Span
}

// Result is the outcome of registration analysis.
type Result struct {
	Evidence []Evidence
	Graph    *resource.Graph
	// Orphans are resources discovered by recognition but never tied to
	// any registration site (§4.5).
	Orphans []*resource.ResourceDef
}

// index resolves a class reference to the converged ResourceDef it
// produced, and tracks which defs registration analysis actually touched
// so orphans can be reported.
type index struct {
	byClass    map[string]*resource.ResourceDef
	registered map[*resource.ResourceDef]bool
}

func newIndex(defs []*resource.ResourceDef) *index {
	idx := &index{byClass: map[string]*resource.ResourceDef{}, registered: map[*resource.ResourceDef]bool{}}
	for _, d := range defs {
		idx.registered[d] = false
		if d.ClassName.Val != "" {
			idx.byClass[classKey(d.File, d.ClassName.Val)] = d
		}
	}
	return idx
}

func classKey(file source.NormalizedPath, className string) string {
	return string(file) + "#" + className
}

func (idx *index) lookupClass(file source.NormalizedPath, className string) (*resource.ResourceDef, bool) {
	d, ok := idx.byClass[classKey(file, className)]
	return d, ok
}

func (idx *index) markRegistered(d *resource.ResourceDef) {
	if d != nil {
		idx.registered[d] = true
	}
}

// Build runs registration analysis over every file in the program and
// assembles the resource/scope graph (§3.3, §4.5). defs is every
// converged ResourceDef in the project (§4.4's output); registers is the
// per-file top-level RegisterCalls extracted alongside FileFacts;
// templateImports is supplied once template lowering (§4.6) has run over
// the project's templates (empty until then).
func Build(
	program map[source.NormalizedPath]*facts.FileFacts,
	defs []*resource.ResourceDef,
	templateImports []TemplateImport,
) (Result, diag.List) {
	var diags diag.List
	idx := newIndex(defs)
	graph := resource.NewGraph()
	var evidence []Evidence

	evidence = append(evidence, registerDependencyEvidence(defs, idx, graph)...)

	for file, ff := range program {
		for _, call := range ff.Registers {
			for _, arg := range registrationArgs(call) {
				ev := Evidence{Site: classifyCallee(call.Callee), File: file, Scope: ScopeGlobal, Span: call.Span}
				if ref, ok := resolveArgRef(arg, idx); ok {
					ev.Ref = ref
					graph.Root.Col.Add(ref)
					idx.markRegistered(ref)
				} else {
					ev.Unresolved = true
					ev.Reason = unresolvedReason(arg)
					diags.Add(diag.Diagnostic{
						Code:     "unresolved-registration",
						Stage:    diag.StageRegister,
						Severity: diag.Warning,
						Message:  ev.Reason,
						Span:     call.Span,
					})
				}
				evidence = append(evidence, ev)
			}
		}
	}

	for _, ti := range templateImports {
		local := graph.LocalFor(ti.Owner)
		site := SiteTemplateImport
		if ti.Local {
			site = SiteLocalTemplate
		}
		ev := Evidence{Site: site, File: ti.Owner, Scope: ScopeLocal, Owner: ti.Owner, Span: ti.Span}
		if ti.Resolved != nil {
			ev.Ref = ti.Resolved
			local.Col.Add(ti.Resolved)
			idx.markRegistered(ti.Resolved)
		} else {
			ev.Unresolved = true
			ev.Reason = "template import " + ti.From + " could not be resolved to a recognized resource"
			diags.Add(diag.Diagnostic{
				Code:     "unresolved-template-import",
				Stage:    diag.StageRegister,
				Severity: diag.Warning,
				Message:  ev.Reason,
				Span:     ti.Span,
			})
		}
		evidence = append(evidence, ev)
	}

	var orphans []*resource.ResourceDef
	for _, d := range defs {
		if !idx.registered[d] {
			orphans = append(orphans, d)
		}
	}

	return Result{Evidence: evidence, Graph: graph, Orphans: orphans}, diags
}

// registerDependencyEvidence turns each converged resource's Dependencies
// list (populated by recognizers 1/2/4's `dependencies:`/`static
// dependencies = [...]` reading, §4.4) into local-scope evidence owned by
// the declaring file.
func registerDependencyEvidence(defs []*resource.ResourceDef, idx *index, graph *resource.Graph) []Evidence {
	var evidence []Evidence
	for _, d := range defs {
		if len(d.Dependencies) == 0 {
			continue
		}
		owner := d.File
		local := graph.LocalFor(owner)
		site := siteForSourceKind(d.SourceKind)
		idx.markRegistered(d)
		for _, className := range d.Dependencies {
			ev := Evidence{Site: site, File: owner, Scope: ScopeLocal, Owner: owner, Span: d.Name.Span}
			if ref, ok := idx.lookupClass(owner, className); ok {
				ev.Ref = ref
				local.Col.Add(ref)
				idx.markRegistered(ref)
			} else {
				ev.Unresolved = true
				ev.Reason = "dependency class " + className + " does not resolve to a recognized resource"
			}
			evidence = append(evidence, ev)
		}
	}
	return evidence
}

func siteForSourceKind(k resource.EvidenceSourceKind) SiteKind {
	if k == resource.SourceDefine {
		return SiteStaticDependencies
	}
	return SiteDecoratorDependencies
}

// classifyCallee distinguishes a direct container registration
// (`x.register(...)`) from a broader plugin-entry call (e.g. `Aurelia.use`,
// a conventional `.register`-free plugin surface still targeting the
// global scope).
func classifyCallee(callee string) SiteKind {
	if strings.HasSuffix(callee, ".register") {
		return SiteContainerRegister
	}
	return SitePluginEntry
}

// registrationArgs flattens a register call's arguments: arrays and
// resolved spreads expand in place so that `container.register(A, [B, C])`
// and `container.register(...plugins)` both yield one entry per resource.
func registrationArgs(call *hostast.RegisterCall) []value.Value {
	var out []value.Value
	for _, a := range call.Args {
		out = append(out, flattenArg(a)...)
	}
	return out
}

func flattenArg(v value.Value) []value.Value {
	switch x := v.(type) {
	case *value.Array:
		var out []value.Value
		for _, e := range x.Elements {
			out = append(out, flattenArg(e)...)
		}
		return out
	case *value.Spread:
		if x.Expanded != nil {
			var out []value.Value
			for _, e := range x.Expanded {
				out = append(out, flattenArg(e)...)
			}
			return out
		}
		return []value.Value{v}
	default:
		return []value.Value{v}
	}
}

// resolveArgRef maps one flattened registration argument to the
// ResourceDef it names, following resolved references one hop.
func resolveArgRef(v value.Value, idx *index) (*resource.ResourceDef, bool) {
	switch x := v.(type) {
	case *value.Class:
		return idx.lookupClass(x.FilePath, x.ClassName)
	case *value.Reference:
		if x.Target != nil {
			return resolveArgRef(x.Target, idx)
		}
	}
	return nil, false
}

func unresolvedReason(v value.Value) string {
	if u, ok := v.(*value.Unknown); ok {
		return "registration argument could not be resolved: " + u.Detail
	}
	return "registration argument is not a recognized resource reference"
}
