package aot

import (
	"testing"

	"github.com/aurelia/aot/internal/aottest"
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/hostast"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/internal/value"
)

func TestDiscoverProjectSemanticsRecognizesAndCompilesInlineTemplate(t *testing.T) {
	file := source.NormalizedPath("/app/foo-bar.ts")
	class := &hostast.ClassDecl{
		Name: "FooBar",
		Decorators: []*hostast.Decorator{
			{
				Name: "customElement",
				Args: []value.Value{
					value.NewObject(source.Span{}, []value.Property{
						{Key: "name", Val: aottest.StringLiteral("foo-bar")},
						{Key: "template", Val: aottest.StringLiteral("<div>${msg}</div>")},
					}, nil),
				},
			},
		},
	}
	host := aottest.NewProgram(&hostast.File{Path: file, Classes: []*hostast.ClassDecl{class}})

	result := DiscoverProjectSemantics(host, aottest.NewFS(nil), Config{})

	if len(result.Resources) != 1 {
		t.Fatalf("expected exactly one resource, got %d: %+v", len(result.Resources), result.Resources)
	}
	def := result.Resources[0]
	if def.Kind != resource.KindCustomElement || def.Name.Val != "foo-bar" {
		t.Errorf("expected a foo-bar custom element, got %+v", def)
	}

	tpl, ok := result.Templates[def.CandidateID]
	if !ok {
		t.Fatalf("expected a compiled template for %s", def.CandidateID)
	}
	if tpl.Emit == nil || tpl.Emit.Definition == nil {
		t.Errorf("expected emit to produce a definition, got %+v", tpl.Emit)
	}
	if result.Diagnostics.HasErrors() {
		t.Errorf("unexpected error diagnostics: %+v", result.Diagnostics.Items())
	}
}

func TestDiscoverProjectSemanticsCompilesSiblingExternalTemplate(t *testing.T) {
	file := source.NormalizedPath("/app/widget.ts")
	class := &hostast.ClassDecl{
		Name: "Widget",
		Decorators: []*hostast.Decorator{
			{Name: "customElement", Args: []value.Value{aottest.StringLiteral("my-widget")}},
		},
	}
	host := aottest.NewProgram(&hostast.File{Path: file, Classes: []*hostast.ClassDecl{class}})
	fs := aottest.NewFS(map[source.NormalizedPath]string{
		"/app/widget.html": "<p>hello</p>",
	})

	result := DiscoverProjectSemantics(host, fs, Config{})

	if len(result.Resources) != 1 {
		t.Fatalf("expected one resource, got %d", len(result.Resources))
	}
	def := result.Resources[0]
	tpl, ok := result.Templates[def.CandidateID]
	if !ok {
		t.Fatalf("expected the sibling .html template to be picked up and compiled")
	}
	if tpl.Plan == nil {
		t.Errorf("expected a non-nil plan")
	}
}

func TestCompileTemplateStandaloneRunsFullPipeline(t *testing.T) {
	scope := resource.NewRootScope()
	alloc := source.NewIDAllocator()

	result, diags := CompileTemplate(`<div if.bind="show">${name}</div>`, "inline.html", scope, alloc)

	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %+v", diags.Items())
	}
	if result.Module == nil || result.Linked == nil || result.Bind == nil || result.Type == nil || result.Plan == nil || result.Emit == nil {
		t.Fatalf("expected every pipeline stage to produce output, got %+v", result)
	}
}

func TestGapsToListTaggsStageAndSeverity(t *testing.T) {
	gaps := []diag.Gap{
		{Kind: diag.GapDynamicValue, What: "cannot resolve"},
		{Kind: diag.GapAnalysisFailed, What: "file excluded"},
	}
	list := gapsToList(diag.StageRecognize, gaps)
	items := list.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(items))
	}
	if items[0].Severity != diag.Warning {
		t.Errorf("expected a plain gap to be a warning, got %v", items[0].Severity)
	}
	if items[1].Severity != diag.Error {
		t.Errorf("expected analysis-failed to be an error, got %v", items[1].Severity)
	}
	for _, it := range items {
		if it.Stage != diag.StageRecognize {
			t.Errorf("expected stage %s, got %s", diag.StageRecognize, it.Stage)
		}
	}
}
