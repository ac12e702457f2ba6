package recognize

import (
	"testing"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
)

func TestConvergeRanksManifestOverConvention(t *testing.T) {
	file := source.NormalizedPath("foo.ts")
	manifest := &resource.ResourceDef{
		Kind: resource.KindCustomElement, ClassName: resource.NewSourced("Foo", source.NoSpan, nil),
		File: file, Name: resource.NewSourced("foo", source.NoSpan, nil),
		SourceKind: resource.SourceManifest, Confidence: diag.ConfidenceExact, CandidateID: "foo.ts#1",
	}
	convention := &resource.ResourceDef{
		Kind: resource.KindCustomElement, ClassName: resource.NewSourced("Foo", source.NoSpan, nil),
		File: file, Name: resource.NewSourced("foo", source.NoSpan, nil),
		SourceKind: resource.SourceConvention, Confidence: diag.ConfidenceLow, CandidateID: "foo.ts#2",
	}

	defs, gaps := Converge([]*Candidate{{Def: convention}, {Def: manifest}})
	if len(defs) != 1 {
		t.Fatalf("expected 1 converged def, got %d", len(defs))
	}
	if len(gaps) != 0 {
		t.Fatalf("expected no gaps, got %v", gaps)
	}
	if defs[0].SourceKind != resource.SourceManifest {
		t.Errorf("expected manifest evidence to win, got %s", defs[0].SourceKind)
	}
	if defs[0].Confidence != diag.ConfidenceHigh {
		t.Errorf("expected confidence raised to high on multi-evidence merge, got %s", defs[0].Confidence)
	}
}

func TestConvergeUnionsAliasesAndBindables(t *testing.T) {
	file := source.NormalizedPath("foo.ts")
	decorator := &resource.ResourceDef{
		Kind: resource.KindCustomElement, ClassName: resource.NewSourced("Foo", source.NoSpan, nil),
		File: file, Name: resource.NewSourced("foo", source.NoSpan, nil),
		Aliases:    []string{"foo-thing"},
		Bindables:  map[string]resource.Bindable{"value": {Name: resource.NewSourced("value", source.NoSpan, nil)}},
		SourceKind: resource.SourceDecorator, Confidence: diag.ConfidenceHigh, CandidateID: "foo.ts#1",
	}
	staticShape := &resource.ResourceDef{
		Kind: resource.KindCustomElement, ClassName: resource.NewSourced("Foo", source.NoSpan, nil),
		File: file, Name: resource.NewSourced("foo", source.NoSpan, nil),
		Aliases:    []string{"widget"},
		Bindables:  map[string]resource.Bindable{"label": {Name: resource.NewSourced("label", source.NoSpan, nil)}},
		SourceKind: resource.SourceStaticShape, Confidence: diag.ConfidenceHigh, CandidateID: "foo.ts#2",
	}

	defs, _ := Converge([]*Candidate{{Def: decorator}, {Def: staticShape}})
	if len(defs) != 1 {
		t.Fatalf("expected 1 converged def, got %d", len(defs))
	}
	def := defs[0]
	if len(def.Aliases) != 2 || def.Aliases[0] != "foo-thing" || def.Aliases[1] != "widget" {
		t.Errorf("expected sorted union of aliases, got %v", def.Aliases)
	}
	if _, ok := def.Bindables["value"]; !ok {
		t.Errorf("expected winner's bindable to survive, got %v", def.Bindables)
	}
	if _, ok := def.Bindables["label"]; !ok {
		t.Errorf("expected loser's bindable to be folded in, got %v", def.Bindables)
	}
}

func TestConvergeKeepsSeparateIdentitiesApart(t *testing.T) {
	foo := &resource.ResourceDef{
		Kind: resource.KindCustomElement, ClassName: resource.NewSourced("Foo", source.NoSpan, nil),
		File: "foo.ts", Name: resource.NewSourced("foo", source.NoSpan, nil),
		SourceKind: resource.SourceDecorator, CandidateID: "foo.ts#1",
	}
	bar := &resource.ResourceDef{
		Kind: resource.KindCustomElement, ClassName: resource.NewSourced("Bar", source.NoSpan, nil),
		File: "bar.ts", Name: resource.NewSourced("bar", source.NoSpan, nil),
		SourceKind: resource.SourceDecorator, CandidateID: "bar.ts#1",
	}
	defs, _ := Converge([]*Candidate{{Def: foo}, {Def: bar}})
	if len(defs) != 2 {
		t.Fatalf("expected 2 converged defs, got %d", len(defs))
	}
}
