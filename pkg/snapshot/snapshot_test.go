package snapshot

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/resource"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/pkg/packageanalysis"
)

func widgetAnalysis(root string) packageanalysis.PackageAnalysis {
	return packageanalysis.PackageAnalysis{
		Name:    "my-widgets",
		Version: "1.0.0",
		Resources: []*resource.ResourceDef{
			{
				Kind:       resource.KindCustomElement,
				Name:       resource.NewSourced("my-widget", source.NoSpan, nil),
				ClassName:  resource.NewSourced("Widget", source.NoSpan, nil),
				File:       source.NormalizedPath(root + "/src/widget.ts"),
				SourceKind: resource.SourceDecorator,
				Confidence: diag.ConfidenceExact,
			},
		},
	}
}

func relativeTo(root string) func(string) string {
	return func(file string) string {
		return strings.TrimPrefix(strings.TrimPrefix(file, root), "/")
	}
}

func TestSymbolIDsAreStableAcrossRootDirectories(t *testing.T) {
	a := BuildSemanticSnapshot(widgetAnalysis("/home/alice/checkout"), OriginSource, relativeTo("/home/alice/checkout"))
	b := BuildSemanticSnapshot(widgetAnalysis("/ci/workspace/build-42"), OriginSource, relativeTo("/ci/workspace/build-42"))

	require.Len(t, a.Symbols, 1)
	require.Len(t, b.Symbols, 1)
	assert.Equal(t, a.Symbols[0].ID, b.Symbols[0].ID, "same logical package from different roots must get the same symbol id")

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("snapshots of the same logical package differ (-root-a +root-b):\n%s", diff)
	}
}

func TestSymbolIDChangesWithOrigin(t *testing.T) {
	fromSource := BuildSemanticSnapshot(widgetAnalysis("/app"), OriginSource, relativeTo("/app"))
	fromDependency := BuildSemanticSnapshot(widgetAnalysis("/app"), OriginDependency, relativeTo("/app"))

	assert.NotEqual(t, fromSource.Symbols[0].ID, fromDependency.Symbols[0].ID)
}

func TestApiSurfaceSnapshotFiltersByIsPublic(t *testing.T) {
	analysis := widgetAnalysis("/app")
	surface := BuildApiSurfaceSnapshot(analysis, OriginSource, relativeTo("/app"), func(d *resource.ResourceDef) bool {
		return d.Name.Val != "my-widget"
	})
	assert.Empty(t, surface.Symbols)
}

func TestSemanticVersionTag(t *testing.T) {
	assert.Equal(t, "aurelia-semantic-snapshot@1", SemanticVersion)
}
