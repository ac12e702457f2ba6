package inspect

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia/aot/internal/aottest"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/pkg/aot"
	"github.com/aurelia/aot/pkg/packageanalysis"
)

func TestInspectProducesStableShapeWithFixedClock(t *testing.T) {
	fs := aottest.NewFS(map[source.NormalizedPath]string{
		"/pkg/package.json": `{"name":"my-widgets","version":"1.0.0"}`,
	})
	loader := func(packageRoot string, fsHost aot.FileSystemHost) (aot.ProgramHost, bool) {
		file := source.NormalizedPath("/pkg/src/widget.ts")
		return aottest.NewProgram(aottest.SingleClassFile(file, "Widget", "customElement", aottest.StringLiteral("my-widget"))), true
	}
	fixedClock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	result := Inspect(context.Background(), "/pkg", fs, Options{
		Analysis:      packageanalysis.Options{SourceLoader: loader, PreferSource: true},
		AnalyzedFiles: []string{"/pkg/src/widget.ts"},
		Now:           func() time.Time { return fixedClock },
	})

	require.Len(t, result.Resources, 1)
	assert.Equal(t, "my-widget", result.Resources[0].Name.Val)
	assert.Equal(t, fixedClock, result.Meta.Timestamp)
	assert.Equal(t, []string{"/pkg/src/widget.ts"}, result.Meta.AnalyzedFiles)
	assert.Equal(t, "source", result.Meta.PrimaryStrategy)
	assert.Contains(t, result.Dependencies, "root")
}

func TestInspectReshapesGapsIntoDisplayView(t *testing.T) {
	fs := aottest.NewFS(nil)
	result := Inspect(context.Background(), "/missing", fs, Options{})

	require.Len(t, result.Gaps, 1)
	assert.Equal(t, "package-not-found", result.Gaps[0].Kind)
	assert.NotEmpty(t, result.Gaps[0].What)
	assert.Contains(t, result.Gaps[0].Where, "/missing/package.json")
}
