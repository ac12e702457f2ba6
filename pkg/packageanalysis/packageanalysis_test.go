package packageanalysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia/aot/internal/aottest"
	"github.com/aurelia/aot/internal/cfgflag"
	"github.com/aurelia/aot/internal/diag"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/pkg/aot"
)

func widgetPackageFS() *aottest.FS {
	return aottest.NewFS(map[source.NormalizedPath]string{
		"/pkg/package.json":  `{"name":"my-widgets","version":"1.2.0","dependencies":{"aurelia":"^2.0.0"}}`,
		"/pkg/src/widget.ts": "",
	})
}

func widgetLoader(ok bool) Loader {
	return func(packageRoot string, fsHost aot.FileSystemHost) (aot.ProgramHost, bool) {
		if !ok {
			return nil, false
		}
		file := source.NormalizedPath("/pkg/src/widget.ts")
		return aottest.NewProgram(aottest.SingleClassFile(file, "Widget", "customElement", aottest.StringLiteral("my-widget"))), true
	}
}

func TestAnalyzePackagePrefersSourceAndRecognizesResources(t *testing.T) {
	result := AnalyzePackage(context.Background(), "/pkg", widgetPackageFS(), Options{
		PreferSource:   true,
		SourceLoader:   widgetLoader(true),
		CompiledLoader: widgetLoader(false),
	})

	require.Equal(t, "my-widgets", result.Analysis.Name)
	require.Equal(t, "1.2.0", result.Analysis.Version)
	require.Equal(t, "source", result.PrimaryStrategy)
	require.Len(t, result.Analysis.Resources, 1)
	assert.Equal(t, diag.ConfidenceExact, result.Confidence)
}

func TestAnalyzePackageFallsBackToCompiledWhenSourceUnavailable(t *testing.T) {
	result := AnalyzePackage(context.Background(), "/pkg", widgetPackageFS(), Options{
		PreferSource:   true,
		SourceLoader:   widgetLoader(false),
		CompiledLoader: widgetLoader(true),
	})

	require.Equal(t, "compiled", result.PrimaryStrategy)
	assert.Equal(t, diag.ConfidenceHigh, result.Confidence, "compiled-source strategy should not claim exact confidence")
}

func TestAnalyzePackageReportsPackageNotFoundGap(t *testing.T) {
	result := AnalyzePackage(context.Background(), "/missing", aottest.NewFS(nil), Options{})

	require.Equal(t, diag.ConfidenceManual, result.Confidence)
	require.Len(t, result.Gaps, 1)
	assert.Equal(t, diag.GapPackageNotFound, result.Gaps[0].Kind)
}

func TestAnalyzePackageReportsNoSourceGapWhenNoLoaderMatches(t *testing.T) {
	result := AnalyzePackage(context.Background(), "/pkg", widgetPackageFS(), Options{
		SourceLoader:   widgetLoader(false),
		CompiledLoader: widgetLoader(false),
	})

	require.Equal(t, diag.ConfidenceManual, result.Confidence)
	require.NotEmpty(t, result.Gaps)
	assert.Equal(t, diag.GapNoSource, result.Gaps[0].Kind)
}

func TestAnalyzePackageRoundTripsThroughCache(t *testing.T) {
	dir := t.TempDir()
	fs := widgetPackageFS()
	opts := Options{
		PreferSource: true,
		SourceLoader: widgetLoader(true),
		Cache:        CacheOptions{Dir: dir, Fingerprint: "fp-1", Mode: cfgflag.CacheReadWrite},
	}

	first := AnalyzePackage(context.Background(), "/pkg", fs, opts)
	require.False(t, first.FromCache)
	require.Len(t, first.Analysis.Resources, 1)

	opts.SourceLoader = widgetLoader(false) // cache hit should not need the loader at all
	second := AnalyzePackage(context.Background(), "/pkg", fs, opts)
	require.True(t, second.FromCache)
	assert.Equal(t, first.Analysis.Name, second.Analysis.Name)
	assert.Len(t, second.Analysis.Resources, 1)
}

func TestAnalyzePackagesStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := AnalyzePackages(ctx, []string{"/pkg", "/pkg2"}, widgetPackageFS(), Options{
		SourceLoader: widgetLoader(true),
	})
	assert.Empty(t, results)
}

func TestIsAureliaPackageSniffsPeerDependencies(t *testing.T) {
	fs := aottest.NewFS(map[source.NormalizedPath]string{
		"/aurelia-pkg/package.json": `{"name":"x","peerDependencies":{"@aurelia/kernel":"^2.0.0"}}`,
		"/plain-pkg/package.json":   `{"name":"y","dependencies":{"lodash":"^4.0.0"}}`,
	})
	assert.True(t, IsAureliaPackage("/aurelia-pkg", fs))
	assert.False(t, IsAureliaPackage("/plain-pkg", fs))
	assert.False(t, IsAureliaPackage("/missing-pkg", fs))
}
