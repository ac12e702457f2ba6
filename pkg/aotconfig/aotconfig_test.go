package aotconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia/aot/internal/cfgflag"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "aot.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDecodesProjectAndCacheSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aot.toml")
	body := `
[project]
source_root = "src"
package_root = "packages"
exclude = ["dist", "node_modules"]

[cache]
dir = ".cache"
mode = "read"
schema_version = 2

[debug]
strip_sourced = true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0666))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.Project.SourceRoot)
	assert.Equal(t, "packages", cfg.Project.PackageRoot)
	assert.Equal(t, []string{"dist", "node_modules"}, cfg.Project.Exclude)
	assert.Equal(t, ".cache", cfg.Cache.Dir)
	assert.Equal(t, 2, cfg.Cache.SchemaVersion)
	assert.True(t, cfg.Debug.StripSourced)

	mode, ok := cfg.CacheMode()
	require.True(t, ok)
	assert.Equal(t, cfgflag.CacheReadOnly, mode)
}

func TestLoadRejectsInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aot.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0666))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestCacheModeRejectsUnknownValue(t *testing.T) {
	cfg := Config{Cache: CacheSection{Mode: "sometimes"}}
	_, ok := cfg.CacheMode()
	assert.False(t, ok)
}
