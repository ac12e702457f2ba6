// Package aotconfig loads a project-level `aot.toml` (§A.3), the
// file-sourced counterpart to internal/cfgflag's environment toggles:
// cache behavior, provenance-stripping, and the source/package roots a
// CLI invocation needs that an environment variable isn't a good fit
// for.
package aotconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/aurelia/aot/internal/cfgflag"
)

// Config is the decoded shape of aot.toml.
type Config struct {
	Project ProjectSection `toml:"project"`
	Cache   CacheSection   `toml:"cache"`
	Debug   DebugSection   `toml:"debug"`
}

// ProjectSection names the source roots aotctl/pkg/aot operate over.
type ProjectSection struct {
	SourceRoot  string   `toml:"source_root"`
	PackageRoot string   `toml:"package_root"`
	Exclude     []string `toml:"exclude"`
}

// CacheSection mirrors internal/pkgcache's options (§6.8), as read from
// the project file rather than the environment.
type CacheSection struct {
	Dir           string `toml:"dir"`
	Mode          string `toml:"mode"` // one of cfgflag.CacheMode's values
	SchemaVersion int    `toml:"schema_version"`
}

// DebugSection mirrors the bool toggles of internal/cfgflag.Config that
// make sense to pin per-project rather than per-invocation.
type DebugSection struct {
	StripSourced bool `toml:"strip_sourced"`
	TraceBind    bool `toml:"trace_bind"`
}

// Default returns the configuration aotctl falls back to when no
// aot.toml is present: look for sources in the current directory,
// read-write cache under ".aotcache".
func Default() Config {
	return Config{
		Project: ProjectSection{SourceRoot: ".", PackageRoot: "."},
		Cache:   CacheSection{Dir: ".aotcache", Mode: string(cfgflag.CacheReadWrite)},
	}
}

// Load reads and decodes path (typically "aot.toml"). A missing file is
// not an error: Load returns Default() so a project can opt into aotctl
// without first creating a config file.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("aotconfig: decode %s: %w", path, err)
	}
	return cfg, nil
}

// CacheMode parses Cache.Mode into cfgflag.CacheMode, reporting whether
// the value is one of the four modes §6.3 defines.
func (c Config) CacheMode() (cfgflag.CacheMode, bool) {
	mode := cfgflag.CacheMode(c.Cache.Mode)
	switch mode {
	case cfgflag.CacheOff, cfgflag.CacheReadOnly, cfgflag.CacheWriteOnly, cfgflag.CacheReadWrite:
		return mode, true
	default:
		return "", false
	}
}
