package main

import (
	"os"

	"github.com/aurelia/aot/internal/source"
)

// osFSHost implements aot.FileSystemHost directly against the local
// filesystem — the concrete realization of §6.1's abstract FS context
// for a CLI that has no other host to delegate to.
type osFSHost struct{}

func (osFSHost) Read(path source.NormalizedPath) (string, bool) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (osFSHost) Exists(path source.NormalizedPath) bool {
	_, err := os.Stat(string(path))
	return err == nil
}
