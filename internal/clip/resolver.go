package clip

import (
	"os"
	"path/filepath"
	"strings"
)

// probeExtensions is the ordered list of container extensions tried first
// when resolving the external tool's output, most preferred first.
var probeExtensions = []string{".mp4", ".mkv", ".webm"}

// outputResolver locates the file the external tool produced. The tool
// appends a self-chosen extension to the output template, so discovery is a
// two-phase lookup: probe the expected extensions in preference order, then
// fall back to scanning the directory for the base name.
type outputResolver interface {
	Resolve(dir, base string) (string, bool)
}

// probeScanResolver is the default outputResolver implementation.
type probeScanResolver struct{}

// Resolve implements outputResolver. It returns the first existing
// regular-file path among stem+ext probes, else the first directory entry
// whose name starts with "base.". ok is false when nothing matches.
func (probeScanResolver) Resolve(dir, base string) (string, bool) {
	stem := filepath.Join(dir, base)
	for _, ext := range probeExtensions {
		candidate := stem + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	prefix := base + "."
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			return filepath.Join(dir, entry.Name()), true
		}
	}
	return "", false
}
