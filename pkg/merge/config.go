// File: pkg/merge/config.go
package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions returns the extensions used when the caller supplies no
// usable one.
func DefaultExtensions() []string {
	return []string{"sol"}
}

// DefaultExcludedDirs returns the directory names skipped unless the caller
// opts out: version control, package managers and the build outputs of
// Solidity toolchains (Hardhat, Foundry, Truffle).
func DefaultExcludedDirs() []string {
	return []string{"node_modules", ".git", "build", "cache", "out", "artifacts"}
}

// ScanConfig is the resolved, immutable input of a single merge run.
type ScanConfig struct {
	rootDir      string
	extensions   []string
	extSet       map[string]struct{}
	excludedDirs []string
}

// NewScanConfig normalizes extensions and validates exclusion patterns.
// Extensions lose any leading dot and are lower-cased; an empty result falls
// back to DefaultExtensions. Exclusion entries are directory base name globs
// matched case-sensitively.
func NewScanConfig(rootDir string, extensions, excludedDirs []string) (ScanConfig, error) {
	exts := normalizeExtensions(extensions)
	if len(exts) == 0 {
		exts = normalizeExtensions(DefaultExtensions())
	}

	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[e] = struct{}{}
	}

	var excludes []string
	seen := map[string]bool{}
	for _, p := range excludedDirs {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		if strings.ContainsRune(p, '/') || !doublestar.ValidatePattern(p) {
			return ScanConfig{}, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
		seen[p] = true
		excludes = append(excludes, p)
	}

	return ScanConfig{
		rootDir:      rootDir,
		extensions:   exts,
		extSet:       set,
		excludedDirs: excludes,
	}, nil
}

// RootDir returns the directory the scan starts from, as given by the caller.
func (c ScanConfig) RootDir() string { return c.rootDir }

// Extensions returns the normalized extensions in sorted order.
func (c ScanConfig) Extensions() []string {
	return append([]string(nil), c.extensions...)
}

// ExcludedDirs returns the exclusion patterns in the order they were given.
func (c ScanConfig) ExcludedDirs() []string {
	return append([]string(nil), c.excludedDirs...)
}

// HasExtension reports whether name's extension is selected. The extension is
// the text after the last dot of the base name, so ".sol" has extension "sol".
func (c ScanConfig) HasExtension(name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return false
	}
	_, ok := c.extSet[strings.ToLower(name[i+1:])]
	return ok
}

// IsExcludedDir reports whether a directory with the given base name is pruned.
func (c ScanConfig) IsExcludedDir(name string) bool {
	for _, p := range c.excludedDirs {
		if p == name {
			return true
		}
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func normalizeExtensions(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range in {
		e = strings.ToLower(strings.TrimLeft(strings.TrimSpace(e), "."))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
