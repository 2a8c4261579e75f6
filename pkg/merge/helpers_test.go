package merge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree creates files below root from slash-separated relative paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func relPaths(files []Candidate) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func mustScanConfig(t *testing.T, root string, exts, excludes []string) ScanConfig {
	t.Helper()
	cfg, err := NewScanConfig(root, exts, excludes)
	require.NoError(t, err)
	return cfg
}

// tempDir returns a fresh directory with symlinks resolved, so paths reported
// by Collect compare equal on systems where the temp dir is a link.
func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}
