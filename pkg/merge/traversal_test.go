package merge

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCollect_FiltersByExtensionAndExcludedDirs(t *testing.T) {
	root := tempDir(t)
	writeTree(t, root, map[string]string{
		"A.sol":                    "contract A {}",
		".sol":                     "contract Dot {}",
		"B.SOL":                    "contract B {}",
		"README.md":                "# readme",
		"Makefile":                 "all:",
		"test/C.sol":               "contract C {}",
		"lib/test/D.sol":           "contract D {}",
		"lib/E.sol":                "contract E {}",
		"node_modules/pkg/F.sol":   "contract F {}",
		"interfaces/IERC20.sol":    "interface IERC20 {}",
		"interfaces/IERC20.sol.md": "docs",
	})

	cfg := mustScanConfig(t, root, []string{"sol"}, append([]string{"test"}, DefaultExcludedDirs()...))
	files, err := Collect(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{".sol", "A.sol", "B.SOL", "interfaces/IERC20.sol", "lib/E.sol"}, relPaths(files))
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path), f.Path)
		assert.Positive(t, f.Size)
	}
}

func TestCollect_LexicalDepthFirstOrder(t *testing.T) {
	root := tempDir(t)
	writeTree(t, root, map[string]string{
		"b.sol":     "",
		"a/z.sol":   "",
		"a/b/c.sol": "",
		"a.sol":     "",
		"c/a.sol":   "",
	})

	cfg := mustScanConfig(t, root, nil, nil)
	first, err := Collect(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b/c.sol", "a/z.sol", "a.sol", "b.sol", "c/a.sol"}, relPaths(first))

	second, err := Collect(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCollect_RootIsNeverExcluded(t *testing.T) {
	root := filepath.Join(tempDir(t), "test")
	writeTree(t, root, map[string]string{"A.sol": "", "test/B.sol": ""})

	files, err := Collect(context.Background(), mustScanConfig(t, root, nil, []string{"test"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A.sol"}, relPaths(files))
}

func TestCollect_InvalidRoot(t *testing.T) {
	dir := tempDir(t)
	file := filepath.Join(dir, "file.sol")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	for _, root := range []string{filepath.Join(dir, "missing"), file, ""} {
		_, err := Collect(context.Background(), mustScanConfig(t, root, nil, nil))
		var rootErr *InvalidRootError
		require.ErrorAs(t, err, &rootErr, root)
		assert.Equal(t, root, rootErr.Path)
	}
}

func TestCollect_SkipPaths(t *testing.T) {
	root := tempDir(t)
	writeTree(t, root, map[string]string{"A.sol": "", "merged.sol": ""})

	files, err := Collect(context.Background(), mustScanConfig(t, root, nil, nil),
		WithSkipPaths(filepath.Join(root, "merged.sol")))
	require.NoError(t, err)
	assert.Equal(t, []string{"A.sol"}, relPaths(files))
}

func TestCollect_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := tempDir(t)
	outside := tempDir(t)
	writeTree(t, root, map[string]string{"real/A.sol": "contract A {}"})
	writeTree(t, outside, map[string]string{"Ext.sol": "contract Ext {}", "dir/Deep.sol": ""})

	require.NoError(t, os.Symlink(filepath.Join(outside, "Ext.sol"), filepath.Join(root, "Link.sol")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "dir"), filepath.Join(root, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.sol"), filepath.Join(root, "Broken.sol")))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "real", "loop")))

	files, err := Collect(context.Background(), mustScanConfig(t, root, nil, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"Link.sol", "real/A.sol"}, relPaths(files))
}

func TestCollect_UnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := tempDir(t)
	writeTree(t, root, map[string]string{"locked/A.sol": ""})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	_, err := Collect(context.Background(), mustScanConfig(t, root, nil, nil))
	var readErr *UnreadableFileError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, locked, readErr.Path)

	// An excluded directory is never opened.
	files, err := Collect(context.Background(), mustScanConfig(t, root, nil, []string{"locked"}))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCollect_Cancelled(t *testing.T) {
	root := tempDir(t)
	writeTree(t, root, map[string]string{"A.sol": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Collect(ctx, mustScanConfig(t, root, nil, nil))
	require.ErrorIs(t, err, context.Canceled)
}

func TestCollect_LogsSkippedDirectories(t *testing.T) {
	root := tempDir(t)
	writeTree(t, root, map[string]string{"mocks/M.sol": "", "A.sol": ""})

	core, logs := observer.New(zapcore.DebugLevel)
	_, err := Collect(context.Background(), mustScanConfig(t, root, nil, []string{"mocks"}), WithLogger(zap.New(core)))
	require.NoError(t, err)

	entries := logs.FilterMessage("Skipping excluded directory").All()
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(root, "mocks"), entries[0].ContextMap()["directory"])
}
