// File: pkg/merge/traversal.go
package merge

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Candidate is a regular file selected for merging.
type Candidate struct {
	Path    string // Absolute path on disk.
	RelPath string // Slash-separated path relative to the scan root.
	Size    int64
}

type collectOptions struct {
	logger *zap.Logger
	skip   map[string]struct{}
}

// CollectOption tunes Collect.
type CollectOption func(*collectOptions)

// WithLogger sets the logger used during traversal.
func WithLogger(logger *zap.Logger) CollectOption {
	return func(o *collectOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSkipPaths keeps the given files out of the result even if they match.
// Run uses it for the destination file so an output inside the scanned tree
// is not merged into itself on the next run.
func WithSkipPaths(paths ...string) CollectOption {
	return func(o *collectOptions) {
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil {
				o.skip[abs] = struct{}{}
				if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
					o.skip[filepath.Join(dir, filepath.Base(abs))] = struct{}{}
				}
			}
		}
	}
}

// Collect walks cfg.RootDir depth-first, visiting siblings in lexical order,
// and returns every regular file with a selected extension that is not below
// an excluded directory. Symlinked directories are not followed.
func Collect(ctx context.Context, cfg ScanConfig, opts ...CollectOption) ([]Candidate, error) {
	o := collectOptions{logger: zap.NewNop(), skip: map[string]struct{}{}}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	root, err := resolveRoot(cfg.RootDir())
	if err != nil {
		logger.Error("Invalid source directory", zap.String("path", cfg.RootDir()), zap.Error(err))
		return nil, err
	}
	logger.Debug("Starting file collection",
		zap.String("root", root),
		zap.Strings("extensions", cfg.Extensions()),
		zap.Strings("excludedDirs", cfg.ExcludedDirs()))

	var files []Candidate
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			logger.Error("Error accessing path during traversal", zap.String("path", path), zap.Error(walkErr))
			return &UnreadableFileError{Path: path, Err: walkErr}
		}

		if d.IsDir() {
			if path != root && cfg.IsExcludedDir(d.Name()) {
				logger.Debug("Skipping excluded directory", zap.String("directory", path))
				return filepath.SkipDir
			}
			return nil
		}

		if !cfg.HasExtension(d.Name()) {
			return nil
		}
		if _, skip := o.skip[path]; skip {
			logger.Debug("Skipping output path", zap.String("filePath", path))
			return nil
		}

		info, ok, err := regularFileInfo(path, d)
		if err != nil {
			return &UnreadableFileError{Path: path, Err: err}
		}
		if !ok {
			if d.Type()&fs.ModeSymlink != 0 {
				logger.Debug("Skipping symlink that does not resolve to a regular file", zap.String("filePath", path))
				return nil
			}
			logger.Debug("Skipping non-regular file", zap.String("filePath", path))
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, Candidate{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			Size:    info.Size(),
		})
		logger.Debug("Added file to merge list", zap.String("filePath", path))
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Completed file collection", zap.Int("files", len(files)))
	return files, nil
}

// resolveRoot returns the absolute, symlink-free root or an *InvalidRootError.
func resolveRoot(dir string) (string, error) {
	if dir == "" {
		return "", &InvalidRootError{Path: dir, Err: fs.ErrNotExist}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", &InvalidRootError{Path: dir, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", &InvalidRootError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return "", &InvalidRootError{Path: dir}
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}

// regularFileInfo resolves d to a regular file. Symlinks are followed only to
// files; links to directories, dangling or looping links and special files
// report false.
func regularFileInfo(path string, d fs.DirEntry) (fs.FileInfo, bool, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, false, nil
		}
		return info, info.Mode().IsRegular(), nil
	}
	if !d.Type().IsRegular() {
		return nil, false, nil
	}
	info, err := d.Info()
	if err != nil {
		return nil, false, err
	}
	return info, true, nil
}
