// Package merge flattens the source files of a directory tree into a single
// file. Collect selects files by extension while pruning excluded
// directories, and Writer concatenates them behind per-file headers.
package merge

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Run collects the files selected by cfg and merges them into
// opts.OutputPath. The destination and its lock file are never merged into
// themselves.
func Run(ctx context.Context, cfg ScanConfig, opts WriteOptions, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()
	logger.Info("Starting merge", zap.String("directory", cfg.RootDir()), zap.String("outputFile", opts.OutputPath))

	files, err := Collect(ctx, cfg,
		WithLogger(logger),
		WithSkipPaths(opts.OutputPath, opts.LockPath()))
	if err != nil {
		logger.Error("Failed to collect files", zap.Error(err))
		return Result{}, fmt.Errorf("failed to collect files: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("No matching files found",
			zap.String("directory", cfg.RootDir()),
			zap.Strings("extensions", cfg.Extensions()))
	}

	res, err := NewWriter(opts, logger).Write(ctx, cfg, files)
	if err != nil {
		logger.Error("Failed to write merged file", zap.Error(err))
		return Result{}, fmt.Errorf("failed to merge files: %w", err)
	}

	logger.Info("Merge completed",
		zap.Int("totalFiles", len(res.Files)),
		zap.Int64("bytes", res.Bytes),
		zap.Duration("elapsed", time.Since(startTime)))
	return res, nil
}
