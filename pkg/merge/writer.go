// File: pkg/merge/writer.go
package merge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// DefaultCommentPrefix starts every line the writer adds around file content.
const DefaultCommentPrefix = "//"

const lockRetryDelay = 100 * time.Millisecond

// WriteOptions controls how the merged file is produced.
type WriteOptions struct {
	OutputPath       string // Destination file; replaced atomically.
	CommentPrefix    string // Prefix for preamble and header lines, DefaultCommentPrefix when empty.
	Tree             bool   // Include a tree of merged files in the preamble.
	AllowInvalidUTF8 bool   // Copy undecodable content verbatim instead of failing.
	Lock             bool   // Hold an advisory lock on OutputPath+".lock" while writing.
}

// LockPath returns the sidecar lock file used when Lock is set.
func (o WriteOptions) LockPath() string {
	return o.OutputPath + ".lock"
}

func (o WriteOptions) prefix() string {
	if o.CommentPrefix == "" {
		return DefaultCommentPrefix
	}
	return o.CommentPrefix
}

// Result describes a completed merge.
type Result struct {
	Files      []Candidate
	OutputPath string
	Bytes      int64
	Digest     uint64 // xxhash64 of the merged file.
}

// Writer merges candidates into a single file.
type Writer struct {
	opts   WriteOptions
	logger *zap.Logger
}

// NewWriter returns a Writer for opts. A nil logger disables logging.
func NewWriter(opts WriteOptions, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{opts: opts, logger: logger}
}

// HeaderLine returns the line written before the content of relPath. Paths
// containing line breaks are Go-quoted so the header stays on one line.
func (w *Writer) HeaderLine(relPath string) string {
	if strings.ContainsAny(relPath, "\r\n") {
		relPath = strconv.Quote(relPath)
	}
	return fmt.Sprintf("%s ==== Source: %s ====", w.opts.prefix(), relPath)
}

// Write reads files in order and writes them to the destination. Output goes
// to a temporary file in the destination directory which is renamed into
// place only after every file was read and written; on failure the
// destination is left as it was.
func (w *Writer) Write(ctx context.Context, cfg ScanConfig, files []Candidate) (Result, error) {
	out := w.opts.OutputPath
	logger := w.logger.With(zap.String("outputFile", out))

	if out == "" {
		return Result{}, &OutputWriteError{Path: out, Err: fmt.Errorf("no output path")}
	}

	dir := filepath.Dir(out)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error("Failed to create output directory", zap.String("path", dir), zap.Error(err))
		return Result{}, &OutputWriteError{Path: out, Err: err}
	}

	if w.opts.Lock {
		unlock, err := w.lock(ctx)
		if err != nil {
			return Result{}, err
		}
		defer unlock()
	}

	tmp, err := os.CreateTemp(dir, ".srcmerge-*.tmp")
	if err != nil {
		logger.Error("Failed to create temporary file", zap.Error(err))
		return Result{}, &OutputWriteError{Path: out, Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	digest := xxhash.New()
	counter := &countingWriter{}
	buf := bufio.NewWriter(io.MultiWriter(tmp, digest, counter))

	if err := w.writeStream(ctx, buf, cfg, files); err != nil {
		return Result{}, err
	}
	if err := buf.Flush(); err != nil {
		logger.Error("Failed to flush output", zap.Error(err))
		return Result{}, &OutputWriteError{Path: out, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return Result{}, &OutputWriteError{Path: out, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return Result{}, &OutputWriteError{Path: out, Err: err}
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return Result{}, &OutputWriteError{Path: out, Err: err}
	}
	if err := os.Rename(tmpPath, out); err != nil {
		logger.Error("Failed to move merged file into place", zap.String("tempFile", tmpPath), zap.Error(err))
		return Result{}, &OutputWriteError{Path: out, Err: err}
	}
	committed = true

	logger.Debug("Wrote merged file", zap.Int("files", len(files)), zap.Int64("bytes", counter.n))
	return Result{
		Files:      files,
		OutputPath: out,
		Bytes:      counter.n,
		Digest:     digest.Sum64(),
	}, nil
}

// writeStream emits the preamble followed by one block per file.
func (w *Writer) writeStream(ctx context.Context, buf *bufio.Writer, cfg ScanConfig, files []Candidate) error {
	out := w.opts.OutputPath
	prefix := w.opts.prefix()

	for _, line := range w.preamble(cfg, files) {
		if _, err := buf.WriteString(prefix + " " + line + "\n"); err != nil {
			return &OutputWriteError{Path: out, Err: err}
		}
	}

	if len(files) == 0 {
		_, err := buf.WriteString("\n" + prefix + " No matching files found\n")
		if err != nil {
			return &OutputWriteError{Path: out, Err: err}
		}
		return nil
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		content, err := w.readContent(f)
		if err != nil {
			return err
		}

		if _, err := buf.WriteString("\n" + w.HeaderLine(f.RelPath) + "\n"); err != nil {
			return &OutputWriteError{Path: out, Err: err}
		}
		if _, err := buf.Write(content); err != nil {
			w.logger.Error("Failed to write content to merged file",
				zap.String("file", out),
				zap.String("contentPath", f.RelPath),
				zap.Error(err))
			return &OutputWriteError{Path: out, Err: err}
		}
		if len(content) > 0 && content[len(content)-1] != '\n' {
			if err := buf.WriteByte('\n'); err != nil {
				return &OutputWriteError{Path: out, Err: err}
			}
		}
	}
	return nil
}

func (w *Writer) preamble(cfg ScanConfig, files []Candidate) []string {
	exts := cfg.Extensions()
	for i, e := range exts {
		exts[i] = "." + e
	}
	lines := []string{
		"Merged source files from " + cfg.RootDir(),
		"Extensions: " + strings.Join(exts, ", "),
	}
	if w.opts.Tree && len(files) > 0 {
		rel := make([]string, len(files))
		for i, f := range files {
			rel[i] = f.RelPath
		}
		lines = append(lines, "Files:")
		for _, l := range RenderTree(rel) {
			lines = append(lines, "  "+l)
		}
	}
	return lines
}

// readContent loads a whole file and applies the decoding policy.
func (w *Writer) readContent(f Candidate) ([]byte, error) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		w.logger.Error("Failed to read file", zap.String("filePath", f.Path), zap.Error(err))
		return nil, &UnreadableFileError{Path: f.Path, Err: err}
	}
	if !w.opts.AllowInvalidUTF8 {
		if reason := decodeProblem(content); reason != "" {
			w.logger.Error("File is not UTF-8 text", zap.String("filePath", f.Path), zap.String("reason", reason))
			return nil, &UnreadableFileError{Path: f.Path, Reason: reason}
		}
	}
	w.logger.Debug("Read file content", zap.String("filePath", f.Path), zap.Int("contentSizeBytes", len(content)))
	return content, nil
}

// lock takes the advisory lock, waiting until ctx is done.
func (w *Writer) lock(ctx context.Context) (func(), error) {
	lockPath := w.opts.LockPath()
	fl := flock.New(lockPath)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		w.logger.Error("Failed to acquire output lock", zap.String("lockFile", lockPath), zap.Error(err))
		return nil, &OutputWriteError{Path: w.opts.OutputPath, Err: fmt.Errorf("failed to acquire lock on %s: %w", lockPath, err)}
	}
	if !locked {
		return nil, &OutputWriteError{Path: w.opts.OutputPath, Err: fmt.Errorf("lock on %s not acquired", lockPath)}
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			w.logger.Warn("Failed to release output lock", zap.String("lockFile", lockPath), zap.Error(err))
		}
	}, nil
}

type countingWriter struct{ n int64 }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
