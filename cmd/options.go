package cmd

import (
	"errors"
	"fmt"

	"srcmerge/pkg/config"
	"srcmerge/pkg/merge"
)

// Options holds the raw values gathered from the command line.
type Options struct {
	Extensions        []string
	Exclude           []string
	NoDefaultExcludes bool
	CommentPrefix     string
	Tree              bool
	Raw               bool
	Lock              bool
	ConfigPath        string
	Quiet             bool
	Verbose           bool
}

// ResolveOptions turns raw option values into a validated scan configuration
// and write options. changed reports whether a flag was given explicitly;
// explicit flags win over fc, which wins over built-in defaults. Exclusions
// accumulate: built-in defaults (unless disabled), then the file's, then the
// flag's.
func ResolveOptions(srcDir, output string, o Options, changed func(flag string) bool, fc config.FileConfig) (merge.ScanConfig, merge.WriteOptions, error) {
	if changed == nil {
		changed = func(string) bool { return false }
	}

	extensions := merge.DefaultExtensions()
	switch {
	case changed("extensions"):
		extensions = o.Extensions
	case fc.Extensions != nil:
		extensions = fc.Extensions
	}

	useDefaults := true
	switch {
	case changed("no-default-excludes"):
		useDefaults = !o.NoDefaultExcludes
	case fc.DefaultExcludes != nil:
		useDefaults = *fc.DefaultExcludes
	}
	var excludes []string
	if useDefaults {
		excludes = append(excludes, merge.DefaultExcludedDirs()...)
	}
	excludes = append(excludes, fc.Exclude...)
	excludes = append(excludes, o.Exclude...)

	scan, err := merge.NewScanConfig(srcDir, extensions, excludes)
	if err != nil {
		return merge.ScanConfig{}, merge.WriteOptions{}, err
	}

	if output == "" {
		return merge.ScanConfig{}, merge.WriteOptions{}, errors.New("output file must not be empty")
	}
	wopts := merge.WriteOptions{
		OutputPath:       output,
		CommentPrefix:    pickString(changed("comment-prefix"), o.CommentPrefix, fc.CommentPrefix, merge.DefaultCommentPrefix),
		Tree:             pickBool(changed("tree"), o.Tree, fc.Tree),
		AllowInvalidUTF8: pickBool(changed("raw"), o.Raw, fc.Raw),
		Lock:             pickBool(changed("lock"), o.Lock, fc.Lock),
	}
	if wopts.CommentPrefix == "" {
		return merge.ScanConfig{}, merge.WriteOptions{}, fmt.Errorf("comment prefix must not be empty")
	}
	return scan, wopts, nil
}

// loadFileConfig reads an explicit config file, or the one in srcDir if any.
func loadFileConfig(path, srcDir string) (config.FileConfig, string, error) {
	if path != "" {
		fc, err := config.LoadFile(path)
		if err != nil {
			return config.FileConfig{}, "", fmt.Errorf("failed to load config: %w", err)
		}
		return fc, path, nil
	}
	fc, found, err := config.LoadLocal(srcDir)
	if errors.Is(err, config.ErrNotFound) {
		return config.FileConfig{}, "", nil
	}
	if err != nil {
		return config.FileConfig{}, "", fmt.Errorf("failed to load config: %w", err)
	}
	return fc, found, nil
}

func pickString(flagSet bool, flagVal string, fileVal *string, def string) string {
	if flagSet {
		return flagVal
	}
	if fileVal != nil {
		return *fileVal
	}
	return def
}

func pickBool(flagSet bool, flagVal bool, fileVal *bool) bool {
	if flagSet {
		return flagVal
	}
	if fileVal != nil {
		return *fileVal
	}
	return false
}
