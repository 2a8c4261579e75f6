// Package config loads the optional YAML file that supplies defaults for a
// merge run. Command-line flags take precedence over anything set here.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalNames are the file names searched for in the source directory.
var LocalNames = []string{".srcmerge.yml", ".srcmerge.yaml"}

// ErrNotFound is returned by LoadLocal when the directory has no config file.
var ErrNotFound = errors.New("no config file found")

// FileConfig is the on-disk YAML configuration shape. Nil fields are unset.
type FileConfig struct {
	Extensions      []string `yaml:"extensions"`
	Exclude         []string `yaml:"exclude"`
	DefaultExcludes *bool    `yaml:"default_excludes"`
	CommentPrefix   *string  `yaml:"comment_prefix"`
	Tree            *bool    `yaml:"tree"`
	Raw             *bool    `yaml:"raw"`
	Lock            *bool    `yaml:"lock"`
}

// LoadFile reads a YAML config file from the provided path. Unknown keys are
// rejected so typos do not pass silently.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// An empty file decodes to io.EOF; treat it as an empty config.
		if errors.Is(err, io.EOF) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal looks for one of LocalNames in dir and loads the first found.
// It returns the path that was loaded.
func LoadLocal(dir string) (FileConfig, string, error) {
	for _, name := range LocalNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			cfg, err := LoadFile(p)
			return cfg, p, err
		}
	}
	return FileConfig{}, "", ErrNotFound
}
