// Package config loads scan settings from an optional YAML file and turns
// them into a validated dirstat.Config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/idelchi/dirtree/internal/dirstat"
	"github.com/idelchi/dirtree/internal/filter"
)

// DefaultFile is the config file looked up in the scanned directory.
const DefaultFile = ".dirtree.yml"

var (
	// ErrInvalidPattern is returned for exclusion patterns that do not compile.
	ErrInvalidPattern = errors.New("invalid exclusion pattern")
	// ErrInvalidConfig is returned for out-of-range or malformed settings.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DefaultExcludes contains the default excluded names.
//
//nolint:gochecknoglobals // Config constant
var DefaultExcludes = []string{"node_modules", ".git"}

// File is the on-disk configuration. Unset fields leave settings unchanged.
type File struct {
	Exclude         []string `yaml:"exclude"`
	ExcludePatterns []string `yaml:"exclude-patterns"`
	CountLines      *bool    `yaml:"count-lines"`
	TopExtensions   *int     `yaml:"top-extensions"`
	GitIgnore       *bool    `yaml:"gitignore"`
}

// Settings are the raw, unvalidated scan settings.
type Settings struct {
	Root            string
	Exclude         []string
	ExcludePatterns []string
	CountLines      bool
	TopExtensions   int
	GitIgnore       bool
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		Root:          ".",
		Exclude:       append([]string(nil), DefaultExcludes...),
		TopExtensions: dirstat.DefaultTopExtensions,
	}
}

// Load reads and decodes the YAML file at path. Unknown keys are rejected.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading config %q: %w", path, err)
	}

	var file File

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("%w: decoding %q: %w", ErrInvalidConfig, path, err)
	}

	return file, nil
}

// Find returns the config file to use: explicit if given, otherwise
// DefaultFile inside root when it exists. ok is false when there is none.
func Find(root, explicit string) (path string, ok bool) {
	if explicit != "" {
		return explicit, true
	}

	path = filepath.Join(root, DefaultFile)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}

	return path, true
}

// Apply overlays the fields set in f.
func (s Settings) Apply(f File) Settings {
	if f.Exclude != nil {
		s.Exclude = f.Exclude
	}

	if f.ExcludePatterns != nil {
		s.ExcludePatterns = f.ExcludePatterns
	}

	if f.CountLines != nil {
		s.CountLines = *f.CountLines
	}

	if f.TopExtensions != nil {
		s.TopExtensions = *f.TopExtensions
	}

	if f.GitIgnore != nil {
		s.GitIgnore = *f.GitIgnore
	}

	return s
}

// Build validates s and produces the scan configuration. Patterns are
// compiled here so the engine never sees an invalid one.
func (s Settings) Build() (dirstat.Config, error) {
	if s.TopExtensions < dirstat.MinTopExtensions || s.TopExtensions > dirstat.MaxTopExtensions {
		return dirstat.Config{}, fmt.Errorf("%w: top-extensions must be between %d and %d, got %d",
			ErrInvalidConfig, dirstat.MinTopExtensions, dirstat.MaxTopExtensions, s.TopExtensions)
	}

	root := s.Root
	if root == "" {
		root = "."
	}

	root, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return dirstat.Config{}, fmt.Errorf("resolving absolute path: %w", err)
	}

	patterns, err := filter.Compile(s.ExcludePatterns)
	if err != nil {
		return dirstat.Config{}, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	f := filter.New(s.Exclude, patterns)

	if s.GitIgnore {
		ignore, err := filter.LoadGitIgnore(root)
		if err != nil {
			return dirstat.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

		if ignore != nil {
			f = f.WithIgnorer(ignore)
		}
	}

	return dirstat.Config{
		Root:          root,
		Filter:        f,
		CountLines:    s.CountLines,
		TopExtensions: s.TopExtensions,
	}, nil
}
