package dirstat

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	// ErrDirectoryRead marks a directory whose entries could not be listed.
	ErrDirectoryRead = errors.New("reading directory")
	// ErrEntryStat marks an entry whose information could not be retrieved.
	ErrEntryStat = errors.New("reading entry info")
)

// Tree glyphs.
const (
	BranchMiddle = "├── "
	BranchLast   = "└── "
	IndentOpen   = "│   "
	IndentClosed = "    "
)

// EntryKind identifies what a Line describes.
type EntryKind int

const (
	// KindFile is a file entry.
	KindFile EntryKind = iota
	// KindDirectory is a directory entry, followed by its children.
	KindDirectory
	// KindEntryError is an entry whose info could not be read.
	KindEntryError
	// KindDirectoryError is the placeholder for an unreadable directory.
	KindDirectoryError
)

// Line is one entry of the tree output.
type Line struct {
	// Prefix is the continuation prefix inherited from ancestors.
	Prefix string
	// Last reports whether the entry is the last of its siblings.
	Last bool
	// Kind is the entry kind.
	Kind EntryKind
	// Name is the entry base name. Empty for KindDirectoryError.
	Name string
	// Path is the full path of the entry, or of the unreadable directory.
	Path string
	// Depth is the level below the scan root, starting at 1.
	Depth int
	// Size is the file size for KindFile.
	Size int64
	// Err is set for the error kinds.
	Err error
}

// Branch returns the branch marker of the entry.
func (l Line) Branch() string {
	if l.Last {
		return BranchLast
	}

	return BranchMiddle
}

// String renders the line without color.
func (l Line) String() string {
	switch l.Kind {
	case KindDirectory:
		return l.Prefix + l.Branch() + l.Name + "/"
	case KindEntryError:
		return fmt.Sprintf("%s%s%s [error: %v]", l.Prefix, l.Branch(), l.Name, l.Err)
	case KindDirectoryError:
		return fmt.Sprintf("%s%s[error: %v]", l.Prefix, l.Branch(), l.Err)
	default:
		return l.Prefix + l.Branch() + l.Name
	}
}

// ProgressFunc receives the number of visited entries and the estimated total.
type ProgressFunc func(current, total int64)

// Walker traverses a directory tree depth-first in listing order and feeds an Aggregator.
type Walker struct {
	cfg      Config
	agg      *Aggregator
	log      *slog.Logger
	progress ProgressFunc
	total    int64
	// info reads entry metadata.
	info func(fs.DirEntry) (fs.FileInfo, error)
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger used for skipped entries.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.log = logger
		}
	}
}

// WithProgress reports progress to fn after every visited entry, using total
// as the expected number of entries.
func WithProgress(fn ProgressFunc, total int64) Option {
	return func(w *Walker) {
		w.progress = fn
		w.total = total
	}
}

// NewWalker creates a Walker for cfg that records into agg.
func NewWalker(cfg Config, agg *Aggregator, opts ...Option) *Walker {
	w := &Walker{
		cfg:  cfg,
		agg:  agg,
		log:  slog.New(slog.DiscardHandler),
		info: fs.DirEntry.Info,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Walk is a shorthand for NewWalker(cfg, agg).Lines().
func Walk(cfg Config, agg *Aggregator) iter.Seq[Line] {
	return NewWalker(cfg, agg).Lines()
}

// Lines walks cfg.Root and yields one Line per entry. Statistics are
// recorded as entries are yielded; stopping the iteration early leaves the
// Aggregator with the entries seen so far. The root itself is not yielded.
func (w *Walker) Lines() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		w.walkDir(w.cfg.Root, "", "", 1, yield)
	}
}

// walkDir returns false when the consumer stopped the iteration.
//
//nolint:cyclop // Linear per-entry handling
func (w *Walker) walkDir(dir, rel, prefix string, depth int, yield func(Line) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.agg.AddError()
		w.log.Debug("cannot list directory", "path", dir, "error", err)

		return yield(Line{
			Prefix: prefix,
			Last:   true,
			Kind:   KindDirectoryError,
			Path:   dir,
			Depth:  depth,
			Err:    fmt.Errorf("%w: %w", ErrDirectoryRead, err),
		})
	}

	kept := entries[:0]

	for _, entry := range entries {
		entryRel := filepath.Join(rel, entry.Name())

		if w.cfg.Filter.Exclude(entry.Name(), entryRel, entry.IsDir()) {
			w.log.Debug("excluding", "path", filepath.ToSlash(entryRel))

			continue
		}

		kept = append(kept, entry)
	}

	for i, entry := range kept {
		line := Line{
			Prefix: prefix,
			Last:   i == len(kept)-1,
			Name:   entry.Name(),
			Path:   filepath.Join(dir, entry.Name()),
			Depth:  depth,
		}

		info, err := w.info(entry)
		if err != nil {
			w.agg.AddError()
			w.log.Debug("cannot stat entry", "path", line.Path, "error", err)

			line.Kind = KindEntryError
			line.Err = fmt.Errorf("%w: %w", ErrEntryStat, err)

			if !yield(line) {
				return false
			}

			continue
		}

		if info.IsDir() {
			line.Kind = KindDirectory

			if !yield(line) {
				return false
			}

			w.agg.AddDirectory()
			w.report()

			childPrefix := prefix + IndentOpen
			if line.Last {
				childPrefix = prefix + IndentClosed
			}

			if !w.walkDir(line.Path, filepath.Join(rel, entry.Name()), childPrefix, depth+1, yield) {
				return false
			}

			continue
		}

		line.Kind = KindFile
		line.Size = info.Size()

		if !yield(line) {
			return false
		}

		w.agg.AddFile(line.Path, line.Size)
		w.report()
	}

	return true
}

func (w *Walker) report() {
	if w.progress != nil {
		w.progress(w.agg.Visited(), w.total)
	}
}
