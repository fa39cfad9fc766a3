package dirstat

import (
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/idelchi/dirtree/internal/lines"
)

// LargestFilesLimit is the number of largest files tracked.
const LargestFilesLimit = 5

// FileStat represents a single file and its size.
type FileStat struct {
	// Name is the base name of the file.
	Name string `json:"name"`
	// Size is the size in bytes.
	Size int64 `json:"size"`
	// Path is the full path of the file.
	Path string `json:"path"`
}

// DeepestPath is the path with the most segments seen so far.
type DeepestPath struct {
	Path  string `json:"path"`
	Depth int    `json:"depth"`
}

// Stats holds aggregate statistics for a directory walk.
type Stats struct {
	// TotalFiles is the number of files visited.
	TotalFiles int64 `json:"total_files"`
	// TotalDirectories is the number of directories visited, excluding the root.
	TotalDirectories int64 `json:"total_directories"`
	// TotalSize is the cumulative size of all visited files.
	TotalSize int64 `json:"total_size"`
	// FilesByExtension maps extensions to file counts.
	FilesByExtension map[string]int64 `json:"files_by_extension"`
	// SizeByExtension maps extensions to cumulative sizes.
	SizeByExtension map[string]int64 `json:"size_by_extension"`
	// LargestFiles holds the largest files, largest first.
	LargestFiles []FileStat `json:"largest_files"`
	// DeepestPath is the deepest file path seen.
	DeepestPath DeepestPath `json:"deepest_path"`
	// AvgFileSize is TotalSize / TotalFiles, set by finalization.
	AvgFileSize float64 `json:"avg_file_size"`
	// CountLines indicates whether line statistics were collected.
	CountLines bool `json:"count_lines"`
	// TotalLines sums line counts over all classified files.
	TotalLines lines.Count `json:"total_lines"`
	// LinesByExtension maps extensions to summed line counts.
	LinesByExtension map[string]lines.Count `json:"lines_by_extension"`
	// CodeFileCount is the number of classified code files.
	CodeFileCount int64 `json:"code_file_count"`
	// NonCodeFileCount is the number of classified non-code files.
	NonCodeFileCount int64 `json:"non_code_file_count"`
	// ErrorCount is the number of entries that could not be read.
	ErrorCount int64 `json:"error_count"`
	// Elapsed is the total time taken for analysis.
	Elapsed time.Duration `json:"elapsed"`
}

// Classifier counts the lines of a file.
type Classifier func(path string) (lines.FileInfo, error)

// Aggregator accumulates Stats for a single scan. It is not safe for
// concurrent use: the walker is its only writer.
type Aggregator struct {
	stats    Stats
	classify Classifier
	log      *slog.Logger
}

// NewAggregator creates an empty Aggregator. When countLines is set, every
// added file is passed through lines.Classify.
func NewAggregator(countLines bool, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	a := &Aggregator{
		stats: Stats{
			FilesByExtension: make(map[string]int64),
			SizeByExtension:  make(map[string]int64),
			LargestFiles:     make([]FileStat, 0, LargestFilesLimit+1),
			LinesByExtension: make(map[string]lines.Count),
			CountLines:       countLines,
		},
		log: logger,
	}

	if countLines {
		a.classify = lines.Classify
	}

	return a
}

// WithClassifier replaces the line classifier. A nil classifier disables line counting.
func (a *Aggregator) WithClassifier(c Classifier) *Aggregator {
	a.classify = c
	a.stats.CountLines = c != nil

	return a
}

// AddFile records a file of the given size.
func (a *Aggregator) AddFile(path string, size int64) {
	s := &a.stats

	s.TotalFiles++
	s.TotalSize += size

	ext := lines.Extension(path)
	s.FilesByExtension[ext]++
	s.SizeByExtension[ext] += size

	if a.classify != nil {
		a.addLines(path)
	}

	// Append, stable sort and trim so equal sizes keep insertion order.
	s.LargestFiles = append(s.LargestFiles, FileStat{Name: filepath.Base(path), Size: size, Path: path})
	slices.SortStableFunc(s.LargestFiles, func(x, y FileStat) int {
		switch {
		case x.Size > y.Size:
			return -1
		case x.Size < y.Size:
			return 1
		default:
			return 0
		}
	})

	if len(s.LargestFiles) > LargestFilesLimit {
		s.LargestFiles = s.LargestFiles[:LargestFilesLimit]
	}

	if depth := pathDepth(path); depth > s.DeepestPath.Depth {
		s.DeepestPath = DeepestPath{Path: path, Depth: depth}
	}
}

func (a *Aggregator) addLines(path string) {
	info, err := a.classify(path)
	if err != nil {
		a.log.Debug("skipping line count", "path", path, "error", err)

		return
	}

	s := &a.stats

	s.TotalLines.Add(info.Lines)

	perExt := s.LinesByExtension[info.Extension]
	perExt.Add(info.Lines)
	s.LinesByExtension[info.Extension] = perExt

	if info.IsCodeFile {
		s.CodeFileCount++
	} else {
		s.NonCodeFileCount++
	}
}

// AddDirectory records a directory.
func (a *Aggregator) AddDirectory() {
	a.stats.TotalDirectories++
}

// AddError records an entry that could not be read.
func (a *Aggregator) AddError() {
	a.stats.ErrorCount++
}

// Visited returns the number of files and directories recorded so far.
func (a *Aggregator) Visited() int64 {
	return a.stats.TotalFiles + a.stats.TotalDirectories
}

// Finalize computes derived fields. It is safe to call more than once.
func (a *Aggregator) Finalize() {
	if a.stats.TotalFiles == 0 {
		a.stats.AvgFileSize = 0

		return
	}

	a.stats.AvgFileSize = float64(a.stats.TotalSize) / float64(a.stats.TotalFiles)
}

// Snapshot returns a copy of the current statistics that shares no state
// with the Aggregator.
func (a *Aggregator) Snapshot() *Stats {
	s := a.stats

	s.FilesByExtension = maps.Clone(a.stats.FilesByExtension)
	s.SizeByExtension = maps.Clone(a.stats.SizeByExtension)
	s.LinesByExtension = maps.Clone(a.stats.LinesByExtension)
	s.LargestFiles = slices.Clone(a.stats.LargestFiles)

	return &s
}

// pathDepth returns the number of segments in path.
func pathDepth(path string) int {
	depth := 0

	for _, segment := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if segment != "" {
			depth++
		}
	}

	return depth
}
