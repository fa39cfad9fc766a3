package dirstat

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

const (
	// EstimateMaxDepth is the deepest level below the root counted by Estimate.
	EstimateMaxDepth = 4
	// EstimateFloor is the smallest value Estimate returns.
	EstimateFloor = 20
)

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// Estimate approximates the number of entries a walk of cfg.Root will visit.
// It counts files and directories down to EstimateMaxDepth levels below the
// root, honoring cfg.Filter, and never returns less than EstimateFloor.
// Unreadable branches contribute nothing. The result is only meant to size
// progress output.
func Estimate(ctx context.Context, cfg Config) int {
	var count atomic.Int64

	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	root := filepath.Clean(cfg.Root)

	//nolint:varnamelen // d is standard for DirEntry
	_ = fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Silently skip errors
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		depth := calculateDepth(path, root)
		if depth == 0 {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, root), string(filepath.Separator))
		if cfg.Filter.Exclude(d.Name(), rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		count.Add(1)

		if d.IsDir() && depth >= EstimateMaxDepth {
			return filepath.SkipDir
		}

		return nil
	})

	return max(int(count.Load()), EstimateFloor)
}
