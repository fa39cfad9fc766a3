package dirstat_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idelchi/dirtree/internal/dirstat"
	"github.com/idelchi/dirtree/internal/lines"
)

func sizes(files []dirstat.FileStat) []int64 {
	out := make([]int64, 0, len(files))
	for _, f := range files {
		out = append(out, f.Size)
	}

	return out
}

func TestAggregator_Totals(t *testing.T) {
	t.Parallel()

	agg := dirstat.NewAggregator(false, nil)
	agg.AddFile("/r/a.GO", 100)
	agg.AddFile("/r/b.go", 50)
	agg.AddFile("/r/Makefile", 7)
	agg.AddDirectory()
	agg.Finalize()

	stats := agg.Snapshot()
	require.EqualValues(t, 3, stats.TotalFiles)
	require.EqualValues(t, 1, stats.TotalDirectories)
	require.EqualValues(t, 157, stats.TotalSize)
	require.Equal(t, map[string]int64{".go": 2, lines.NoExtension: 1}, stats.FilesByExtension)
	require.Equal(t, map[string]int64{".go": 150, lines.NoExtension: 7}, stats.SizeByExtension)
	require.InDelta(t, 157.0/3.0, stats.AvgFileSize, 1e-9)
	require.False(t, stats.CountLines)
	require.Empty(t, stats.LinesByExtension)
	require.EqualValues(t, 4, agg.Visited())
}

func TestAggregator_LargestFiles(t *testing.T) {
	t.Parallel()

	agg := dirstat.NewAggregator(false, nil)
	for i, size := range []int64{100, 50, 200, 10, 300, 5} {
		agg.AddFile(filepath.Join("/r", string(rune('a'+i))), size)
	}

	stats := agg.Snapshot()
	require.Equal(t, []int64{300, 200, 100, 50, 10}, sizes(stats.LargestFiles))
	require.Equal(t, "e", stats.LargestFiles[0].Name)
	require.Equal(t, filepath.Join("/r", "e"), stats.LargestFiles[0].Path)
}

func TestAggregator_LargestFilesTiesKeepInsertionOrder(t *testing.T) {
	t.Parallel()

	agg := dirstat.NewAggregator(false, nil)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		agg.AddFile("/r/"+name, 1)
	}

	agg.AddFile("/r/big", 2)

	names := make([]string, 0, dirstat.LargestFilesLimit)
	for _, f := range agg.Snapshot().LargestFiles {
		names = append(names, f.Name)
	}

	require.Equal(t, []string{"big", "a", "b", "c", "d"}, names)
}

func TestAggregator_DeepestPath(t *testing.T) {
	t.Parallel()

	agg := dirstat.NewAggregator(false, nil)
	agg.AddFile("/a/b/c", 1)
	agg.AddFile("/a/x/y", 1)
	agg.AddFile("/a", 1)

	stats := agg.Snapshot()
	require.Equal(t, dirstat.DeepestPath{Path: "/a/b/c", Depth: 3}, stats.DeepestPath)

	agg.AddFile("/a/b/c/d", 1)
	require.Equal(t, 4, agg.Snapshot().DeepestPath.Depth)
}

func TestAggregator_FinalizeIdempotent(t *testing.T) {
	t.Parallel()

	empty := dirstat.NewAggregator(false, nil)
	empty.Finalize()
	require.Zero(t, empty.Snapshot().AvgFileSize)

	agg := dirstat.NewAggregator(false, nil)
	agg.AddFile("/a", 3)
	agg.AddFile("/b", 4)
	agg.Finalize()

	first := agg.Snapshot().AvgFileSize
	agg.Finalize()
	require.InDelta(t, 3.5, first, 1e-9)
	require.InDelta(t, first, agg.Snapshot().AvgFileSize, 1e-9)
}

func TestAggregator_SnapshotIsolated(t *testing.T) {
	t.Parallel()

	agg := dirstat.NewAggregator(false, nil)
	agg.AddFile("/a.txt", 1)

	snap := agg.Snapshot()
	snap.FilesByExtension[".txt"] = 99
	snap.LargestFiles[0].Size = 99

	again := agg.Snapshot()
	require.EqualValues(t, 1, again.FilesByExtension[".txt"])
	require.EqualValues(t, 1, again.LargestFiles[0].Size)
}

func TestAggregator_Lines(t *testing.T) {
	t.Parallel()

	results := map[string]lines.FileInfo{
		"/r/a.go":  {Extension: ".go", IsCodeFile: true, Lines: lines.Count{Total: 4, Code: 2, Comments: 1, Blank: 1}},
		"/r/b.go":  {Extension: ".go", IsCodeFile: true, Lines: lines.Count{Total: 2, Code: 2}},
		"/r/c.txt": {Extension: ".txt", Lines: lines.Count{Total: 10}},
	}

	agg := dirstat.NewAggregator(false, nil).WithClassifier(func(path string) (lines.FileInfo, error) {
		info, ok := results[path]
		if !ok {
			return lines.FileInfo{}, errors.New("unreadable")
		}

		return info, nil
	})

	agg.AddFile("/r/a.go", 10)
	agg.AddFile("/r/b.go", 20)
	agg.AddFile("/r/c.txt", 30)
	agg.AddFile("/r/broken.go", 40)

	stats := agg.Snapshot()
	require.True(t, stats.CountLines)
	require.EqualValues(t, 4, stats.TotalFiles)
	require.EqualValues(t, 100, stats.TotalSize)
	require.EqualValues(t, 3, stats.FilesByExtension[".go"])
	require.EqualValues(t, 2, stats.CodeFileCount)
	require.EqualValues(t, 1, stats.NonCodeFileCount)
	require.Equal(t, lines.Count{Total: 16, Code: 4, Comments: 1, Blank: 1}, stats.TotalLines)
	require.Equal(t, lines.Count{Total: 6, Code: 4, Comments: 1, Blank: 1}, stats.LinesByExtension[".go"])
	require.Equal(t, lines.Count{Total: 10}, stats.LinesByExtension[".txt"])
}
