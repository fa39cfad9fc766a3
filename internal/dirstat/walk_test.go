package dirstat_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idelchi/dirtree/internal/dirstat"
	"github.com/idelchi/dirtree/internal/filter"
)

// tree creates files (with content) and directories (trailing slash) under a temp root.
func tree(t *testing.T, entries map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range entries {
		path := filepath.Join(root, filepath.FromSlash(name))

		if strings.HasSuffix(name, "/") {
			require.NoError(t, os.MkdirAll(path, 0o755))

			continue
		}

		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return root
}

func config(t *testing.T, root string, names, patterns []string) dirstat.Config {
	t.Helper()

	matchers, err := filter.Compile(patterns)
	require.NoError(t, err)

	return dirstat.Config{
		Root:          root,
		Filter:        filter.New(names, matchers),
		TopExtensions: dirstat.DefaultTopExtensions,
	}
}

func render(cfg dirstat.Config, agg *dirstat.Aggregator) []string {
	var out []string
	for line := range dirstat.Walk(cfg, agg) {
		out = append(out, line.String())
	}

	return out
}

func TestWalk_Exclusions(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"a.txt":             "0123456789",
		".hidden/x.txt":     "x",
		"node_modules/y.js": "y",
	})

	cfg := config(t, root, []string{"node_modules"}, []string{`^\.`})
	agg := dirstat.NewAggregator(false, nil)

	require.Equal(t, []string{"└── a.txt"}, render(cfg, agg))

	agg.Finalize()
	stats := agg.Snapshot()
	require.EqualValues(t, 1, stats.TotalFiles)
	require.EqualValues(t, 0, stats.TotalDirectories)
	require.EqualValues(t, 10, stats.TotalSize)
	require.InDelta(t, 10.0, stats.AvgFileSize, 1e-9)
}

func TestWalk_RelativePathPattern(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"src/gen/a.go": "a",
		"gen/b.go":     "b",
		"src/keep.go":  "c",
	})

	cfg := config(t, root, nil, []string{`^src/gen$`})
	agg := dirstat.NewAggregator(false, nil)

	require.Equal(t, []string{
		"├── gen/",
		"│   └── b.go",
		"└── src/",
		"    └── keep.go",
	}, render(cfg, agg))
}

func TestWalk_TreeFormat(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"a/b.txt":   "bb",
		"a/c/d.txt": "ddd",
		"a/e/":      "",
		"z.txt":     "z",
	})

	cfg := config(t, root, nil, nil)
	agg := dirstat.NewAggregator(false, nil)

	require.Equal(t, []string{
		"├── a/",
		"│   ├── b.txt",
		"│   ├── c/",
		"│   │   └── d.txt",
		"│   └── e/",
		"└── z.txt",
	}, render(cfg, agg))

	stats := agg.Snapshot()
	require.EqualValues(t, 3, stats.TotalFiles)
	require.EqualValues(t, 3, stats.TotalDirectories)
	require.EqualValues(t, 6, stats.TotalSize)

	deepest := filepath.Join(root, "a", "c", "d.txt")
	require.Equal(t, deepest, stats.DeepestPath.Path)
	require.Equal(t, len(strings.FieldsFunc(filepath.ToSlash(deepest), func(r rune) bool { return r == '/' })),
		stats.DeepestPath.Depth)
}

func TestWalk_LineMetadata(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{"d/f.bin": "1234"})

	var got []dirstat.Line
	for line := range dirstat.Walk(config(t, root, nil, nil), dirstat.NewAggregator(false, nil)) {
		got = append(got, line)
	}

	require.Len(t, got, 2)
	require.Equal(t, dirstat.KindDirectory, got[0].Kind)
	require.Equal(t, 1, got[0].Depth)
	require.Equal(t, dirstat.KindFile, got[1].Kind)
	require.Equal(t, 2, got[1].Depth)
	require.EqualValues(t, 4, got[1].Size)
	require.Equal(t, filepath.Join(root, "d", "f.bin"), got[1].Path)
	require.Equal(t, dirstat.IndentClosed, got[1].Prefix)
}

func TestWalk_UnreadableRoot(t *testing.T) {
	t.Parallel()

	cfg := config(t, filepath.Join(t.TempDir(), "missing"), nil, nil)
	agg := dirstat.NewAggregator(false, nil)

	var got []dirstat.Line
	for line := range dirstat.Walk(cfg, agg) {
		got = append(got, line)
	}

	require.Len(t, got, 1)
	require.Equal(t, dirstat.KindDirectoryError, got[0].Kind)
	require.ErrorIs(t, got[0].Err, dirstat.ErrDirectoryRead)
	require.True(t, strings.HasPrefix(got[0].String(), "└── [error: "))
	require.EqualValues(t, 1, agg.Snapshot().ErrorCount)
}

func TestWalk_UnreadableSubdirectory(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := tree(t, map[string]string{
		"locked/secret.txt": "s",
		"open.txt":          "o",
	})

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	agg := dirstat.NewAggregator(false, nil)
	out := render(config(t, root, nil, nil), agg)

	require.Len(t, out, 3)
	require.Equal(t, "├── locked/", out[0])
	require.True(t, strings.HasPrefix(out[1], "│   └── [error: "))
	require.Equal(t, "└── open.txt", out[2])

	stats := agg.Snapshot()
	require.EqualValues(t, 1, stats.TotalFiles)
	require.EqualValues(t, 1, stats.TotalDirectories)
	require.EqualValues(t, 1, stats.ErrorCount)
}

func TestWalk_Progress(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{"a/b.txt": "b", "c.txt": "c"})

	var calls [][2]int64

	agg := dirstat.NewAggregator(false, nil)
	walker := dirstat.NewWalker(config(t, root, nil, nil), agg, dirstat.WithProgress(func(current, total int64) {
		calls = append(calls, [2]int64{current, total})
	}, 20))

	for range walker.Lines() { //nolint:revive // Drain the walk
	}

	require.Equal(t, [][2]int64{{1, 20}, {2, 20}, {3, 20}}, calls)
}

func TestWalk_StopEarly(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{"a.txt": "a", "b.txt": "b", "c.txt": "c"})
	agg := dirstat.NewAggregator(false, nil)

	for line := range dirstat.Walk(config(t, root, nil, nil), agg) {
		if line.Name == "b.txt" {
			break
		}
	}

	require.EqualValues(t, 1, agg.Snapshot().TotalFiles)
}

func TestWalk_CountLines(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"main.py": "# comment\n\ncode_line()\n",
		"app.js":  "/* start\nmiddle\nend */\ncode();\n",
		"README":  "one\ntwo\n",
		"bad.go":  "ok\n\xff\xfe\n",
	})

	cfg := config(t, root, nil, nil)
	cfg.CountLines = true

	agg := dirstat.NewAggregator(cfg.CountLines, nil)
	render(cfg, agg)

	stats := agg.Snapshot()
	require.True(t, stats.CountLines)
	require.EqualValues(t, 4, stats.TotalFiles)
	require.EqualValues(t, 1, stats.FilesByExtension[".go"])
	require.EqualValues(t, 6, stats.SizeByExtension[".go"])
	require.NotContains(t, stats.LinesByExtension, ".go")
	require.EqualValues(t, 2, stats.CodeFileCount)
	require.EqualValues(t, 1, stats.NonCodeFileCount)
	require.Equal(t, 3, stats.LinesByExtension[".py"].Total)
	require.Equal(t, 1, stats.LinesByExtension[".py"].Blank)
	require.Equal(t, 3, stats.LinesByExtension[".js"].Comments)
	require.Equal(t, 2, stats.TotalLines.Code)
	require.Equal(t, 9, stats.TotalLines.Total)
}
