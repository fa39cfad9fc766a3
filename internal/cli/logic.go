package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/dirtree/internal/config"
	"github.com/idelchi/dirtree/internal/dirstat"
)

// options holds everything the command collected from flags and config.
type options struct {
	settings   config.Settings
	configPath string
	output     string
	save       string
	noTree     bool
	quiet      bool
	debug      bool
}

// streams are the sinks a run writes to.
type streams struct {
	out, err io.Writer
	// terminal reports whether err is an interactive terminal.
	terminal bool
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// checkRoot verifies that the scan root exists and is a directory.
func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("accessing path %q: %w", root, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path %q is not a directory", root)
	}

	return nil
}

func logic(ctx context.Context, opts options, s streams) error {
	log := newLogger(s.err, opts.debug)

	cfg, err := opts.settings.Build()
	if err != nil {
		return err
	}

	if err := checkRoot(cfg.Root); err != nil {
		return err
	}

	log.Debug("scan configured",
		"root", cfg.Root, "count_lines", cfg.CountLines, "top_extensions", cfg.TopExtensions,
		"exclude", opts.settings.Exclude, "exclude_patterns", opts.settings.ExcludePatterns)

	enableProgress := strings.ToLower(opts.output) != "json" &&
		!opts.debug &&
		!opts.quiet &&
		s.terminal

	walkOpts := []dirstat.Option{dirstat.WithLogger(log)}

	if enableProgress {
		estimated := dirstat.Estimate(ctx, cfg)

		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(s.err, "\033[?25l")
		defer fmt.Fprint(s.err, "\033[?25h")

		walkOpts = append(walkOpts, dirstat.WithProgress(func(current, total int64) {
			pct := min(percent(current, total), 100)
			fmt.Fprintf(s.err, "\r\033[2KScanning… %d/%d items (%.0f%%)\r", current, total, pct)
		}, int64(estimated)))
	}

	agg := dirstat.NewAggregator(cfg.CountLines, log)
	start := time.Now()

	// The tree is buffered so progress output never interleaves with it.
	var entries []dirstat.Line
	for line := range dirstat.NewWalker(cfg, agg, walkOpts...).Lines() {
		if ctx.Err() != nil {
			break
		}

		entries = append(entries, line)
	}

	// Clear the status line
	if enableProgress {
		fmt.Fprint(s.err, "\r\033[2K\r")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	agg.Finalize()

	stats := agg.Snapshot()
	stats.Elapsed = time.Since(start)

	report := Report{Root: cfg.Root, TopExtensions: cfg.TopExtensions, Stats: stats}

	if opts.save == "" {
		return render(report, entries, opts, s.out, !color.NoColor)
	}

	var buf bytes.Buffer
	if err := render(report, entries, opts, &buf, false); err != nil {
		return err
	}

	ext := ".txt"
	if strings.ToLower(opts.output) == "json" {
		ext = ".json"
	}

	path := filepath.Join(opts.save, ReportFileName(time.Now(), ext))
	if err := os.MkdirAll(opts.save, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // Reports are meant to be shared
		return fmt.Errorf("writing report: %w", err)
	}

	_, err = fmt.Fprintf(s.out, "Report saved to %s\n", path)

	return err
}

func render(report Report, entries []dirstat.Line, opts options, w io.Writer, colored bool) error {
	switch strings.ToLower(opts.output) {
	case "json":
		if !opts.noTree {
			report.Tree = make([]string, 0, len(entries))
			for _, l := range entries {
				report.Tree = append(report.Tree, l.String())
			}
		}

		return PrintJSON(report, w)
	case "table":
		if !opts.noTree {
			if err := PrintTree(report.Root, entries, w, colored); err != nil {
				return err
			}
		}

		return PrintTable(report, w)
	default:
		return fmt.Errorf("unknown output format: %s", opts.output)
	}
}

// stderrIsTerminal reports whether os.Stderr is attached to a terminal.
func stderrIsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd())
}
