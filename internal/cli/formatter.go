package cli

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/idelchi/dirtree/internal/dirstat"
	"github.com/idelchi/dirtree/internal/lines"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
	// ReportPrefix is the file name prefix of saved reports.
	ReportPrefix = "dirtree-report-"
	// ReportTimeLayout timestamps saved report names.
	ReportTimeLayout = "20060102-150405"
)

// Report is the complete result of a scan as rendered by the formatters.
type Report struct {
	// Root is the scanned directory.
	Root string `json:"root"`
	// Tree holds the rendered tree lines, if requested.
	Tree []string `json:"tree,omitempty"`
	// TopExtensions is the number of extensions to display.
	TopExtensions int `json:"top_extensions"`
	// Stats is the finalized statistics snapshot.
	Stats *dirstat.Stats `json:"stats"`
}

// ReportFileName returns the timestamped name of a saved report.
func ReportFileName(now time.Time, ext string) string {
	return ReportPrefix + now.Format(ReportTimeLayout) + ext
}

// PrintJSON outputs the report in JSON format.
func PrintJSON(report Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// treePalette colors tree entries by kind.
type treePalette struct {
	dir, err, size func(a ...any) string
}

func newTreePalette(colored bool) treePalette {
	if !colored {
		return treePalette{dir: fmt.Sprint, err: fmt.Sprint, size: fmt.Sprint}
	}

	return treePalette{
		dir:  color.New(color.FgBlue, color.Bold).SprintFunc(),
		err:  color.New(color.FgRed).SprintFunc(),
		size: color.New(color.Faint).SprintFunc(),
	}
}

// PrintTree outputs the tree lines below root.
func PrintTree(root string, entries []dirstat.Line, writer io.Writer, colored bool) error {
	p := newTreePalette(colored)

	if _, err := fmt.Fprintln(writer, p.dir(root)); err != nil {
		return err
	}

	for _, l := range entries {
		var text string

		switch l.Kind {
		case dirstat.KindDirectory:
			text = l.Prefix + l.Branch() + p.dir(l.Name+"/")
		case dirstat.KindFile:
			text = l.Prefix + l.Branch() + l.Name + " " + p.size("("+humanize.IBytes(uint64(l.Size))+")") //nolint:gosec // Sizes are never negative
		default:
			text = p.err(l.String())
		}

		if _, err := fmt.Fprintln(writer, text); err != nil {
			return err
		}
	}

	return nil
}

func percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}

	return 100.0 * float64(part) / float64(total)
}

func bytesString(n int64) string {
	return humanize.IBytes(uint64(n)) //nolint:gosec // Sizes are never negative
}

// topExtensions returns up to n extensions ordered by size, largest first.
func topExtensions(stats *dirstat.Stats, n int) []string {
	exts := make([]string, 0, len(stats.SizeByExtension))
	for ext := range stats.SizeByExtension {
		exts = append(exts, ext)
	}

	slices.SortFunc(exts, func(a, b string) int {
		if c := cmp.Compare(stats.SizeByExtension[b], stats.SizeByExtension[a]); c != 0 {
			return c
		}

		return cmp.Compare(a, b)
	})

	if len(exts) > n {
		exts = exts[:n]
	}

	return exts
}

// topLineExtensions returns up to n extensions ordered by total lines, largest first.
func topLineExtensions(stats *dirstat.Stats, n int) []string {
	exts := make([]string, 0, len(stats.LinesByExtension))
	for ext := range stats.LinesByExtension {
		exts = append(exts, ext)
	}

	slices.SortFunc(exts, func(a, b string) int {
		if c := cmp.Compare(stats.LinesByExtension[b].Total, stats.LinesByExtension[a].Total); c != 0 {
			return c
		}

		return cmp.Compare(a, b)
	})

	if len(exts) > n {
		exts = exts[:n]
	}

	return exts
}

// PrintTable outputs statistics in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(report Report, writer io.Writer) error {
	stats := report.Stats

	fmt.Fprintln(writer, "\nTop extensions:")

	table := tablewriter.NewWriter(writer)
	table.Header("Extension", "Files", "Size", "Share")

	for _, ext := range topExtensions(stats, report.TopExtensions) {
		size := stats.SizeByExtension[ext]
		if err := table.Append(ext, strconv.FormatInt(stats.FilesByExtension[ext], 10),
			bytesString(size), fmt.Sprintf("%.1f%%", percent(size, stats.TotalSize))); err != nil {
			return err
		}
	}

	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(writer, "\nLargest files:")

	table = tablewriter.NewWriter(writer)
	table.Header("#", "Name", "Size", "Path")

	for i, f := range stats.LargestFiles {
		if err := table.Append(strconv.Itoa(i+1), f.Name, bytesString(f.Size), f.Path); err != nil {
			return err
		}
	}

	if err := table.Render(); err != nil {
		return err
	}

	if stats.CountLines {
		if err := printLines(report, writer); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "\nStats:\t")
	fmt.Fprintf(w, "Total files:\t%d\n", stats.TotalFiles)
	fmt.Fprintf(w, "Total directories:\t%d\n", stats.TotalDirectories)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", bytesString(stats.TotalSize), stats.TotalSize)
	fmt.Fprintf(w, "Average file size:\t%s\n", bytesString(int64(stats.AvgFileSize)))

	if stats.DeepestPath.Depth > 0 {
		fmt.Fprintf(w, "Deepest path:\t%s (depth %d)\n", stats.DeepestPath.Path, stats.DeepestPath.Depth)
	}

	if stats.ErrorCount > 0 {
		fmt.Fprintf(w, "Unreadable entries:\t%d\n", stats.ErrorCount)
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}

//nolint:forbidigo // This function prints output to the console.
func printLines(report Report, writer io.Writer) error {
	stats := report.Stats

	fmt.Fprintln(writer, "\nLines by extension:")

	table := tablewriter.NewWriter(writer)
	table.Header("Extension", "Total", "Code", "Comments", "Blank")

	row := func(name string, c lines.Count, code bool) error {
		if !code {
			return table.Append(name, strconv.Itoa(c.Total), "-", "-", "-")
		}

		return table.Append(name, strconv.Itoa(c.Total), strconv.Itoa(c.Code), strconv.Itoa(c.Comments), strconv.Itoa(c.Blank))
	}

	for _, ext := range topLineExtensions(stats, report.TopExtensions) {
		if err := row(ext, stats.LinesByExtension[ext], lines.IsCodeExtension(ext)); err != nil {
			return err
		}
	}

	table.Footer("TOTAL", strconv.Itoa(stats.TotalLines.Total), strconv.Itoa(stats.TotalLines.Code),
		strconv.Itoa(stats.TotalLines.Comments), strconv.Itoa(stats.TotalLines.Blank))

	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(writer, "Code files: %d, other files: %d\n", stats.CodeFileCount, stats.NonCodeFileCount)

	return nil
}
