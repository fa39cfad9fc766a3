// Package cli implements the dirtree command line.
package cli

import (
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/dirtree/internal/config"
	"github.com/idelchi/dirtree/internal/dirstat"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Command builds the root command.
//
//nolint:funlen // Flag declarations
func (c CLI) Command() *cobra.Command {
	var (
		opts options
		flag = config.Defaults()
	)

	allowedOutputs := []string{"table", "json"}

	cmd := &cobra.Command{
		Use:   "dirtree [flags] [path]",
		Short: "Print a directory tree with size, extension and line statistics",
		Long: heredoc.Doc(`
			dirtree walks a directory tree, prints it, and reports statistics:
			file and directory counts, sizes per extension, the largest files,
			the deepest path and, with --lines, code/comment/blank line counts.

			Settings are read from the file given with --config, or from
			` + config.DefaultFile + ` in the scanned directory when present.
			Flags that are set explicitly override the file.
		`),
		Args:          cobra.MaximumNArgs(1),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(allowedOutputs, opts.output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", opts.output, allowedOutputs)
			}

			settings := config.Defaults()
			if len(args) > 0 {
				settings.Root = args[0]
			}

			if path, ok := config.Find(settings.Root, opts.configPath); ok {
				file, err := config.Load(path)
				if err != nil {
					return err
				}

				settings = settings.Apply(file)
			}

			flags := cmd.Flags()
			if flags.Changed("exclude") {
				settings.Exclude = flag.Exclude
			}

			if flags.Changed("exclude-pattern") {
				settings.ExcludePatterns = flag.ExcludePatterns
			}

			if flags.Changed("lines") {
				settings.CountLines = flag.CountLines
			}

			if flags.Changed("top") {
				settings.TopExtensions = flag.TopExtensions
			}

			if flags.Changed("gitignore") {
				settings.GitIgnore = flag.GitIgnore
			}

			opts.settings = settings

			return logic(cmd.Context(), opts, streams{
				out:      cmd.OutOrStdout(),
				err:      cmd.ErrOrStderr(),
				terminal: stderrIsTerminal(),
			})
		},
	}

	f := cmd.Flags()
	f.SortFlags = false
	f.StringSliceVarP(&flag.Exclude, "exclude", "e", flag.Exclude, "Entry names to exclude (exact match)")
	f.StringSliceVarP(&flag.ExcludePatterns, "exclude-pattern", "p", nil,
		"Regex patterns to exclude, matched against names and paths relative to the root")
	f.BoolVarP(&flag.CountLines, "lines", "l", false, "Count code, comment and blank lines")
	f.IntVarP(&flag.TopExtensions, "top", "t", dirstat.DefaultTopExtensions,
		fmt.Sprintf("Number of extensions to display (%d-%d)", dirstat.MinTopExtensions, dirstat.MaxTopExtensions))
	f.BoolVar(&flag.GitIgnore, "gitignore", false, "Also exclude entries matched by the root .gitignore")
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	f.StringVarP(&opts.output, "output", "o", "table", "Output format: json or table")
	f.StringVarP(&opts.save, "save", "s", "", "Save the report to a timestamped file in this directory")
	f.BoolVar(&opts.noTree, "no-tree", false, "Do not print the tree")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Do not show progress")
	f.BoolVar(&opts.debug, "debug", false, "Enable debug output")

	return cmd
}
