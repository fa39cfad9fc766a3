// Package dirstat provides directory statistics collection and analysis.
//
// A Walker visits a directory tree depth-first in listing order, applying an
// exclusion filter, and yields one tree-formatted Line per entry while an
// Aggregator accumulates totals, per-extension breakdowns, the largest files,
// the deepest path and, optionally, line classification. Estimate performs a
// bounded parallel pre-scan with fastwalk to size progress reporting.
package dirstat
