package dirstat

import (
	"github.com/idelchi/dirtree/internal/filter"
)

const (
	// MinTopExtensions is the smallest accepted TopExtensions value.
	MinTopExtensions = 1
	// MaxTopExtensions is the largest accepted TopExtensions value.
	MaxTopExtensions = 20
	// DefaultTopExtensions is used when no value is configured.
	DefaultTopExtensions = 10
)

// Config is the validated, immutable configuration of one scan.
type Config struct {
	// Root is the absolute path of the scanned directory.
	Root string
	// Filter decides which entries are skipped.
	Filter filter.Filter
	// CountLines enables per-file line classification.
	CountLines bool
	// TopExtensions is the number of extensions shown by renderers.
	TopExtensions int
}
