// Package filter decides which directory entries are skipped during a scan.
//
// An entry is excluded when its base name is in the exact-name set, or when
// any pattern matches either its base name or its path relative to the scan
// root. An optional ignore file matcher is consulted last.
package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// Matcher reports whether a string matches.
type Matcher interface {
	MatchString(s string) bool
}

// Ignorer reports whether a path relative to the scan root is ignored.
type Ignorer interface {
	Ignored(relPath string, isDir bool) bool
}

// Filter is an immutable exclusion predicate.
type Filter struct {
	names    map[string]struct{}
	patterns []Matcher
	ignore   Ignorer
}

// New creates a Filter from exact names and pre-compiled patterns.
func New(names []string, patterns []Matcher) Filter {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}

	return Filter{
		names:    set,
		patterns: append([]Matcher(nil), patterns...),
	}
}

// WithIgnorer returns a copy of f that additionally consults ig.
func (f Filter) WithIgnorer(ig Ignorer) Filter {
	f.ignore = ig

	return f
}

// Compile compiles regular expressions into matchers, in order.
func Compile(exprs []string) ([]Matcher, error) {
	matchers := make([]Matcher, 0, len(exprs))

	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", expr, err)
		}

		matchers = append(matchers, re)
	}

	return matchers, nil
}

// Exclude reports whether the entry should be skipped.
// relPath is relative to the scan root and may use native separators.
func (f Filter) Exclude(name, relPath string, isDir bool) bool {
	if _, ok := f.names[name]; ok {
		return true
	}

	if f.Matched(name, relPath) != nil {
		return true
	}

	return f.ignore != nil && f.ignore.Ignored(relPath, isDir)
}

// Matched returns the first pattern, in configured order, that matches name
// or relPath, or nil.
func (f Filter) Matched(name, relPath string) Matcher {
	slashed := filepath.ToSlash(relPath)

	for _, m := range f.patterns {
		if m.MatchString(name) || m.MatchString(slashed) {
			return m
		}
	}

	return nil
}
