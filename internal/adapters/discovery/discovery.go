// Package discovery finds candidate photo files in a directory.
package discovery

import (
	"fmt"
	"path/filepath"
	"sort"
)

// defaultPattern matches the photos the tool ranks. The scan is flat and
// case-sensitive; nested directories are out of scope.
const defaultPattern = "*.jpg"

// Scanner globs a directory for photo files.
type Scanner struct {
	pattern string
}

// Option applies a configuration option to the Scanner.
type Option func(*Scanner)

// WithPattern overrides the glob pattern used for the scan.
func WithPattern(pattern string) Option {
	return func(s *Scanner) {
		if pattern != "" {
			s.pattern = pattern
		}
	}
}

// NewScanner creates a scanner with configuration options applied.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{pattern: defaultPattern}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan returns the matching filenames in dir, sorted, relative to dir when
// dir is "." so identifiers stay stable across runs from the same directory.
func (s *Scanner) Scan(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, s.pattern))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}
