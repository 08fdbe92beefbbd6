package utils

import (
	"fmt"
	"regexp"

	"github.com/samber/lo"
)

// FilterSet is a compiled set of exclusion patterns. A name is excluded
// when any pattern matches it; matching is case-sensitive and unanchored
// unless the pattern itself anchors.
type FilterSet struct {
	patterns []*regexp.Regexp
}

// CompileFilters compiles the given patterns. An invalid pattern fails the
// whole set so the run stops before any connection is attempted.
func CompileFilters(patterns []string) (*FilterSet, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}

	return &FilterSet{patterns: compiled}, nil
}

// Matches reports whether name matches any pattern in the set. A nil or
// empty set matches nothing.
func (f *FilterSet) Matches(name string) bool {
	if f == nil {
		return false
	}
	return lo.SomeBy(f.patterns, func(re *regexp.Regexp) bool {
		return re.MatchString(name)
	})
}

// Len returns the number of patterns in the set.
func (f *FilterSet) Len() int {
	if f == nil {
		return 0
	}
	return len(f.patterns)
}
