package types

import (
	"fmt"
	"path"
	"regexp"
)

// DefaultSceneFilter accepts band sequential scene files
const DefaultSceneFilter = `.*?\.bsq`

// NameFilter accepts artifacts whose base name matches a regular expression in full
type NameFilter struct {
	pattern string
	re      *regexp.Regexp
}

func NewNameFilter(pattern string) (*NameFilter, error) {
	if pattern == "" {
		pattern = DefaultSceneFilter
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("invalid filter '%s': %w", pattern, err)
	}
	return &NameFilter{pattern: pattern, re: re}, nil
}

// Accept returns whether the base name of the path (or object key) matches the filter
func (f *NameFilter) Accept(p string) bool {
	return f.re.MatchString(path.Base(LocalPath(p)))
}

func (f *NameFilter) String() string {
	return f.pattern
}
