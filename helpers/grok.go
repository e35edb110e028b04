package helpers

import (
	"fmt"
	"regexp"

	"github.com/elastic/go-grok"
)

var namedGroupRegex = regexp.MustCompile(`%{\w+:(\w+)}`)

// ExtractNamedGroupsFromGrok extracts named groups from a Grok pattern
func ExtractNamedGroupsFromGrok(grokPattern string) []string {
	groupNames := []string{}
	for _, match := range namedGroupRegex.FindAllStringSubmatch(grokPattern, -1) {
		groupNames = append(groupNames, match[1])
	}
	return groupNames
}

// NewGrokParser returns a grok parser with the additional patterns added and the layout compiled
// only named captures are returned when parsing
func NewGrokParser(patterns map[string]string, layout string) (*grok.Grok, error) {
	g := grok.New()
	if len(patterns) > 0 {
		if err := g.AddPatterns(patterns); err != nil {
			return nil, fmt.Errorf("invalid patterns: %w", err)
		}
	}
	if err := g.Compile(layout, true); err != nil {
		return nil, err
	}
	return g, nil
}
