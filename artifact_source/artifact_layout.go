package artifact_source

import (
	"github.com/elastic/go-grok"
)

// getPathMetadata extracts the named captures of the file layout from a path
// the layout parser must be compiled anchored, i.e. it must match the whole path
func getPathMetadata(g *grok.Grok, path string) (bool, map[string]string, error) {
	if !g.MatchString(path) {
		return false, nil, nil
	}
	metadata, err := g.ParseString(path)
	if err != nil {
		return false, nil, err
	}
	return true, metadata, nil
}
