package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

type ExtensionLookup map[string]struct{}

func NewExtensionLookup(extensions []string) ExtensionLookup {
	lookup := make(ExtensionLookup)
	for _, ext := range extensions {
		lookup[strings.ToLower(ext)] = struct{}{}
	}
	return lookup
}

func (l ExtensionLookup) IsValid(path string) bool {
	// empty lookup means all extensions are valid
	if len(l) == 0 {
		return true
	}

	_, valid := l[strings.ToLower(filepath.Ext(path))]
	return valid
}

// ValidateExtensions checks every extension is non empty and starts with '.'
func ValidateExtensions(extensions []string) error {
	var invalidExtensions []string
	for _, e := range extensions {
		if len(e) == 0 {
			invalidExtensions = append(invalidExtensions, "<empty>")
		} else if e[0] != '.' {
			invalidExtensions = append(invalidExtensions, e)
		}
	}
	if len(invalidExtensions) > 0 {
		return fmt.Errorf("invalid extensions: %s", strings.Join(invalidExtensions, ","))
	}
	return nil
}
