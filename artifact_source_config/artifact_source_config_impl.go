package artifact_source_config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/turbot/go-kit/helpers"

	localhelpers "github.com/turbot/tailpipe-plugin-envi/helpers"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

// ArtifactSourceConfigImpl holds the fields shared by all artifact source configs
type ArtifactSourceConfigImpl struct {
	// required to allow partial decoding
	Remain hcl.Body `hcl:",remain" json:"-"`

	// regular expression the base name of an artifact must match in full, defaults to `.*?\.bsq`
	Filter *string `hcl:"filter,optional"`

	// grok string defining the file layout and allowing metadata to be extracted
	FileLayout *string `hcl:"file_layout,optional"`

	// grok patterns to add to the grok parser used to parse the layout
	Patterns map[string]string `hcl:"patterns,optional"`

	Extensions []string `hcl:"extensions,optional"`
}

func (b *ArtifactSourceConfigImpl) Validate() error {
	if _, err := b.GetNameFilter(); err != nil {
		return err
	}
	if err := types.ValidateExtensions(b.Extensions); err != nil {
		return err
	}
	if b.FileLayout != nil {
		if _, err := localhelpers.NewGrokParser(b.Patterns, *b.FileLayout); err != nil {
			return fmt.Errorf("invalid file_layout: %w", err)
		}
	}
	return nil
}

func (b *ArtifactSourceConfigImpl) Identifier() string {
	return "artifact_source"
}

func (b *ArtifactSourceConfigImpl) GetFileLayout() *string {
	return b.FileLayout
}

func (b *ArtifactSourceConfigImpl) GetPatterns() map[string]string {
	return b.Patterns
}

func (b *ArtifactSourceConfigImpl) GetExtensions() []string {
	return b.Extensions
}

func (b *ArtifactSourceConfigImpl) GetNameFilter() (*types.NameFilter, error) {
	var pattern string
	if b.Filter != nil {
		pattern = *b.Filter
	}
	return types.NewNameFilter(pattern)
}

// DefaultTo copies the layout, filter and patterns of other where they are not set
func (b *ArtifactSourceConfigImpl) DefaultTo(other ArtifactSourceConfig) {
	if helpers.IsNil(other) {
		return
	}

	if b.FileLayout == nil {
		b.FileLayout = other.GetFileLayout()
	}
	if b.Patterns == nil {
		b.Patterns = other.GetPatterns()
	}
	if b.Extensions == nil {
		b.Extensions = other.GetExtensions()
	}
	if b.Filter == nil {
		if f, err := other.GetNameFilter(); err == nil {
			pattern := f.String()
			b.Filter = &pattern
		}
	}
}
