package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/mitchellh/go-homedir"
	"github.com/turbot/pipe-fittings/error_helpers"

	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/parse"
)

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: blockCollection},
		{Type: blockSource, LabelNames: []string{"type"}},
		{Type: blockOutput, LabelNames: []string{"type"}},
	},
}

// LoadFile reads and parses the config file at path
func LoadFile(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses a config file
// the file must have exactly one source block, and at most one collection block
func Parse(data []byte, filename string) (*Config, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, error_helpers.HclDiagsToError("Failed to parse config file", diags)
	}
	// validates the block types and labels
	_, contentDiags := file.Body.Content(fileSchema)
	if contentDiags.HasErrors() {
		return nil, error_helpers.HclDiagsToError("Failed to parse config file", contentDiags)
	}

	res := NewConfig()
	var collectionBlock *hclsyntax.Block
	for _, block := range file.Body.(*hclsyntax.Body).Blocks {
		hclBytes, hclRange := blockBody(data, block)
		switch block.Type {
		case blockCollection:
			if collectionBlock != nil {
				diags = append(diags, duplicateBlockDiag(block))
				continue
			}
			collectionBlock = block
			c, err := parse.ParseConfig[*CollectionConfig](config_data.NewCollectionConfigData(hclBytes, hclRange))
			if err != nil {
				return nil, err
			}
			res.Collection = c
		case blockSource:
			if res.Source != nil {
				diags = append(diags, duplicateBlockDiag(block))
				continue
			}
			res.Source = config_data.NewSourceConfigData(hclBytes, hclRange, block.Labels[0])
		case blockOutput:
			res.Outputs = append(res.Outputs, config_data.NewOutputConfigData(hclBytes, hclRange, block.Labels[0]))
		}
	}
	if res.Source == nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing source block",
			Detail:   "A source block is required.",
			Subject:  &hcl.Range{Filename: filename, Start: hcl.Pos{Line: 1, Column: 1}, End: hcl.Pos{Line: 1, Column: 1}},
		})
	}
	if diags.HasErrors() {
		return nil, error_helpers.HclDiagsToError("Failed to load config file", diags)
	}
	return res, nil
}

// blockBody returns the raw HCL between the braces of a block, and its range
func blockBody(data []byte, block *hclsyntax.Block) ([]byte, hcl.Range) {
	start := block.OpenBraceRange.End
	end := block.CloseBraceRange.Start
	return data[start.Byte:end.Byte], hcl.Range{
		Filename: block.OpenBraceRange.Filename,
		Start:    start,
		End:      end,
	}
}

func duplicateBlockDiag(block *hclsyntax.Block) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Duplicate %s block", block.Type),
		Detail:   fmt.Sprintf("Only one %s block is allowed.", block.Type),
		Subject:  block.DefRange().Ptr(),
	}
}
