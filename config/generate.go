package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/turbot/tailpipe-plugin-envi/config_data"
)

// Attributes are the attributes of a generated source or output block
type Attributes map[string]cty.Value

// generatedRange is the range of config built from command line flags
var generatedRange = hcl.Range{Filename: "<flags>", Start: hcl.Pos{Line: 1, Column: 1}, End: hcl.Pos{Line: 1, Column: 1}}

// NewSourceConfigData builds source config data from attribute values, as if read from a source block
func NewSourceConfigData(sourceType string, attributes Attributes) *config_data.SourceConfigData {
	return config_data.NewSourceConfigData(attributes.hcl(), generatedRange, sourceType)
}

// NewOutputConfigData builds output config data from attribute values, as if read from an output block
func NewOutputConfigData(outputType string, attributes Attributes) *config_data.OutputConfigData {
	return config_data.NewOutputConfigData(attributes.hcl(), generatedRange, outputType)
}

// hcl returns the attributes as HCL, attributes with null values are omitted
func (a Attributes) hcl() []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for name, value := range a {
		if value.IsNull() {
			continue
		}
		body.SetAttributeValue(name, value)
	}
	return f.Bytes()
}
