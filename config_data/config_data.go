package config_data

import (
	"github.com/hashicorp/hcl/v2"
)

// ConfigData is the config used to configure a source or an output
// it contains the type of the source/output, as well as the raw HCL config which the newly
// instantiated object must parse into the appropriate type
type ConfigData interface {
	GetHcl() []byte
	GetRange() hcl.Range
	Identifier() string
	GetConfigType() string
}

type ConfigDataImpl struct {
	Hcl   []byte
	Range hcl.Range
	// Id represent the type of the config:
	// - if this is a source config, this will be the source type
	// - if this is an output config, this will be the output type
	Id string
	// ConfigType is the type of the config data, i.e. source, output
	ConfigType string
}

// GetHcl returns the HCL config data
func (c *ConfigDataImpl) GetHcl() []byte {
	return c.Hcl
}

// GetRange returns the HCL range of the config data
func (c *ConfigDataImpl) GetRange() hcl.Range {
	return c.Range
}

// Identifier returns the identifier of the config data
func (c *ConfigDataImpl) Identifier() string {
	return c.Id
}

// GetConfigType returns the type of the config data
func (c *ConfigDataImpl) GetConfigType() string {
	return c.ConfigType
}

// NewCollectionConfigData returns the config data of a collection block
func NewCollectionConfigData(hcl []byte, declRange hcl.Range) *ConfigDataImpl {
	return &ConfigDataImpl{
		Hcl:        hcl,
		Range:      declRange,
		Id:         ConfigTypeCollection,
		ConfigType: ConfigTypeCollection,
	}
}
