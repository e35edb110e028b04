package config_data

import "github.com/hashicorp/hcl/v2"

const (
	ConfigTypeSource     = "source"
	ConfigTypeOutput     = "output"
	ConfigTypeCollection = "collection"
)

type SourceConfigData struct {
	*ConfigDataImpl
	Type string
}

func NewSourceConfigData(hcl []byte, declRange hcl.Range, sourceType string) *SourceConfigData {
	return &SourceConfigData{
		ConfigDataImpl: &ConfigDataImpl{
			Hcl:        hcl,
			Range:      declRange,
			Id:         sourceType,
			ConfigType: ConfigTypeSource,
		},
		Type: sourceType,
	}
}
