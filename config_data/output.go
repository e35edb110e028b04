package config_data

import "github.com/hashicorp/hcl/v2"

type OutputConfigData struct {
	*ConfigDataImpl
	Type string
}

func NewOutputConfigData(hcl []byte, declRange hcl.Range, outputType string) *OutputConfigData {
	return &OutputConfigData{
		ConfigDataImpl: &ConfigDataImpl{
			Hcl:        hcl,
			Range:      declRange,
			Id:         outputType,
			ConfigType: ConfigTypeOutput,
		},
		Type: outputType,
	}
}
