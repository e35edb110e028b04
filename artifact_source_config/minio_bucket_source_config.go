package artifact_source_config

import (
	"errors"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// MinioBucketSourceConfig is the configuration for a MinioBucketSource
type MinioBucketSourceConfig struct {
	ArtifactSourceConfigImpl
	// required to allow partial decoding
	Remain hcl.Body `hcl:",remain" json:"-"`

	// host[:port], without scheme
	Endpoint  string  `hcl:"endpoint"`
	Bucket    string  `hcl:"bucket"`
	Prefix    string  `hcl:"prefix,optional"`
	AccessKey string  `hcl:"access_key,optional"`
	SecretKey string  `hcl:"secret_key,optional"`
	Region    *string `hcl:"region,optional"`
	UseSSL    *bool   `hcl:"use_ssl,optional"`
}

func (m *MinioBucketSourceConfig) Validate() error {
	if m.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	if strings.Contains(m.Endpoint, "://") {
		return errors.New("endpoint must not include a scheme, use use_ssl instead")
	}
	if m.Bucket == "" {
		return errors.New("bucket is required")
	}
	if (m.AccessKey == "") != (m.SecretKey == "") {
		return errors.New("access_key and secret_key must be set together")
	}
	return m.ArtifactSourceConfigImpl.Validate()
}

func (*MinioBucketSourceConfig) Identifier() string {
	return MinioBucketSourceIdentifier
}

// Secure returns whether to connect over TLS, defaults to true
func (m *MinioBucketSourceConfig) Secure() bool {
	return m.UseSSL == nil || *m.UseSSL
}
