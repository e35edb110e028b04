package artifact_source_config

import (
	"errors"

	"github.com/hashicorp/hcl/v2"

	"github.com/turbot/tailpipe-plugin-envi/connection"
)

// GcpStorageBucketSourceConfig is the configuration for a GcpStorageBucketSource
type GcpStorageBucketSourceConfig struct {
	ArtifactSourceConfigImpl
	// required to allow partial decoding
	Remain hcl.Body `hcl:",remain" json:"-"`

	Bucket string `hcl:"bucket"`
	Prefix string `hcl:"prefix,optional"`

	Connection *connection.GcpConnection `hcl:"connection,block"`
}

func (g *GcpStorageBucketSourceConfig) Validate() error {
	if g.Bucket == "" {
		return errors.New("bucket is required")
	}
	return g.ArtifactSourceConfigImpl.Validate()
}

func (*GcpStorageBucketSourceConfig) Identifier() string {
	return GcpStorageBucketSourceIdentifier
}

func (g *GcpStorageBucketSourceConfig) GetConnection() *connection.GcpConnection {
	if g.Connection == nil {
		return &connection.GcpConnection{}
	}
	return g.Connection
}
