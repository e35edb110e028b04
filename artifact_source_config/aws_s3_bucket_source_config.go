package artifact_source_config

import (
	"errors"

	"github.com/hashicorp/hcl/v2"

	"github.com/turbot/tailpipe-plugin-envi/connection"
)

// AwsS3BucketSourceConfig is the configuration for an AwsS3BucketSource
type AwsS3BucketSourceConfig struct {
	ArtifactSourceConfigImpl
	// required to allow partial decoding
	Remain hcl.Body `hcl:",remain" json:"-"`

	Bucket        string  `hcl:"bucket"`
	Prefix        string  `hcl:"prefix,optional"`
	Region        *string `hcl:"region,optional"`
	StartAfterKey *string `hcl:"start_after_key,optional"`

	Connection *connection.AwsConnection `hcl:"connection,block"`
}

func (c *AwsS3BucketSourceConfig) Validate() error {
	if c.Bucket == "" {
		return errors.New("bucket is required")
	}
	if c.Connection != nil {
		if err := c.Connection.Validate(); err != nil {
			return err
		}
	}
	return c.ArtifactSourceConfigImpl.Validate()
}

func (c *AwsS3BucketSourceConfig) Identifier() string {
	return AwsS3BucketSourceIdentifier
}

// GetConnection returns the connection block, or an empty connection using the default credential chain
func (c *AwsS3BucketSourceConfig) GetConnection() *connection.AwsConnection {
	if c.Connection == nil {
		return &connection.AwsConnection{}
	}
	return c.Connection
}
