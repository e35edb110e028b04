package artifact_source_config

import (
	"errors"
	"os"

	"github.com/hashicorp/hcl/v2"

	"github.com/turbot/tailpipe-plugin-envi/constants"
)

// CatalogSourceConfig is the configuration for a CatalogSource
type CatalogSourceConfig struct {
	ArtifactSourceConfigImpl
	// required to allow partial decoding
	Remain hcl.Body `hcl:",remain" json:"-"`

	JobId int64 `hcl:"job_id"`
	// postgres connection string of the scene catalog; when unset (and ENVI_CATALOG_CONNECTION_STRING
	// is unset) the sample catalog is used
	ConnectionString *string `hcl:"connection_string,optional"`
	// static job listing, used instead of a database
	Files []string `hcl:"files,optional"`
}

func (c *CatalogSourceConfig) Validate() error {
	if c.JobId <= 0 {
		return errors.New("job_id must be positive")
	}
	if c.ConnectionString != nil && len(c.Files) > 0 {
		return errors.New("connection_string and files are mutually exclusive")
	}
	return c.ArtifactSourceConfigImpl.Validate()
}

func (c *CatalogSourceConfig) Identifier() string {
	return CatalogSourceIdentifier
}

// GetConnectionString returns the configured connection string, falling back to the environment
func (c *CatalogSourceConfig) GetConnectionString() string {
	if c.ConnectionString != nil {
		return *c.ConnectionString
	}
	return os.Getenv(constants.EnvCatalogConnectionString)
}
