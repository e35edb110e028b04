package artifact_source_config

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/pipe-fittings/utils"

	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/parse"
)

func sourceData(sourceType, config string) config_data.ConfigData {
	return config_data.NewSourceConfigData([]byte(config), hcl.Range{Filename: "test.hcl"}, sourceType)
}

func TestAwsS3BucketSourceConfig(t *testing.T) {
	config := `bucket = "scenes"
prefix = "landsat/"
filter = ".*_SR\\.bsq"
connection {
  profile = "archive"
  region  = "eu-west-1"
}`
	c, err := parse.ParseConfig[*AwsS3BucketSourceConfig](sourceData(AwsS3BucketSourceIdentifier, config))
	require.NoError(t, err)

	assert.Equal(t, "scenes", c.Bucket)
	assert.Equal(t, "landsat/", c.Prefix)
	require.NotNil(t, c.Connection)
	assert.Equal(t, "archive", *c.GetConnection().Profile)

	f, err := c.GetNameFilter()
	require.NoError(t, err)
	assert.True(t, f.Accept("landsat/227064_000202_BLA_SR.bsq"))
	assert.False(t, f.Accept("landsat/227064_000202_BLA_QA.bsq"))
}

func TestAwsS3BucketSourceConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{name: "missing bucket", config: `prefix = "x"`},
		{name: "empty bucket", config: `bucket = ""`},
		{name: "access key without secret", config: "bucket = \"b\"\nconnection {\n access_key = \"a\"\n}"},
		{name: "unknown connection attribute", config: "bucket = \"b\"\nconnection {\n token = \"a\"\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse.ParseConfig[*AwsS3BucketSourceConfig](sourceData(AwsS3BucketSourceIdentifier, tt.config))
			assert.Error(t, err)
		})
	}
}

func TestCatalogSourceConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr bool
	}{
		{name: "job only", config: `job_id = 26184107`},
		{name: "files", config: "job_id = 1\nfiles = [\"file:/a.bsq\"]"},
		{name: "connection string", config: "job_id = 1\nconnection_string = \"postgres://localhost/scenes\""},
		{name: "zero job", config: `job_id = 0`, wantErr: true},
		{name: "both listings", config: "job_id = 1\nfiles = [\"a.bsq\"]\nconnection_string = \"postgres://\"", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse.ParseConfig[*CatalogSourceConfig](sourceData(CatalogSourceIdentifier, tt.config))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalogSourceConfig_ConnectionStringFromEnv(t *testing.T) {
	t.Setenv("ENVI_CATALOG_CONNECTION_STRING", "postgres://env/scenes")
	c := &CatalogSourceConfig{JobId: 1}
	assert.Equal(t, "postgres://env/scenes", c.GetConnectionString())

	c.ConnectionString = utils.ToStringPointer("postgres://config/scenes")
	assert.Equal(t, "postgres://config/scenes", c.GetConnectionString())
}

func TestMinioBucketSourceConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  MinioBucketSourceConfig
		wantErr bool
	}{
		{name: "valid", config: MinioBucketSourceConfig{Endpoint: "localhost:9000", Bucket: "scenes"}},
		{name: "scheme in endpoint", config: MinioBucketSourceConfig{Endpoint: "http://localhost:9000", Bucket: "scenes"}, wantErr: true},
		{name: "missing bucket", config: MinioBucketSourceConfig{Endpoint: "localhost:9000"}, wantErr: true},
		{name: "access key only", config: MinioBucketSourceConfig{Endpoint: "localhost:9000", Bucket: "b", AccessKey: "a"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.True(t, (&MinioBucketSourceConfig{}).Secure())
}

func TestArtifactSourceConfigImpl_DefaultTo(t *testing.T) {
	defaults := &ArtifactSourceConfigImpl{
		Filter:     utils.ToStringPointer(`.*\.img`),
		FileLayout: utils.ToStringPointer(`%{DATA:name}.img`),
		Extensions: []string{".img"},
	}
	c := &ArtifactSourceConfigImpl{Extensions: []string{".bsq"}}
	c.DefaultTo(defaults)

	assert.Equal(t, `.*\.img`, *c.Filter)
	assert.Equal(t, `%{DATA:name}.img`, *c.FileLayout)
	assert.Equal(t, []string{".bsq"}, c.Extensions)

	// a nil default is ignored
	c.DefaultTo(nil)
}

func TestArtifactSourceConfigImpl_Validate(t *testing.T) {
	assert.Error(t, (&ArtifactSourceConfigImpl{FileLayout: utils.ToStringPointer(`%{NOT_A_PATTERN:x}`)}).Validate())
	assert.Error(t, (&ArtifactSourceConfigImpl{Filter: utils.ToStringPointer(`(`)}).Validate())
	assert.NoError(t, (&ArtifactSourceConfigImpl{}).Validate())
}
