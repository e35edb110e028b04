package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/turbot/tailpipe-plugin-envi/artifact_source_config"
	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/parse"
)

const testConfig = `
collection {
  parallelism = 4
  filters     = ["sensor = 'BLA'"]
  state_file  = "./state.json"
}

source "catalog" {
  job_id = 26184107
  files  = ["file:/opt/gms_sample/227064_000202_BLA_SR.bsq"]
}

output "jsonl" {
  path       = "./out"
  chunk_size = 10
}

output "log" {}
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(testConfig), "collection.hcl")
	require.NoError(t, err)

	assert.Equal(t, 4, c.Collection.GetParallelism())
	assert.Equal(t, []string{"sensor = 'BLA'"}, c.Collection.Filters)
	require.NotNil(t, c.Collection.StateFile)
	assert.Equal(t, "./state.json", *c.Collection.StateFile)
	assert.Equal(t, []string{"identity"}, c.Collection.GetMappers())

	require.NotNil(t, c.Source)
	assert.Equal(t, "catalog", c.Source.Identifier())
	assert.Equal(t, config_data.ConfigTypeSource, c.Source.GetConfigType())
	assert.Equal(t, "collection.hcl", c.Source.GetRange().Filename)

	// the raw source body is parsed by the source config
	sourceConfig, err := parse.ParseConfig[*artifact_source_config.CatalogSourceConfig](c.Source)
	require.NoError(t, err)
	assert.Equal(t, int64(26184107), sourceConfig.JobId)
	assert.Equal(t, []string{"file:/opt/gms_sample/227064_000202_BLA_SR.bsq"}, sourceConfig.Files)

	require.Len(t, c.Outputs, 2)
	assert.Equal(t, "jsonl", c.Outputs[0].Identifier())
	assert.Contains(t, string(c.Outputs[0].GetHcl()), "chunk_size = 10")
	assert.Equal(t, "log", c.Outputs[1].Identifier())
}

func TestParse_Defaults(t *testing.T) {
	c, err := Parse([]byte(`source "file_system" { paths = ["/opt"] }`), "collection.hcl")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Collection.GetParallelism())
	assert.Nil(t, c.Collection.StateFile)
	assert.Empty(t, c.Outputs)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{name: "syntax", config: `source "catalog" {`, wantErr: "Failed to parse config file"},
		{name: "no source", config: `output "log" {}`, wantErr: "Missing source block"},
		{name: "two sources", config: "source \"catalog\" {}\nsource \"file_system\" {}", wantErr: "Duplicate source block"},
		{name: "two collections", config: "collection {}\ncollection {}\nsource \"catalog\" {}", wantErr: "Duplicate collection block"},
		{name: "missing label", config: `source {}`, wantErr: "Failed to parse config file"},
		{name: "unknown block", config: "table \"x\" {}\nsource \"catalog\" {}", wantErr: "Failed to parse config file"},
		{name: "top level attribute", config: "parallelism = 2\nsource \"catalog\" {}", wantErr: "Failed to parse config file"},
		{name: "invalid parallelism", config: "collection {\n parallelism = 0\n}\nsource \"catalog\" {}", wantErr: "parallelism must be at least 1"},
		{name: "invalid filter", config: "collection {\n filters = [\"sensor ==\"]\n}\nsource \"catalog\" {}", wantErr: "failed to parse filter"},
		{name: "unknown mapper", config: "collection {\n mappers = [\"cloudwatch\"]\n}\nsource \"catalog\" {}", wantErr: "mapper not registered: cloudwatch"},
		{name: "unknown collection attribute", config: "collection {\n workers = 2\n}\nsource \"catalog\" {}", wantErr: "Unsupported argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.config), "collection.hcl")
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.hcl")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Source.GetRange().Filename)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewSourceConfigData(t *testing.T) {
	data := NewSourceConfigData(artifact_source_config.FileSystemSourceIdentifier, Attributes{
		"paths":     cty.ListVal([]cty.Value{cty.StringVal("/opt/gms_sample")}),
		"recursive": cty.False,
		"filter":    cty.NullVal(cty.String),
	})
	c, err := parse.ParseConfig[*artifact_source_config.FileSystemSourceConfig](data)
	// the path does not exist
	require.Error(t, err)

	dir := t.TempDir()
	data = NewSourceConfigData(artifact_source_config.FileSystemSourceIdentifier, Attributes{
		"paths":     cty.ListVal([]cty.Value{cty.StringVal(dir)}),
		"recursive": cty.False,
		"filter":    cty.NullVal(cty.String),
	})
	c, err = parse.ParseConfig[*artifact_source_config.FileSystemSourceConfig](data)
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, c.Paths)
	assert.False(t, c.IsRecursive())
	assert.Nil(t, c.Filter)
}

func TestNewOutputConfigData(t *testing.T) {
	data := NewOutputConfigData("jsonl", Attributes{"path": cty.StringVal("./out"), "chunk_size": cty.NumberIntVal(5)})
	assert.Equal(t, "jsonl", data.Identifier())
	assert.Equal(t, config_data.ConfigTypeOutput, data.GetConfigType())
	assert.Contains(t, string(data.GetHcl()), `path`)
	assert.Contains(t, string(data.GetHcl()), `"./out"`)
}
