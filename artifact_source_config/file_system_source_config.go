package artifact_source_config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/turbot/pipe-fittings/utils"
)

// FileSystemSourceConfig is the configuration for a FileSystemSource
type FileSystemSourceConfig struct {
	ArtifactSourceConfigImpl
	// required to allow partial decoding
	Remain hcl.Body `hcl:",remain" json:"-"`

	Paths []string `hcl:"paths"`
	// defaults to true
	Recursive *bool `hcl:"recursive,optional"`
}

func (f *FileSystemSourceConfig) Validate() error {
	if err := f.ArtifactSourceConfigImpl.Validate(); err != nil {
		return err
	}

	if len(f.Paths) == 0 {
		return fmt.Errorf("required field: paths can not be empty")
	}

	for i, path := range f.Paths {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", path, err)
		}
		if !utils.IsValidDir(expanded) {
			return fmt.Errorf("path %s is not a directory or does not exist", path)
		}
		f.Paths[i] = expanded
	}

	return nil
}

func (f *FileSystemSourceConfig) Identifier() string {
	return FileSystemSourceIdentifier
}

func (f *FileSystemSourceConfig) IsRecursive() bool {
	return f.Recursive == nil || *f.Recursive
}
