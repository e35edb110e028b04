package writer

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
)

const defaultChunkSize = 100

type JSONLWriterConfig struct {
	// the directory to write the JSONL files to
	Path *string `hcl:"path,optional"`
	// the number of records per file
	ChunkSize *int `hcl:"chunk_size,optional"`
	// whether to include the base64 encoded pixel data in each row
	IncludePixels *bool `hcl:"include_pixels,optional"`
}

func (c *JSONLWriterConfig) Validate() error {
	if c.Path != nil {
		p, err := homedir.Expand(*c.Path)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", *c.Path, err)
		}
		c.Path = &p
	}
	if c.ChunkSize != nil && *c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", *c.ChunkSize)
	}
	return nil
}

func (c *JSONLWriterConfig) Identifier() string {
	return JSONLWriterIdentifier
}

func (c *JSONLWriterConfig) GetPath() string {
	if c.Path == nil {
		return "."
	}
	return *c.Path
}

func (c *JSONLWriterConfig) GetChunkSize() int {
	if c.ChunkSize == nil {
		return defaultChunkSize
	}
	return *c.ChunkSize
}
