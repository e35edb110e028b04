package writer

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/xitongsys/parquet-go/parquet"
)

var compressionCodecs = map[string]parquet.CompressionCodec{
	"snappy":       parquet.CompressionCodec_SNAPPY,
	"gzip":         parquet.CompressionCodec_GZIP,
	"uncompressed": parquet.CompressionCodec_UNCOMPRESSED,
}

type ParquetWriterConfig struct {
	// the directory to write the parquet file to
	Path *string `hcl:"path,optional"`
	// snappy (default), gzip or uncompressed
	Compression *string `hcl:"compression,optional"`
}

func (c *ParquetWriterConfig) Validate() error {
	if c.Path != nil {
		p, err := homedir.Expand(*c.Path)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", *c.Path, err)
		}
		c.Path = &p
	}
	if c.Compression != nil {
		if _, ok := compressionCodecs[strings.ToLower(*c.Compression)]; !ok {
			return fmt.Errorf("unsupported compression '%s'", *c.Compression)
		}
	}
	return nil
}

func (c *ParquetWriterConfig) Identifier() string {
	return ParquetWriterIdentifier
}

func (c *ParquetWriterConfig) GetPath() string {
	if c.Path == nil {
		return "."
	}
	return *c.Path
}

func (c *ParquetWriterConfig) GetCompression() parquet.CompressionCodec {
	if c.Compression == nil {
		return parquet.CompressionCodec_SNAPPY
	}
	return compressionCodecs[strings.ToLower(*c.Compression)]
}
