package writer

import (
	"context"

	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

// Writer is the output of a collection: every record which passes the filters is written to every writer
// Writers provided: [JSONLWriter], [ParquetWriter], [LogWriter]
type Writer interface {
	Identifier() string
	// Init parses the output config
	Init(config_data.ConfigData) error
	// Write may be called concurrently
	Write(context.Context, *types.SceneRecord) error
	// Close flushes any buffered records
	Close() error
}
