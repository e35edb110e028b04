package writer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/parse"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

const LogWriterIdentifier = "log"

type LogWriterConfig struct{}

func (c *LogWriterConfig) Validate() error {
	return nil
}

func (c *LogWriterConfig) Identifier() string {
	return LogWriterIdentifier
}

// LogWriter implements [Writer] and prints a line per record: "Image: <scene id> <count>"
type LogWriter struct {
	Out io.Writer

	mut   sync.Mutex
	count int
}

func NewLogWriter() Writer {
	return &LogWriter{Out: os.Stdout}
}

func (l *LogWriter) Identifier() string {
	return LogWriterIdentifier
}

func (l *LogWriter) Init(configData config_data.ConfigData) error {
	_, err := parse.ParseConfig[*LogWriterConfig](configData)
	return err
}

func (l *LogWriter) Write(_ context.Context, record *types.SceneRecord) error {
	l.mut.Lock()
	defer l.mut.Unlock()
	l.count++
	_, err := fmt.Fprintf(l.Out, "Image: %s %d\n", record.SceneId, l.count)
	return err
}

func (l *LogWriter) Close() error {
	return nil
}
