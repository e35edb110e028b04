package writer

import (
	"fmt"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/turbot/tailpipe-plugin-envi/config_data"
)

// Factory is a global WriterFactory instance
var Factory = newWriterFactory()

func init() {
	Factory.RegisterWriters(
		NewJSONLWriter,
		NewParquetWriter,
		NewLogWriter,
	)
}

type WriterFactory struct {
	writers map[string]func() Writer
}

func newWriterFactory() *WriterFactory {
	return &WriterFactory{
		writers: make(map[string]func() Writer),
	}
}

func (f *WriterFactory) RegisterWriters(writerFuncs ...func() Writer) {
	for _, ctor := range writerFuncs {
		// create an instance of the writer to get the identifier
		w := ctor()
		f.writers[w.Identifier()] = ctor
	}
}

// GetWriter instantiates and initialises the writer for the output config data
// It will fail if the requested output type is not registered
func (f *WriterFactory) GetWriter(configData config_data.ConfigData) (Writer, error) {
	ctor, ok := f.writers[configData.Identifier()]
	if !ok {
		return nil, fmt.Errorf("output not registered: %s", configData.Identifier())
	}
	w := ctor()
	if err := w.Init(configData); err != nil {
		return nil, fmt.Errorf("failed to initialise output: %w", err)
	}
	return w, nil
}

// GetWriterTypes returns the registered output identifiers, sorted
func (f *WriterFactory) GetWriterTypes() []string {
	res := maps.Keys(f.writers)
	slices.Sort(res)
	return res
}
