package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/context_values"
	"github.com/turbot/tailpipe-plugin-envi/envi"
	"github.com/turbot/tailpipe-plugin-envi/filepaths"
	"github.com/turbot/tailpipe-plugin-envi/parse"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

const JSONLWriterIdentifier = "jsonl"

// jsonlRow is the JSON form of a scene record
type jsonlRow struct {
	SceneId    string         `json:"scene_id"`
	Artifact   string         `json:"artifact,omitempty"`
	Metadata   map[string]any `json:"metadata"`
	PixelBytes int            `json:"pixel_bytes"`
	Pixels     []byte         `json:"pixels,omitempty"`
}

// JSONLWriter implements [Writer] and writes records to chunked JSONL files
// named <execution_id>-<chunk>.jsonl
type JSONLWriter struct {
	Config *JSONLWriterConfig

	mut         sync.Mutex
	executionId string
	rows        []jsonlRow
	chunkNumber int
}

func NewJSONLWriter() Writer {
	return &JSONLWriter{}
}

func (j *JSONLWriter) Identifier() string {
	return JSONLWriterIdentifier
}

func (j *JSONLWriter) Init(configData config_data.ConfigData) error {
	config, err := parse.ParseConfig[*JSONLWriterConfig](configData)
	if err != nil {
		return err
	}
	j.Config = config
	slog.Info("JSONLWriter initialized", "path", config.GetPath(), "chunk size", config.GetChunkSize())
	return nil
}

func (j *JSONLWriter) Write(ctx context.Context, record *types.SceneRecord) error {
	executionId, err := context_values.ExecutionIdFromContext(ctx)
	if err != nil {
		return err
	}
	metadata, err := envi.DecodeMetadata(record.Metadata)
	if err != nil {
		return fmt.Errorf("failed to decode metadata of scene %s: %w", record.SceneId, err)
	}
	row := jsonlRow{
		SceneId:    record.SceneId,
		Artifact:   record.Artifact,
		Metadata:   metadata,
		PixelBytes: len(record.Pixels),
	}
	if j.Config.IncludePixels != nil && *j.Config.IncludePixels {
		row.Pixels = record.Pixels
	}

	j.mut.Lock()
	defer j.mut.Unlock()
	j.executionId = executionId
	j.rows = append(j.rows, row)
	if len(j.rows) >= j.Config.GetChunkSize() {
		return j.writeChunk()
	}
	return nil
}

func (j *JSONLWriter) Close() error {
	j.mut.Lock()
	defer j.mut.Unlock()
	if len(j.rows) == 0 {
		return nil
	}
	return j.writeChunk()
}

// writeChunk writes the buffered rows to the next chunk file
// must be called holding the lock
func (j *JSONLWriter) writeChunk() error {
	destPath, err := filepaths.EnsureOutputPath(j.Config.GetPath())
	if err != nil {
		return err
	}
	filename := filepath.Join(destPath, ExecutionIdToFileName(j.executionId, j.chunkNumber, "jsonl"))

	file, err := os.Create(filename)
	if err != nil {
		slog.Error("failed to create JSONL file", "error", err)
		return fmt.Errorf("failed to create JSONL file %s: %w", filename, err)
	}
	defer file.Close()

	slog.Debug("writing JSONL file", "file", filename, "rows", len(j.rows))
	encoder := json.NewEncoder(file)
	for _, row := range j.rows {
		if err := encoder.Encode(row); err != nil {
			slog.Error("failed to encode row", "error", err)
			return fmt.Errorf("failed to encode row: %w", err)
		}
	}

	j.rows = j.rows[:0]
	j.chunkNumber++
	return nil
}
