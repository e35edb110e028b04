package writer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	pqwriter "github.com/xitongsys/parquet-go/writer"

	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/context_values"
	"github.com/turbot/tailpipe-plugin-envi/filepaths"
	"github.com/turbot/tailpipe-plugin-envi/parse"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

const ParquetWriterIdentifier = "parquet"

// parquetRow is the parquet schema of a scene record: (scene id, metadata, pixels) plus the artifact name
type parquetRow struct {
	SceneId  string `parquet:"name=scene_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Metadata string `parquet:"name=metadata, type=BYTE_ARRAY"`
	Pixels   string `parquet:"name=pixels, type=BYTE_ARRAY"`
	Artifact string `parquet:"name=artifact, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// ParquetWriter implements [Writer] and writes all records of a collection to a single
// <execution_id>-0.parquet file, which is created on the first write
type ParquetWriter struct {
	Config *ParquetWriterConfig

	mut      sync.Mutex
	file     source.ParquetFile
	pw       *pqwriter.ParquetWriter
	filename string
	rows     int
}

func NewParquetWriter() Writer {
	return &ParquetWriter{}
}

func (p *ParquetWriter) Identifier() string {
	return ParquetWriterIdentifier
}

func (p *ParquetWriter) Init(configData config_data.ConfigData) error {
	config, err := parse.ParseConfig[*ParquetWriterConfig](configData)
	if err != nil {
		return err
	}
	p.Config = config
	return nil
}

func (p *ParquetWriter) Write(ctx context.Context, record *types.SceneRecord) error {
	p.mut.Lock()
	defer p.mut.Unlock()

	if p.pw == nil {
		executionId, err := context_values.ExecutionIdFromContext(ctx)
		if err != nil {
			return err
		}
		if err := p.open(executionId); err != nil {
			return err
		}
	}

	row := parquetRow{
		SceneId:  record.SceneId,
		Metadata: string(record.Metadata),
		Pixels:   string(record.Pixels),
		Artifact: record.Artifact,
	}
	if err := p.pw.Write(row); err != nil {
		return fmt.Errorf("failed to write scene %s to %s: %w", record.SceneId, p.filename, err)
	}
	p.rows++
	return nil
}

// open creates the parquet file
// must be called holding the lock
func (p *ParquetWriter) open(executionId string) error {
	destPath, err := filepaths.EnsureOutputPath(p.Config.GetPath())
	if err != nil {
		return err
	}
	p.filename = filepath.Join(destPath, ExecutionIdToFileName(executionId, 0, "parquet"))

	fw, err := local.NewLocalFileWriter(p.filename)
	if err != nil {
		return fmt.Errorf("failed to create parquet file %s: %w", p.filename, err)
	}
	pw, err := pqwriter.NewParquetWriter(fw, new(parquetRow), 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = p.Config.GetCompression()

	p.file = fw
	p.pw = pw
	slog.Debug("created parquet file", "file", p.filename)
	return nil
}

func (p *ParquetWriter) Close() error {
	p.mut.Lock()
	defer p.mut.Unlock()
	if p.pw == nil {
		return nil
	}
	defer func() {
		p.pw = nil
		p.file = nil
	}()

	if err := p.pw.WriteStop(); err != nil {
		_ = p.file.Close()
		return fmt.Errorf("failed to finalise parquet file %s: %w", p.filename, err)
	}
	slog.Debug("wrote parquet file", "file", p.filename, "rows", p.rows)
	return p.file.Close()
}
