package artifact_source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/turbot/tailpipe-plugin-envi/artifact_source_config"
	"github.com/turbot/tailpipe-plugin-envi/catalog"
	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

// CatalogSource emits the scene files the catalog lists for a job, in catalog order
type CatalogSource struct {
	ArtifactSourceImpl[*artifact_source_config.CatalogSourceConfig]

	Catalog catalog.Catalog
}

func NewCatalogSource() ArtifactSource {
	return &CatalogSource{}
}

// NewCatalogSourceWithCatalog returns a source using the given catalog instead of one built from config
func NewCatalogSourceWithCatalog(c catalog.Catalog) ArtifactSource {
	return &CatalogSource{Catalog: c}
}

func (s *CatalogSource) Init(ctx context.Context, configData config_data.ConfigData, opts ...ArtifactSourceOption) error {
	if err := s.ArtifactSourceImpl.Init(ctx, configData, opts...); err != nil {
		return err
	}
	if s.Catalog != nil {
		return nil
	}

	switch connectionString := s.Config.GetConnectionString(); {
	case len(s.Config.Files) > 0:
		s.Catalog = catalog.NewStaticCatalog(map[int64][]string{s.Config.JobId: s.Config.Files})
	case connectionString != "":
		c, err := catalog.OpenPostgresCatalog(ctx, connectionString, s.NameFilter)
		if err != nil {
			return err
		}
		s.Catalog = c
	default:
		slog.Info("No catalog connection configured, using the sample catalog", "job_id", s.Config.JobId)
		s.Catalog = catalog.NewSampleCatalog()
	}
	return nil
}

func (s *CatalogSource) Identifier() string {
	return artifact_source_config.CatalogSourceIdentifier
}

// DiscoverArtifacts emits each path of the job once
// the file layout is matched against the path without its file scheme
func (s *CatalogSource) DiscoverArtifacts(ctx context.Context) error {
	paths, err := s.Catalog.LookupFiles(ctx, s.Config.JobId)
	if err != nil {
		return fmt.Errorf("failed to look up files of job %d: %w", s.Config.JobId, err)
	}
	slog.Info("CatalogSource resolved job", "job_id", s.Config.JobId, "files", len(paths))

	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}

		info := types.NewArtifactInfo(path, types.WithSource(s.Identifier(), strconv.FormatInt(s.Config.JobId, 10)))
		// the size is used by the collection state, files which cannot be read are reported by the loader
		if fileInfo, err := os.Stat(types.LocalPath(path)); err == nil {
			info.Size = fileInfo.Size()
			info.Timestamp = fileInfo.ModTime()
		}

		accept, err := s.acceptArtifact(info, types.LocalPath(path))
		if err != nil {
			return err
		}
		if !accept {
			continue
		}
		if err := s.OnArtifactDiscovered(ctx, info); err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogSource) DownloadArtifact(ctx context.Context, info *types.ArtifactInfo) error {
	return s.OnArtifactDownloaded(ctx, info)
}

func (s *CatalogSource) Close() error {
	if c, ok := s.Catalog.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
