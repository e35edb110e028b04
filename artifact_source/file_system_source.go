package artifact_source

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/turbot/tailpipe-plugin-envi/artifact_source_config"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

// FileSystemSource discovers scene files in local directories
type FileSystemSource struct {
	ArtifactSourceImpl[*artifact_source_config.FileSystemSourceConfig]
}

func NewFileSystemSource() ArtifactSource {
	return &FileSystemSource{}
}

func (s *FileSystemSource) Identifier() string {
	return artifact_source_config.FileSystemSourceIdentifier
}

// DiscoverArtifacts walks each configured path, descending into subdirectories unless recursive is false
// the file layout is matched against the path relative to the configured path
func (s *FileSystemSource) DiscoverArtifacts(ctx context.Context) error {
	var errList []error
	for _, root := range s.Config.Paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && !s.Config.IsRecursive() {
					return filepath.SkipDir
				}
				return nil
			}

			fileInfo, err := d.Info()
			if err != nil {
				return err
			}
			info := types.NewArtifactInfo(path,
				types.WithSource(s.Identifier(), root),
				types.WithSize(fileInfo.Size()),
				types.WithTimestamp(fileInfo.ModTime()))

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			accept, err := s.acceptArtifact(info, rel)
			if err != nil {
				return err
			}
			if !accept {
				return nil
			}

			return s.OnArtifactDiscovered(ctx, info)
		})
		if err != nil {
			errList = append(errList, err)
		}
	}
	slog.Debug("FileSystemSource DiscoverArtifacts complete", "paths", s.Config.Paths, "errors", len(errList))
	return errors.Join(errList...)
}

// DownloadArtifact is a no-op for local files, the artifact is passed on as is
func (s *FileSystemSource) DownloadArtifact(ctx context.Context, info *types.ArtifactInfo) error {
	return s.OnArtifactDownloaded(ctx, info)
}
