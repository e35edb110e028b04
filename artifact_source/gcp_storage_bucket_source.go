package artifact_source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/turbot/tailpipe-plugin-envi/artifact_source_config"
	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

// GcpStorageBucketSource discovers scene files in a GCP Storage bucket and downloads them with their headers
type GcpStorageBucketSource struct {
	ArtifactSourceImpl[*artifact_source_config.GcpStorageBucketSourceConfig]

	client *storage.Client
}

func NewGcpStorageBucketSource() ArtifactSource {
	return &GcpStorageBucketSource{}
}

func (s *GcpStorageBucketSource) Init(ctx context.Context, configData config_data.ConfigData, opts ...ArtifactSourceOption) error {
	if err := s.ArtifactSourceImpl.Init(ctx, configData, opts...); err != nil {
		return err
	}

	s.TmpDir = filepath.Join(s.TmpDir, fmt.Sprintf("gcs-%s", s.Config.Bucket))

	clientOpts, err := s.Config.GetConnection().GetClientOptions(ctx)
	if err != nil {
		return fmt.Errorf("failed setting GCP Storage client config: %w", err)
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create GCP Storage client: %w", err)
	}
	s.client = client

	slog.Info("Initialized GcpStorageBucketSource", "bucket", s.Config.Bucket, "prefix", s.Config.Prefix)
	return nil
}

func (s *GcpStorageBucketSource) Identifier() string {
	return artifact_source_config.GcpStorageBucketSourceIdentifier
}

func (s *GcpStorageBucketSource) Close() error {
	var errs []error
	if s.client != nil {
		errs = append(errs, s.client.Close())
	}
	errs = append(errs, s.removeTmpDir())
	return errors.Join(errs...)
}

// DiscoverArtifacts lists the objects under the prefix, the file layout is matched against the object name
func (s *GcpStorageBucketSource) DiscoverArtifacts(ctx context.Context) error {
	objectIterator := s.client.Bucket(s.Config.Bucket).Objects(ctx, &storage.Query{Prefix: s.Config.Prefix})
	for {
		obj, err := objectIterator.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to list objects in bucket: %w", err)
		}

		info := types.NewArtifactInfo(obj.Name,
			types.WithSource(s.Identifier(), sourceLocation(s.Config.Bucket, s.Config.Prefix)),
			types.WithSize(obj.Size),
			types.WithTimestamp(obj.Updated))

		accept, err := s.acceptArtifact(info, obj.Name)
		if err != nil {
			return err
		}
		if !accept {
			continue
		}
		if err := s.OnArtifactDiscovered(ctx, info); err != nil {
			return fmt.Errorf("failed to notify observers of discovered artifact: %w", err)
		}
	}
}

func (s *GcpStorageBucketSource) DownloadArtifact(ctx context.Context, info *types.ArtifactInfo) error {
	return s.downloadObject(ctx, info, s.openObject)
}

func (s *GcpStorageBucketSource) openObject(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.client.Bucket(s.Config.Bucket).Object(name).NewReader(ctx)
}
