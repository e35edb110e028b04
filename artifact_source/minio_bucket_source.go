package artifact_source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	typehelpers "github.com/turbot/go-kit/types"

	"github.com/turbot/tailpipe-plugin-envi/artifact_source_config"
	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

// MinioBucketSource discovers scene files in a MinIO (or other S3 compatible) bucket
type MinioBucketSource struct {
	ArtifactSourceImpl[*artifact_source_config.MinioBucketSourceConfig]

	client *minio.Client
}

func NewMinioBucketSource() ArtifactSource {
	return &MinioBucketSource{}
}

func (s *MinioBucketSource) Init(ctx context.Context, configData config_data.ConfigData, opts ...ArtifactSourceOption) error {
	if err := s.ArtifactSourceImpl.Init(ctx, configData, opts...); err != nil {
		return err
	}

	s.TmpDir = filepath.Join(s.TmpDir, fmt.Sprintf("minio-%s", s.Config.Bucket))

	minioOpts := &minio.Options{
		Secure: s.Config.Secure(),
		Region: typehelpers.SafeString(s.Config.Region),
	}
	if s.Config.AccessKey != "" {
		minioOpts.Creds = credentials.NewStaticV4(s.Config.AccessKey, s.Config.SecretKey, "")
	} else {
		// MINIO_ACCESS_KEY / AWS_ACCESS_KEY_ID and friends
		minioOpts.Creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvMinio{},
			&credentials.EnvAWS{},
		})
	}
	client, err := minio.New(s.Config.Endpoint, minioOpts)
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}
	s.client = client

	slog.Info("Initialized MinioBucketSource", "endpoint", s.Config.Endpoint, "bucket", s.Config.Bucket, "prefix", s.Config.Prefix)
	return nil
}

func (s *MinioBucketSource) Identifier() string {
	return artifact_source_config.MinioBucketSourceIdentifier
}

func (s *MinioBucketSource) Close() error {
	return s.removeTmpDir()
}

// DiscoverArtifacts lists the objects under the prefix recursively, the file layout is matched against the object key
func (s *MinioBucketSource) DiscoverArtifacts(ctx context.Context) error {
	// stops the listing goroutine on early return, downloads keep using ctx
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectCh := s.client.ListObjects(listCtx, s.Config.Bucket, minio.ListObjectsOptions{
		Prefix:    s.Config.Prefix,
		Recursive: true,
	})
	for obj := range objectCh {
		if obj.Err != nil {
			return fmt.Errorf("failed to list objects in bucket: %w", obj.Err)
		}

		info := types.NewArtifactInfo(obj.Key,
			types.WithSource(s.Identifier(), sourceLocation(s.Config.Bucket, s.Config.Prefix)),
			types.WithSize(obj.Size),
			types.WithTimestamp(obj.LastModified))

		accept, err := s.acceptArtifact(info, obj.Key)
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
	return nil
}

func (s *MinioBucketSource) DownloadArtifact(ctx context.Context, info *types.ArtifactInfo) error {
	return s.downloadObject(ctx, info, s.openObject)
}

// openObject returns the object once it is known to exist, minio only reports a missing key on first read
func (s *MinioBucketSource) openObject(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.Config.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}
