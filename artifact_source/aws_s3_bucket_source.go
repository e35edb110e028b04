package artifact_source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/turbot/tailpipe-plugin-envi/artifact_source_config"
	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

// AwsS3BucketSource discovers scene files in an S3 bucket and downloads them with their headers
type AwsS3BucketSource struct {
	ArtifactSourceImpl[*artifact_source_config.AwsS3BucketSourceConfig]

	client *s3.Client
}

func NewAwsS3BucketSource() ArtifactSource {
	return &AwsS3BucketSource{}
}

func (s *AwsS3BucketSource) Init(ctx context.Context, configData config_data.ConfigData, opts ...ArtifactSourceOption) error {
	if err := s.ArtifactSourceImpl.Init(ctx, configData, opts...); err != nil {
		return err
	}

	s.TmpDir = filepath.Join(s.TmpDir, fmt.Sprintf("s3-%s", s.Config.Bucket))

	conn := s.Config.GetConnection()
	cfg, err := conn.GetClientConfiguration(ctx, s.Config.Region)
	if err != nil {
		return err
	}
	s.client = s3.NewFromConfig(*cfg, conn.S3Options())

	slog.Info("Initialized AwsS3BucketSource", "bucket", s.Config.Bucket, "prefix", s.Config.Prefix, "region", cfg.Region)
	return nil
}

func (s *AwsS3BucketSource) Identifier() string {
	return artifact_source_config.AwsS3BucketSourceIdentifier
}

func (s *AwsS3BucketSource) Close() error {
	return s.removeTmpDir()
}

// DiscoverArtifacts lists the objects under the prefix, the file layout is matched against the object key
func (s *AwsS3BucketSource) DiscoverArtifacts(ctx context.Context) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:     aws.String(s.Config.Bucket),
		Prefix:     aws.String(s.Config.Prefix),
		StartAfter: s.Config.StartAfterKey,
	})

	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to get page of S3 objects: %w", err)
		}
		for _, object := range output.Contents {
			key := aws.ToString(object.Key)

			info := types.NewArtifactInfo(key,
				types.WithSource(s.Identifier(), sourceLocation(s.Config.Bucket, s.Config.Prefix)),
				types.WithSize(aws.ToInt64(object.Size)),
				types.WithTimestamp(aws.ToTime(object.LastModified)))

			accept, err := s.acceptArtifact(info, key)
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
	return nil
}

func (s *AwsS3BucketSource) DownloadArtifact(ctx context.Context, info *types.ArtifactInfo) error {
	return s.downloadObject(ctx, info, s.openObject)
}

func (s *AwsS3BucketSource) openObject(ctx context.Context, key string) (io.ReadCloser, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return output.Body, nil
}
