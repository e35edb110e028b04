package artifact_source_config

const (
	FileSystemSourceIdentifier       = "file_system"
	CatalogSourceIdentifier          = "catalog"
	AwsS3BucketSourceIdentifier      = "aws_s3_bucket"
	GcpStorageBucketSourceIdentifier = "gcp_storage_bucket"
	MinioBucketSourceIdentifier      = "minio_bucket"
)
