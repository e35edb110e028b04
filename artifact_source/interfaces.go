package artifact_source

import (
	"context"

	"github.com/turbot/tailpipe-plugin-envi/collection_state"
	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/observable"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

// ArtifactSource discovers scene artifacts and downloads them to the local file system
// Sources provided: [FileSystemSource], [CatalogSource], [AwsS3BucketSource], [GcpStorageBucketSource], [MinioBucketSource]
type ArtifactSource interface {
	observable.Observable

	Identifier() string

	// Init is called when the source is created
	// it is responsible for parsing the source config and configuring the source
	Init(ctx context.Context, configData config_data.ConfigData, opts ...ArtifactSourceOption) error

	// Collect discovers all artifacts and returns once every discovered artifact has been downloaded and processed
	Collect(ctx context.Context) error

	DiscoverArtifacts(ctx context.Context) error

	DownloadArtifact(context.Context, *types.ArtifactInfo) error

	SetCollectionState(*collection_state.CollectionState)
	SetParallelism(int)

	GetTiming() types.TimingCollection

	Close() error
}
