// Package artifact_source provides the sources which discover scene artifacts and make them available
// on the local file system.
//
// An artifact is a single band sequential raster file, accompanied by its ENVI header sidecar.
// Sources provided:
// - [FileSystemSource]: walks local directories
// - [CatalogSource]: looks up the scene files of a processing job in a scene catalog
// - [AwsS3BucketSource], [GcpStorageBucketSource], [MinioBucketSource]: list and download from object stores
//
// ##### Artifact flow
//
// - The source discovers artifacts and calls OnArtifactDiscovered, which is handled by the embedded ArtifactSourceImpl.
// - ArtifactSourceImpl skips artifacts which the collection state says were already collected, otherwise it
// waits for a download slot (bounded by the parallelism) and calls the source's DownloadArtifact in a goroutine.
// - The source downloads the artifact (and its header) and calls OnArtifactDownloaded, which raises an
// ArtifactDownloaded event. Observers process the artifact synchronously, so the slot is held until the
// artifact has been decoded and written.
// - Collect returns once discovery is complete and every download has been processed.
package artifact_source
