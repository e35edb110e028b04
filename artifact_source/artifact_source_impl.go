package artifact_source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/elastic/go-grok"

	"github.com/turbot/tailpipe-plugin-envi/artifact_source_config"
	"github.com/turbot/tailpipe-plugin-envi/collection_state"
	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/constants"
	"github.com/turbot/tailpipe-plugin-envi/context_values"
	"github.com/turbot/tailpipe-plugin-envi/events"
	"github.com/turbot/tailpipe-plugin-envi/helpers"
	"github.com/turbot/tailpipe-plugin-envi/observable"
	"github.com/turbot/tailpipe-plugin-envi/parse"
	"github.com/turbot/tailpipe-plugin-envi/rate_limiter"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

// BaseTmpDir is the default directory remote artifacts are downloaded to
var BaseTmpDir = filepath.Join(os.TempDir(), "envi-collect")

// ArtifactSourceImpl is the base implementation of ArtifactSource, embedded by every source.
// It parses the source config, applies the name filter, file layout and collection state to discovered
// artifacts, and bounds the number of artifacts being downloaded and processed at once.
//
// Embedding structs must implement Identifier, DiscoverArtifacts and DownloadArtifact
type ArtifactSourceImpl[S artifact_source_config.ArtifactSourceConfig] struct {
	observable.ObservableImpl

	Config S
	// the outer source, registered by the factory
	Source ArtifactSource

	TmpDir string

	NameFilter *types.NameFilter
	Extensions types.ExtensionLookup
	// compiled file layout, nil if no layout is configured
	layout *grok.Grok

	defaultConfig   *artifact_source_config.ArtifactSourceConfigImpl
	collectionState *collection_state.CollectionState
	parallelism     int

	artifactDownloadLimiter *rate_limiter.APILimiter

	// incremented each time an artifact is discovered, decremented once it has been downloaded and processed
	artifactWg sync.WaitGroup

	DiscoveryTiming types.Timing
	DownloadTiming  types.Timing
	timingLock      sync.Mutex
}

func (a *ArtifactSourceImpl[S]) RegisterSource(source ArtifactSource) {
	a.Source = source
}

func (a *ArtifactSourceImpl[S]) Init(_ context.Context, configData config_data.ConfigData, opts ...ArtifactSourceOption) error {
	slog.Info(fmt.Sprintf("Initializing ArtifactSourceImpl %p, source %p", a, a.Source))
	if a.Source == nil {
		return errors.New("ArtifactSourceImpl.Source is not set, the source must be created by the factory")
	}

	// apply options to the outer source
	for _, opt := range opts {
		if err := opt(a.Source); err != nil {
			return err
		}
	}

	c, err := parse.ParseConfig[S](configData)
	if err != nil {
		return err
	}
	a.Config = c

	// apply default config (this handles null default)
	a.Config.DefaultTo(a.defaultConfig)

	a.NameFilter, err = a.Config.GetNameFilter()
	if err != nil {
		return err
	}
	a.Extensions = types.NewExtensionLookup(a.Config.GetExtensions())

	if layout := a.Config.GetFileLayout(); layout != nil {
		a.layout, err = helpers.NewGrokParser(a.Config.GetPatterns(), "^"+*layout+"$")
		if err != nil {
			return fmt.Errorf("invalid file_layout: %w", err)
		}
	}

	if a.TmpDir == "" {
		a.TmpDir = BaseTmpDir
	}
	if a.parallelism == 0 {
		a.parallelism = constants.DefaultParallelism
	}

	slog.Info("Initialized ArtifactSourceImpl", "config", a.Config, "filter", a.NameFilter, "parallelism", a.parallelism)
	return nil
}

func (a *ArtifactSourceImpl[S]) SetDefaultConfig(config *artifact_source_config.ArtifactSourceConfigImpl) {
	a.defaultConfig = config
}

func (a *ArtifactSourceImpl[S]) SetTmpDir(dir string) {
	a.TmpDir = dir
}

func (a *ArtifactSourceImpl[S]) SetCollectionState(state *collection_state.CollectionState) {
	a.collectionState = state
}

func (a *ArtifactSourceImpl[S]) SetParallelism(parallelism int) {
	a.parallelism = parallelism
}

// Collect tells the source to discover artifacts and waits until every discovered artifact has been processed
func (a *ArtifactSourceImpl[S]) Collect(ctx context.Context) error {
	slog.Info("ArtifactSourceImpl Collect")
	defer slog.Info("ArtifactSourceImpl Collect complete")

	limiter, err := rate_limiter.NewConcurrencyLimiter("artifact_download_limiter", a.parallelism)
	if err != nil {
		return err
	}
	a.artifactDownloadLimiter = limiter

	a.DiscoveryTiming.TryStart(constants.TimingDiscover)
	err = a.Source.DiscoverArtifacts(ctx)
	a.DiscoveryTiming.End = time.Now()

	// always wait for the downloads already started
	a.artifactWg.Wait()
	return err
}

// acceptArtifact applies the name filter, extensions and file layout to a discovered path, setting the path
// properties of the info. It returns false if the artifact should not be collected.
// layoutPath is the path the file layout is matched against
func (a *ArtifactSourceImpl[S]) acceptArtifact(info *types.ArtifactInfo, layoutPath string) (bool, error) {
	if !a.NameFilter.Accept(info.OriginalName) || !a.Extensions.IsValid(types.LocalPath(info.OriginalName)) {
		return false, nil
	}
	if a.layout == nil {
		return true, nil
	}
	match, properties, err := getPathMetadata(a.layout, filepath.ToSlash(layoutPath))
	if err != nil {
		return false, fmt.Errorf("error extracting properties from %s: %w", layoutPath, err)
	}
	if !match {
		slog.Debug("artifact does not match file layout", "artifact", info.OriginalName, "layout", *a.Config.GetFileLayout())
		return false, nil
	}
	if err := info.SetPathProperties(properties); err != nil {
		return false, err
	}
	return true, nil
}

func (a *ArtifactSourceImpl[S]) OnArtifactDiscovered(ctx context.Context, info *types.ArtifactInfo) error {
	executionId, err := context_values.ExecutionIdFromContext(ctx)
	if err != nil {
		return err
	}

	if a.collectionState != nil && !a.collectionState.ShouldCollect(info) {
		slog.Debug("ArtifactDiscovered - already collected", "artifact", info.OriginalName)
		return a.NotifyObservers(ctx, events.NewArtifactSkippedEvent(executionId, info, types.ReasonAlreadyCollected, nil))
	}

	if err = a.NotifyObservers(ctx, events.NewArtifactDiscoveredEvent(executionId, info)); err != nil {
		return fmt.Errorf("error notifying observers of discovered artifact: %w", err)
	}

	t := time.Now()
	slog.Debug("ArtifactDiscovered - rate limiter waiting", "artifact", info.OriginalName)
	if err = a.artifactDownloadLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("error acquiring rate limiter: %w", err)
	}
	slog.Debug("ArtifactDiscovered - rate limiter acquired", "duration", time.Since(t), "artifact", info.OriginalName)

	a.timingLock.Lock()
	a.DownloadTiming.TryStart(constants.TimingDownload)
	a.timingLock.Unlock()

	a.artifactWg.Add(1)
	go func() {
		defer func() {
			a.artifactDownloadLimiter.Release()
			a.artifactWg.Done()
		}()
		downloadStart := time.Now()
		if err := a.Source.DownloadArtifact(ctx, info); err != nil {
			slog.Error("Error downloading artifact", "artifact", info.OriginalName, "error", err)
			if notifyErr := a.NotifyObservers(ctx, events.NewArtifactFailedEvent(executionId, info, err)); notifyErr != nil {
				slog.Error("Error notifying observers of download error", "download error", err, "notify error", notifyErr)
			}
		}
		a.timingLock.Lock()
		a.DownloadTiming.UpdateActiveDuration(time.Since(downloadStart))
		a.timingLock.Unlock()
	}()

	return nil
}

// OnArtifactDownloaded raises an ArtifactDownloaded event, observers process the artifact before this returns
func (a *ArtifactSourceImpl[S]) OnArtifactDownloaded(ctx context.Context, info *types.ArtifactInfo) error {
	executionId, err := context_values.ExecutionIdFromContext(ctx)
	if err != nil {
		return err
	}

	a.timingLock.Lock()
	a.DownloadTiming.End = time.Now()
	a.timingLock.Unlock()

	if err := a.NotifyObservers(ctx, events.NewArtifactDownloadedEvent(executionId, info)); err != nil {
		return fmt.Errorf("error notifying observers of downloaded artifact: %w", err)
	}
	return nil
}

// objectOpener opens an object of a remote store for reading
type objectOpener func(ctx context.Context, key string) (io.ReadCloser, error)

// downloadObject copies a remote artifact and its header sidecar to the tmp dir, then raises ArtifactDownloaded
// a missing sidecar is not an error here: the loader reports the artifact as unreadable
func (a *ArtifactSourceImpl[S]) downloadObject(ctx context.Context, info *types.ArtifactInfo, open objectOpener) error {
	key := info.OriginalName
	localPath := a.localObjectPath(key)
	size, err := copyObject(ctx, open, key, localPath)
	if err != nil {
		return fmt.Errorf("failed to download artifact %s: %w", key, err)
	}

	var sidecarErrors []error
	for _, sidecar := range types.SidecarPaths(key) {
		_, err := copyObject(ctx, open, sidecar, a.localObjectPath(sidecar))
		if err == nil {
			sidecarErrors = nil
			break
		}
		sidecarErrors = append(sidecarErrors, err)
	}
	if len(sidecarErrors) > 0 {
		slog.Warn("failed to download header for artifact", "artifact", key, "error", errors.Join(sidecarErrors...))
	}

	return a.OnArtifactDownloaded(ctx, info.Downloaded(localPath, size))
}

// localObjectPath returns the download path of an object key
// the key is cleaned as an absolute path first, so ".." elements cannot leave the tmp dir
func (a *ArtifactSourceImpl[S]) localObjectPath(key string) string {
	return filepath.Join(a.TmpDir, filepath.FromSlash(path.Clean("/"+key)))
}

func copyObject(ctx context.Context, open objectOpener, key, localPath string) (int64, error) {
	reader, err := open(ctx, key)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory for file: %w", err)
	}
	outFile, err := os.Create(localPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer outFile.Close()

	n, err := io.Copy(outFile, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to write data to file: %w", err)
	}
	return n, nil
}

func (a *ArtifactSourceImpl[S]) GetTiming() types.TimingCollection {
	a.timingLock.Lock()
	defer a.timingLock.Unlock()
	return types.TimingCollection{a.DiscoveryTiming, a.DownloadTiming}
}

// Close is the default implementation, sources which download remove their tmp dir
func (a *ArtifactSourceImpl[S]) Close() error {
	return nil
}

func (a *ArtifactSourceImpl[S]) removeTmpDir() error {
	if a.TmpDir == "" || a.TmpDir == BaseTmpDir {
		return nil
	}
	return os.RemoveAll(a.TmpDir)
}

// functions which must be implemented by structs embedding ArtifactSourceImpl

func (a *ArtifactSourceImpl[S]) Identifier() string {
	panic("Identifier must be implemented by the ArtifactSource implementation")
}

func (a *ArtifactSourceImpl[S]) DiscoverArtifacts(context.Context) error {
	panic("DiscoverArtifacts must be implemented by the ArtifactSource implementation")
}

func (a *ArtifactSourceImpl[S]) DownloadArtifact(context.Context, *types.ArtifactInfo) error {
	panic("DownloadArtifact must be implemented by the ArtifactSource implementation")
}

// sourceLocation describes a bucket location for artifact infos
func sourceLocation(bucket, prefix string) string {
	if prefix == "" {
		return bucket
	}
	return path.Join(bucket, prefix)
}
