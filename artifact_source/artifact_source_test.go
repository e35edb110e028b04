package artifact_source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbot/tailpipe-plugin-envi/artifact_source_config"
	"github.com/turbot/tailpipe-plugin-envi/collection_state"
	"github.com/turbot/tailpipe-plugin-envi/config_data"
	"github.com/turbot/tailpipe-plugin-envi/context_values"
	"github.com/turbot/tailpipe-plugin-envi/events"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

type testObserver struct {
	mut        sync.Mutex
	Discovered []string
	Downloaded []*types.ArtifactInfo
	Skipped    map[string]string
	Failed     []string
}

func (t *testObserver) Notify(_ context.Context, e events.Event) error {
	t.mut.Lock()
	defer t.mut.Unlock()
	switch ty := e.(type) {
	case *events.ArtifactDiscovered:
		t.Discovered = append(t.Discovered, ty.Info.OriginalName)
	case *events.ArtifactDownloaded:
		t.Downloaded = append(t.Downloaded, ty.Info)
	case *events.ArtifactSkipped:
		if t.Skipped == nil {
			t.Skipped = map[string]string{}
		}
		t.Skipped[ty.Info.OriginalName] = ty.Reason
	case *events.ArtifactFailed:
		t.Failed = append(t.Failed, ty.Info.OriginalName)
	}
	return nil
}

func (t *testObserver) sortedDiscovered() []string {
	res := append([]string{}, t.Discovered...)
	sort.Strings(res)
	return res
}

func testContext() context.Context {
	return context_values.WithExecutionId(context.Background(), "test-execution")
}

// writeTree creates empty files at the given relative paths
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(f), 0644))
	}
}

func newSource(t *testing.T, sourceType, config string, opts ...ArtifactSourceOption) (ArtifactSource, *testObserver) {
	t.Helper()
	configData := config_data.NewSourceConfigData([]byte(config), hcl.Range{Filename: "test.hcl"}, sourceType)
	source, err := Factory.GetArtifactSource(testContext(), configData, append(opts, WithTmpDir(t.TempDir()))...)
	require.NoError(t, err)
	observer := &testObserver{}
	require.NoError(t, source.AddObserver(observer))
	return source, observer
}

func TestFileSystemSource_DiscoverArtifacts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"227064_000202_BLA_SR.bsq",
		"227064_000202_BLA_SR.hdr",
		"2021/03/14/227064_000321_BLA_SR.bsq",
		"2021/03/14/227064_000321_BLA_SR.hdr",
		"2021/03/15/228064_000100_OLI_SR.bsq",
		"notes.txt",
		"archive.bsq.gz",
	)

	tests := []struct {
		name   string
		config string
		want   []string
	}{
		{
			name:   "default filter, recursive",
			config: fmt.Sprintf("paths = [%q]", root),
			want: []string{
				filepath.Join(root, "2021/03/14/227064_000321_BLA_SR.bsq"),
				filepath.Join(root, "2021/03/15/228064_000100_OLI_SR.bsq"),
				filepath.Join(root, "227064_000202_BLA_SR.bsq"),
			},
		},
		{
			name:   "not recursive",
			config: fmt.Sprintf("paths = [%q]\nrecursive = false", root),
			want:   []string{filepath.Join(root, "227064_000202_BLA_SR.bsq")},
		},
		{
			name:   "custom filter",
			config: fmt.Sprintf("paths = [%q]\nfilter = \".*_BLA_SR\\\\.bsq\"", root),
			want: []string{
				filepath.Join(root, "2021/03/14/227064_000321_BLA_SR.bsq"),
				filepath.Join(root, "227064_000202_BLA_SR.bsq"),
			},
		},
		{
			name:   "filter must match the whole name",
			config: fmt.Sprintf("paths = [%q]\nfilter = \"BLA\"", root),
			want:   []string{},
		},
		{
			name: "file layout",
			config: fmt.Sprintf("paths = [%q]\n", root) +
				`file_layout = "%%{YEAR:year}/%%{MONTHNUM:month}/%%{MONTHDAY:day}/%%{INT:path_row}_%%{INT:frame}_%%{DATA:sensor}_SR.bsq"`,
			want: []string{
				filepath.Join(root, "2021/03/14/227064_000321_BLA_SR.bsq"),
				filepath.Join(root, "2021/03/15/228064_000100_OLI_SR.bsq"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, observer := newSource(t, artifact_source_config.FileSystemSourceIdentifier, tt.config)
			require.NoError(t, source.Collect(testContext()))

			got := observer.sortedDiscovered()
			if len(tt.want) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
			assert.Len(t, observer.Downloaded, len(got), "every discovered artifact is downloaded")
		})
	}
}

func TestFileSystemSource_PathProperties(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "2021/03/14/227064_000321_BLA_SR.bsq")

	config := fmt.Sprintf("paths = [%q]\n", root) +
		`file_layout = "%%{YEAR:year}/%%{MONTHNUM:month}/%%{MONTHDAY:day}/%%{PATHROW:path_row}_%%{INT:frame}_%%{DATA:sensor}_SR.bsq"
patterns = { PATHROW = "\\d{6}" }`
	source, observer := newSource(t, artifact_source_config.FileSystemSourceIdentifier, config)
	require.NoError(t, source.Collect(testContext()))

	require.Len(t, observer.Downloaded, 1)
	info := observer.Downloaded[0]
	assert.Equal(t, "227064", info.Properties["path_row"])
	assert.Equal(t, "BLA", info.Properties["sensor"])
	assert.Equal(t, 2021, info.Timestamp.Year())
	assert.Equal(t, 14, info.Timestamp.Day())
	assert.Equal(t, artifact_source_config.FileSystemSourceIdentifier, info.SourceType)
	assert.Equal(t, int64(len("2021/03/14/227064_000321_BLA_SR.bsq")), info.Size)
}

func TestFileSystemSource_CollectionState(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.bsq", "b.bsq")

	state := collection_state.New("")
	state.Upsert(types.NewArtifactInfo(filepath.Join(root, "a.bsq"), types.WithSize(int64(len("a.bsq")))))

	source, observer := newSource(t, artifact_source_config.FileSystemSourceIdentifier,
		fmt.Sprintf("paths = [%q]", root), WithCollectionState(state))
	require.NoError(t, source.Collect(testContext()))

	assert.Equal(t, []string{filepath.Join(root, "b.bsq")}, observer.Discovered)
	assert.Equal(t, map[string]string{filepath.Join(root, "a.bsq"): types.ReasonAlreadyCollected}, observer.Skipped)
}

func TestFileSystemSource_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{name: "missing paths", config: ``},
		{name: "path does not exist", config: `paths = ["/does/not/exist"]`},
		{name: "invalid filter", config: fmt.Sprintf("paths = [%q]\nfilter = \"(\"", t.TempDir())},
		{name: "invalid extension", config: fmt.Sprintf("paths = [%q]\nextensions = [\"bsq\"]", t.TempDir())},
		{name: "unknown attribute", config: fmt.Sprintf("paths = [%q]\nbucket = \"b\"", t.TempDir())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configData := config_data.NewSourceConfigData([]byte(tt.config), hcl.Range{}, artifact_source_config.FileSystemSourceIdentifier)
			_, err := Factory.GetArtifactSource(testContext(), configData)
			assert.Error(t, err)
		})
	}
}

func TestFactory(t *testing.T) {
	assert.Equal(t, []string{"aws_s3_bucket", "catalog", "file_system", "gcp_storage_bucket", "minio_bucket"}, Factory.GetSourceTypes())

	_, err := Factory.GetArtifactSource(testContext(), config_data.NewSourceConfigData(nil, hcl.Range{}, "ftp"))
	assert.ErrorContains(t, err, "source not registered: ftp")
}

func TestCatalogSource(t *testing.T) {
	config := `job_id = 42
files = ["file:/scenes/a.bsq", "file:/scenes/a.hdr", "file:/scenes/b.bsq", "file:/scenes/a.bsq"]`
	source, observer := newSource(t, artifact_source_config.CatalogSourceIdentifier, config)
	require.NoError(t, source.Collect(testContext()))

	// header files are filtered out and duplicates are emitted once
	assert.Equal(t, []string{"file:/scenes/a.bsq", "file:/scenes/b.bsq"}, observer.sortedDiscovered())
	for _, info := range observer.Downloaded {
		assert.Equal(t, "42", info.SourceLocation)
	}
}

func TestCatalogSource_SampleCatalog(t *testing.T) {
	t.Setenv("ENVI_CATALOG_CONNECTION_STRING", "")
	source, observer := newSource(t, artifact_source_config.CatalogSourceIdentifier, `job_id = 26184107`)
	require.NoError(t, source.Collect(testContext()))

	assert.Equal(t, []string{
		"file:/opt/gms_sample/227064_000202_BLA_SR.bsq",
		"file:/opt/gms_sample/227064_000321_BLA_SR.bsq",
	}, observer.sortedDiscovered())
}

func TestCatalogSource_Parallelism(t *testing.T) {
	config := `job_id = 1
files = ["/a.bsq", "/b.bsq", "/c.bsq", "/d.bsq"]`

	var mut sync.Mutex
	active, maxActive := 0, 0
	source, _ := newSource(t, artifact_source_config.CatalogSourceIdentifier, config, WithParallelism(2))
	require.NoError(t, source.AddObserver(observerFunc(func(e events.Event) {
		if _, ok := e.(*events.ArtifactDownloaded); !ok {
			return
		}
		mut.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mut.Unlock()

		time.Sleep(5 * time.Millisecond)

		mut.Lock()
		active--
		mut.Unlock()
	})))
	require.NoError(t, source.Collect(testContext()))
	assert.LessOrEqual(t, maxActive, 2)
}

type observerFunc func(events.Event)

func (f observerFunc) Notify(_ context.Context, e events.Event) error {
	f(e)
	return nil
}

func TestDownloadObject(t *testing.T) {
	objects := map[string]string{
		"scenes/a.bsq": "raster-a",
		"scenes/a.hdr": "ENVI",
		"scenes/b.bsq": "raster-b",
		// appended sidecar name
		"scenes/b.bsq.hdr": "ENVI",
		"scenes/c.bsq":     "raster-c",
	}
	open := func(_ context.Context, key string) (io.ReadCloser, error) {
		content, ok := objects[key]
		if !ok {
			return nil, errors.New("NoSuchKey")
		}
		return io.NopCloser(bytes.NewReader([]byte(content))), nil
	}

	source := &FileSystemSource{}
	source.RegisterSource(source)
	source.TmpDir = t.TempDir()
	observer := &testObserver{}
	require.NoError(t, source.AddObserver(observer))

	for _, key := range []string{"scenes/a.bsq", "scenes/b.bsq", "scenes/c.bsq"} {
		require.NoError(t, source.downloadObject(testContext(), types.NewArtifactInfo(key), open))
	}
	assert.Error(t, source.downloadObject(testContext(), types.NewArtifactInfo("scenes/missing.bsq"), open))

	require.Len(t, observer.Downloaded, 3)
	a := observer.Downloaded[0]
	assert.Equal(t, "scenes/a.bsq", a.OriginalName)
	assert.Equal(t, filepath.Join(source.TmpDir, "scenes", "a.bsq"), a.Name)
	assert.Equal(t, int64(len("raster-a")), a.Size)

	assert.FileExists(t, filepath.Join(source.TmpDir, "scenes", "a.hdr"))
	assert.FileExists(t, filepath.Join(source.TmpDir, "scenes", "b.bsq.hdr"))
	assert.NoFileExists(t, filepath.Join(source.TmpDir, "scenes", "c.hdr"))
}

func TestDownloadObject_KeyOutsideTmpDir(t *testing.T) {
	open := func(_ context.Context, key string) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte(key))), nil
	}

	base := t.TempDir()
	source := &FileSystemSource{}
	source.RegisterSource(source)
	source.TmpDir = filepath.Join(base, "source", "tmp")
	observer := &testObserver{}
	require.NoError(t, source.AddObserver(observer))

	require.NoError(t, source.downloadObject(testContext(), types.NewArtifactInfo("../../escape.bsq"), open))

	require.Len(t, observer.Downloaded, 1)
	assert.Equal(t, filepath.Join(source.TmpDir, "escape.bsq"), observer.Downloaded[0].Name)
	assert.Equal(t, "../../escape.bsq", observer.Downloaded[0].OriginalName)
	assert.FileExists(t, filepath.Join(source.TmpDir, "escape.hdr"))
	assert.NoFileExists(t, filepath.Join(base, "escape.bsq"))
	assert.NoFileExists(t, filepath.Join(base, "escape.hdr"))
}
