package types

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/turbot/tailpipe-plugin-envi/constants"
)

// FileScheme is the scheme prefix used by catalogs for local scene paths, e.g. "file:/opt/scenes/a.bsq"
const FileScheme = "file:"

// ArtifactInfo describes a single scene artifact (one split)
type ArtifactInfo struct {
	// if the artifact has been downloaded, Name will be the path to the downloaded file
	// and OriginalName will be the source path or object key
	Name         string `json:"-"`
	OriginalName string `json:"original_name"`
	// the identifier of the source which discovered the artifact
	SourceType string `json:"source_type,omitempty"`
	// the bucket or root path the artifact was discovered in
	SourceLocation string `json:"source_location,omitempty"`

	Size      int64     `json:"size,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`

	// properties extracted from the artifact path using the source file layout
	Properties map[string]string `json:"properties,omitempty"`
}

func NewArtifactInfo(path string, opts ...ArtifactInfoOpts) *ArtifactInfo {
	res := &ArtifactInfo{
		Name:         path,
		OriginalName: path,
		Properties:   make(map[string]string),
	}

	for _, opt := range opts {
		opt(res)
	}
	return res
}

// SetPathProperties sets the properties of the artifact which have been determined based on the path
// if the properties include a year (and optionally month and day) the artifact timestamp is set from them
func (i *ArtifactInfo) SetPathProperties(properties map[string]string) error {
	if i.Properties == nil {
		i.Properties = make(map[string]string, len(properties))
	}
	for k, v := range properties {
		i.Properties[k] = v
	}

	if _, ok := properties[constants.PathFieldYear]; !ok {
		return nil
	}
	// month and day default to 1
	dateParts := []int{0, 1, 1}
	for idx, field := range []string{constants.PathFieldYear, constants.PathFieldMonth, constants.PathFieldDay} {
		v, ok := properties[field]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("error parsing %s '%s': %w", field, v, err)
		}
		dateParts[idx] = n
	}
	i.Timestamp = time.Date(dateParts[0], time.Month(dateParts[1]), dateParts[2], 0, 0, 0, 0, time.UTC)
	return nil
}

// LocalPath returns the local file path of the artifact, with any file scheme prefix removed
func (i *ArtifactInfo) LocalPath() string {
	return LocalPath(i.Name)
}

// Downloaded returns a copy of the info for the given local path, retaining the original name
func (i *ArtifactInfo) Downloaded(localPath string, size int64) *ArtifactInfo {
	res := *i
	res.Name = localPath
	res.Size = size
	return &res
}

// LocalPath strips the file scheme prefix from a path
func LocalPath(path string) string {
	return strings.TrimPrefix(path, FileScheme)
}

// SidecarPaths returns the candidate header paths for a raster path, in order of preference:
// the path with its extension replaced by ".hdr", then the path with ".hdr" appended
func SidecarPaths(rasterPath string) []string {
	ext := filepath.Ext(rasterPath)
	replaced := strings.TrimSuffix(rasterPath, ext) + ".hdr"
	appended := rasterPath + ".hdr"
	if ext == "" || replaced == appended {
		return []string{appended}
	}
	return []string{replaced, appended}
}
