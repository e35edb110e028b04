package artifact_loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/turbot/tailpipe-plugin-envi/envi"
	"github.com/turbot/tailpipe-plugin-envi/raster"
	"github.com/turbot/tailpipe-plugin-envi/types"
)

const SceneLoaderIdentifier = "scene_loader"

// ErrHeaderNotFound is returned when no header sidecar exists for a raster
var ErrHeaderNotFound = errors.New("header not found")

// SceneLoader decodes an ENVI raster and its header sidecar into a SceneRecord
type SceneLoader struct {
	// the element types accepted, all supported types if empty
	DataTypes []raster.DataType
	// the header keys encoded into the record metadata, envi.MetadataKeys if empty
	MetadataKeys []string

	initOnce sync.Once
	initErr  error
}

func NewSceneLoader() *SceneLoader {
	return &SceneLoader{}
}

func (l *SceneLoader) Identifier() string {
	return SceneLoaderIdentifier
}

// init validates the configuration once, on first use
func (l *SceneLoader) init() error {
	l.initOnce.Do(func() {
		if len(l.DataTypes) == 0 {
			l.DataTypes = raster.SupportedDataTypes
		}
		for _, d := range l.DataTypes {
			if !slices.Contains(raster.SupportedDataTypes, d) {
				l.initErr = fmt.Errorf("%w: %s", raster.ErrUnsupportedDataType, d)
				return
			}
		}
		slog.Debug("SceneLoader initialized", "data types", l.DataTypes)
	})
	return l.initErr
}

// Load implements [Loader]
// an artifact whose raster or header cannot be opened is skipped as unreadable;
// a header or raster which cannot be decoded fails
func (l *SceneLoader) Load(ctx context.Context, info *types.ArtifactInfo) *types.Outcome {
	if err := ctx.Err(); err != nil {
		return types.NewFailedOutcome(info, err)
	}
	if err := l.init(); err != nil {
		return types.NewFailedOutcome(info, err)
	}

	rasterPath := info.LocalPath()
	f, err := os.Open(rasterPath)
	if err != nil {
		slog.Warn("raster is unreadable, skipping", "artifact", info.OriginalName, "error", err)
		return types.NewSkippedOutcome(info, types.ReasonUnreadable, err)
	}
	defer f.Close()

	headerPath, err := findHeader(rasterPath)
	if err != nil {
		slog.Warn("raster header is unreadable, skipping", "artifact", info.OriginalName, "error", err)
		return types.NewSkippedOutcome(info, types.ReasonUnreadable, err)
	}
	header, err := envi.ReadHeaderFile(headerPath)
	if err != nil {
		if errors.Is(err, envi.ErrNotHeader) || errors.Is(err, envi.ErrMalformedHeader) {
			return types.NewFailedOutcome(info, err)
		}
		slog.Warn("raster header is unreadable, skipping", "artifact", info.OriginalName, "error", err)
		return types.NewSkippedOutcome(info, types.ReasonUnreadable, err)
	}

	layout, err := raster.LayoutFromHeader(header)
	if err != nil {
		return types.NewFailedOutcome(info, fmt.Errorf("%s: %w", headerPath, err))
	}
	if !slices.Contains(l.DataTypes, layout.DataType) {
		return types.NewFailedOutcome(info, fmt.Errorf("%w: %s is not accepted", raster.ErrUnsupportedDataType, layout.DataType))
	}

	img, err := raster.Decode(f, layout)
	if err != nil {
		return types.NewFailedOutcome(info, fmt.Errorf("%s: %w", rasterPath, err))
	}

	metadata, err := envi.EncodeMetadata(header, l.MetadataKeys...)
	if err != nil {
		return types.NewFailedOutcome(info, err)
	}

	sceneId, ok := header.SceneId()
	if !ok {
		sceneId = strings.TrimSuffix(filepath.Base(rasterPath), filepath.Ext(rasterPath))
		slog.Debug("header has no scene id, using file name", "artifact", info.OriginalName, "scene id", sceneId)
	}

	record := &types.SceneRecord{
		SceneId:    sceneId,
		Metadata:   metadata,
		Pixels:     img.Bytes(),
		Artifact:   info.OriginalName,
		Properties: recordProperties(header, info.Properties),
	}
	slog.Debug("decoded scene", "artifact", info.OriginalName, "scene id", sceneId, "bands", img.Bands, "rows", img.Rows, "cols", img.Cols)
	return types.NewDecodedOutcome(info, record)
}

// findHeader returns the first existing sidecar header of the raster
func findHeader(rasterPath string) (string, error) {
	candidates := types.SidecarPaths(rasterPath)
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrHeaderNotFound, strings.Join(candidates, ", "))
}

// recordProperties returns the scalar header values (keyed by metadata field name) overlaid with the path properties
func recordProperties(header envi.Header, pathProperties map[string]string) map[string]string {
	res := make(map[string]string, len(header)+len(pathProperties))
	for key, value := range header {
		if value.IsList() {
			continue
		}
		res[envi.MetadataFieldName(key)] = value.Text
	}
	for k, v := range pathProperties {
		res[k] = v
	}
	return res
}
