package envi

import (
	"fmt"

	"github.com/iancoleman/strcase"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// MetadataKeys are the header keys carried with a scene record, if present
var MetadataKeys = []string{
	KeySceneId,
	KeyDescription,
	KeySamples,
	KeyLines,
	KeyBands,
	KeyDataType,
	KeyInterleave,
	KeyByteOrder,
	KeyHeaderOffset,
	KeySensorType,
	KeyAcquisition,
	KeyMapInfo,
	KeyCoordSystem,
	KeyWavelength,
	KeyWavelengthUnit,
	KeyBandNames,
	KeyIgnoreValue,
}

// EncodeMetadata encodes the header values for the given keys (MetadataKeys if none are given)
// as a protobuf Struct, keyed by the snake cased header key.
// Scalars and text are encoded as strings, lists as lists of strings.
// The encoding is deterministic for a given header.
func EncodeMetadata(h Header, keys ...string) ([]byte, error) {
	if len(keys) == 0 {
		keys = MetadataKeys
	}

	fields := make(map[string]any, len(keys))
	for _, key := range keys {
		v, ok := h[key]
		if !ok {
			continue
		}
		if v.IsList() {
			items := make([]any, len(v.Items))
			for i, item := range v.Items {
				items[i] = item
			}
			fields[MetadataFieldName(key)] = items
			continue
		}
		fields[MetadataFieldName(key)] = v.Text
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata struct: %w", err)
	}
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return b, nil
}

// DecodeMetadata reverses EncodeMetadata
func DecodeMetadata(b []byte) (map[string]any, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return s.AsMap(), nil
}

// MetadataFieldName converts a header key to the field name used in encoded metadata
// e.g. "scene id" -> "scene_id"
func MetadataFieldName(key string) string {
	return strcase.ToSnake(key)
}
