package envi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMetadata(t *testing.T) {
	h := Header{
		KeySceneId:     ScalarValue("26184107"),
		KeyDescription: TextValue("Landsat scene"),
		KeyBands:       ScalarValue("2"),
		KeyBandNames:   ListValue("red", "nir"),
		"unrelated":    ScalarValue("dropped"),
	}

	b, err := EncodeMetadata(h)
	require.NoError(t, err)

	got, err := DecodeMetadata(b)
	require.NoError(t, err)

	want := map[string]any{
		"scene_id":    "26184107",
		"description": "Landsat scene",
		"bands":       "2",
		"band_names":  []any{"red", "nir"},
	}
	assert.Equal(t, want, got)
}

func TestEncodeMetadata_Deterministic(t *testing.T) {
	h := Header{
		KeySamples: ScalarValue("1"),
		KeyLines:   ScalarValue("2"),
		KeyBands:   ScalarValue("3"),
		KeyMapInfo: ListValue("UTM", "1.0", "1.0"),
	}
	first, err := EncodeMetadata(h)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := EncodeMetadata(h)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEncodeMetadata_ExplicitKeys(t *testing.T) {
	h := Header{
		KeySceneId: ScalarValue("1"),
		"custom":   ScalarValue("value"),
	}
	b, err := EncodeMetadata(h, "custom")
	require.NoError(t, err)

	got, err := DecodeMetadata(b)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"custom": "value"}, got)
}

func TestMetadataFieldName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "scene id", want: "scene_id"},
		{key: "coordinate system string", want: "coordinate_system_string"},
		{key: "samples", want: "samples"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equalf(t, tt.want, MetadataFieldName(tt.key), "MetadataFieldName(%v)", tt.key)
		})
	}
}

func TestDecodeMetadata_Invalid(t *testing.T) {
	_, err := DecodeMetadata([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)
}
