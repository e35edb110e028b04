package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFilter_Accept(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{name: "default filter matches bsq", path: "/opt/gms_sample/227064_000202_BLA_SR.bsq", want: true},
		{name: "default filter with file scheme", path: "file:/opt/gms_sample/227064_000321_BLA_SR.bsq", want: true},
		{name: "default filter rejects header", path: "/opt/gms_sample/227064_000202_BLA_SR.hdr", want: false},
		{name: "match is against base name only", pattern: `opt.*`, path: "/opt/scene.bsq", want: false},
		{name: "match is full, not partial", pattern: `scene`, path: "/opt/scene.bsq", want: false},
		{name: "custom filter", pattern: `\d+_\d+_BLA_SR\.bsq`, path: "s3/key/227064_000202_BLA_SR.bsq", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewNameFilter(tt.pattern)
			require.NoError(t, err)
			assert.Equalf(t, tt.want, f.Accept(tt.path), "Accept(%v)", tt.path)
		})
	}
}

func TestNewNameFilter_Invalid(t *testing.T) {
	_, err := NewNameFilter(`(`)
	assert.Error(t, err)
}

func TestSidecarPaths(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{path: "/opt/a.bsq", want: []string{"/opt/a.hdr", "/opt/a.bsq.hdr"}},
		{path: "/opt/a", want: []string{"/opt/a.hdr"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, SidecarPaths(tt.path))
		})
	}
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "/opt/gms_sample/a.bsq", LocalPath("file:/opt/gms_sample/a.bsq"))
	assert.Equal(t, "/opt/gms_sample/a.bsq", LocalPath("/opt/gms_sample/a.bsq"))
}

func TestExtensionLookup(t *testing.T) {
	l := NewExtensionLookup([]string{".bsq"})
	assert.True(t, l.IsValid("a.BSQ"))
	assert.False(t, l.IsValid("a.hdr"))
	assert.True(t, NewExtensionLookup(nil).IsValid("anything"))

	assert.NoError(t, ValidateExtensions([]string{".bsq", ".img"}))
	assert.EqualError(t, ValidateExtensions([]string{"bsq", ""}), "invalid extensions: bsq,<empty>")
}

func TestOutcome(t *testing.T) {
	info := NewArtifactInfo("file:/opt/a.bsq")
	record := &SceneRecord{SceneId: "1", Pixels: []byte{1, 0}}

	decoded := NewDecodedOutcome(info, record)
	assert.Equal(t, OutcomeDecoded, decoded.Status)
	assert.Equal(t, "1", decoded.SceneId)
	assert.Nil(t, decoded.WithoutRecord().Record)
	assert.NotNil(t, decoded.Record)

	skipped := NewSkippedOutcome(info, ReasonUnreadable, errors.New("no such file"))
	assert.Equal(t, "file:/opt/a.bsq: skipped (unreadable): no such file", skipped.String())

	failed := NewFailedOutcome(info, errors.New("boom"))
	assert.Equal(t, "file:/opt/a.bsq: failed: boom", failed.String())
}

func TestArtifactInfo_Downloaded(t *testing.T) {
	info := NewArtifactInfo("scenes/a.bsq", WithSource("aws_s3_bucket", "bucket"))
	require.NoError(t, info.SetPathProperties(map[string]string{"sensor": "BLA"}))

	d := info.Downloaded("/tmp/x/scenes/a.bsq", 12)
	assert.Equal(t, "/tmp/x/scenes/a.bsq", d.Name)
	assert.Equal(t, "scenes/a.bsq", d.OriginalName)
	assert.Equal(t, int64(12), d.Size)
	assert.Equal(t, "BLA", d.Properties["sensor"])
	assert.Equal(t, "scenes/a.bsq", info.Name)
}

func TestArtifactInfo_SetPathProperties(t *testing.T) {
	info := NewArtifactInfo("/scenes/2024/03/a.bsq")
	require.NoError(t, info.SetPathProperties(map[string]string{"year": "2024", "month": "03", "path_row": "227064"}))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), info.Timestamp)
	assert.Equal(t, "227064", info.Properties["path_row"])

	assert.Error(t, info.SetPathProperties(map[string]string{"year": "twenty"}))
}
