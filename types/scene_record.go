package types

// SceneRecord is the record emitted for a decoded scene: (scene id, encoded metadata, pixel bytes)
type SceneRecord struct {
	SceneId string
	// header metadata, encoded with envi.EncodeMetadata
	Metadata []byte
	// band sequential little endian int16 pixel data, bands*rows*cols*2 bytes
	Pixels []byte

	// the original name of the artifact the record was decoded from
	Artifact string
	// path properties of the artifact, used by property filters
	Properties map[string]string
}

// Fields returns the emitted fields of the record, in schema order
func (r *SceneRecord) Fields() []any {
	return []any{r.SceneId, r.Metadata, r.Pixels}
}
