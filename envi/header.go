package envi

import (
	"fmt"
	"strconv"
	"strings"
)

// well known header keys (keys are always lowercased)
const (
	KeyDescription    = "description"
	KeySamples        = "samples"
	KeyLines          = "lines"
	KeyBands          = "bands"
	KeyHeaderOffset   = "header offset"
	KeyDataType       = "data type"
	KeyInterleave     = "interleave"
	KeyByteOrder      = "byte order"
	KeySceneId        = "scene id"
	KeyBandNames      = "band names"
	KeySensorType     = "sensor type"
	KeyAcquisition    = "acquisition time"
	KeyMapInfo        = "map info"
	KeyCoordSystem    = "coordinate system string"
	KeyWavelength     = "wavelength"
	KeyWavelengthUnit = "wavelength units"
	KeyIgnoreValue    = "data ignore value"
)

type ValueKind int

const (
	// KindScalar is a single line value, stored verbatim (trimmed)
	KindScalar ValueKind = iota
	// KindText is a brace delimited free text value (only used for the description)
	KindText
	// KindList is a brace delimited, comma separated list
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	default:
		return "scalar"
	}
}

// Value is a single header value
type Value struct {
	Kind  ValueKind
	Text  string
	Items []string
}

func ScalarValue(s string) Value {
	return Value{Kind: KindScalar, Text: s}
}

func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

func ListValue(items ...string) Value {
	return Value{Kind: KindList, Items: items}
}

func (v Value) IsList() bool {
	return v.Kind == KindList
}

// String returns the scalar or text value, or the list items joined with ", "
func (v Value) String() string {
	if v.Kind == KindList {
		return strings.Join(v.Items, ", ")
	}
	return v.Text
}

// Header is the parsed content of an ENVI header file, keyed by lowercased key
type Header map[string]Value

// String returns the value for the key as a string, and whether the key was present
func (h Header) String(key string) (string, bool) {
	v, ok := h[key]
	if !ok {
		return "", false
	}
	return v.String(), true
}

// List returns the list items for the key. A scalar value is returned as a single item list
func (h Header) List(key string) []string {
	v, ok := h[key]
	if !ok {
		return nil
	}
	if v.Kind == KindList {
		return v.Items
	}
	return []string{v.Text}
}

func (h Header) Int(key string) (int, error) {
	s, ok := h.String(key)
	if !ok {
		return 0, fmt.Errorf("header has no '%s'", key)
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("header '%s' is not an integer: %w", key, err)
	}
	return i, nil
}

// intOrDefault returns the integer value of the key, or the default if the key is not present
func (h Header) intOrDefault(key string, defaultValue int) (int, error) {
	if _, ok := h[key]; !ok {
		return defaultValue, nil
	}
	return h.Int(key)
}

// Samples returns the number of columns
func (h Header) Samples() (int, error) {
	return h.Int(KeySamples)
}

// Lines returns the number of rows
func (h Header) Lines() (int, error) {
	return h.Int(KeyLines)
}

func (h Header) Bands() (int, error) {
	return h.Int(KeyBands)
}

func (h Header) DataType() (int, error) {
	return h.Int(KeyDataType)
}

// HeaderOffset returns the number of bytes to skip at the start of the raster file (default 0)
func (h Header) HeaderOffset() (int, error) {
	return h.intOrDefault(KeyHeaderOffset, 0)
}

// ByteOrder returns 0 for little endian and 1 for big endian data (default 0)
func (h Header) ByteOrder() (int, error) {
	return h.intOrDefault(KeyByteOrder, 0)
}

// Interleave returns the lowercased interleave (default "bsq")
func (h Header) Interleave() string {
	s, ok := h.String(KeyInterleave)
	if !ok || s == "" {
		return "bsq"
	}
	return strings.ToLower(s)
}

func (h Header) SceneId() (string, bool) {
	s, ok := h.String(KeySceneId)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func (h Header) BandNames() []string {
	return h.List(KeyBandNames)
}

func (h Header) Description() string {
	s, _ := h.String(KeyDescription)
	return s
}
