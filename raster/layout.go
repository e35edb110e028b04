package raster

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/turbot/tailpipe-plugin-envi/envi"
)

var (
	ErrUnsupportedDataType = errors.New("unsupported data type")
	ErrInvalidLayout       = errors.New("invalid raster layout")
	ErrTruncated           = errors.New("raster data truncated")
)

// DataType is the ENVI data type code of the raster elements
type DataType int

const (
	DataTypeByte   DataType = 1
	DataTypeInt16  DataType = 2
	DataTypeUint16 DataType = 12
)

// SupportedDataTypes lists the element types the decoder can convert to int16
var SupportedDataTypes = []DataType{DataTypeByte, DataTypeInt16, DataTypeUint16}

// Size returns the element size in bytes, or 0 for an unsupported type
func (d DataType) Size() int {
	switch d {
	case DataTypeByte:
		return 1
	case DataTypeInt16, DataTypeUint16:
		return 2
	default:
		return 0
	}
}

func (d DataType) String() string {
	switch d {
	case DataTypeByte:
		return "uint8"
	case DataTypeInt16:
		return "int16"
	case DataTypeUint16:
		return "uint16"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

type Interleave string

const (
	InterleaveBSQ Interleave = "bsq"
	InterleaveBIL Interleave = "bil"
	InterleaveBIP Interleave = "bip"
)

// Layout describes how the elements of a raster are stored in its flat binary file
type Layout struct {
	Samples      int
	Lines        int
	Bands        int
	DataType     DataType
	ByteOrder    binary.ByteOrder
	Interleave   Interleave
	HeaderOffset int64
}

// LayoutFromHeader builds the layout described by an ENVI header
func LayoutFromHeader(h envi.Header) (Layout, error) {
	var l Layout
	var errs []error

	var err error
	if l.Samples, err = h.Samples(); err != nil {
		errs = append(errs, err)
	}
	if l.Lines, err = h.Lines(); err != nil {
		errs = append(errs, err)
	}
	if l.Bands, err = h.Bands(); err != nil {
		errs = append(errs, err)
	}
	dataType, err := h.DataType()
	if err != nil {
		errs = append(errs, err)
	}
	l.DataType = DataType(dataType)

	offset, err := h.HeaderOffset()
	if err != nil {
		errs = append(errs, err)
	}
	l.HeaderOffset = int64(offset)

	byteOrder, err := h.ByteOrder()
	if err != nil {
		errs = append(errs, err)
	}
	switch byteOrder {
	case 0:
		l.ByteOrder = binary.LittleEndian
	case 1:
		l.ByteOrder = binary.BigEndian
	default:
		errs = append(errs, fmt.Errorf("invalid byte order %d", byteOrder))
	}
	l.Interleave = Interleave(strings.ToLower(h.Interleave()))

	if len(errs) > 0 {
		return l, fmt.Errorf("%w: %w", ErrInvalidLayout, errors.Join(errs...))
	}
	return l, l.Validate()
}

func (l Layout) Validate() error {
	if l.DataType.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedDataType, l.DataType)
	}

	var problems []string
	if l.Samples <= 0 {
		problems = append(problems, "samples must be positive")
	}
	if l.Lines <= 0 {
		problems = append(problems, "lines must be positive")
	}
	if l.Bands <= 0 {
		problems = append(problems, "bands must be positive")
	}
	if l.HeaderOffset < 0 {
		problems = append(problems, "header offset must not be negative")
	}
	if l.ByteOrder == nil {
		problems = append(problems, "byte order must be set")
	}
	switch l.Interleave {
	case InterleaveBSQ, InterleaveBIL, InterleaveBIP:
	default:
		problems = append(problems, fmt.Sprintf("unknown interleave '%s'", l.Interleave))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidLayout, strings.Join(problems, ", "))
	}
	// the element count must fit in an int, HeaderOffset+DataSize in an int64
	if l.Samples > math.MaxInt/l.Lines ||
		l.BandSize() > math.MaxInt/l.Bands ||
		int64(l.BandSize()*l.Bands) > (math.MaxInt64-l.HeaderOffset)/int64(l.DataType.Size()) {
		return fmt.Errorf("%w: %d samples, %d lines, %d bands exceed the addressable size", ErrInvalidLayout, l.Samples, l.Lines, l.Bands)
	}
	return nil
}

// BandSize returns the number of elements in a single band
func (l Layout) BandSize() int {
	return l.Samples * l.Lines
}

// DataSize returns the number of bytes of raster data following the header offset
func (l Layout) DataSize() int64 {
	return int64(l.BandSize()) * int64(l.Bands) * int64(l.DataType.Size())
}

// elementIndex returns the position of an element in the stored element sequence
func (l Layout) elementIndex(band, row, col int) int {
	switch l.Interleave {
	case InterleaveBIL:
		return (row*l.Bands+band)*l.Samples + col
	case InterleaveBIP:
		return (row*l.Samples+col)*l.Bands + band
	default:
		return band*l.BandSize() + row*l.Samples + col
	}
}
