package raster

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Image is a decoded raster, band sequential: band j occupies Data[j*Rows*Cols : (j+1)*Rows*Cols]
type Image struct {
	Bands int
	Rows  int
	Cols  int
	Data  []int16
}

// Band returns the elements of the zero based band
func (i *Image) Band(j int) []int16 {
	size := i.Rows * i.Cols
	return i.Data[j*size : (j+1)*size]
}

// Bytes returns the image data as little endian int16 values
func (i *Image) Bytes() []byte {
	b := make([]byte, len(i.Data)*2)
	for n, v := range i.Data {
		binary.LittleEndian.PutUint16(b[n*2:], uint16(v))
	}
	return b
}

// DecodeFile decodes the raster file at path. Errors opening the file are returned unwrapped.
func DecodeFile(path string, l Layout) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, l)
}

// sizer is implemented by readers which know their length, e.g. io.SectionReader and bytes.Reader
type sizer interface {
	Size() int64
}

// Decode reads the raster described by the layout, converting every element to int16
// Bands are decoded one after the other into contiguous slices of the result.
// A raster shorter than the layout fails with ErrTruncated. If the length of r is known (a Size method,
// or an *os.File) this is checked before any buffer is allocated, otherwise the data is read incrementally.
func Decode(r io.ReaderAt, l Layout) (*Image, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	buf, err := readData(r, l)
	if err != nil {
		return nil, err
	}

	img := &Image{
		Bands: l.Bands,
		Rows:  l.Lines,
		Cols:  l.Samples,
		Data:  make([]int16, l.BandSize()*l.Bands),
	}
	elementSize := l.DataType.Size()

	// bsq is stored in output order
	if l.Interleave == InterleaveBSQ {
		for i := range img.Data {
			img.Data[i] = l.element(buf[i*elementSize:])
		}
		return img, nil
	}

	for band := 0; band < l.Bands; band++ {
		out := img.Band(band)
		for row := 0; row < l.Lines; row++ {
			for col := 0; col < l.Samples; col++ {
				pos := l.elementIndex(band, row, col) * elementSize
				out[row*l.Samples+col] = l.element(buf[pos:])
			}
		}
	}
	return img, nil
}

// readData reads the DataSize bytes following the header offset
// the buffer is only allocated up front if the length of r shows it holds the whole raster
func readData(r io.ReaderAt, l Layout) ([]byte, error) {
	want := l.DataSize()
	size, known, err := readerSize(r)
	if err != nil {
		return nil, err
	}
	if !known {
		buf, err := io.ReadAll(io.NewSectionReader(r, l.HeaderOffset, want))
		if err != nil {
			return nil, err
		}
		if int64(len(buf)) < want {
			return nil, fmt.Errorf("%w: read %d of %d bytes", ErrTruncated, len(buf), want)
		}
		return buf, nil
	}

	if l.HeaderOffset+want > size {
		return nil, fmt.Errorf("%w: layout needs %d bytes, raster has %d", ErrTruncated, l.HeaderOffset+want, size)
	}
	buf := make([]byte, want)
	n, err := r.ReadAt(buf, l.HeaderOffset)
	if n < len(buf) {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: read %d of %d bytes", ErrTruncated, n, len(buf))
		}
		return nil, err
	}
	return buf, nil
}

func readerSize(r io.ReaderAt) (int64, bool, error) {
	switch v := r.(type) {
	case sizer:
		return v.Size(), true, nil
	case *os.File:
		fi, err := v.Stat()
		if err != nil {
			return 0, false, err
		}
		if !fi.Mode().IsRegular() {
			return 0, false, nil
		}
		return fi.Size(), true, nil
	default:
		return 0, false, nil
	}
}

// element converts a single stored element to int16
// uint16 values above math.MaxInt16 wrap
func (l Layout) element(b []byte) int16 {
	switch l.DataType {
	case DataTypeByte:
		return int16(b[0])
	default:
		return int16(l.ByteOrder.Uint16(b))
	}
}
