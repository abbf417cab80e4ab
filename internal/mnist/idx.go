package mnist

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrFormat indicates malformed idx data.
var ErrFormat = errors.New("mnist: malformed idx data")

const (
	imagesMagic = 0x00000803
	labelsMagic = 0x00000801

	// maxPixels bounds the pixel block read from untrusted headers.
	maxPixels = 1 << 31
)

// imageSet is the raw content of an idx3 image file: count images of
// rows x cols bytes stored back to back.
type imageSet struct {
	count, rows, cols int
	pixels            []byte
}

// readImages parses an idx3-ubyte stream.
func readImages(r io.Reader) (*imageSet, error) {
	br := bufio.NewReader(r)
	var header [4]uint32
	if err := binary.Read(br, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: image header: %v", ErrFormat, err)
	}
	if header[0] != imagesMagic {
		return nil, fmt.Errorf("%w: image magic %#08x, want %#08x", ErrFormat, header[0], imagesMagic)
	}
	set := &imageSet{count: int(header[1]), rows: int(header[2]), cols: int(header[3])}
	if set.rows == 0 || set.cols == 0 {
		return nil, fmt.Errorf("%w: empty image size %dx%d", ErrFormat, set.cols, set.rows)
	}
	size := uint64(set.count) * uint64(set.rows) * uint64(set.cols)
	if size > maxPixels {
		return nil, fmt.Errorf("%w: %d images of %dx%d are too large", ErrFormat, set.count, set.cols, set.rows)
	}
	set.pixels = make([]byte, size)
	if _, err := io.ReadFull(br, set.pixels); err != nil {
		return nil, fmt.Errorf("%w: image data: %v", ErrFormat, err)
	}
	return set, nil
}

// readLabels parses an idx1-ubyte stream.
func readLabels(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	var header [2]uint32
	if err := binary.Read(br, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: label header: %v", ErrFormat, err)
	}
	if header[0] != labelsMagic {
		return nil, fmt.Errorf("%w: label magic %#08x, want %#08x", ErrFormat, header[0], labelsMagic)
	}
	if header[1] > maxPixels {
		return nil, fmt.Errorf("%w: %d labels are too many", ErrFormat, header[1])
	}
	labels := make([]byte, header[1])
	if _, err := io.ReadFull(br, labels); err != nil {
		return nil, fmt.Errorf("%w: label data: %v", ErrFormat, err)
	}
	for i, l := range labels {
		if l > 9 {
			return nil, fmt.Errorf("%w: label %d is %d", ErrFormat, i, l)
		}
	}
	return labels, nil
}

// WriteIDX writes images and labels in idx format. All images must share
// the size rows x cols given as len(images[i]) == rows*cols.
func WriteIDX(images, labels io.Writer, pixels [][]byte, digits []byte, rows, cols int) error {
	if len(pixels) != len(digits) {
		return fmt.Errorf("%w: %d images but %d labels", ErrFormat, len(pixels), len(digits))
	}
	header := [4]uint32{imagesMagic, uint32(len(pixels)), uint32(rows), uint32(cols)}
	if err := binary.Write(images, binary.BigEndian, header); err != nil {
		return err
	}
	for i, p := range pixels {
		if len(p) != rows*cols {
			return fmt.Errorf("%w: image %d has %d pixels, want %d", ErrFormat, i, len(p), rows*cols)
		}
		if _, err := images.Write(p); err != nil {
			return err
		}
	}
	if err := binary.Write(labels, binary.BigEndian, [2]uint32{labelsMagic, uint32(len(digits))}); err != nil {
		return err
	}
	_, err := labels.Write(digits)
	return err
}
