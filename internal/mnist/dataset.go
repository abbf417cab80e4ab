// Package mnist loads the MNIST handwritten digit dataset and hands out
// random digit tiles.
//
// Tiles are greyscale images with a white background and dark ink: the raw
// MNIST intensity v (0 = background, 255 = ink) is stored as 255 - v.
package mnist

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
)

const (
	// ImageWidth and ImageHeight are the size of MNIST digits.
	ImageWidth  = 28
	ImageHeight = 28

	// ImagesFile and LabelsFile are the training set file names.
	ImagesFile = "train-images-idx3-ubyte.gz"
	LabelsFile = "train-labels-idx1-ubyte.gz"
)

// ErrNoTiles indicates a label without any tile.
var ErrNoTiles = errors.New("mnist: no tile for label")

// Dataset indexes digit tiles by label and by pixel content.
// It is read-only after construction and safe for concurrent use.
type Dataset struct {
	tiles   []*image.Gray
	labels  []byte
	byLabel [10][]int
	byPixel map[string]int
}

// Load reads the training set from dir. Both the gzip files and their
// decompressed versions (without .gz) are accepted.
func Load(dir string) (*Dataset, error) {
	imagesPath, err := locate(dir, ImagesFile)
	if err != nil {
		return nil, err
	}
	labelsPath, err := locate(dir, LabelsFile)
	if err != nil {
		return nil, err
	}

	images, err := openFile(imagesPath)
	if err != nil {
		return nil, fmt.Errorf("open images: %w", err)
	}
	defer func() { _ = images.Close() }()

	labels, err := openFile(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer func() { _ = labels.Close() }()

	return FromIDX(images, labels)
}

func locate(dir, name string) (string, error) {
	candidates := []string{
		filepath.Join(dir, name),
		filepath.Join(dir, name[:len(name)-len(".gz")]),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s not found in %s", name, dir)
}

// FromIDX builds a Dataset from idx image and label streams.
func FromIDX(images, labels io.Reader) (*Dataset, error) {
	set, err := readImages(images)
	if err != nil {
		return nil, err
	}
	digits, err := readLabels(labels)
	if err != nil {
		return nil, err
	}
	if len(digits) != set.count {
		return nil, fmt.Errorf("%w: %d images but %d labels", ErrFormat, set.count, len(digits))
	}

	d := &Dataset{
		tiles:   make([]*image.Gray, set.count),
		labels:  digits,
		byPixel: make(map[string]int, set.count),
	}
	size := set.rows * set.cols
	for i := 0; i < set.count; i++ {
		tile := image.NewGray(image.Rect(0, 0, set.cols, set.rows))
		for j, v := range set.pixels[i*size : (i+1)*size] {
			tile.Pix[j] = 255 - v
		}
		d.tiles[i] = tile
		d.byLabel[digits[i]] = append(d.byLabel[digits[i]], i)
		key := string(tile.Pix)
		if _, dup := d.byPixel[key]; !dup {
			d.byPixel[key] = int(digits[i])
		}
	}
	return d, nil
}

// Len returns the number of tiles.
func (d *Dataset) Len() int {
	return len(d.tiles)
}

// Count returns the number of tiles labelled label.
func (d *Dataset) Count(label int) int {
	if label < 0 || label > 9 {
		return 0
	}
	return len(d.byLabel[label])
}

// Tile returns a tile labelled label, chosen uniformly among all of them.
// The tile is shared with the dataset and must not be modified.
func (d *Dataset) Tile(label int, rng *rand.Rand) (*image.Gray, error) {
	if d.Count(label) == 0 {
		return nil, fmt.Errorf("%w %d", ErrNoTiles, label)
	}
	idx := d.byLabel[label]
	return d.tiles[idx[rng.IntN(len(idx))]], nil
}

// Label returns the label of a tile with exactly the pixels of tile.
func (d *Dataset) Label(tile *image.Gray) (int, bool) {
	label, ok := d.byPixel[string(compact(tile))]
	return label, ok
}

// compact returns the pixels of img row by row without stride padding.
func compact(img *image.Gray) []byte {
	b := img.Bounds()
	if img.Stride == b.Dx() {
		return img.Pix[:b.Dx()*b.Dy()]
	}
	out := make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[off:off+b.Dx()]...)
	}
	return out
}
