// Package glyph renders digit tiles from a bitmap font. It stands in for
// the MNIST dataset when the dataset is not available, and gives tests a
// deterministic tile source.
package glyph

import (
	"fmt"
	"image"
	"math/rand/v2"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultSize     = 28
	DefaultVariants = 15
)

// Options configures a Set.
type Options struct {
	// Size is the tile width and height in pixels.
	Size int
	// Variants is the number of renderings per digit. Variants differ in
	// glyph offset and scale.
	Variants int
}

// Set holds pre-rendered digit tiles. It is read-only after New and safe
// for concurrent use.
type Set struct {
	size     int
	variants [10][]*image.Gray
	byPixel  map[string]int
}

// New renders all digit variants.
func New(opts Options) *Set {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Variants <= 0 {
		opts.Variants = DefaultVariants
	}
	s := &Set{size: opts.Size, byPixel: make(map[string]int)}
	for d := 0; d < 10; d++ {
		mask := renderText(strconv.Itoa(d))
		for v := 0; v < opts.Variants; v++ {
			tile := s.place(mask, v)
			key := string(tile.Pix)
			if _, dup := s.byPixel[key]; dup {
				continue
			}
			s.byPixel[key] = d
			s.variants[d] = append(s.variants[d], tile)
		}
	}
	return s
}

// Size returns the tile edge length.
func (s *Set) Size() int { return s.size }

// Count returns the number of distinct tiles for label.
func (s *Set) Count(label int) int {
	if label < 0 || label > 9 {
		return 0
	}
	return len(s.variants[label])
}

// Tile returns a random rendering of label. The tile is shared and must
// not be modified.
func (s *Set) Tile(label int, rng *rand.Rand) (*image.Gray, error) {
	if s.Count(label) == 0 {
		return nil, fmt.Errorf("no glyph for label %d", label)
	}
	v := s.variants[label]
	return v[rng.IntN(len(v))], nil
}

// Label returns the digit a tile was rendered from.
func (s *Set) Label(tile *image.Gray) (int, bool) {
	b := tile.Bounds()
	pix := make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := tile.PixOffset(b.Min.X, y)
		pix = append(pix, tile.Pix[off:off+b.Dx()]...)
	}
	label, ok := s.byPixel[string(pix)]
	return label, ok
}

// renderText draws text with the 7x13 bitmap font into an alpha mask.
func renderText(text string) *image.Alpha {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	drawer := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{Y: face.Metrics().Ascent},
	}
	drawer.DrawString(text)
	return mask
}

// place scales mask into a white tile. The variant index selects the glyph
// height (70%, 78% or 62% of the tile) and its offset from the center.
func (s *Set) place(mask *image.Alpha, variant int) *image.Gray {
	heights := [...]float64{0.70, 0.78, 0.62}
	h := int(float64(s.size) * heights[variant%len(heights)])
	mb := mask.Bounds()
	w := max(1, h*mb.Dx()/mb.Dy())

	scaled := image.NewAlpha(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), mask, mb, draw.Src, nil)

	dx := variant%5 - 2
	dy := (variant/5)%3 - 1
	x := (s.size-w)/2 + dx
	y := (s.size-h)/2 + dy

	tile := image.NewGray(image.Rect(0, 0, s.size, s.size))
	draw.Draw(tile, tile.Bounds(), image.White, image.Point{}, draw.Src)
	draw.DrawMask(tile, image.Rect(x, y, x+w, y+h), image.Black, image.Point{}, scaled, image.Point{}, draw.Over)
	return tile
}
