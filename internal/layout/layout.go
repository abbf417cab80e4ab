// Package layout places fixed-height tiles side by side on a canvas, with
// random gaps between neighbours.
package layout

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ErrLayout indicates tiles and canvas geometry that cannot be laid out.
var ErrLayout = errors.New("layout: inconsistent geometry")

// White is the default background of a canvas.
var White = color.Gray{Y: 255}

// GapSampler draws k gap widths within [a, b] summing to n.
// *compose.Sampler satisfies it.
type GapSampler interface {
	Sample(n, k, a, b int) ([]int, error)
}

// Placement is the column range [X, X+Width) covered by one tile.
type Placement struct {
	X     int
	Width int
}

// Result is a finished canvas together with the geometry used to paint it.
type Result struct {
	Image      *image.Gray
	Gaps       []int
	Placements []Placement
}

// Assembler paints tile sequences onto fresh canvases.
type Assembler struct {
	// Background fills the canvas before tiles are painted. Default: White.
	Background color.Gray

	sampler GapSampler
}

// New returns an Assembler drawing gaps from sampler.
func New(sampler GapSampler) *Assembler {
	return &Assembler{Background: White, sampler: sampler}
}

// Bounds returns the narrowest and widest canvas that can hold tiles of the
// given widths with gaps within [minGap, maxGap].
func Bounds(widths []int, minGap, maxGap int) (lo, hi int) {
	total := 0
	for _, w := range widths {
		total += w
	}
	spaces := max(len(widths)-1, 0)
	return total + minGap*spaces, total + maxGap*spaces
}

// Assemble paints tiles left to right on a canvas of the given width. The
// gaps between neighbours lie within [minGap, maxGap] and together fill the
// width left over by the tiles. Tiles are only read.
func (a *Assembler) Assemble(tiles []*image.Gray, minGap, maxGap, width int) (*Result, error) {
	widths, height, err := measure(tiles)
	if err != nil {
		return nil, err
	}
	if minGap < 0 || minGap > maxGap {
		return nil, fmt.Errorf("%w: gap range [%d, %d] is invalid", ErrLayout, minGap, maxGap)
	}
	lo, hi := Bounds(widths, minGap, maxGap)
	if width < lo || width > hi {
		return nil, fmt.Errorf("%w: canvas width %d outside [%d, %d] for %d tiles",
			ErrLayout, width, lo, hi, len(tiles))
	}

	gaps, err := a.gaps(widths, minGap, maxGap, width)
	if err != nil {
		return nil, err
	}

	canvas := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(a.Background), image.Point{}, draw.Src)

	placements := make([]Placement, len(tiles))
	x := 0
	for i, tile := range tiles {
		placements[i] = Placement{X: x, Width: widths[i]}
		r := image.Rect(x, 0, x+widths[i], height)
		draw.Draw(canvas, r, tile, tile.Bounds().Min, draw.Src)
		x += widths[i]
		if i < len(gaps) {
			x += gaps[i]
		}
	}

	return &Result{Image: canvas, Gaps: gaps, Placements: placements}, nil
}

func (a *Assembler) gaps(widths []int, minGap, maxGap, width int) ([]int, error) {
	if len(widths) < 2 {
		return nil, nil
	}
	total := width
	for _, w := range widths {
		total -= w
	}
	if a.sampler == nil {
		return nil, fmt.Errorf("%w: no gap sampler configured", ErrLayout)
	}
	gaps, err := a.sampler.Sample(total, len(widths)-1, minGap, maxGap)
	if err != nil {
		return nil, fmt.Errorf("sample gaps: %w", err)
	}
	if len(gaps) != len(widths)-1 {
		return nil, fmt.Errorf("%w: sampler returned %d gaps, want %d", ErrLayout, len(gaps), len(widths)-1)
	}
	sum := 0
	for i, g := range gaps {
		if g < minGap || g > maxGap {
			return nil, fmt.Errorf("%w: gap %d is %d, outside [%d, %d]", ErrLayout, i, g, minGap, maxGap)
		}
		sum += g
	}
	if sum != total {
		return nil, fmt.Errorf("%w: gaps sum to %d, want %d", ErrLayout, sum, total)
	}
	return gaps, nil
}

// measure returns the tile widths and their common height.
func measure(tiles []*image.Gray) ([]int, int, error) {
	if len(tiles) == 0 {
		return nil, 0, fmt.Errorf("%w: no tiles", ErrLayout)
	}
	widths := make([]int, len(tiles))
	height := 0
	for i, tile := range tiles {
		if tile == nil {
			return nil, 0, fmt.Errorf("%w: tile %d is nil", ErrLayout, i)
		}
		size := tile.Bounds().Size()
		if i == 0 {
			height = size.Y
		} else if size.Y != height {
			return nil, 0, fmt.Errorf("%w: tile %d is %d pixels high, want %d", ErrLayout, i, size.Y, height)
		}
		widths[i] = size.X
	}
	return widths, height, nil
}
