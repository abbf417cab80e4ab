// Package sequence generates images of digit sequences: it validates the
// request, picks one tile per digit and lays the tiles out with uniformly
// sampled gaps.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand/v2"

	"github.com/mrsinham/digitforge/internal/compose"
	"github.com/mrsinham/digitforge/internal/layout"
)

// TileWidth is the width of MNIST digit tiles, used to check widths
// before any tile is drawn.
const TileWidth = 28

// ErrInvalidOptions indicates an unusable generation request.
var ErrInvalidOptions = errors.New("sequence: invalid options")

// TileSource hands out digit tiles. Both mnist.Dataset and glyph.Set
// implement it.
type TileSource interface {
	Tile(label int, rng *rand.Rand) (*image.Gray, error)
}

// Options describes one sequence image.
type Options struct {
	Digits     []int
	MinSpacing int
	MaxSpacing int
	// Width is the canvas width. Zero selects the middle of the
	// feasible range.
	Width   int
	Compose compose.Options
}

// Validate checks the options against TileWidth-wide tiles.
func (o Options) Validate() error {
	if len(o.Digits) == 0 {
		return fmt.Errorf("%w: no digits", ErrInvalidOptions)
	}
	for _, d := range o.Digits {
		if d < 0 || d > 9 {
			return fmt.Errorf("%w: digit %d out of range 0-9", ErrInvalidOptions, d)
		}
	}
	if o.MinSpacing < 0 {
		return fmt.Errorf("%w: negative spacing %d", ErrInvalidOptions, o.MinSpacing)
	}
	if o.MinSpacing > o.MaxSpacing {
		return fmt.Errorf("%w: min spacing %d exceeds max spacing %d", ErrInvalidOptions, o.MinSpacing, o.MaxSpacing)
	}
	if o.Width < 0 {
		return fmt.Errorf("%w: negative width %d", ErrInvalidOptions, o.Width)
	}
	if o.Width > 0 {
		lo, hi := WidthRange(len(o.Digits), o.MinSpacing, o.MaxSpacing)
		if o.Width < lo || o.Width > hi {
			return fmt.Errorf("%w: width %d outside %d-%d for %d digits", ErrInvalidOptions, o.Width, lo, hi, len(o.Digits))
		}
	}
	return nil
}

// WidthRange returns the feasible canvas widths for n TileWidth tiles.
func WidthRange(n, minSpacing, maxSpacing int) (lo, hi int) {
	widths := make([]int, n)
	for i := range widths {
		widths[i] = TileWidth
	}
	return layout.Bounds(widths, minSpacing, maxSpacing)
}

// Generate draws one sequence image.
func Generate(src TileSource, opts Options, rng *rand.Rand) (*layout.Result, error) {
	return GenerateContext(context.Background(), src, opts, rng)
}

// GenerateContext is Generate with cancellation of gap sampling.
func GenerateContext(ctx context.Context, src TileSource, opts Options, rng *rand.Rand) (*layout.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tiles := make([]*image.Gray, len(opts.Digits))
	widths := make([]int, len(opts.Digits))
	for i, d := range opts.Digits {
		tile, err := src.Tile(d, rng)
		if err != nil {
			return nil, fmt.Errorf("tile for digit %d: %w", d, err)
		}
		tiles[i] = tile
		widths[i] = tile.Bounds().Dx()
	}

	width := opts.Width
	if width == 0 {
		lo, hi := layout.Bounds(widths, opts.MinSpacing, opts.MaxSpacing)
		width = lo + (hi-lo)/2
	}

	asm := layout.New(contextSampler{ctx: ctx, s: compose.New(rng, opts.Compose)})
	return asm.Assemble(tiles, opts.MinSpacing, opts.MaxSpacing, width)
}

// contextSampler binds a context to a compose.Sampler.
type contextSampler struct {
	ctx context.Context
	s   *compose.Sampler
}

func (c contextSampler) Sample(n, k, a, b int) ([]int, error) {
	return c.s.SampleContext(c.ctx, n, k, a, b)
}
