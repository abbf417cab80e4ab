package compose

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultWalkSteps is the number of hit-and-run steps per attempt.
const DefaultWalkSteps = 200

// Relaxation selects how integer parts map onto the continuous region.
type Relaxation int

const (
	// RelaxCells relaxes each integer point to the unit cell around it.
	RelaxCells Relaxation = iota
	// RelaxEndpoints maps the bounds a and b onto the edges of the region.
	RelaxEndpoints
)

// String returns the flag form of the relaxation.
func (r Relaxation) String() string {
	switch r {
	case RelaxEndpoints:
		return "endpoints"
	default:
		return "cells"
	}
}

// ParseRelaxation parses "cells" or "endpoints" (case-insensitive).
func ParseRelaxation(s string) (Relaxation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cells":
		return RelaxCells, nil
	case "endpoints":
		return RelaxEndpoints, nil
	default:
		return RelaxCells, fmt.Errorf("invalid relaxation: %s (valid: cells, endpoints)", s)
	}
}

// Options tunes a Sampler.
type Options struct {
	// WalkSteps is the mixing budget of one hit-and-run walk. Default: 200.
	WalkSteps int

	// MaxAttempts caps the number of walks per composition. Zero means no cap.
	MaxAttempts int

	// Relaxation selects the continuous relaxation. Default: RelaxCells.
	Relaxation Relaxation
}

// DefaultOptions returns the options used by Sample.
func DefaultOptions() Options {
	return Options{WalkSteps: DefaultWalkSteps}
}

// Sampler draws compositions from its own random source.
type Sampler struct {
	rng    *rand.Rand
	opts   Options
	normal distuv.Normal
}

// New returns a Sampler drawing from rng. A nil rng gets a freshly seeded
// PCG source. Non-positive WalkSteps fall back to DefaultWalkSteps.
func New(rng *rand.Rand, opts Options) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.WalkSteps <= 0 {
		opts.WalkSteps = DefaultWalkSteps
	}
	if opts.MaxAttempts < 0 {
		opts.MaxAttempts = 0
	}
	return &Sampler{
		rng:    rng,
		opts:   opts,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: rng},
	}
}

// Options returns the effective options of s.
func (s *Sampler) Options() Options {
	return s.opts
}

// Sample draws one composition of n into k parts within [a, b] using
// DefaultOptions.
func Sample(rng *rand.Rand, n, k, a, b int) ([]int, error) {
	return New(rng, DefaultOptions()).Sample(n, k, a, b)
}

// Validate reports whether a composition of n into k parts within [a, b]
// exists. The returned error wraps ErrInvalidRequest.
func Validate(n, k, a, b int) error {
	if n < 0 || k < 0 || a < 0 || b < 0 || a > b {
		return fmt.Errorf("%w: need non-negative n, k and 0 <= a <= b, got n=%d k=%d a=%d b=%d",
			ErrInvalidRequest, n, k, a, b)
	}
	lo, loOK := mul(k, a)
	hi, hiOK := mul(k, b)
	if !loOK || n < lo || (hiOK && n > hi) {
		return fmt.Errorf("%w: %d cannot be split into %d parts within [%d, %d]",
			ErrInvalidRequest, n, k, a, b)
	}
	return nil
}

// Sample draws one composition of n into k parts, each within [a, b].
func (s *Sampler) Sample(n, k, a, b int) ([]int, error) {
	return s.SampleContext(context.Background(), n, k, a, b)
}

// SampleContext is Sample with cancellation. The context is only checked
// between walks, so a returned composition always comes from a finished walk.
func (s *Sampler) SampleContext(ctx context.Context, n, k, a, b int) ([]int, error) {
	if err := Validate(n, k, a, b); err != nil {
		return nil, err
	}
	lo, _ := mul(k, a)
	hi, hiOK := mul(k, b)
	switch {
	case n == lo:
		return repeat(a, k), nil
	case hiOK && n == hi:
		return repeat(b, k), nil
	case k == 1:
		return []int{n}, nil
	}

	offset, scale, maxVal := s.relax(n, k, a, b)
	point := make([]float64, k)
	parts := make([]int, k)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: stopped after %d attempts: %w", ErrSamplingTimeout, attempt-1, err)
		}
		if s.opts.MaxAttempts > 0 && attempt > s.opts.MaxAttempts {
			return nil, fmt.Errorf("%w: no exact composition of %d after %d attempts",
				ErrSamplingTimeout, n, s.opts.MaxAttempts)
		}
		s.walk(point, maxVal)
		if sum, ok := discretize(parts, point, scale, offset, a, b); ok && sum == n {
			return slices.Clone(parts), nil
		}
	}
}

// relax returns the affine map x -> x*scale + offset from the simplex back to
// part values, and the per-coordinate bound of the simplex region.
func (s *Sampler) relax(n, k, a, b int) (offset, scale, maxVal float64) {
	if s.opts.Relaxation == RelaxEndpoints {
		offset = float64(a)
		scale = float64(n - k*a)
		return offset, scale, float64(b-a) / scale
	}
	offset = float64(a) - 0.5
	scale = float64(n) - float64(k)*offset
	return offset, scale, (float64(b-a) + 1) / scale
}

// discretize rounds point into dst. ok is false when a part leaves [a, b].
func discretize(dst []int, point []float64, scale, offset float64, a, b int) (sum int, ok bool) {
	for i, x := range point {
		v := int(math.Round(x*scale + offset))
		if v < a || v > b {
			return 0, false
		}
		dst[i] = v
		sum += v
	}
	return sum, true
}

// mul returns x*y for non-negative operands. ok is false on overflow.
func mul(x, y int) (p int, ok bool) {
	if y != 0 && x > math.MaxInt/y {
		return 0, false
	}
	return x * y, true
}

func repeat(v, k int) []int {
	out := make([]int, k)
	for i := range out {
		out[i] = v
	}
	return out
}
