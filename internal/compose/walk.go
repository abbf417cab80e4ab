package compose

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// walk runs the hit-and-run chain over the part of the unit simplex where
// every coordinate is at most maxVal, starting from its centre. The final
// point is left in x.
func (s *Sampler) walk(x []float64, maxVal float64) {
	k := len(x)
	for i := range x {
		x[i] = 1 / float64(k)
	}
	dir := make([]float64, k)
	for step := 0; step < s.opts.WalkSteps; step++ {
		s.direction(dir)
		lo, hi := segment(x, dir, maxVal)
		if lo > hi {
			continue
		}
		t := distuv.Uniform{Min: lo, Max: hi, Src: s.rng}.Rand()
		floats.AddScaled(x, t, dir)
		floats.Scale(1/floats.Sum(x), x)
	}
}

// segment returns the range of t for which x + t*dir stays inside
// [0, maxVal]^k. An empty segment has lo > hi.
func segment(x, dir []float64, maxVal float64) (lo, hi float64) {
	lo, hi = math.Inf(-1), math.Inf(1)
	for i, d := range dir {
		if d == 0 {
			continue
		}
		t0, t1 := -x[i]/d, (maxVal-x[i])/d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		lo = max(lo, t0)
		hi = min(hi, t1)
	}
	return lo, hi
}

// direction fills dir with a uniformly random unit vector whose coordinates
// sum to zero.
func (s *Sampler) direction(dir []float64) {
	redraw(dir, s.sphere)
}

// redraw calls draw until tangent accepts the drawn point.
func redraw(dir []float64, draw func([]float64)) {
	for {
		draw(dir)
		if tangent(dir) {
			return
		}
	}
}

// degenerate bounds the distance to the pole, and the projected norm, below
// which a sphere point is rejected.
const degenerate = 1e-9

// tangent maps a point of the unit sphere onto the hyperplane sum(x) = 0 in
// place, pulling it down along the great circle through it and the pole
// (1, ..., 1)/sqrt(k); up to sign this is the normalised orthogonal
// projection. It reports false, leaving dir unusable, for points at the pole
// or whose projection vanishes.
func tangent(dir []float64) bool {
	root := math.Sqrt(float64(len(dir)))
	sum := floats.Sum(dir)
	if math.Abs(sum-root) < degenerate {
		return false
	}
	c := sum / (root * (sum - root))
	for i, p := range dir {
		dir[i] = c - root*p/(sum-root)
	}
	norm := floats.Norm(dir, 2)
	if norm < degenerate || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return false
	}
	floats.Scale(1/norm, dir)
	return true
}

// sphere fills p with a uniform point of the unit sphere.
func (s *Sampler) sphere(p []float64) {
	for {
		for i := range p {
			p[i] = s.normal.Rand()
		}
		if norm := floats.Norm(p, 2); norm > 0 {
			floats.Scale(1/norm, p)
			return
		}
	}
}
