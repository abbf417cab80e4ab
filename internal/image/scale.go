package image

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// Interpolation selects the resampling kernel used by Scale.
type Interpolation int

const (
	NearestNeighbor Interpolation = iota
	BiLinear
	CatmullRom
)

func (i Interpolation) String() string {
	switch i {
	case BiLinear:
		return "bilinear"
	case CatmullRom:
		return "catmullrom"
	default:
		return "nearest"
	}
}

// ParseInterpolation parses a kernel name. An empty name selects
// NearestNeighbor, which keeps tile pixels unchanged at integer factors.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return NearestNeighbor, nil
	case "bilinear":
		return BiLinear, nil
	case "catmullrom":
		return CatmullRom, nil
	default:
		return 0, fmt.Errorf("invalid interpolation: %s (valid: nearest, bilinear, catmullrom)", s)
	}
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case BiLinear:
		return draw.BiLinear
	case CatmullRom:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}

// Scale resizes img by factor. A factor of 1 returns img itself.
func Scale(img *image.Gray, factor float64, interp Interpolation) (*image.Gray, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("invalid scale factor: %g", factor)
	}
	if factor == 1 {
		return img, nil
	}
	b := img.Bounds()
	w := int(float64(b.Dx())*factor + 0.5)
	h := int(float64(b.Dy())*factor + 0.5)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("scale factor %g shrinks %dx%d to nothing", factor, b.Dx(), b.Dy())
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	interp.scaler().Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}
