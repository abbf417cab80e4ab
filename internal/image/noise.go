package image

import (
	"fmt"
	"image"
	"math/rand/v2"
)

// AddNoise perturbs every pixel of img in place by a uniform offset in
// [-amount*255, amount*255], clamped to 0..255. amount must be in [0, 1];
// zero leaves the image untouched.
func AddNoise(img *image.Gray, amount float64, rng *rand.Rand) error {
	if amount < 0 || amount > 1 {
		return fmt.Errorf("invalid noise amount: %g (valid: 0-1)", amount)
	}
	if amount == 0 {
		return nil
	}
	spread := int(amount*255 + 0.5)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i, v := range row {
			n := int(v) + rng.IntN(2*spread+1) - spread
			row[i] = uint8(min(255, max(0, n)))
		}
	}
	return nil
}
