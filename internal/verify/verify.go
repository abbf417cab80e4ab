// Package verify recovers the digit sequence from an assembled canvas by
// matching tile-sized windows against a tile source.
package verify

import (
	"errors"
	"fmt"
	"image"
)

// ErrUndecodable indicates that no placement of known tiles reproduces the
// canvas.
var ErrUndecodable = errors.New("verify: undecodable canvas")

// Lookup maps a tile's pixels back to its label. Both mnist.Dataset and
// glyph.Set implement it.
type Lookup interface {
	Label(tile *image.Gray) (int, bool)
}

// Decoded is a recovered sequence.
type Decoded struct {
	Digits []int
	Gaps   []int
}

// Decode finds n square tiles (as tall as the canvas) separated by gaps in
// [minGap, maxGap] that cover img exactly, left to right. When a window
// matches but the rest of the canvas cannot be explained, the next gap is
// tried.
func Decode(img *image.Gray, n, minGap, maxGap int, lookup Lookup) (*Decoded, error) {
	if n <= 0 || minGap < 0 || minGap > maxGap {
		return nil, fmt.Errorf("%w: bad parameters n=%d gaps=%d-%d", ErrUndecodable, n, minGap, maxGap)
	}
	d := decoder{
		img:    img,
		lookup: lookup,
		tile:   img.Bounds().Dy(),
		minGap: minGap,
		maxGap: maxGap,
		digits: make([]int, n),
	}
	if n > 1 {
		d.gaps = make([]int, n-1)
	}
	if d.tile == 0 || !d.search(img.Bounds().Min.X, 0) {
		return nil, ErrUndecodable
	}
	return &Decoded{Digits: d.digits, Gaps: d.gaps}, nil
}

type decoder struct {
	img            *image.Gray
	lookup         Lookup
	tile           int
	minGap, maxGap int
	digits, gaps   []int
}

// search places tile i at column x.
func (d *decoder) search(x, i int) bool {
	b := d.img.Bounds()
	if x+d.tile > b.Max.X {
		return false
	}
	window := d.img.SubImage(image.Rect(x, b.Min.Y, x+d.tile, b.Max.Y)).(*image.Gray)
	label, ok := d.lookup.Label(window)
	if !ok {
		return false
	}
	d.digits[i] = label

	end := x + d.tile
	if i == len(d.digits)-1 {
		return end == b.Max.X
	}
	for g := d.minGap; g <= d.maxGap; g++ {
		d.gaps[i] = g
		if d.search(end+g, i+1) {
			return true
		}
	}
	return false
}

// TrimBackground drops the leading and trailing columns made only of
// background pixels. A canvas that is all background yields an empty
// image.
func TrimBackground(img *image.Gray, background uint8) *image.Gray {
	b := img.Bounds()
	blank := func(x int) bool {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			if img.GrayAt(x, y).Y != background {
				return false
			}
		}
		return true
	}

	left, right := b.Min.X, b.Max.X
	for left < right && blank(left) {
		left++
	}
	for right > left && blank(right-1) {
		right--
	}
	return img.SubImage(image.Rect(left, b.Min.Y, right, b.Max.Y)).(*image.Gray)
}
