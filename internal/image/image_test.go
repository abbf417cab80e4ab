package image

import (
	"bytes"
	"image"
	"math/rand/v2"
	"testing"
)

func gradient(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	return img
}

func TestScale(t *testing.T) {
	img := gradient(10, 4)

	tests := []struct {
		name   string
		factor float64
		interp Interpolation
		wantW  int
		wantH  int
	}{
		{"identity", 1, NearestNeighbor, 10, 4},
		{"double nearest", 2, NearestNeighbor, 20, 8},
		{"half bilinear", 0.5, BiLinear, 5, 2},
		{"triple catmullrom", 3, CatmullRom, 30, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scale(img, tt.factor, tt.interp)
			if err != nil {
				t.Fatalf("Scale() error = %v", err)
			}
			if b := got.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("Scale() size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestScale_NearestKeepsPixels(t *testing.T) {
	img := gradient(3, 2)
	got, err := Scale(img, 2, NearestNeighbor)
	if err != nil {
		t.Fatalf("Scale() error = %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			if got.GrayAt(x, y) != img.GrayAt(x/2, y/2) {
				t.Errorf("pixel (%d,%d) = %d, want %d", x, y, got.GrayAt(x, y).Y, img.GrayAt(x/2, y/2).Y)
			}
		}
	}
}

func TestScale_Invalid(t *testing.T) {
	img := gradient(3, 2)
	for _, f := range []float64{0, -1, 0.01} {
		if _, err := Scale(img, f, BiLinear); err == nil {
			t.Errorf("Scale(%g) succeeded", f)
		}
	}
}

func TestParseInterpolation(t *testing.T) {
	tests := []struct {
		in      string
		want    Interpolation
		wantErr bool
	}{
		{"", NearestNeighbor, false},
		{"nearest", NearestNeighbor, false},
		{"BiLinear", BiLinear, false},
		{"catmullrom", CatmullRom, false},
		{"lanczos", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseInterpolation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseInterpolation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseInterpolation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAddNoise_Deterministic(t *testing.T) {
	a, b := gradient(16, 16), gradient(16, 16)
	if err := AddNoise(a, 0.1, rand.New(rand.NewPCG(42, 42))); err != nil {
		t.Fatal(err)
	}
	if err := AddNoise(b, 0.1, rand.New(rand.NewPCG(42, 42))); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("same seed produced different noise")
	}

	c := gradient(16, 16)
	if err := AddNoise(c, 0.1, rand.New(rand.NewPCG(43, 43))); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a.Pix, c.Pix) {
		t.Error("different seeds produced identical noise")
	}
}

func TestAddNoise_Range(t *testing.T) {
	img := gradient(16, 16)
	orig := bytes.Clone(img.Pix)
	if err := AddNoise(img, 0.05, rand.New(rand.NewPCG(1, 2))); err != nil {
		t.Fatal(err)
	}
	spread := 13
	for i, v := range img.Pix {
		d := int(v) - int(orig[i])
		if d < -spread || d > spread {
			t.Errorf("pixel %d moved by %d, want at most %d", i, d, spread)
		}
	}
}

func TestAddNoise_Zero(t *testing.T) {
	img := gradient(4, 4)
	orig := bytes.Clone(img.Pix)
	if err := AddNoise(img, 0, nil); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(img.Pix, orig) {
		t.Error("zero noise changed the image")
	}
	if err := AddNoise(img, 1.5, nil); err == nil {
		t.Error("AddNoise(1.5) succeeded")
	}
}

func TestEncodeDecode(t *testing.T) {
	img := gradient(9, 5)
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, img, f); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !bytes.Equal(got.Pix, img.Pix) {
				t.Errorf("%s did not preserve pixels", f)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": PNG, "PNG": PNG, "bmp": BMP, "tif": TIFF, "tiff": TIFF}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("jpeg"); err == nil {
		t.Error("ParseFormat(jpeg) succeeded")
	}
	if PNG.Ext() != ".png" {
		t.Errorf("PNG.Ext() = %q", PNG.Ext())
	}
}
