package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFitSize(t *testing.T) {
	cases := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{100, 50, 400, 225, 100, 50},
		{800, 400, 400, 225, 400, 200},
		{400, 800, 400, 225, 113, 225},
		{10, 10, 0, 0, 1, 1},
		{0, 5, 10, 10, 1, 1},
	}
	for _, c := range cases {
		w, h := FitSize(c.w, c.h, c.maxW, c.maxH)
		if w != c.wantW || h != c.wantH {
			t.Errorf("FitSize(%d,%d,%d,%d) = %dx%d, want %dx%d", c.w, c.h, c.maxW, c.maxH, w, h, c.wantW, c.wantH)
		}
	}
}

// halves returns a w x h image, red on the left half and blue on the right.
func halves(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{0, 0, 255, 255}
			if x < w/2 {
				c = color.RGBA{255, 0, 0, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestScaleToFit(t *testing.T) {
	src := halves(40, 20)
	if got := ScaleToFit(src, 40, 40); got != image.Image(src) {
		t.Fatalf("fitting image should be returned as is")
	}
	out := ScaleToFit(src, 20, 20)
	if b := out.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("size %v", b)
	}
	left := color.RGBAModel.Convert(out.At(2, 5)).(color.RGBA)
	right := color.RGBAModel.Convert(out.At(17, 5)).(color.RGBA)
	if left.R < 200 || left.B > 50 || right.B < 200 || right.R > 50 {
		t.Fatalf("halves not kept: left=%v right=%v", left, right)
	}
	if ScaleToFit(nil, 1, 1) != nil {
		t.Fatalf("nil in, nil out")
	}
}

func TestThumbnail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, halves(64, 32), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Thumbnail(path, 16, 16)
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Fatalf("thumbnail size %v", b)
	}
	if _, err := Thumbnail(filepath.Join(t.TempDir(), "missing.jpg"), 16, 16); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestEncodePNG(t *testing.T) {
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image should encode to nil")
	}
	data := EncodePNG(image.NewRGBA(image.Rect(0, 0, 3, 2)))
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil || img.Bounds().Dx() != 3 {
		t.Fatalf("decode: %v", err)
	}
}
