package images

import (
	"image"
	"image/color"
	"testing"
)

func TestIsGrayscale(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	if !IsGrayscale(gray) {
		t.Error("Gray image must be grayscale")
	}

	neutral := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range neutral.Pix {
		neutral.Pix[i] = 0x7F
	}
	if !IsGrayscale(neutral) {
		t.Error("NRGBA image with equal channels must be grayscale")
	}

	colored := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	colored.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	if IsGrayscale(colored) {
		t.Error("image with a colored pixel must not be grayscale")
	}
}
