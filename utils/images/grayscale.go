package images

import (
	"image"
	"image/color"
)

// IsGrayscale reports whether every pixel of img carries equal color channels,
// meaning a single channel encoding loses nothing.
// NOTE: full pixel scan, may be slow on large assets.
func IsGrayscale(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R != c.G || c.G != c.B {
				return false
			}
		}
	}
	return true
}
