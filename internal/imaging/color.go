package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBAColor represents an RGBA color with 8-bit, non-premultiplied
// components.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"` // 0 = fully transparent, 255 = fully opaque
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// PixelSample describes one pixel as the codec sees it.
type PixelSample struct {
	X    int       `json:"x"`
	Y    int       `json:"y"`
	Hex  string    `json:"hex"` // "#RRGGBB", alpha excluded
	RGBA RGBAColor `json:"rgba"`
	HSL  HSLColor  `json:"hsl"`

	// LSBs holds the lowest bit of the red, green and blue channels, in
	// that order. These are the bits that carry data.
	LSBs [3]uint8 `json:"lsbs"`
}

// SamplePixel reads the pixel at (x, y) after conversion to 8-bit NRGBA,
// which is the representation embedding works on.
//
// Coordinates are 0-based relative to the image's top-left corner. An error
// is returned if they fall outside the image.
func SamplePixel(img image.Image, x, y int) (*PixelSample, error) {
	bounds := img.Bounds()
	if x < 0 || x >= bounds.Dx() || y < 0 || y >= bounds.Dy() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, bounds.Dx(), bounds.Dy())
	}

	c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)

	return &PixelSample{
		X:    x,
		Y:    y,
		Hex:  fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  toHSL(c),
		LSBs: [3]uint8{c.R & 1, c.G & 1, c.B & 1},
	}, nil
}

// toHSL converts the opaque part of c to HSL.
func toHSL(c color.NRGBA) HSLColor {
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}
