package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	// Registers WebP with image.Decode so covers may be WebP files.
	_ "golang.org/x/image/webp"
)

// ErrLossyFormat is returned when an output path names a format that would
// not preserve every channel value exactly (JPEG compression, GIF palette
// quantization).
var ErrLossyFormat = errors.New("output format does not preserve exact pixel values")

// Grid is a mutable 8-bit pixel grid backed by a non-premultiplied RGBA
// image. Channels are always returned in R, G, B, A order.
//
// A Grid is not safe for concurrent mutation; each encode should work on
// its own Grid.
type Grid struct {
	img *image.NRGBA
}

// NewGrid copies img into a new Grid. Any colour model is accepted; it is
// converted to 8-bit NRGBA and the bounds are rebased to (0,0).
func NewGrid(img image.Image) *Grid {
	return &Grid{img: imaging.Clone(img)}
}

// Dimensions returns the grid width and height in pixels.
func (g *Grid) Dimensions() (width, height int) {
	b := g.img.Bounds()
	return b.Dx(), b.Dy()
}

// PixelAt returns a copy of the four channels at (x, y).
func (g *Grid) PixelAt(x, y int) []uint8 {
	i := g.img.PixOffset(x, y)
	p := make([]uint8, 4)
	copy(p, g.img.Pix[i:i+4])
	return p
}

// SetPixel stores channels at (x, y). Missing trailing channels keep their
// current value; extra channels are ignored.
func (g *Grid) SetPixel(x, y int, channels []uint8) {
	i := g.img.PixOffset(x, y)
	copy(g.img.Pix[i:i+4], channels)
}

// Image exposes the backing image for encoding or comparison.
func (g *Grid) Image() *image.NRGBA {
	return g.img
}

// LoadGrid decodes the image at path into a new Grid.
//
// Supported input formats are those of disintegration/imaging (PNG, JPEG,
// GIF, TIFF and BMP) plus WebP. EXIF orientation is not applied: rotating
// the pixels would move the embedded bits.
func LoadGrid(path string) (*Grid, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return NewGrid(img), nil
}

// CheckOutputFormat verifies that path names a format SaveGrid can write
// without altering pixel values.
func CheckOutputFormat(path string) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("unsupported output format for %q: %w", path, err)
	}
	switch format {
	case imaging.JPEG, imaging.GIF:
		return fmt.Errorf("%s output: %w", format, ErrLossyFormat)
	}
	return nil
}

// SaveGrid writes g to path. The format follows the file extension; PNG is
// written with the best compression level.
func SaveGrid(g *Grid, path string) error {
	if err := CheckOutputFormat(path); err != nil {
		return err
	}
	if err := imaging.Save(g.img, path, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
