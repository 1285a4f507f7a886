package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// CompareResult summarises how a modified image differs from its original.
type CompareResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// ChangedPixels is the number of pixels with at least one differing channel.
	ChangedPixels int `json:"changed_pixels"`

	// ChangedChannels counts differing channels across all pixels, alpha included.
	ChangedChannels int `json:"changed_channels"`

	// LastChangedIndex is the row-major index (y*width + x) of the last
	// differing pixel, or -1 if the images are identical.
	LastChangedIndex int `json:"last_changed_index"`

	// MaxChannelDelta is the largest absolute difference of any channel.
	MaxChannelDelta int `json:"max_channel_delta"`

	// MaxDeltaE is the largest CIEDE2000 distance between corresponding
	// pixels, ignoring alpha.
	MaxDeltaE float64 `json:"max_delta_e"`

	// LSBOnly is true when every difference is confined to the lowest bit
	// of the red, green or blue channel.
	LSBOnly bool `json:"lsb_only"`

	// DiffMap marks every differing channel at full intensity on black.
	DiffMap *image.RGBA `json:"-"`
}

// Compare reports the per-pixel differences between original and modified.
// Both images are converted to 8-bit NRGBA first and must have the same
// dimensions.
func Compare(original, modified image.Image) (*CompareResult, error) {
	a := imaging.Clone(original)
	b := imaging.Clone(modified)

	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return nil, fmt.Errorf("image dimensions differ: %dx%d vs %dx%d", ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy())
	}

	width, height := ab.Dx(), ab.Dy()
	result := &CompareResult{
		Width:            width,
		Height:           height,
		LastChangedIndex: -1,
		LSBOnly:          true,
		DiffMap:          image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	draw.Draw(result.DiffMap, result.DiffMap.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := a.PixOffset(x, y)
			pa, pb := a.Pix[i:i+4], b.Pix[i:i+4]

			mark := color.RGBA{A: 255}
			marks := [3]*uint8{&mark.R, &mark.G, &mark.B}
			changed := false

			for c := 0; c < 4; c++ {
				if pa[c] == pb[c] {
					continue
				}
				changed = true
				result.ChangedChannels++

				d := absDiff(pa[c], pb[c])
				if d > result.MaxChannelDelta {
					result.MaxChannelDelta = d
				}
				if c == 3 || pa[c]^pb[c] != 1 {
					result.LSBOnly = false
				}
				if c < 3 {
					*marks[c] = 255
				}
			}

			if !changed {
				continue
			}
			result.ChangedPixels++
			result.LastChangedIndex = y*width + x
			result.DiffMap.SetRGBA(x, y, mark)

			if de := deltaE(pa, pb); de > result.MaxDeltaE {
				result.MaxDeltaE = de
			}
		}
	}

	result.MaxDeltaE = math.Round(result.MaxDeltaE*10000) / 10000
	return result, nil
}

// DiffMapResult is a diff map encoded for transport.
type DiffMapResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// ScaleDiffMap enlarges a diff map by an integer factor using
// nearest-neighbour sampling, so single changed pixels stay sharp.
func ScaleDiffMap(diff *image.RGBA, scale int) *image.RGBA {
	if scale <= 1 {
		return diff
	}
	b := diff.Bounds()
	return transform.Resize(diff, b.Dx()*scale, b.Dy()*scale, transform.NearestNeighbor)
}

// EncodeDiffMap renders diff as a base64 PNG.
func EncodeDiffMap(diff *image.RGBA) (*DiffMapResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, diff); err != nil {
		return nil, fmt.Errorf("failed to encode diff map: %w", err)
	}

	return &DiffMapResult{
		Width:       diff.Bounds().Dx(),
		Height:      diff.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveOverlay writes a rendered diff map or bit plane to path. The format
// follows the extension; PNG is written with best compression.
func SaveOverlay(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}
	return nil
}

func deltaE(pa, pb []uint8) float64 {
	ca := colorful.Color{R: float64(pa[0]) / 255, G: float64(pa[1]) / 255, B: float64(pa[2]) / 255}
	cb := colorful.Color{R: float64(pb[0]) / 255, G: float64(pb[1]) / 255, B: float64(pb[2]) / 255}
	return ca.DistanceCIEDE2000(cb)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
