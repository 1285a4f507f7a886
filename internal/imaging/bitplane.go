package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
)

// BitPlaneResult contains one rendered bit plane of an image region.
type BitPlaneResult struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Channel string `json:"channel"`
	Bit     int    `json:"bit"`

	// SetBits and TotalBits count the inspected channel samples, before
	// scaling. For "rgb" every pixel contributes three samples.
	SetBits   int `json:"set_bits"`
	TotalBits int `json:"total_bits"`

	// SetRatio is SetBits/TotalBits. Embedded payloads push the LSB plane
	// towards 0.5.
	SetRatio float64 `json:"set_ratio"`

	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// Plane is the rendered, scaled image.
	Plane *image.NRGBA `json:"-"`
}

// planeChannels maps a channel name to the NRGBA channel offsets it covers.
var planeChannels = map[string][]int{
	"r":   {0},
	"g":   {1},
	"b":   {2},
	"a":   {3},
	"rgb": {0, 1, 2},
}

// BitPlane renders bit (0 = least significant) of channel over the region
// (x1,y1)-(x2,y2) of img. Coordinates are 0-based and x2/y2 are exclusive.
//
// Single channels render white where the bit is set and black elsewhere.
// "rgb" renders each colour channel's bit into the same channel of the
// output, so a pixel with all three bits set is white.
//
// scale enlarges the result by an integer factor with nearest-neighbour
// sampling; values below 2 leave it unscaled.
func BitPlane(img image.Image, x1, y1, x2, y2 int, channel string, bit, scale int) (*BitPlaneResult, error) {
	channels, ok := planeChannels[channel]
	if !ok {
		return nil, fmt.Errorf("unknown channel: %s (want r, g, b, a or rgb)", channel)
	}
	if bit < 0 || bit > 7 {
		return nil, fmt.Errorf("bit %d out of range 0-7", bit)
	}

	bounds := img.Bounds()
	if x1 < 0 || y1 < 0 || x2 > bounds.Dx() || y2 > bounds.Dy() {
		return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			x1, y1, x2, y2, bounds.Dx(), bounds.Dy())
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}

	region := imaging.Crop(img, image.Rect(x1, y1, x2, y2).Add(bounds.Min))
	plane := image.NewNRGBA(region.Rect)

	setBits := 0
	for i := 0; i < len(region.Pix); i += 4 {
		plane.Pix[i+3] = 255
		for _, c := range channels {
			if region.Pix[i+c]>>uint(bit)&1 == 0 {
				continue
			}
			setBits++
			if len(channels) == 1 {
				plane.Pix[i], plane.Pix[i+1], plane.Pix[i+2] = 255, 255, 255
			} else {
				plane.Pix[i+c] = 255
			}
		}
	}

	if scale > 1 {
		plane = imaging.Resize(plane, plane.Rect.Dx()*scale, plane.Rect.Dy()*scale, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, plane); err != nil {
		return nil, fmt.Errorf("failed to encode bit plane: %w", err)
	}

	total := region.Rect.Dx() * region.Rect.Dy() * len(channels)
	return &BitPlaneResult{
		Width:       plane.Rect.Dx(),
		Height:      plane.Rect.Dy(),
		Channel:     channel,
		Bit:         bit,
		SetBits:     setBits,
		TotalBits:   total,
		SetRatio:    math.Round(float64(setBits)/float64(total)*10000) / 10000,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Plane:       plane,
	}, nil
}

// BitPlaneRegion renders a bit plane over a named region of the image:
// full, top-left, top-right, bottom-left, bottom-right, top-half,
// bottom-half, left-half, right-half or center.
func BitPlaneRegion(img image.Image, region, channel string, bit, scale int) (*BitPlaneResult, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	midX := w / 2
	midY := h / 2

	var x1, y1, x2, y2 int

	switch region {
	case "", "full":
		x1, y1, x2, y2 = 0, 0, w, h
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		// Center 50% of the image
		qW := w / 4
		qH := h / 4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return nil, fmt.Errorf("unknown region: %s", region)
	}

	return BitPlane(img, x1, y1, x2, y2, channel, bit, scale)
}
