package steg

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/ironsheep/sneakyimage/internal/imaging"
)

func TestExtract_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"empty", ""},
		{"single char", "x"},
		{"hello", "HELLO"},
		{"multibyte", "héllo wörld ✓ 日本語"},
		{"emoji", "🕵️ secret"},
		{"newlines", "line one\nline two\r\n\ttabbed"},
		{"nul byte", "a\x00b"},
		{"long", strings.Repeat("steganography ", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(64, 48)

			if err := Embed(g, []byte(tt.message)); err != nil {
				t.Fatalf("Embed failed: %v", err)
			}

			got, err := Extract(g)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if got != tt.message {
				t.Errorf("Extract = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestExtract_OverwritesPreviousPayload(t *testing.T) {
	g := newTestGrid(20, 20)

	if err := Embed(g, []byte("a much longer first message")); err != nil {
		t.Fatalf("first Embed failed: %v", err)
	}
	if err := Embed(g, []byte("short")); err != nil {
		t.Fatalf("second Embed failed: %v", err)
	}

	got, err := Extract(g)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got != "short" {
		t.Errorf("Extract = %q, want short", got)
	}
}

func TestExtract_DoesNotModifyGrid(t *testing.T) {
	base := newTestGrid(10, 10)
	if err := Embed(base, []byte("HELLO")); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	g := newRecordingGrid(base)

	if _, err := Extract(g); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(g.writes) != 0 {
		t.Errorf("Extract wrote %d pixels", len(g.writes))
	}
}

func TestExtract_TruncatedLengthPrefix(t *testing.T) {
	// Fewer than 11 pixels cannot hold the 32-bit prefix
	for _, dims := range [][2]int{{0, 0}, {1, 1}, {2, 5}, {10, 1}, {3, 3}} {
		g := newTestGrid(dims[0], dims[1])

		_, err := Extract(g)

		var te *TruncatedStreamError
		if !errors.As(err, &te) {
			t.Fatalf("%dx%d: error = %v, want *TruncatedStreamError", dims[0], dims[1], err)
		}
		if te.Section != "length prefix" {
			t.Errorf("%dx%d: Section = %q, want length prefix", dims[0], dims[1], te.Section)
		}
		if want := uint64(dims[0] * dims[1] * 3); te.Available != want {
			t.Errorf("%dx%d: Available = %d, want %d", dims[0], dims[1], te.Available, want)
		}
	}
}

func TestExtract_TruncatedPayload(t *testing.T) {
	// A prefix claiming 10 bytes in an image with room for 9
	g := newTestGrid(36, 1) // 108 bits: 32 prefix + 76 payload
	cur := NewCursor(36, 1)
	for _, bit := range Pack(10, nil) {
		pos, _ := cur.Next()
		px := g.PixelAt(pos.X, pos.Y)
		px[pos.Channel] = setLSB(px[pos.Channel], bit)
		g.SetPixel(pos.X, pos.Y, px)
	}

	_, err := Extract(g)

	var te *TruncatedStreamError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TruncatedStreamError", err)
	}
	if te.Section != "payload" || te.Required != 80 || te.Available != 76 {
		t.Errorf("got %+v, want payload 80/76", te)
	}
}

func TestExtract_UnembeddedImage(t *testing.T) {
	// All LSBs set: the prefix reads as 0xFFFFFFFF, far beyond the image.
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	_, err := Extract(imaging.NewGrid(img))

	var te *TruncatedStreamError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TruncatedStreamError", err)
	}
	if te.Required != uint64(0xFFFFFFFF)*8 {
		t.Errorf("Required = %d, want %d", te.Required, uint64(0xFFFFFFFF)*8)
	}
}

func TestExtract_ZeroLSBsDecodeAsEmpty(t *testing.T) {
	// Without a marker, an image whose low bits are all zero is
	// indistinguishable from one carrying an empty message.
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0x40
	}

	got, err := Extract(imaging.NewGrid(img))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got != "" {
		t.Errorf("Extract = %q, want empty", got)
	}
}

func TestExtract_MalformedText(t *testing.T) {
	g := newTestGrid(10, 10)
	payload := []byte{'o', 'k', 0xFF, 0xFE}

	if err := Embed(g, payload); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	_, err := Extract(g)

	var me *MalformedTextError
	if !errors.As(err, &me) {
		t.Fatalf("error = %v, want *MalformedTextError", err)
	}
	if me.Offset != 2 {
		t.Errorf("Offset = %d, want 2", me.Offset)
	}
}

func TestExtractBytes_Binary(t *testing.T) {
	g := newTestGrid(10, 10)
	payload := []byte{0x00, 0xFF, 0xFE, 0x80, 0x01}

	if err := Embed(g, payload); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	got, err := ExtractBytes(g)
	if err != nil {
		t.Fatalf("ExtractBytes failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("ExtractBytes = %v, want %v", got, payload)
	}
}

func TestExtract_TranslucentPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 20), B: 99, A: uint8(x * 25)})
		}
	}
	g := imaging.NewGrid(img)

	if err := Embed(g, []byte("alpha")); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	got, err := Extract(g)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got != "alpha" {
		t.Errorf("Extract = %q, want alpha", got)
	}
}

func TestFirstInvalidUTF8(t *testing.T) {
	tests := []struct {
		in   []byte
		want int
	}{
		{[]byte("valid"), 5},
		{[]byte{0xFF}, 0},
		{[]byte("é\xC3"), 2},
		{[]byte("\xEF\xBF\xBDx\x80"), 4},
	}

	for _, tt := range tests {
		if got := firstInvalidUTF8(tt.in); got != tt.want {
			t.Errorf("firstInvalidUTF8(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
