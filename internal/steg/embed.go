package steg

import "github.com/zedseven/binmani"

// Grid is the pixel access the codec needs. PixelAt returns a copy of the
// pixel's channels (at least three, each 0-255); SetPixel stores a full
// pixel back. Implementations own the pixel storage and its lifecycle.
type Grid interface {
	Dimensions() (width, height int)
	PixelAt(x, y int) []uint8
	SetPixel(x, y int, channels []uint8)
}

// Embed hides payload in the least-significant bits of g.
//
// Capacity is checked first, so a payload that does not fit fails with a
// *CapacityError and g is left untouched. Otherwise each bit of the packed
// stream replaces the LSB of the next channel from the Cursor. A pixel is
// written back once, and only if at least one of its channels received a
// bit; pixels past the end of the stream are never read or written.
func Embed(g Grid, payload []byte) error {
	width, height := g.Dimensions()
	if _, err := Plan(width, height, len(payload)); err != nil {
		return err
	}

	bits := Pack(uint32(len(payload)), payload)
	cur := NewCursor(width, height)

	var (
		pixel   []uint8
		current Position
		loaded  bool
	)
	flush := func() {
		if loaded {
			g.SetPixel(current.X, current.Y, pixel)
		}
	}

	for _, bit := range bits {
		pos, _ := cur.Next()
		if !loaded || pos.X != current.X || pos.Y != current.Y {
			flush()
			pixel = g.PixelAt(pos.X, pos.Y)
			current, loaded = pos, true
		}
		pixel[pos.Channel] = setLSB(pixel[pos.Channel], bit)
	}
	flush()

	return nil
}

// setLSB returns c with its lowest bit replaced by bit.
func setLSB(c, bit uint8) uint8 {
	return uint8(binmani.WriteTo(uint16(c), 0, 1, uint16(bit&1)))
}
