package steg

import "unicode/utf8"

// Extract recovers a text payload previously hidden in g by Embed.
//
// It fails with a *TruncatedStreamError when the image cannot supply the
// length prefix or the number of bytes the prefix declares, and with a
// *MalformedTextError when the recovered bytes are not valid UTF-8.
func Extract(g Grid) (string, error) {
	payload, err := ExtractBytes(g)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(payload) {
		return "", &MalformedTextError{Offset: firstInvalidUTF8(payload)}
	}
	return string(payload), nil
}

// ExtractBytes recovers the raw payload from g without interpreting it as
// text.
func ExtractBytes(g Grid) ([]byte, error) {
	width, height := g.Dimensions()
	r := newLSBReader(g, NewCursor(width, height))

	prefix := r.read(LengthPrefixBits)
	length, err := UnpackLength(prefix)
	if err != nil {
		return nil, err
	}

	// The declared length comes straight from the image, so check it
	// against what is left before allocating for it.
	required := uint64(length) * bitsPerByte
	if available := r.cur.Remaining(); required > available {
		return nil, &TruncatedStreamError{
			Section:   "payload",
			Required:  required,
			Available: available,
		}
	}

	return UnpackBytes(r.read(int(required)))
}

// lsbReader collects the LSB of each channel the cursor visits, fetching a
// pixel once for all of its channels.
type lsbReader struct {
	g       Grid
	cur     *Cursor
	pixel   []uint8
	current Position
	loaded  bool
}

func newLSBReader(g Grid, cur *Cursor) *lsbReader {
	return &lsbReader{g: g, cur: cur}
}

// read returns up to n bits; fewer are returned when the image runs out.
func (r *lsbReader) read(n int) []uint8 {
	bits := make([]uint8, 0, n)
	for len(bits) < n {
		pos, ok := r.cur.Next()
		if !ok {
			break
		}
		if !r.loaded || pos.X != r.current.X || pos.Y != r.current.Y {
			r.pixel = r.g.PixelAt(pos.X, pos.Y)
			r.current, r.loaded = pos, true
		}
		bits = append(bits, r.pixel[pos.Channel]&1)
	}
	return bits
}

func firstInvalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
