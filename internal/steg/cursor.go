package steg

// Position addresses a single data-carrying channel of a pixel.
type Position struct {
	X, Y    int
	Channel int
}

// Cursor walks the data-carrying channels of a width x height image in the
// fixed order shared by Embed and Extract: row-major over pixels, then
// channels 0, 1, 2 within each pixel. Positions are produced lazily, so a
// caller that stops driving the cursor leaves the rest of the image alone.
type Cursor struct {
	width  int
	addr   uint64
	maxAdr uint64
}

// NewCursor returns a cursor positioned before the first channel.
func NewCursor(width, height int) *Cursor {
	return &Cursor{
		width:  width,
		maxAdr: pixelCount(width, height) * ChannelsPerPixel,
	}
}

// Next returns the next position, or false once every channel has been
// visited.
func (c *Cursor) Next() (Position, bool) {
	if c.addr >= c.maxAdr {
		return Position{}, false
	}
	pos := addrToPosition(c.addr, c.width)
	c.addr++
	return pos, true
}

// Remaining is the number of positions Next will still return.
func (c *Cursor) Remaining() uint64 {
	return c.maxAdr - c.addr
}

// addrToPosition maps a linear channel address to its pixel and channel.
func addrToPosition(addr uint64, width int) Position {
	pix := addr / ChannelsPerPixel
	return Position{
		X:       int(pix % uint64(width)),
		Y:       int(pix / uint64(width)),
		Channel: int(addr % ChannelsPerPixel),
	}
}
