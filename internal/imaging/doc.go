// Package imaging is the pixel-grid layer underneath the steganography codec.
//
// It loads images from disk into mutable 8-bit grids, writes them back in a
// format that preserves every channel value, and offers the read-only
// inspection helpers (pixel sampling, bit planes, cover/stego diffs) used by
// the CLI and the MCP server.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Grids are always rebased so their top-left pixel is (0,0).
//
// # Pixel Representation
//
// Every decoded image, whatever its colour model, is converted to
// non-premultiplied 8-bit RGBA (*image.NRGBA). Premultiplied storage would
// discard low bits of translucent pixels, and the codec depends on those bits
// surviving a load/save cycle exactly. 16-bit images are reduced to 8 bits
// per channel.
//
// # Formats
//
// Input: PNG, JPEG, GIF, TIFF, BMP and WebP. Output: PNG, TIFF and BMP. JPEG and
// GIF output is refused with ErrLossyFormat, since compression or palette
// quantization would destroy the embedded bits.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use and hands out shared,
// read-only images. A Grid is owned by a single caller; build one per
// operation with NewGrid or LoadGrid.
package imaging
