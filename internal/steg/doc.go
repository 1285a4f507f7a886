// Package steg hides a byte payload in the least-significant bits of an
// image's colour channels and recovers it again.
//
// # Format
//
// The embedded stream is a 32-bit big-endian length prefix followed by the
// payload bytes. Every byte is expanded to 8 bits, most-significant bit
// first, so a payload of L bytes occupies exactly 32 + 8*L bits.
//
// # Traversal
//
// Bits are placed one per channel, visiting pixels in row-major order (every
// x of a row before the next y) and, within a pixel, channel 0 (red), then 1
// (green), then 2 (blue). Any further channel such as alpha is preserved and
// never carries data. The embedder and the extractor both walk the image
// through the same Cursor, so the two directions cannot drift apart.
//
// Encoding stops as soon as the stream is exhausted: only the first
// ceil((32+8*L)/3) pixels can change, and every later pixel is left exactly
// as it was loaded.
//
// # Capacity
//
// An image of width*height pixels carries width*height*3 bits. Encode checks
// capacity before touching a single pixel and fails with a *CapacityError
// when the payload does not fit.
//
// # Errors
//
// All failures are typed and can be inspected with errors.As:
//   - *ImageAccessError: the image could not be loaded or saved
//   - *CapacityError: the payload needs more bits than the image offers
//   - *TruncatedStreamError: the image ends before the declared data does
//   - *MalformedTextError: the recovered bytes are not valid UTF-8
//
// # Known Limitation
//
// The stream carries no magic marker and no checksum. Decoding an image that
// never had a payload embedded reads whatever the low bits happen to hold as
// a length; that usually claims more data than the image can carry and
// surfaces as a *TruncatedStreamError, but a short garbage length can also
// decode to arbitrary bytes.
package steg
