package steg

import (
	"encoding/binary"

	"github.com/zedseven/binmani"
)

const (
	bitsPerByte = 8

	// LengthPrefixBytes is the width of the big-endian payload length that
	// precedes every payload.
	LengthPrefixBytes = 4

	// LengthPrefixBits is LengthPrefixBytes expressed in bits.
	LengthPrefixBits = LengthPrefixBytes * bitsPerByte
)

// Pack expands the length prefix and the payload into a bit stream.
//
// Each of the four big-endian prefix bytes, then each payload byte, becomes
// eight values of 0 or 1, most-significant bit first. The result always has
// LengthPrefixBits + 8*len(payload) entries.
func Pack(length uint32, payload []byte) []uint8 {
	var prefix [LengthPrefixBytes]byte
	binary.BigEndian.PutUint32(prefix[:], length)

	bits := make([]uint8, 0, LengthPrefixBits+len(payload)*bitsPerByte)
	bits = appendByteBits(bits, prefix[:])
	bits = appendByteBits(bits, payload)
	return bits
}

func appendByteBits(bits []uint8, data []byte) []uint8 {
	for _, b := range data {
		for j := bitsPerByte - 1; j >= 0; j-- {
			bits = append(bits, (b>>uint(j))&1)
		}
	}
	return bits
}

// UnpackLength reads the length prefix from the first LengthPrefixBits bits.
func UnpackLength(bits []uint8) (uint32, error) {
	if len(bits) < LengthPrefixBits {
		return 0, &TruncatedStreamError{
			Section:   "length prefix",
			Required:  LengthPrefixBits,
			Available: uint64(len(bits)),
		}
	}

	prefix, err := UnpackBytes(bits[:LengthPrefixBits])
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(prefix), nil
}

// UnpackBytes regroups bits into bytes, most-significant bit first. The bit
// count must be a whole number of bytes; a trailing partial byte is reported
// as a truncated stream rather than padded.
func UnpackBytes(bits []uint8) ([]byte, error) {
	if rem := len(bits) % bitsPerByte; rem != 0 {
		return nil, &TruncatedStreamError{
			Section:   "payload",
			Required:  uint64(len(bits) + bitsPerByte - rem),
			Available: uint64(len(bits)),
		}
	}

	out := make([]byte, len(bits)/bitsPerByte)
	for i := range out {
		var b uint16
		for j := 0; j < bitsPerByte; j++ {
			b = binmani.WriteTo(b, uint8(bitsPerByte-j-1), 1, uint16(bits[i*bitsPerByte+j]&1))
		}
		out[i] = byte(b)
	}
	return out, nil
}
