package steg

import "math"

// ChannelsPerPixel is the number of channels per pixel that carry data.
const ChannelsPerPixel = 3

// MaxPayloadLen is the largest payload the 32-bit length prefix can describe.
const MaxPayloadLen = math.MaxUint32

// Capacity describes how much an image of a given size can carry.
type Capacity struct {
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Pixels          uint64 `json:"pixels"`
	CapacityBits    uint64 `json:"capacity_bits"`
	MaxPayloadBytes uint64 `json:"max_payload_bytes"`
}

// CapacityOf reports the embedding capacity of a width x height image.
// MaxPayloadBytes accounts for the length prefix and is zero when the image
// cannot even hold the prefix.
func CapacityOf(width, height int) Capacity {
	pixels := pixelCount(width, height)
	bits := pixels * ChannelsPerPixel

	var maxPayload uint64
	if bytes := bits / bitsPerByte; bytes > LengthPrefixBytes {
		maxPayload = bytes - LengthPrefixBytes
	}
	if maxPayload > MaxPayloadLen {
		maxPayload = MaxPayloadLen
	}

	return Capacity{
		Width:           width,
		Height:          height,
		Pixels:          pixels,
		CapacityBits:    bits,
		MaxPayloadBytes: maxPayload,
	}
}

// RequiredBits is the stream length for a payload of payloadLen bytes.
func RequiredBits(payloadLen int) uint64 {
	if payloadLen < 0 {
		payloadLen = 0
	}
	return (LengthPrefixBytes + uint64(payloadLen)) * bitsPerByte
}

// Plan checks that a payload of payloadLen bytes fits a width x height image
// and returns the number of bits the stream will occupy.
//
// It fails with a *CapacityError naming both the required and the available
// bit counts. It must be called before any pixel is modified.
func Plan(width, height, payloadLen int) (uint64, error) {
	required := RequiredBits(payloadLen)
	available := CapacityOf(width, height).CapacityBits

	if uint64(payloadLen) > MaxPayloadLen || available < required {
		return 0, &CapacityError{Required: required, Available: available}
	}
	return required, nil
}

func pixelCount(width, height int) uint64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	return uint64(width) * uint64(height)
}
