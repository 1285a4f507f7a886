package steg

import "fmt"

// ImageAccessError reports a failure to load or save an image. The
// underlying error from the image collaborator is kept as-is.
type ImageAccessError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *ImageAccessError) Error() string {
	return fmt.Sprintf("failed to %s image %q: %v", e.Op, e.Path, e.Err)
}

func (e *ImageAccessError) Unwrap() error {
	return e.Err
}

// CapacityError is returned when a payload needs more bits than the image
// channels provide. Both counts are in bits.
type CapacityError struct {
	Required  uint64
	Available uint64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("image is not large enough to hold the message: required=%d, available=%d bits",
		e.Required, e.Available)
}

// Shortfall is the number of additional bits the image would need.
func (e *CapacityError) Shortfall() uint64 {
	if e.Required <= e.Available {
		return 0
	}
	return e.Required - e.Available
}

// TruncatedStreamError is returned during decode when the image ends before
// the length prefix or the declared payload has been read.
type TruncatedStreamError struct {
	Section   string // "length prefix" or "payload"
	Required  uint64
	Available uint64
}

func (e *TruncatedStreamError) Error() string {
	return fmt.Sprintf("image ended before reading full %s: required=%d, available=%d bits",
		e.Section, e.Required, e.Available)
}

// MalformedTextError is returned when the recovered payload is not valid
// UTF-8. Offset is the index of the first invalid byte.
type MalformedTextError struct {
	Offset int
}

func (e *MalformedTextError) Error() string {
	return fmt.Sprintf("decoded message is not valid UTF-8 (invalid byte at offset %d)", e.Offset)
}
