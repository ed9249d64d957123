package format

import "errors"

var (
	// ErrSignatureMismatch indicates a header did not carry ChunkSignature.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the region lacked the bytes required for a header or payload.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadLink indicates a forward or backward link pointing outside the region.
	ErrBadLink = errors.New("format: link out of range")
)
