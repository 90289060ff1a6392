package fimg

import "errors"

// Errors returned by Image lifecycle, access and I/O operations.
var (
	// ErrInvalidDimensions is returned when width, height or channels is non-positive.
	ErrInvalidDimensions = errors.New("fimg: invalid dimensions")

	// ErrOutOfMemory is returned when the sample buffer cannot be allocated,
	// either because its size overflows or exceeds the configured limit.
	ErrOutOfMemory = errors.New("fimg: out of memory")

	// ErrNullHandle is returned when an operation is invoked on a nil or
	// already destroyed Image.
	ErrNullHandle = errors.New("fimg: nil or destroyed image")

	// ErrOutOfBounds is returned when sample coordinates are outside the image.
	ErrOutOfBounds = errors.New("fimg: coordinates out of bounds")

	// ErrFormat is returned when a stream is not a PPM file or an image
	// layout cannot be represented in the target format.
	ErrFormat = errors.New("fimg: invalid image format")
)
