// Package fimg provides a float32 image container with PPM import and export.
//
// # Overview
//
// An Image is a rectangular grid of pixels, each holding a fixed number of
// float32 channel samples. Samples are stored row-major and interleaved by
// channel in one contiguous buffer without row padding:
//
//	offset(row, col, ch) = row*Pitch() + col*Channels() + ch
//	Pitch()              = Width() * Channels()
//
// # Lifecycle
//
//	img, err := fimg.New(640, 480, fimg.DefaultChannels)
//	if err != nil {
//	    return err // ErrInvalidDimensions or ErrOutOfMemory
//	}
//	defer img.Destroy()
//
//	_ = img.Set(10, 20, 0, 1.0) // red sample of pixel (row 10, col 20)
//
// Destroy releases the buffer. Calling it on a nil *Image does nothing;
// calling it twice returns ErrNullHandle, as does any sample access on a
// destroyed image.
//
// # File I/O
//
// The core type does not depend on any file format. Formats plug in through
// the Decoder and Encoder interfaces; PPM is the bundled implementation:
//
//	img, err := fimg.ImportPPM("in.ppm")
//	err = fimg.ExportPPM("out.ppm", img)
//
// # Logging
//
// fimg is silent by default. Use SetLogger to route diagnostics to a
// log/slog logger.
package fimg

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
