package fimg

import (
	"fmt"
	"image"
	"math"
	"math/bits"
)

// DefaultChannels is the conventional channel count for RGB images.
// It is informational: New never substitutes it for an explicit argument.
const DefaultChannels = 3

// Image is a rectangular grid of float32 samples.
//
// Samples are stored row-major and interleaved by channel in a single
// contiguous slice with no row padding, so Pitch() == Width()*Channels()
// and the sample (row, col, ch) lives at row*Pitch() + col*Channels() + ch.
//
// An Image exclusively owns its buffer from New until Destroy. After Destroy
// the handle reports zero dimensions, Data returns nil and sample accessors
// fail with ErrNullHandle.
//
// The zero value is not usable; construct images with New.
//
// Thread safety: Image provides no synchronization. Concurrent writers
// must coordinate externally.
type Image struct {
	width     int
	height    int
	channels  int
	pitch     int // samples per row, always width*channels
	data      []float32
	destroyed bool
}

// New allocates an image with the given dimensions and channel count.
//
// Returns ErrInvalidDimensions if any argument is non-positive and
// ErrOutOfMemory if the sample count overflows or exceeds the limit set
// with WithMaxSamples.
func New(width, height, channels int, opts ...Option) (*Image, error) {
	o := applyOptions(opts)
	return newImage(width, height, channels, o)
}

func newImage(width, height, channels int, o options) (*Image, error) {
	n, err := checkDimensions(width, height, channels, o)
	if err != nil {
		return nil, err
	}

	data, err := allocSamples(n)
	if err != nil {
		return nil, err
	}
	if o.hasFill && o.fill != 0 {
		for i := range data {
			data[i] = o.fill
		}
	}

	Logger().Debug("fimg: image allocated",
		"width", width, "height", height, "channels", channels, "samples", n)

	return &Image{
		width:    width,
		height:   height,
		channels: channels,
		pitch:    width * channels,
		data:     data,
	}, nil
}

// checkDimensions validates an allocation request and returns its sample count.
func checkDimensions(width, height, channels int, o options) (int, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return 0, fmt.Errorf("%w: %dx%d with %d channels", ErrInvalidDimensions, width, height, channels)
	}
	n, ok := sampleCount(width, height, channels)
	if !ok || (o.maxSamples > 0 && n > o.maxSamples) {
		return 0, fmt.Errorf("%w: %dx%dx%d samples", ErrOutOfMemory, width, height, channels)
	}
	return n, nil
}

// sampleCount returns width*height*channels, or false if the product
// does not fit in an int.
func sampleCount(width, height, channels int) (int, bool) {
	hi, lo := bits.Mul64(uint64(width), uint64(height))
	if hi != 0 {
		return 0, false
	}
	hi, lo = bits.Mul64(lo, uint64(channels))
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return int(lo), true
}

// allocSamples allocates n samples, converting the runtime's
// "len out of range" panic into ErrOutOfMemory.
func allocSamples(n int) (data []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("%w: %d samples: %v", ErrOutOfMemory, n, r)
		}
	}()
	return make([]float32, n), nil
}

// Destroy releases the image buffer. See (*Image).Destroy.
func Destroy(img *Image) error {
	return img.Destroy()
}

// Destroy releases the sample buffer and invalidates the handle.
//
// Destroy on a nil *Image is a no-op. Destroying an image twice returns
// ErrNullHandle; the second call has no other effect.
func (img *Image) Destroy() error {
	if img == nil {
		return nil
	}
	if img.destroyed {
		Logger().Warn("fimg: destroy called on destroyed image")
		return ErrNullHandle
	}

	Logger().Debug("fimg: image released",
		"width", img.width, "height", img.height, "channels", img.channels)

	img.data = nil
	img.width = 0
	img.height = 0
	img.channels = 0
	img.pitch = 0
	img.destroyed = true
	return nil
}

// Valid reports whether img holds a live buffer. A nil, destroyed or
// zero-value Image is not valid; only New and the decoders produce valid ones.
func (img *Image) Valid() bool {
	return img != nil && img.data != nil && !img.destroyed
}

// Width returns the image width in pixels.
func (img *Image) Width() int {
	if img == nil {
		return 0
	}
	return img.width
}

// Height returns the image height in pixels.
func (img *Image) Height() int {
	if img == nil {
		return 0
	}
	return img.height
}

// Channels returns the number of samples per pixel.
func (img *Image) Channels() int {
	if img == nil {
		return 0
	}
	return img.channels
}

// Pitch returns the number of samples per row.
func (img *Image) Pitch() int {
	if img == nil {
		return 0
	}
	return img.pitch
}

// Len returns the total number of samples in the buffer.
func (img *Image) Len() int {
	if img == nil {
		return 0
	}
	return len(img.data)
}

// Data returns the raw sample buffer. Writes through the slice modify
// the image. Returns nil for a nil or destroyed image.
func (img *Image) Data() []float32 {
	if img == nil {
		return nil
	}
	return img.data
}

// Bounds returns the pixel rectangle of the image.
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width(), img.Height())
}

// Offset returns the index in Data() of sample ch of the pixel at (row, col).
// Returns -1 if any coordinate is out of range or the image is not valid.
func (img *Image) Offset(row, col, ch int) int {
	if !img.Valid() {
		return -1
	}
	if row < 0 || row >= img.height || col < 0 || col >= img.width || ch < 0 || ch >= img.channels {
		return -1
	}
	return row*img.pitch + col*img.channels + ch
}

// At returns sample ch of the pixel at (row, col).
func (img *Image) At(row, col, ch int) (float32, error) {
	if !img.Valid() {
		return 0, ErrNullHandle
	}
	off := img.Offset(row, col, ch)
	if off < 0 {
		return 0, ErrOutOfBounds
	}
	return img.data[off], nil
}

// Set stores v as sample ch of the pixel at (row, col).
func (img *Image) Set(row, col, ch int, v float32) error {
	if !img.Valid() {
		return ErrNullHandle
	}
	off := img.Offset(row, col, ch)
	if off < 0 {
		return ErrOutOfBounds
	}
	img.data[off] = v
	return nil
}

// Row returns the samples of row y, Pitch() long.
// Returns nil if y is out of range or the image is not valid.
func (img *Image) Row(y int) []float32 {
	if !img.Valid() || y < 0 || y >= img.height {
		return nil
	}
	start := y * img.pitch
	return img.data[start : start+img.pitch : start+img.pitch]
}

// Pixel returns the Channels() samples of the pixel at (row, col).
// Returns nil if the coordinates are out of range or the image is not valid.
func (img *Image) Pixel(row, col int) []float32 {
	off := img.Offset(row, col, 0)
	if off < 0 {
		return nil
	}
	return img.data[off : off+img.channels : off+img.channels]
}

// Fill sets every sample to v.
func (img *Image) Fill(v float32) {
	if !img.Valid() {
		return
	}
	for i := range img.data {
		img.data[i] = v
	}
}

// Clear sets every sample to zero.
func (img *Image) Clear() {
	if !img.Valid() {
		return
	}
	clear(img.data)
}

// Clone returns a deep copy of the image with its own buffer.
func (img *Image) Clone() (*Image, error) {
	if !img.Valid() {
		return nil, ErrNullHandle
	}
	data := make([]float32, len(img.data))
	copy(data, img.data)
	return &Image{
		width:    img.width,
		height:   img.height,
		channels: img.channels,
		pitch:    img.pitch,
		data:     data,
	}, nil
}

// String returns a short description such as "Image(640x480x3)".
func (img *Image) String() string {
	switch {
	case img == nil:
		return "Image(nil)"
	case img.destroyed:
		return "Image(destroyed)"
	default:
		return fmt.Sprintf("Image(%dx%dx%d)", img.width, img.height, img.channels)
	}
}
