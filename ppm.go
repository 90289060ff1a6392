package fimg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"

	pnm "github.com/jbuchbinder/gopnm"

	"github.com/gogpu/fimg/internal/sample"
)

// PPM is the Portable Pixmap codec. It decodes plain (P3) and raw (P6)
// files of any maxval up to 65535 and encodes raw files.
//
// Decoded images have DefaultChannels channels with samples v/maxval.
// Encoding treats one or two channels as gray and three or more as RGB;
// any alpha or extra channel is dropped.
type PPM struct{}

var (
	_ Decoder = PPM{}
	_ Encoder = PPM{}
)

// ImportPPM loads a PPM file into a new 3-channel Image.
func ImportPPM(path string, opts ...Option) (*Image, error) {
	img, err := Load(path, PPM{}, opts...)
	if err != nil {
		return nil, err
	}
	Logger().Debug("fimg: PPM imported", "path", path, "width", img.width, "height", img.height)
	return img, nil
}

// ExportPPM writes img to path as a raw PPM file.
func ExportPPM(path string, img *Image) error {
	if err := Save(path, img, PPM{}); err != nil {
		return err
	}
	Logger().Debug("fimg: PPM exported", "path", path, "width", img.width, "height", img.height)
	return nil
}

// DecodePPM decodes a PPM stream. See PPM.
func DecodePPM(r io.Reader, opts ...Option) (*Image, error) {
	return PPM{}.Decode(r, opts...)
}

// EncodePPM encodes img as a raw PPM stream. See PPM.
func EncodePPM(w io.Writer, img *Image) error {
	return PPM{}.Encode(w, img)
}

// ppmHeader is the geometry and sample depth read from a PPM header.
type ppmHeader struct {
	width, height int
	maxval        int
}

// Decode implements Decoder.
//
// The header is read first so that dimension and WithMaxSamples limits are
// enforced before any pixel data is decoded. Samples are divided by the
// header's maxval, so every supported depth maps onto [0,1].
func (PPM) Decode(r io.Reader, opts ...Option) (*Image, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil {
		return nil, fmt.Errorf("%w: read magic: %w", ErrFormat, err)
	}
	if !isPPMMagic(magic) {
		return nil, fmt.Errorf("%w: magic %q is not P3 or P6", ErrFormat, magic)
	}
	raw := magic[1] == '6'

	// The header reader buffers ahead; header keeps every byte it consumed
	// so the raster decoders can replay them.
	var header bytes.Buffer
	hdr, err := decodePPMHeader(io.TeeReader(br, &header))
	if err != nil {
		return nil, fmt.Errorf("%w: decode PPM header: %w", ErrFormat, err)
	}
	if hdr.maxval < 1 || hdr.maxval > 0xffff {
		return nil, fmt.Errorf("%w: maxval %d out of range", ErrFormat, hdr.maxval)
	}

	o := applyOptions(opts)
	if _, err := checkDimensions(hdr.width, hdr.height, DefaultChannels, o); err != nil {
		return nil, err
	}

	// gopnm cannot decode raw rasters with two bytes per sample.
	if raw && hdr.maxval > 0xff {
		return decodeRaw16(header.Bytes(), br, hdr, o)
	}

	src, err := decodePNM(io.MultiReader(&header, br))
	if err != nil {
		return nil, fmt.Errorf("%w: decode PPM: %w", ErrFormat, err)
	}
	return fromPNM(src, hdr.maxval, o)
}

// decodePPMHeader reads the PNM header, reporting a decoder panic as an error.
func decodePPMHeader(r io.Reader) (hdr ppmHeader, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("header decoder panic: %v", p)
		}
	}()
	cfg, err := pnm.DecodeConfigPNM(bufio.NewReader(r))
	if err != nil {
		return ppmHeader{}, err
	}
	return ppmHeader{width: cfg.Width, height: cfg.Height, maxval: cfg.Maxval}, nil
}

// decodePNM decodes the raster with gopnm, reporting a decoder panic as an error.
func decodePNM(r io.Reader) (src image.Image, err error) {
	defer func() {
		if p := recover(); p != nil {
			src = nil
			err = fmt.Errorf("decoder panic: %v", p)
		}
	}()
	return pnm.Decode(r)
}

// fromPNM copies a gopnm image into a new 3-channel Image. gopnm keeps
// sample values as stored in the file, one byte per channel when maxval
// fits in a byte and two otherwise.
func fromPNM(src image.Image, maxval int, o options) (*Image, error) {
	var (
		pix    []byte
		stride int
		bpc    int // bytes per channel
	)
	switch s := src.(type) {
	case *image.RGBA:
		pix, stride, bpc = s.Pix, s.Stride, 1
	case *image.NRGBA:
		pix, stride, bpc = s.Pix, s.Stride, 1
	case *image.RGBA64:
		pix, stride, bpc = s.Pix, s.Stride, 2
	case *image.NRGBA64:
		pix, stride, bpc = s.Pix, s.Stride, 2
	default:
		return nil, fmt.Errorf("%w: unexpected decoded image %T", ErrFormat, src)
	}

	b := src.Bounds()
	img, err := newImage(b.Dx(), b.Dy(), DefaultChannels, o)
	if err != nil {
		return nil, err
	}

	mv := uint16(maxval)
	for y := range img.height {
		row := img.Row(y)
		srcRow := pix[y*stride:]
		for x := range img.width {
			for c := range DefaultChannels {
				off := (x*4 + c) * bpc
				v := uint16(srcRow[off])
				if bpc == 2 {
					v = v<<8 | uint16(srcRow[off+1])
				}
				row[x*DefaultChannels+c] = sample.Normalize(v, mv)
			}
		}
	}
	return img, nil
}

// decodeRaw16 decodes a P6 raster of big-endian 16-bit samples. header holds
// every byte consumed so far; rest continues the stream after it.
func decodeRaw16(header []byte, rest io.Reader, hdr ppmHeader, o options) (*Image, error) {
	off, ok := rasterOffset(header)
	if !ok {
		return nil, fmt.Errorf("%w: malformed PPM header", ErrFormat)
	}

	img, err := newImage(hdr.width, hdr.height, DefaultChannels, o)
	if err != nil {
		return nil, err
	}

	raster := make([]byte, 2*img.Len())
	if _, err := io.ReadFull(io.MultiReader(bytes.NewReader(header[off:]), rest), raster); err != nil {
		_ = img.Destroy()
		return nil, fmt.Errorf("%w: decode PPM: %w", ErrFormat, err)
	}

	mv := uint16(hdr.maxval)
	for i := range img.data {
		img.data[i] = sample.Normalize(binary.BigEndian.Uint16(raster[2*i:]), mv)
	}
	return img, nil
}

// rasterOffset returns the index of the first raster byte in a PNM header:
// past the magic, three decimal fields with optional comments, and the
// single whitespace byte that ends the header.
func rasterOffset(h []byte) (int, bool) {
	if len(h) < 2 {
		return 0, false
	}
	i := 2
	for range 3 {
		i = skipPNMSpace(h, i)
		start := i
		for i < len(h) && h[i] >= '0' && h[i] <= '9' {
			i++
		}
		if i == start {
			return 0, false
		}
	}
	if i >= len(h) || !isPNMSpace(h[i]) {
		return 0, false
	}
	return i + 1, true
}

// skipPNMSpace advances past whitespace and '#' comments.
func skipPNMSpace(h []byte, i int) int {
	for i < len(h) {
		switch {
		case h[i] == '#':
			for i < len(h) && h[i] != '\n' && h[i] != '\r' {
				i++
			}
		case isPNMSpace(h[i]):
			i++
		default:
			return i
		}
	}
	return i
}

func isPNMSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// Encode implements Encoder.
func (PPM) Encode(w io.Writer, img *Image) error {
	rgb, err := img.toStdImage(false)
	if err != nil {
		return err
	}
	if err := pnm.Encode(w, rgb, pnm.PPM); err != nil {
		return fmt.Errorf("fimg: encode PPM: %w", err)
	}
	return nil
}

func isPPMMagic(b []byte) bool {
	return len(b) == 2 && b[0] == 'P' && (b[1] == '3' || b[1] == '6')
}
