package fimg

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/fimg/internal/sample"
)

// maxStdChannels is the widest layout the image.Image bridge understands
// (gray, gray+alpha, RGB, RGBA).
const maxStdChannels = 4

// FromStdImage creates an Image from a standard library image.Image.
//
// The channel count selects the layout: 1 is luminance, 2 is luminance and
// alpha, 3 is RGB and 4 is RGBA. Samples are non-premultiplied and lie in
// [0,1]. Options apply to the allocation as in New.
func FromStdImage(src image.Image, channels int, opts ...Option) (*Image, error) {
	if src == nil {
		return nil, ErrNullHandle
	}
	if channels > maxStdChannels {
		return nil, fmt.Errorf("%w: %d channels", ErrFormat, channels)
	}

	bounds := src.Bounds()
	img, err := New(bounds.Dx(), bounds.Dy(), channels, opts...)
	if err != nil {
		return nil, err
	}

	nrgba := toNRGBA64(src)
	for y := range img.height {
		row := img.Row(y)
		srcRow := nrgba.Pix[y*nrgba.Stride:]
		for x := range img.width {
			s := srcRow[x*8 : x*8+8]
			r := sample.U16ToF32(uint16(s[0])<<8 | uint16(s[1]))
			g := sample.U16ToF32(uint16(s[2])<<8 | uint16(s[3]))
			b := sample.U16ToF32(uint16(s[4])<<8 | uint16(s[5]))
			a := sample.U16ToF32(uint16(s[6])<<8 | uint16(s[7]))

			px := row[x*channels : x*channels+channels]
			switch channels {
			case 1:
				px[0] = sample.Gray(r, g, b)
			case 2:
				px[0] = sample.Gray(r, g, b)
				px[1] = a
			case 3:
				px[0], px[1], px[2] = r, g, b
			case 4:
				px[0], px[1], px[2], px[3] = r, g, b, a
			}
		}
	}

	return img, nil
}

// toNRGBA64 returns src as a zero-origin *image.NRGBA64, converting
// through x/image/draw when it is any other type.
func toNRGBA64(src image.Image) *image.NRGBA64 {
	bounds := src.Bounds()
	if n, ok := src.(*image.NRGBA64); ok && bounds.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA64(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, bounds.Min, xdraw.Src)
	return dst
}

// ToStdImage converts the image to a 16-bit non-premultiplied image.
//
// One channel is treated as gray, two as gray and alpha, three as RGB and
// four or more as RGBA with extra channels ignored. Samples are clamped
// to [0,1].
func (img *Image) ToStdImage() (*image.NRGBA64, error) {
	return img.toStdImage(true)
}

// toStdImage converts img, dropping alpha when keepAlpha is false.
func (img *Image) toStdImage(keepAlpha bool) (*image.NRGBA64, error) {
	if !img.Valid() {
		return nil, ErrNullHandle
	}

	dst := image.NewNRGBA64(img.Bounds())
	ch := img.channels
	for y := range img.height {
		row := img.Row(y)
		dstRow := dst.Pix[y*dst.Stride:]
		for x := range img.width {
			px := row[x*ch : x*ch+ch]

			var r, g, b, a uint16
			a = 0xffff
			switch {
			case ch <= 2:
				r = sample.F32ToU16(px[0])
				g, b = r, r
				if ch == 2 && keepAlpha {
					a = sample.F32ToU16(px[1])
				}
			default:
				r = sample.F32ToU16(px[0])
				g = sample.F32ToU16(px[1])
				b = sample.F32ToU16(px[2])
				if ch >= 4 && keepAlpha {
					a = sample.F32ToU16(px[3])
				}
			}

			d := dstRow[x*8 : x*8+8]
			d[0], d[1] = uint8(r>>8), uint8(r)
			d[2], d[3] = uint8(g>>8), uint8(g)
			d[4], d[5] = uint8(b>>8), uint8(b)
			d[6], d[7] = uint8(a>>8), uint8(a)
		}
	}

	return dst, nil
}
