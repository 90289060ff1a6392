package fimg_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/fimg"
)

// rawPPM builds a binary P6 stream with maxval 255.
func rawPPM(w, h int, pix ...byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "P6\n%d %d\n255\n", w, h)
	buf.Write(pix)
	return buf.Bytes()
}

func TestDecodePPM_Raw(t *testing.T) {
	data := rawPPM(2, 1,
		255, 0, 0,
		0, 51, 255,
	)

	img, err := fimg.DecodePPM(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, img.Width())
	require.Equal(t, 1, img.Height())
	require.Equal(t, fimg.DefaultChannels, img.Channels())
	require.Equal(t, 6, img.Pitch())

	want := []float32{1, 0, 0, 0, 0.2, 1}
	for i, v := range want {
		require.InDelta(t, v, img.Data()[i], 1e-4, "sample %d", i)
	}
}

func TestDecodePPM_RejectsOtherFormats(t *testing.T) {
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 1, 1))))

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"one byte", []byte("P")},
		{"graymap", []byte("P5\n1 1\n255\n\x00")},
		{"bitmap", []byte("P1\n1 1\n0\n")},
		{"png", pngBuf.Bytes()},
		{"text", []byte("hello world")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := fimg.DecodePPM(bytes.NewReader(tt.data))
			require.ErrorIs(t, err, fimg.ErrFormat)
			require.Nil(t, img)
		})
	}
}

func TestDecodePPM_HeaderLimit(t *testing.T) {
	// Header claims a million pixels but the body holds a single byte; the
	// limit must trip before the decoder notices the truncation.
	data := rawPPM(1000, 1000, 0)

	_, err := fimg.DecodePPM(bytes.NewReader(data), fimg.WithMaxSamples(1000))
	require.ErrorIs(t, err, fimg.ErrOutOfMemory)
}

func TestDecodePPM_Truncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"8-bit", rawPPM(2, 2, 1, 2, 3)},
		{"16-bit", []byte("P6\n1 1\n65535\n\xff\xff\x00")},
		{"plain", []byte("P3\n2 1\n255\n1 2 3 4\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := fimg.DecodePPM(bytes.NewReader(tt.data))
			require.ErrorIs(t, err, fimg.ErrFormat)
			require.Nil(t, img)
		})
	}
}

// rawPPM16 builds a binary P6 stream with two bytes per sample.
func rawPPM16(header string, samples ...uint16) []byte {
	buf := []byte(header)
	for _, v := range samples {
		buf = binary.BigEndian.AppendUint16(buf, v)
	}
	return buf
}

func TestDecodePPM_Depths(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []float32
	}{
		{
			name: "plain 8-bit",
			data: []byte("P3\n2 1\n255\n255 0 51\n0 255 0\n"),
			want: []float32{1, 0, 0.2, 0, 1, 0},
		},
		{
			name: "plain with comments",
			data: []byte("P3\n# made by hand\n2 1 # size\n# depth next\n255\n0 0 255 51 51 51\n"),
			want: []float32{0, 0, 1, 0.2, 0.2, 0.2},
		},
		{
			name: "plain maxval 15",
			data: []byte("P3\n1 1\n15\n15 5 0\n"),
			want: []float32{1, 1.0 / 3.0, 0},
		},
		{
			name: "plain maxval 1023",
			data: []byte("P3\n1 1\n1023\n1023 0 341\n"),
			want: []float32{1, 0, 1.0 / 3.0},
		},
		{
			name: "plain maxval 65535",
			data: []byte("P3\n1 1\n65535\n65535 0 13107\n"),
			want: []float32{1, 0, 0.2},
		},
		{
			name: "raw maxval 15",
			data: []byte("P6\n1 1\n15\n\x0f\x05\x00"),
			want: []float32{1, 1.0 / 3.0, 0},
		},
		{
			name: "raw maxval 1023",
			data: rawPPM16("P6\n2 1\n1023\n", 1023, 0, 341, 0, 1023, 0),
			want: []float32{1, 0, 1.0 / 3.0, 0, 1, 0},
		},
		{
			name: "raw maxval 65535",
			data: rawPPM16("P6\n1 1\n65535\n", 65535, 0, 13107),
			want: []float32{1, 0, 0.2},
		},
		{
			name: "raw 16-bit with comment",
			data: rawPPM16("P6 # wide\n1 1\n# depth\n65535\n", 0, 65535, 0),
			want: []float32{0, 1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := fimg.DecodePPM(bytes.NewReader(tt.data))
			require.NoError(t, err)
			require.Equal(t, fimg.DefaultChannels, img.Channels())
			require.Len(t, img.Data(), len(tt.want))
			for i, v := range tt.want {
				require.InDelta(t, v, img.Data()[i], 1e-5, "sample %d", i)
			}
		})
	}
}

func TestDecodePPM_Raw16Limit(t *testing.T) {
	data := rawPPM16("P6\n1000 1000\n65535\n", 0)

	_, err := fimg.DecodePPM(bytes.NewReader(data), fimg.WithMaxSamples(1000))
	require.ErrorIs(t, err, fimg.ErrOutOfMemory)
}

func TestEncodePPM(t *testing.T) {
	img, err := fimg.New(3, 2, 3)
	require.NoError(t, err)
	require.NoError(t, img.Set(0, 0, 0, 1))
	require.NoError(t, img.Set(1, 2, 2, 0.6))

	var buf bytes.Buffer
	require.NoError(t, fimg.EncodePPM(&buf, img))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("P6")), "stream must start with P6")

	back, err := fimg.DecodePPM(&buf)
	require.NoError(t, err)
	require.Equal(t, 3, back.Width())
	require.Equal(t, 2, back.Height())
	require.Len(t, back.Data(), img.Len())
	for i, want := range img.Data() {
		require.InDelta(t, want, back.Data()[i], 1.0/255, "sample %d", i)
	}
}

func TestEncodePPM_ChannelLayouts(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		pixel    []float32
		want     []float32
	}{
		{"gray replicated", 1, []float32{0.4}, []float32{0.4, 0.4, 0.4}},
		{"gray alpha drops alpha", 2, []float32{0.8, 0}, []float32{0.8, 0.8, 0.8}},
		{"rgba drops alpha", 4, []float32{0.2, 0.4, 0.6, 0}, []float32{0.2, 0.4, 0.6}},
		{"extra channels dropped", 6, []float32{1, 0, 1, 0.5, 0.5, 0.5}, []float32{1, 0, 1}},
		{"out of range clamped", 3, []float32{-0.5, 1.5, 0.5}, []float32{0, 1, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := fimg.New(1, 1, tt.channels)
			require.NoError(t, err)
			copy(img.Pixel(0, 0), tt.pixel)

			var buf bytes.Buffer
			require.NoError(t, fimg.EncodePPM(&buf, img))

			back, err := fimg.DecodePPM(&buf)
			require.NoError(t, err)
			for ch, want := range tt.want {
				got, err := back.At(0, 0, ch)
				require.NoError(t, err)
				require.InDelta(t, want, got, 1.0/255, "channel %d", ch)
			}
		})
	}
}

func TestEncodePPM_Destroyed(t *testing.T) {
	img, err := fimg.New(1, 1, 3)
	require.NoError(t, err)
	require.NoError(t, img.Destroy())

	var buf bytes.Buffer
	require.ErrorIs(t, fimg.EncodePPM(&buf, img), fimg.ErrNullHandle)
	require.ErrorIs(t, fimg.EncodePPM(&buf, nil), fimg.ErrNullHandle)
	require.Zero(t, buf.Len())
}

func TestExportImportPPM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ppm")

	img, err := fimg.New(4, 3, 3)
	require.NoError(t, err)
	for i := range img.Data() {
		img.Data()[i] = float32(i*7%256) / 255
	}

	require.NoError(t, fimg.ExportPPM(path, img))

	back, err := fimg.ImportPPM(path)
	require.NoError(t, err)
	require.Equal(t, img.Width(), back.Width())
	require.Equal(t, img.Height(), back.Height())
	require.Equal(t, img.Pitch(), back.Pitch())
	for i, want := range img.Data() {
		require.InDelta(t, want, back.Data()[i], 1e-4, "sample %d", i)
	}

	require.NoError(t, back.Destroy())
	require.ErrorIs(t, back.Destroy(), fimg.ErrNullHandle)
}

func TestExportPPM_DestroyedCreatesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.ppm")

	img, err := fimg.New(2, 2, 3)
	require.NoError(t, err)
	require.NoError(t, fimg.Destroy(img))

	require.ErrorIs(t, fimg.ExportPPM(path, img), fimg.ErrNullHandle)
	_, statErr := os.Stat(path)
	require.True(t, errors.Is(statErr, os.ErrNotExist), "file must not exist, stat = %v", statErr)
}

func TestImportPPM_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := fimg.ImportPPM(filepath.Join(dir, "missing.ppm"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.ppm")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o600))
	_, err = fimg.ImportPPM(bad)
	require.ErrorIs(t, err, fimg.ErrFormat)

	big := filepath.Join(dir, "big.ppm")
	require.NoError(t, os.WriteFile(big, rawPPM(2, 2, make([]byte, 12)...), 0o600))
	_, err = fimg.ImportPPM(big, fimg.WithMaxSamples(11))
	require.ErrorIs(t, err, fimg.ErrOutOfMemory)
}

func TestExportPPM_BadPath(t *testing.T) {
	img, err := fimg.New(1, 1, 3)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.ppm")
	require.Error(t, fimg.ExportPPM(path, img))
}
