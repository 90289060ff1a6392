package fimg

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Decoder reads an Image from a byte stream in some file format.
type Decoder interface {
	Decode(r io.Reader, opts ...Option) (*Image, error)
}

// Encoder writes an Image to a byte stream in some file format.
type Encoder interface {
	Encode(w io.Writer, img *Image) error
}

// Load opens the file at path and decodes it with dec.
func Load(path string, dec Decoder, opts ...Option) (*Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("fimg: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return dec.Decode(f, opts...)
}

// Save encodes img with enc into the file at path, creating or truncating it.
// The file is not created if img is nil or destroyed.
func Save(path string, img *Image, enc Encoder) error {
	if !img.Valid() {
		return ErrNullHandle
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("fimg: create file: %w", err)
	}

	if err := enc.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("fimg: close file: %w", err)
	}
	return nil
}
