// Package archive reads and writes lz4-framed export files. Plain files
// pass through unchanged, so callers never need to know which they got.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
)

// Ext is the conventional suffix for compressed exports.
const Ext = ".lz4"

// lz4 frame magic number 0x184D2204, little-endian.
var frameMagic = []byte{0x04, 0x22, 0x4d, 0x18}

// IsCompressed reports whether data starts with an lz4 frame header.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, frameMagic)
}

// Encode compresses data into a single lz4 frame.
func Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if err := zw.Apply(lz4.ChecksumOption(true)); err != nil {
		return nil, fmt.Errorf("lz4: configure writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("lz4: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("lz4: finish frame: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode returns the payload of an lz4 frame, or data itself when it is not
// compressed.
func Decode(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("lz4: decompress: %w", err)
	}
	return out, nil
}

// WriteFile writes data to path, compressing it first when compress is set.
// Parent directories are created as needed.
func WriteFile(path string, data []byte, compress bool) error {
	if compress {
		var err error
		if data, err = Encode(data); err != nil {
			return err
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads path and decompresses it if it holds an lz4 frame.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data)
}
