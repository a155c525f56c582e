package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// OpenOutput returns the writer for --out. An empty path or "-" writes to
// stdout and closing it is a no-op. A path ending in ".zst" is compressed
// with zstd.
func OpenOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	return &zstdFile{Encoder: enc, f: f}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// zstdFile closes the encoder (flushing the final frame) before the file.
type zstdFile struct {
	*zstd.Encoder
	f *os.File
}

func (z *zstdFile) Close() error {
	return errors.Join(z.Encoder.Close(), z.f.Close())
}
