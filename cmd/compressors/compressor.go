package compressors

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnsupportedCompression is returned when an unsupported compression type is requested
var ErrUnsupportedCompression = errors.New("unsupported compression type")

// Compressor defines the interface for decompression handlers
type Compressor interface {
	// NewReader wraps a reader with streaming decompression
	NewReader(r io.Reader) (io.ReadCloser, error)

	// Extension returns the file extension for this compression (e.g., ".zst", ".lz4", ".gz")
	Extension() string
}

// GetCompressor returns the appropriate compressor based on the compression string
func GetCompressor(compression string) (Compressor, error) {
	switch compression {
	case "zstd":
		return NewZstdCompressor(), nil
	case "lz4":
		return NewLZ4Compressor(), nil
	case "gzip":
		return NewGzipCompressor(), nil
	case "none":
		return NewNoneCompressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, compression)
	}
}

// DetectCompression infers the compression type from a filename extension
func DetectCompression(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".zst"):
		return "zstd"
	case strings.HasSuffix(filename, ".lz4"):
		return "lz4"
	case strings.HasSuffix(filename, ".gz"):
		return "gzip"
	default:
		return "none"
	}
}

// StripExtension removes a recognized compression extension from a filename
func StripExtension(filename string) string {
	for _, ext := range []string{".zst", ".lz4", ".gz"} {
		if strings.HasSuffix(filename, ext) {
			return strings.TrimSuffix(filename, ext)
		}
	}
	return filename
}

// nopReadCloser wraps a plain reader with a no-op Close
type nopReadCloser struct {
	io.Reader
}

func (nopReadCloser) Close() error {
	return nil
}
