package compressors

import "io"

// NoneCompressor is a no-op passthrough for uncompressed files
type NoneCompressor struct{}

// NewNoneCompressor creates a new no-op compressor
func NewNoneCompressor() *NoneCompressor {
	return &NoneCompressor{}
}

// NewReader returns the reader unchanged (no decompression)
func (c *NoneCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return nopReadCloser{r}, nil
}

// Extension returns an empty string (no compression extension)
func (c *NoneCompressor) Extension() string {
	return ""
}
