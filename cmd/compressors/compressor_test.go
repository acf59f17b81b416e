package compressors

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

func TestDetectCompression(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"events.jsonl.zst", "zstd"},
		{"events.jsonl.lz4", "lz4"},
		{"events.jsonl.gz", "gzip"},
		{"events.jsonl", "none"},
		{"events.parquet", "none"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectCompression(tt.filename); got != tt.want {
				t.Errorf("DetectCompression(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestStripExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"events.jsonl.zst", "events.jsonl"},
		{"events.jsonl.lz4", "events.jsonl"},
		{"events.jsonl.gz", "events.jsonl"},
		{"events.jsonl", "events.jsonl"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := StripExtension(tt.filename); got != tt.want {
				t.Errorf("StripExtension(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestGetCompressorUnsupported(t *testing.T) {
	if _, err := GetCompressor("brotli"); err == nil {
		t.Error("GetCompressor(brotli) should fail")
	}
}

func TestRoundTrip(t *testing.T) {
	payload := []byte("{\"value\":1,\"weight\":0.1}\n{\"value\":2,\"weight\":0.2}\n")

	compress := map[string]func([]byte) []byte{
		"zstd": func(data []byte) []byte {
			var buf bytes.Buffer
			w, _ := zstd.NewWriter(&buf)
			_, _ = w.Write(data)
			_ = w.Close()
			return buf.Bytes()
		},
		"lz4": func(data []byte) []byte {
			var buf bytes.Buffer
			w := lz4.NewWriter(&buf)
			_, _ = w.Write(data)
			_ = w.Close()
			return buf.Bytes()
		},
		"gzip": func(data []byte) []byte {
			var buf bytes.Buffer
			w := gzip.NewWriter(&buf)
			_, _ = w.Write(data)
			_ = w.Close()
			return buf.Bytes()
		},
		"none": func(data []byte) []byte {
			return data
		},
	}

	for name, pack := range compress {
		t.Run(name, func(t *testing.T) {
			c, err := GetCompressor(name)
			if err != nil {
				t.Fatalf("GetCompressor(%q) error = %v", name, err)
			}

			reader, err := c.NewReader(bytes.NewReader(pack(payload)))
			if err != nil {
				t.Fatalf("NewReader() error = %v", err)
			}
			defer reader.Close()

			got, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("decompressed %d bytes, want %d identical bytes", len(got), len(payload))
			}
		})
	}
}
