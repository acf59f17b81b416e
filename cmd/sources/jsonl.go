package sources

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/IdaCy/RNTupleTTreeChecker/cmd/checker"
	"github.com/IdaCy/RNTupleTTreeChecker/cmd/compressors"
)

// jsonlHeader is the first line of a typed JSONL dump: the dataset name
// and the declared column types
type jsonlHeader struct {
	Dataset string `json:"dataset"`
	Columns []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"columns"`
}

// JSONLSource reads a typed JSONL dump: one header line declaring the
// dataset and its columns, then one JSON object per entry. Each read
// streams the file once; nothing is held in memory between calls.
type JSONLSource struct {
	path        string
	compression string
	fields      []checker.NativeField
	logger      *slog.Logger
}

// NewJSONLSource opens a typed JSONL dump and validates its header
// against the requested dataset name
func NewJSONLSource(path, dataset string, logger *slog.Logger) (*JSONLSource, error) {
	s := &JSONLSource{
		path:        path,
		compression: compressors.DetectCompression(path),
		logger:      logger,
	}

	reader, err := s.open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	scanner := newLineScanner(reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedHeader, path, err)
		}
		return nil, fmt.Errorf("%w: %s: empty file", ErrMalformedHeader, path)
	}

	var header jsonlHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedHeader, path, err)
	}
	if dataset != "" && header.Dataset != dataset {
		return nil, fmt.Errorf("%w: %q (file holds %q)", ErrDatasetMismatch, dataset, header.Dataset)
	}

	s.fields = make([]checker.NativeField, len(header.Columns))
	for i, col := range header.Columns {
		s.fields[i] = checker.NativeField{Name: col.Name, TypeName: col.Type}
	}

	return s, nil
}

func (s *JSONLSource) open() (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}

	compressor, err := compressors.GetCompressor(s.compression)
	if err != nil {
		f.Close()
		return nil, err
	}

	decompressed, err := compressor.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decompress %s: %w", s.path, err)
	}

	return &stackedCloser{ReadCloser: decompressed, under: f}, nil
}

// scan streams every data row past the header, decoding each line into
// raw field values
func (s *JSONLSource) scan(visit func(row map[string]json.RawMessage) error) error {
	reader, err := s.open()
	if err != nil {
		return err
	}
	defer reader.Close()

	scanner := newLineScanner(reader)
	if !scanner.Scan() {
		return scanner.Err()
	}

	line := 1
	for scanner.Scan() {
		line++
		var row map[string]json.RawMessage
		if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
			return fmt.Errorf("%s line %d: %w", s.path, line, err)
		}
		if err := visit(row); err != nil {
			return fmt.Errorf("%s line %d: %w", s.path, line, err)
		}
	}
	return scanner.Err()
}

// RowCount streams the file and counts data rows
func (s *JSONLSource) RowCount() (uint64, error) {
	var count uint64
	err := s.scan(func(map[string]json.RawMessage) error {
		count++
		return nil
	})
	return count, err
}

// Fields returns the columns declared by the header, in declaration order
func (s *JSONLSource) Fields() ([]checker.NativeField, error) {
	return s.fields, nil
}

// ReadInt32 reads all values of a 32-bit integer field
func (s *JSONLSource) ReadInt32(field string) ([]int32, error) {
	var values []int32
	err := s.scan(func(row map[string]json.RawMessage) error {
		raw, ok := row[field]
		if !ok {
			return fmt.Errorf("%w: %s", ErrFieldMissing, field)
		}
		var v int32
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		values = append(values, v)
		return nil
	})
	return values, err
}

// ReadFloat32 reads all values of a single-precision field
func (s *JSONLSource) ReadFloat32(field string) ([]float32, error) {
	var values []float32
	err := s.scan(func(row map[string]json.RawMessage) error {
		raw, ok := row[field]
		if !ok {
			return fmt.Errorf("%w: %s", ErrFieldMissing, field)
		}
		var v float32
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		values = append(values, v)
		return nil
	})
	return values, err
}

// ReadFloat64 reads all values of a double-precision field
func (s *JSONLSource) ReadFloat64(field string) ([]float64, error) {
	var values []float64
	err := s.scan(func(row map[string]json.RawMessage) error {
		raw, ok := row[field]
		if !ok {
			return fmt.Errorf("%w: %s", ErrFieldMissing, field)
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		values = append(values, v)
		return nil
	})
	return values, err
}

// ReadBool reads all values of a boolean field
func (s *JSONLSource) ReadBool(field string) ([]bool, error) {
	var values []bool
	err := s.scan(func(row map[string]json.RawMessage) error {
		raw, ok := row[field]
		if !ok {
			return fmt.Errorf("%w: %s", ErrFieldMissing, field)
		}
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		values = append(values, v)
		return nil
	})
	return values, err
}

// ReadVectorLengths returns the per-entry element count of an array field
func (s *JSONLSource) ReadVectorLengths(field string) ([]uint64, error) {
	var lengths []uint64
	err := s.scan(func(row map[string]json.RawMessage) error {
		raw, ok := row[field]
		if !ok {
			return fmt.Errorf("%w: %s", ErrFieldMissing, field)
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		lengths = append(lengths, uint64(len(arr)))
		return nil
	})
	return lengths, err
}

// Close releases nothing; each read opens and closes its own file handle
func (s *JSONLSource) Close() error {
	return nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	// Rows with large arrays can exceed the default line limit
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return scanner
}

// stackedCloser closes the decompression reader, then the file under it
type stackedCloser struct {
	io.ReadCloser
	under io.Closer
}

func (c *stackedCloser) Close() error {
	err := c.ReadCloser.Close()
	if underErr := c.under.Close(); underErr != nil && err == nil {
		err = underErr
	}
	return err
}
