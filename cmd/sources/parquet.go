package sources

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/IdaCy/RNTupleTTreeChecker/cmd/checker"
	"github.com/IdaCy/RNTupleTTreeChecker/cmd/compressors"
)

// ParquetSource reads a Parquet file as a columnar dataset. The root
// schema name is the dataset name. The file is held in memory because
// Parquet needs random access.
type ParquetSource struct {
	file   *parquet.File
	logger *slog.Logger
}

// NewParquetSource opens a Parquet file and validates its schema name
// against the requested dataset
func NewParquetSource(path, dataset string, logger *slog.Logger) (*ParquetSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	compressor, err := compressors.GetCompressor(compressors.DetectCompression(path))
	if err != nil {
		return nil, err
	}
	reader, err := compressor.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return NewParquetSourceFromBytes(data, dataset, logger)
}

// NewParquetSourceFromBytes opens an in-memory Parquet payload
func NewParquetSourceFromBytes(data []byte, dataset string, logger *slog.Logger) (*ParquetSource, error) {
	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	if dataset != "" && file.Schema().Name() != dataset {
		return nil, fmt.Errorf("%w: %q (file holds %q)", ErrDatasetMismatch, dataset, file.Schema().Name())
	}

	return &ParquetSource{file: file, logger: logger}, nil
}

// RowCount returns the number of rows in the file
func (s *ParquetSource) RowCount() (uint64, error) {
	return uint64(s.file.NumRows()), nil
}

// Fields enumerates the top-level schema fields in declaration order.
// Repeated leaves and LIST groups spell as "list<element>".
func (s *ParquetSource) Fields() ([]checker.NativeField, error) {
	schema := s.file.Schema()
	fields := make([]checker.NativeField, 0, len(schema.Fields()))
	for _, f := range schema.Fields() {
		fields = append(fields, checker.NativeField{
			Name:     f.Name(),
			TypeName: fieldSpelling(f),
		})
	}
	return fields, nil
}

func fieldSpelling(f parquet.Field) string {
	if f.Leaf() {
		spelling := kindSpelling(f.Type().Kind())
		if f.Repeated() {
			return "list<" + spelling + ">"
		}
		return spelling
	}
	if elem, ok := listElement(f); ok {
		return "list<" + kindSpelling(elem.Type().Kind()) + ">"
	}
	return "group"
}

// listElement digs the element leaf out of a LIST-shaped group:
// either field.list.element or a single repeated leaf child
func listElement(f parquet.Field) (parquet.Field, bool) {
	children := f.Fields()
	if len(children) != 1 {
		return nil, false
	}
	if children[0].Leaf() {
		return children[0], true
	}
	inner := children[0].Fields()
	if len(inner) == 1 && inner[0].Leaf() {
		return inner[0], true
	}
	return nil, false
}

func kindSpelling(kind parquet.Kind) string {
	switch kind {
	case parquet.Boolean:
		return "boolean"
	case parquet.Int32:
		return "int32"
	case parquet.Int64:
		return "int64"
	case parquet.Float:
		return "float"
	case parquet.Double:
		return "double"
	case parquet.ByteArray:
		return "byte_array"
	case parquet.FixedLenByteArray:
		return "fixed_len_byte_array"
	default:
		return "unknown"
	}
}

// column resolves a top-level field name to its leaf column
func (s *ParquetSource) column(field string) (parquet.LeafColumn, error) {
	schema := s.file.Schema()
	for _, path := range schema.Columns() {
		if len(path) > 0 && path[0] == field {
			if leaf, ok := schema.Lookup(path...); ok {
				return leaf, nil
			}
		}
	}
	return parquet.LeafColumn{}, fmt.Errorf("%w: %s", ErrFieldMissing, field)
}

// readColumn streams every value of one leaf column through visit, in
// row order across all row groups
func (s *ParquetSource) readColumn(field string, visit func(parquet.Value)) error {
	leaf, err := s.column(field)
	if err != nil {
		return err
	}

	buf := make([]parquet.Value, 1024)
	for _, rowGroup := range s.file.RowGroups() {
		pages := rowGroup.ColumnChunks()[leaf.ColumnIndex].Pages()
		err := func() error {
			defer pages.Close()
			for {
				page, err := pages.ReadPage()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return fmt.Errorf("field %s: %w", field, err)
				}

				values := page.Values()
				for {
					n, err := values.ReadValues(buf)
					for i := 0; i < n; i++ {
						visit(buf[i])
					}
					if err == io.EOF {
						break
					}
					if err != nil {
						return fmt.Errorf("field %s: %w", field, err)
					}
					if n == 0 {
						break
					}
				}
			}
		}()
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadInt32 reads all values of a 32-bit integer column
func (s *ParquetSource) ReadInt32(field string) ([]int32, error) {
	var values []int32
	err := s.readColumn(field, func(v parquet.Value) {
		if !v.IsNull() {
			values = append(values, v.Int32())
		}
	})
	return values, err
}

// ReadFloat32 reads all values of a single-precision column
func (s *ParquetSource) ReadFloat32(field string) ([]float32, error) {
	var values []float32
	err := s.readColumn(field, func(v parquet.Value) {
		if !v.IsNull() {
			values = append(values, v.Float())
		}
	})
	return values, err
}

// ReadFloat64 reads all values of a double-precision column
func (s *ParquetSource) ReadFloat64(field string) ([]float64, error) {
	var values []float64
	err := s.readColumn(field, func(v parquet.Value) {
		if !v.IsNull() {
			values = append(values, v.Double())
		}
	})
	return values, err
}

// ReadBool reads all values of a boolean column
func (s *ParquetSource) ReadBool(field string) ([]bool, error) {
	var values []bool
	err := s.readColumn(field, func(v parquet.Value) {
		if !v.IsNull() {
			values = append(values, v.Boolean())
		}
	})
	return values, err
}

// ReadVectorLengths derives the per-row element count of a list column
// from repetition and definition levels: a zero repetition level starts a
// new row, and a value counts only when fully defined
func (s *ParquetSource) ReadVectorLengths(field string) ([]uint64, error) {
	leaf, err := s.column(field)
	if err != nil {
		return nil, err
	}
	maxDef := leaf.MaxDefinitionLevel

	var lengths []uint64
	err = s.readColumn(field, func(v parquet.Value) {
		if v.RepetitionLevel() == 0 {
			lengths = append(lengths, 0)
		}
		if v.DefinitionLevel() == maxDef && len(lengths) > 0 {
			lengths[len(lengths)-1]++
		}
	})
	return lengths, err
}

// Close releases nothing; the file is held in memory
func (s *ParquetSource) Close() error {
	return nil
}
