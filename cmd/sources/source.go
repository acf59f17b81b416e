package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/IdaCy/RNTupleTTreeChecker/cmd/checker"
	"github.com/IdaCy/RNTupleTTreeChecker/cmd/compressors"
)

// Static errors for source resolution
var (
	ErrUnsupportedFormat = errors.New("unsupported source format")
	ErrDatasetMismatch   = errors.New("dataset not found in source")
	ErrMalformedHeader   = errors.New("malformed dataset header")
	ErrFieldMissing      = errors.New("field missing from source")
)

// Open resolves a location to a readable source. Supported locations:
// postgres:// and postgresql:// connection URLs (the dataset names a
// table), s3:// object URLs (downloaded to a temp file first), and local
// .jsonl or .parquet files, optionally compressed with zstd, lz4, or gzip.
func Open(ctx context.Context, location, dataset string, s3opts S3Options, logger *slog.Logger) (checker.Source, error) {
	switch {
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		return OpenPostgres(ctx, location, dataset, logger)

	case strings.HasPrefix(location, "s3://"):
		local, err := downloadS3(ctx, location, s3opts, logger)
		if err != nil {
			return nil, err
		}
		src, err := openFile(local, dataset, logger)
		if err != nil {
			os.Remove(local)
			return nil, err
		}
		return &localizedSource{Source: src, path: local}, nil

	default:
		return openFile(location, dataset, logger)
	}
}

// openFile dispatches a local file to its format reader based on the
// extension left after stripping any compression suffix
func openFile(path, dataset string, logger *slog.Logger) (checker.Source, error) {
	switch filepath.Ext(compressors.StripExtension(filepath.Base(path))) {
	case ".jsonl":
		return NewJSONLSource(path, dataset, logger)
	case ".parquet":
		return NewParquetSource(path, dataset, logger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// localizedSource removes its downloaded temp file when closed
type localizedSource struct {
	checker.Source
	path string
}

func (s *localizedSource) Close() error {
	err := s.Source.Close()
	if rmErr := os.Remove(s.path); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}
