package sources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/lib/pq"

	"github.com/IdaCy/RNTupleTTreeChecker/cmd/checker"
)

// ErrInvalidTableName is returned when the dataset is not a usable
// PostgreSQL identifier
var ErrInvalidTableName = errors.New("invalid table name")

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// canonicalUDT maps PostgreSQL udt_name spellings to the canonical
// row-store spellings so array columns compare like vector fields
var canonicalUDT = map[string]string{
	"int4":    "int",
	"float4":  "float",
	"float8":  "double",
	"bool":    "bool",
	"_int4":   "vector<int>",
	"_float4": "vector<float>",
	"_float8": "vector<double>",
	"_bool":   "vector<bool>",
}

// PostgresSource reads one table of a live PostgreSQL database as a
// row-oriented dataset. The dataset name is the table name.
type PostgresSource struct {
	ctx    context.Context
	db     *sql.DB
	table  string
	logger *slog.Logger
	ownsDB bool
}

// OpenPostgres connects to the database named by the connection URL and
// binds the source to one table
func OpenPostgres(ctx context.Context, connStr, table string, logger *slog.Logger) (*PostgresSource, error) {
	if !validIdentifier.MatchString(table) || len(table) > 63 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	src := NewPostgresSource(ctx, db, table, logger)
	src.ownsDB = true
	return src, nil
}

// NewPostgresSource binds a source to one table over an existing
// connection pool
func NewPostgresSource(ctx context.Context, db *sql.DB, table string, logger *slog.Logger) *PostgresSource {
	return &PostgresSource{ctx: ctx, db: db, table: table, logger: logger}
}

// RowCount counts the rows of the table
func (s *PostgresSource) RowCount() (uint64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", pq.QuoteIdentifier(s.table))
	var count uint64
	if err := s.db.QueryRowContext(s.ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", s.table, err)
	}
	return count, nil
}

// Fields enumerates the table's columns in ordinal order, with array
// udt_name spellings canonicalized to vector spellings
func (s *PostgresSource) Fields() ([]checker.NativeField, error) {
	query := `
		SELECT column_name, udt_name
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := s.db.QueryContext(s.ctx, query, s.table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", s.table, err)
	}
	defer rows.Close()

	var fields []checker.NativeField
	for rows.Next() {
		var name, udt string
		if err := rows.Scan(&name, &udt); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		spelling := udt
		if canonical, ok := canonicalUDT[udt]; ok {
			spelling = canonical
		}
		fields = append(fields, checker.NativeField{Name: name, TypeName: spelling})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: table %q has no columns", ErrDatasetMismatch, s.table)
	}
	return fields, nil
}

func (s *PostgresSource) selectColumn(field string, scan func(*sql.Rows) error) error {
	if !validIdentifier.MatchString(field) {
		return fmt.Errorf("%w: %q", ErrFieldMissing, field)
	}

	query := fmt.Sprintf("SELECT %s FROM %s",
		pq.QuoteIdentifier(field), pq.QuoteIdentifier(s.table))
	rows, err := s.db.QueryContext(s.ctx, query)
	if err != nil {
		return fmt.Errorf("failed to read column %s: %w", field, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("failed to scan column %s: %w", field, err)
		}
	}
	return rows.Err()
}

// ReadInt32 reads all values of a 32-bit integer column
func (s *PostgresSource) ReadInt32(field string) ([]int32, error) {
	var values []int32
	err := s.selectColumn(field, func(rows *sql.Rows) error {
		var v int32
		if err := rows.Scan(&v); err != nil {
			return err
		}
		values = append(values, v)
		return nil
	})
	return values, err
}

// ReadFloat32 reads all values of a single-precision column
func (s *PostgresSource) ReadFloat32(field string) ([]float32, error) {
	var values []float32
	err := s.selectColumn(field, func(rows *sql.Rows) error {
		var v float32
		if err := rows.Scan(&v); err != nil {
			return err
		}
		values = append(values, v)
		return nil
	})
	return values, err
}

// ReadFloat64 reads all values of a double-precision column
func (s *PostgresSource) ReadFloat64(field string) ([]float64, error) {
	var values []float64
	err := s.selectColumn(field, func(rows *sql.Rows) error {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return err
		}
		values = append(values, v)
		return nil
	})
	return values, err
}

// ReadBool reads all values of a boolean column
func (s *PostgresSource) ReadBool(field string) ([]bool, error) {
	var values []bool
	err := s.selectColumn(field, func(rows *sql.Rows) error {
		var v bool
		if err := rows.Scan(&v); err != nil {
			return err
		}
		values = append(values, v)
		return nil
	})
	return values, err
}

// ReadVectorLengths returns the per-row element count of an array
// column. NULL arrays count as empty.
func (s *PostgresSource) ReadVectorLengths(field string) ([]uint64, error) {
	if !validIdentifier.MatchString(field) {
		return nil, fmt.Errorf("%w: %q", ErrFieldMissing, field)
	}

	query := fmt.Sprintf("SELECT COALESCE(cardinality(%s), 0) FROM %s",
		pq.QuoteIdentifier(field), pq.QuoteIdentifier(s.table))
	rows, err := s.db.QueryContext(s.ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read lengths of %s: %w", field, err)
	}
	defer rows.Close()

	var lengths []uint64
	for rows.Next() {
		var l uint64
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("failed to scan length of %s: %w", field, err)
		}
		lengths = append(lengths, l)
	}
	return lengths, rows.Err()
}

// Close closes the connection pool when this source opened it
func (s *PostgresSource) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
