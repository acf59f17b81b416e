package sources

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func mockSource(t *testing.T) (*PostgresSource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresSource(context.Background(), db, "events", testLogger()), mock
}

func TestPostgresSourceFields(t *testing.T) {
	src, mock := mockSource(t)

	rows := sqlmock.NewRows([]string{"column_name", "udt_name"}).
		AddRow("value", "int4").
		AddRow("weight", "float4").
		AddRow("energy", "float8").
		AddRow("is_new", "bool").
		AddRow("hits", "_float4").
		AddRow("label", "text")
	mock.ExpectQuery("SELECT column_name, udt_name").
		WithArgs("events").
		WillReturnRows(rows)

	fields, err := src.Fields()
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}
	if len(fields) != 6 {
		t.Fatalf("Fields() returned %d fields, want 6", len(fields))
	}

	want := []struct{ name, spelling string }{
		{"value", "int"},
		{"weight", "float"},
		{"energy", "double"},
		{"is_new", "bool"},
		{"hits", "vector<float>"},
		{"label", "text"}, // unmapped udt passes through
	}
	for i, w := range want {
		if fields[i].Name != w.name || fields[i].TypeName != w.spelling {
			t.Errorf("fields[%d] = %+v, want %s/%s", i, fields[i], w.name, w.spelling)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSourceFieldsEmptyTable(t *testing.T) {
	src, mock := mockSource(t)

	mock.ExpectQuery("SELECT column_name, udt_name").
		WithArgs("events").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "udt_name"}))

	if _, err := src.Fields(); !errors.Is(err, ErrDatasetMismatch) {
		t.Errorf("Fields() error = %v, want ErrDatasetMismatch", err)
	}
}

func TestPostgresSourceRowCount(t *testing.T) {
	src, mock := mockSource(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := src.RowCount()
	if err != nil {
		t.Fatalf("RowCount() error = %v", err)
	}
	if count != 42 {
		t.Errorf("RowCount() = %d, want 42", count)
	}
}

func TestPostgresSourceReadInt32(t *testing.T) {
	src, mock := mockSource(t)

	rows := sqlmock.NewRows([]string{"value"}).AddRow(1).AddRow(2).AddRow(3)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "value" FROM "events"`)).
		WillReturnRows(rows)

	values, err := src.ReadInt32("value")
	if err != nil {
		t.Fatalf("ReadInt32() error = %v", err)
	}
	if len(values) != 3 || values[0] != 1 || values[2] != 3 {
		t.Errorf("ReadInt32(value) = %v, want [1 2 3]", values)
	}
}

func TestPostgresSourceReadBool(t *testing.T) {
	src, mock := mockSource(t)

	rows := sqlmock.NewRows([]string{"is_new"}).AddRow(true).AddRow(false)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "is_new" FROM "events"`)).
		WillReturnRows(rows)

	values, err := src.ReadBool("is_new")
	if err != nil {
		t.Fatalf("ReadBool() error = %v", err)
	}
	if len(values) != 2 || !values[0] || values[1] {
		t.Errorf("ReadBool(is_new) = %v, want [true false]", values)
	}
}

func TestPostgresSourceVectorLengths(t *testing.T) {
	src, mock := mockSource(t)

	rows := sqlmock.NewRows([]string{"coalesce"}).AddRow(2).AddRow(0).AddRow(1)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(cardinality("hits"), 0) FROM "events"`)).
		WillReturnRows(rows)

	lengths, err := src.ReadVectorLengths("hits")
	if err != nil {
		t.Fatalf("ReadVectorLengths() error = %v", err)
	}
	want := []uint64{2, 0, 1}
	for i := range want {
		if lengths[i] != want[i] {
			t.Errorf("lengths[%d] = %d, want %d", i, lengths[i], want[i])
		}
	}
}

func TestPostgresSourceRejectsBadIdentifiers(t *testing.T) {
	src, _ := mockSource(t)

	if _, err := src.ReadInt32("value; DROP TABLE events"); !errors.Is(err, ErrFieldMissing) {
		t.Errorf("ReadInt32(injection) error = %v, want ErrFieldMissing", err)
	}
	if _, err := src.ReadVectorLengths("1bad"); !errors.Is(err, ErrFieldMissing) {
		t.Errorf("ReadVectorLengths(1bad) error = %v, want ErrFieldMissing", err)
	}
}

func TestOpenPostgresRejectsBadTableName(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "postgres://localhost/db", "bad-name", testLogger())
	if !errors.Is(err, ErrInvalidTableName) {
		t.Errorf("OpenPostgres(bad-name) error = %v, want ErrInvalidTableName", err)
	}
}
