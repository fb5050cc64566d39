// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/vasync/internal/shared"
	"github.com/xuri/excelize/v2"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// NewTestDB opens an in-memory SQLite database with the directory tables migrated.
// The database is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := shared.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// ReportRow is one lender row written by [WriteLenderReport]. A nil Count leaves column C empty.
type ReportRow struct {
	Name  string
	Count any
}

// WriteLenderReport writes an xlsx file laid out like the VA lender loan volume report:
// a title row, a header row, then one lender per row in columns B and C.
func WriteLenderReport(t *testing.T, dir, sheet string, rows []ReportRow) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("failed to create sheet %s: %v", sheet, err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("failed to delete default sheet: %v", err)
		}
	}

	mustSet := func(cell string, v any) {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("failed to set %s: %v", cell, err)
		}
	}

	mustSet("A1", "VA Guaranteed Loans by Lender")
	mustSet("A2", "Rank")
	mustSet("B2", "Lender")
	mustSet("C2", "Loans")

	for i, row := range rows {
		r := i + 3
		mustSet(cellName(t, 1, r), i+1)
		mustSet(cellName(t, 2, r), row.Name)
		if row.Count != nil {
			mustSet(cellName(t, 3, r), row.Count)
		}
	}

	path := filepath.Join(dir, "va_lenders_latest.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

func cellName(t *testing.T, col, row int) string {
	t.Helper()
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		t.Fatalf("invalid cell coordinates (%d, %d): %v", col, row, err)
	}
	return name
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
