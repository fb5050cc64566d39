// package workbook reads the VA lender loan volume report.
//
// The report is an xlsx workbook whose "All" sheet lists one lender per row:
// two header rows, then the lender name in column B and the guaranteed loan count in column C.
// A trailing "Grand Total" row sums the counts.
package workbook

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/desertthunder/vasync/internal/models"
	"github.com/desertthunder/vasync/internal/shared"
	"github.com/xuri/excelize/v2"
)

const (
	// DefaultSheet is the report sheet holding every lender.
	DefaultSheet = "All"
	// FirstDataRow is the 1-based row of the first lender.
	FirstDataRow = 3
	// TotalRowLabel marks the summary row, which is not a lender.
	TotalRowLabel = "Grand Total"

	nameColumn  = 1 // B
	countColumn = 2 // C
)

// ReadLenderReport opens the workbook at path and returns its lender rows.
func ReadLenderReport(path, sheet string) ([]models.LenderRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	return readRows(f, sheet)
}

// ParseLenderReport reads a workbook from r and returns its lender rows.
func ParseLenderReport(r io.Reader, sheet string) ([]models.LenderRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()

	return readRows(f, sheet)
}

// readRows streams the sheet, skipping header rows, blank names and the total row.
func readRows(f *excelize.File, sheet string) ([]models.LenderRow, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q (sheets: %s)", shared.ErrSheetNotFound, sheet, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	var lenders []models.LenderRow
	for rowNum := 1; rows.Next(); rowNum++ {
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowNum, err)
		}

		if rowNum < FirstDataRow || len(cols) <= nameColumn {
			continue
		}

		name := strings.TrimSpace(cols[nameColumn])
		if name == "" || name == TotalRowLabel {
			continue
		}

		var rawCount string
		if len(cols) > countColumn {
			rawCount = cols[countColumn]
		}

		count, err := ParseLoanCount(rawCount)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", rowNum, name, err)
		}

		lenders = append(lenders, models.LenderRow{Row: rowNum, Name: name, LoanCount: count})
	}

	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate sheet %q: %w", sheet, err)
	}

	return lenders, nil
}

// ParseLoanCount parses a loan count cell. Blank cells are 0, thousands separators are accepted
// and fractional values are truncated.
func ParseLoanCount(raw string) (int, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", shared.ErrInvalidLoanCount, raw)
	}
	return int(f), nil
}
