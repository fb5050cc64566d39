// package formatter renders derived lender records as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/vasync/internal/models"
	"github.com/desertthunder/vasync/internal/shared"
)

// Supported preview formats.
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
)

// Summary counts records by lender type and specialist flag.
type Summary struct {
	Total        int                       `json:"total"`
	Loans        int                       `json:"loans"`
	Specialists  int                       `json:"specialists"`
	WithURL      int                       `json:"with_url"`
	ByLenderType map[models.LenderType]int `json:"by_lender_type"`
}

// Summarize tallies records.
func Summarize(records []models.LenderRecord) Summary {
	s := Summary{Total: len(records), ByLenderType: make(map[models.LenderType]int)}
	for _, r := range records {
		s.Loans += r.LoanCount
		s.ByLenderType[r.LenderType]++
		if r.VASpecialist {
			s.Specialists++
		}
		if r.URL != "" {
			s.WithURL++
		}
	}
	return s
}

// ExportToCSV converts records to CSV with columns: Name, Type, Loans, VA Specialist, URL, Description
func ExportToCSV(records []models.LenderRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Name", "Type", "Loans", "VA Specialist", "URL", "Description"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		record := []string{
			r.DisplayName,
			string(r.LenderType),
			strconv.Itoa(r.LoanCount),
			strconv.FormatBool(r.VASpecialist),
			r.URL,
			r.Description,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts records to a Markdown document with a summary and a lender table
func ExportToMarkdown(records []models.LenderRecord, title string) ([]byte, error) {
	var buf bytes.Buffer
	s := Summarize(records)

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Lenders**: %s\n", models.FormatCount(s.Total)))
	buf.WriteString(fmt.Sprintf("**VA loans**: %s\n", models.FormatCount(s.Loans)))
	buf.WriteString(fmt.Sprintf("**VA specialists**: %s\n\n", models.FormatCount(s.Specialists)))

	buf.WriteString("| # | Lender | Type | Loans | Specialist | URL |\n")
	buf.WriteString("|---|--------|------|------:|:----------:|-----|\n")
	for i, r := range records {
		specialist := ""
		if r.VASpecialist {
			specialist = "✓"
		}
		url := ""
		if r.URL != "" {
			url = fmt.Sprintf("[link](%s)", r.URL)
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n",
			i+1, escapeMarkdown(r.DisplayName), r.LenderType, models.FormatCount(r.LoanCount), specialist, url))
	}

	return buf.Bytes(), nil
}

// ExportToText converts records to plain text, one lender per line
func ExportToText(records []models.LenderRecord) ([]byte, error) {
	var buf bytes.Buffer
	s := Summarize(records)

	buf.WriteString(fmt.Sprintf("Lenders: %s (%s VA specialists)\n\n", models.FormatCount(s.Total), models.FormatCount(s.Specialists)))

	for i, r := range records {
		buf.WriteString(fmt.Sprintf("%d. %s [%s] %s loans", i+1, r.DisplayName, r.LenderType, models.FormatCount(r.LoanCount)))
		if r.URL != "" {
			buf.WriteString(" " + r.URL)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// Render converts records to the named format.
func Render(records []models.LenderRecord, format, title string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(records)
	case FormatMarkdown, "markdown":
		return ExportToMarkdown(records, title)
	case FormatText, "txt", "":
		return ExportToText(records)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want text, csv or md)", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders records and writes them to path.
func WriteExport(records []models.LenderRecord, format, title, path string) error {
	data, err := Render(records, format, title)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func escapeMarkdown(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		if r == '|' {
			buf.WriteByte('\\')
		}
		buf.WriteRune(r)
	}
	return buf.String()
}
