// Package ingest parses uploaded CSV and XLSX files into the row-map shape
// the normalization engine consumes. Headers are trimmed and lower-cased on
// the way in.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyFile means the file held no data rows.
	ErrEmptyFile = errors.New("file contains no data")
	// ErrUnsupportedFormat means the file extension is not csv or xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Read parses the file content by extension. Returns the rows and the header
// list in file order.
func Read(filename string, r io.Reader) ([]map[string]any, []string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, nil, fmt.Errorf("%w: %s (expected .csv or .xlsx)",
			ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ReadCSV parses CSV content. The first record is the header row; short or
// long records are tolerated.
func ReadCSV(r io.Reader) ([]map[string]any, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing csv: %w", err)
	}
	return recordsToRows(records)
}

// ReadXLSX parses the first sheet of an XLSX workbook.
func ReadXLSX(r io.Reader) ([]map[string]any, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptyFile
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return recordsToRows(records)
}

func recordsToRows(records [][]string) ([]map[string]any, []string, error) {
	if len(records) < 2 {
		return nil, nil, ErrEmptyFile
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, headers, nil
}
