// Package ingest turns an uploaded byte stream into a validated row/column
// schema. Extraction is a pure function over the bytes; it never touches
// storage or the database.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// MaxFileSize is the ingestion size cap in bytes.
const MaxFileSize = 10 << 20 // 10 MiB

// Schema is the extracted shape of a tabular file.
type Schema struct {
	Columns  []string `json:"columns"`
	RowCount int      `json:"row_count"`
	FileSize int64    `json:"file_size"`
}

// Extract parses raw file bytes according to the filename's extension.
// Header cells are taken verbatim, duplicates included; callers decide
// whether duplicate column names are acceptable. A row with no non-blank
// cell counts as empty across all formats, the same as a zero-length line,
// and contributes neither a header nor a data row.
func Extract(data []byte, filename string) (*Schema, error) {
	size := int64(len(data))
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if size > MaxFileSize {
		return nil, &TooLargeError{Size: size, Limit: MaxFileSize}
	}

	var (
		columns  []string
		rowCount int
		err      error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		columns, rowCount, err = extractCSV(data)
	case ".xlsx":
		columns, rowCount, err = extractXLSX(data)
	case ".xls":
		columns, rowCount, err = extractXLS(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	return &Schema{
		Columns:  columns,
		RowCount: rowCount,
		FileSize: size,
	}, nil
}

func extractCSV(data []byte) ([]string, int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var (
		columns  []string
		rowCount int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, 0, &ParseError{Row: parseErr.Line, Err: parseErr.Err}
			}
			return nil, 0, Error.Wrap(err)
		}
		if emptyRecord(record) {
			continue
		}
		if columns == nil {
			// First non-empty line is the header, cells kept verbatim.
			columns = record
			continue
		}
		rowCount++
	}

	return columns, rowCount, nil
}

func extractXLSX(data []byte) ([]string, int, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, &ParseError{Row: 0, Err: err}
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, ErrEmptyFile
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, 0, &ParseError{Row: 0, Err: err}
	}
	if len(rows) == 0 {
		return nil, 0, ErrEmptyFile
	}

	columns := rows[0]
	rowCount := 0
	for _, row := range rows[1:] {
		if !emptyRecord(row) {
			rowCount++
		}
	}

	return columns, rowCount, nil
}

func extractXLS(data []byte) (columns []string, rowCount int, err error) {
	// extrame/xls panics instead of returning errors on some malformed or
	// sparse sheets, and Row panics when a row record is absent.
	defer func() {
		if r := recover(); r != nil {
			columns, rowCount = nil, 0
			err = &ParseError{Row: 0, Err: fmt.Errorf("%v", r)}
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, 0, &ParseError{Row: 0, Err: err}
	}
	if workbook == nil {
		return nil, 0, &ParseError{Row: 0, Err: errors.New("no workbook stream")}
	}
	if workbook.NumSheets() == 0 {
		return nil, 0, ErrEmptyFile
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, 0, ErrEmptyFile
	}

	header := sheet.Row(0)
	if header == nil {
		return nil, 0, ErrEmptyFile
	}

	for i := header.FirstCol(); i <= header.LastCol(); i++ {
		columns = append(columns, header.Col(i))
	}

	for i := 1; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		var cells []string
		for j := row.FirstCol(); j <= row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		if !emptyRecord(cells) {
			rowCount++
		}
	}

	return columns, rowCount, nil
}

func emptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
