package ingest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExtractCSV(t *testing.T) {
	data := []byte("Name,Age\nAlice,30\nBob,25\n")

	schema, err := Extract(data, "people.csv")
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Age"}, schema.Columns)
	require.Equal(t, 2, schema.RowCount)
	require.Equal(t, int64(len(data)), schema.FileSize)
}

func TestExtractCSVSkipsEmptyLines(t *testing.T) {
	data := []byte("\nName,Age\n\nAlice,30\n\n\nBob,25\n")

	schema, err := Extract(data, "people.csv")
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Age"}, schema.Columns)
	require.Equal(t, 2, schema.RowCount)
}

func TestExtractCSVSkipsBlankCellRows(t *testing.T) {
	// A line of delimiters with no non-blank cell is as empty as a
	// zero-length line.
	data := []byte("Name,Age\n,,\n ,\nAlice,30\n")

	schema, err := Extract(data, "people.csv")
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Age"}, schema.Columns)
	require.Equal(t, 1, schema.RowCount)
}

func TestExtractCSVKeepsDuplicateHeaders(t *testing.T) {
	schema, err := Extract([]byte("id,id,value\n1,2,3\n"), "dup.csv")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "id", "value"}, schema.Columns)
	require.Equal(t, 1, schema.RowCount)
}

func TestExtractCSVUppercaseExtension(t *testing.T) {
	schema, err := Extract([]byte("a,b\n1,2\n"), "DATA.CSV")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, schema.Columns)
}

func TestExtractCSVParseError(t *testing.T) {
	data := []byte("a,b\n\"unterminated,1\n")

	_, err := Extract(data, "broken.csv")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Greater(t, parseErr.Row, 0)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	_, err := Extract([]byte("hello"), "notes.txt")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Extract([]byte("{}"), "data.json")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractEmptyFile(t *testing.T) {
	_, err := Extract(nil, "empty.csv")
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestExtractTooLarge(t *testing.T) {
	data := bytes.Repeat([]byte("a"), MaxFileSize+1)

	_, err := Extract(data, "huge.csv")
	var tooLarge *TooLargeError
	require.True(t, errors.As(err, &tooLarge))
	require.Equal(t, int64(MaxFileSize), tooLarge.Limit)
	require.Contains(t, err.Error(), "limit")
}

func TestExtractNoColumns(t *testing.T) {
	// Non-empty bytes that parse to zero records.
	_, err := Extract([]byte("\n\n\n"), "blank.csv")
	require.ErrorIs(t, err, ErrNoColumns)
}

func TestExtractXLSX(t *testing.T) {
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	require.NoError(t, file.SetSheetRow(sheet, "A1", &[]interface{}{"Name", "Age"}))
	require.NoError(t, file.SetSheetRow(sheet, "A2", &[]interface{}{"Alice", 30}))
	require.NoError(t, file.SetSheetRow(sheet, "A3", &[]interface{}{"Bob", 25}))

	var buf bytes.Buffer
	_, err := file.WriteTo(&buf)
	require.NoError(t, err)

	schema, err := Extract(buf.Bytes(), "people.xlsx")
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Age"}, schema.Columns)
	require.Equal(t, 2, schema.RowCount)
}

func TestExtractXLSXEmptyWorkbook(t *testing.T) {
	file := excelize.NewFile()

	var buf bytes.Buffer
	_, err := file.WriteTo(&buf)
	require.NoError(t, err)

	_, err = Extract(buf.Bytes(), "empty.xlsx")
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestExtractXLSXCorrupt(t *testing.T) {
	_, err := Extract([]byte(strings.Repeat("x", 128)), "corrupt.xlsx")

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestExtractXLS(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "population.xls"))
	require.NoError(t, err)

	schema, err := Extract(data, "population.xls")
	require.NoError(t, err)
	require.Equal(t, []string{"city", "population"}, schema.Columns)
	require.Equal(t, 2, schema.RowCount)
	require.Equal(t, int64(len(data)), schema.FileSize)
}

func TestExtractXLSCorrupt(t *testing.T) {
	_, err := Extract([]byte(strings.Repeat("x", 600)), "corrupt.xls")

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}
