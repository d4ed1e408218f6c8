// Package table provides a minimal column-named tabular data structure used
// as the raw form of packet slots before they are converted to series.
package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrColumnNotFound is returned when a named column does not exist.
	ErrColumnNotFound = errors.New("column not found")
	// ErrInvalidCSV is returned for empty or malformed CSV input.
	ErrInvalidCSV = errors.New("invalid csv")
)

// Table holds rows of string cells under a header of column names.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New creates a table and checks that every row matches the header width.
func New(columns []string, rows [][]string) (*Table, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), len(columns))
		}
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// Column returns a copy of the cells of the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Tail returns a table with the last n rows. Rows are shared with t.
func (t *Table) Tail(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[len(t.Rows)-n:]}
}

// ReadOptions controls CSV parsing.
type ReadOptions struct {
	Delimiter rune // Field delimiter (default: ',')
}

// ReadCSV parses a CSV stream whose first record is the header.
func ReadCSV(r io.Reader, opts *ReadOptions) (*Table, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.TrimLeadingSpace = true
	if opts != nil && opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: no header", ErrInvalidCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrInvalidCSV, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		// Strip a UTF-8 BOM left by spreadsheet exports.
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[i] = strings.TrimSpace(h)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
		}
		row := make([]string, len(record))
		for i, cell := range record {
			row[i] = strings.TrimSpace(cell)
		}
		rows = append(rows, row)
	}

	return New(columns, rows)
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string, opts *ReadOptions) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file, opts)
}

// WriteCSV writes the header and rows to w.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	return writer.Error()
}
