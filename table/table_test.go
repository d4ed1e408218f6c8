package table

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	csvData := `Date, Revenue
2020-01-01, 100
2020-01-02,101
"2020-01-03","102"`

	tbl, err := ReadCSV(strings.NewReader(csvData), nil)
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}

	if len(tbl.Columns) != 2 || tbl.Columns[1] != "Revenue" {
		t.Errorf("Unexpected columns: %v", tbl.Columns)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", tbl.Len())
	}

	revenue, err := tbl.Column("Revenue")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	expected := []string{"100", "101", "102"}
	for i, v := range expected {
		if revenue[i] != v {
			t.Errorf("Row %d: expected %q, got %q", i, v, revenue[i])
		}
	}
}

func TestReadCSVDelimiter(t *testing.T) {
	csvData := "ds;y\n2020-01-01;1\n2020-01-02;2"

	tbl, err := ReadCSV(strings.NewReader(csvData), &ReadOptions{Delimiter: ';'})
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if tbl.Len() != 2 || tbl.Columns[0] != "ds" {
		t.Errorf("Unexpected table: %+v", tbl)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		csvData string
	}{
		{"empty", ""},
		{"ragged", "a,b\n1,2\n3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.csvData), nil); !errors.Is(err, ErrInvalidCSV) {
				t.Errorf("Expected ErrInvalidCSV, got %v", err)
			}
		})
	}
}

func TestReadCSVStripsBOM(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("\ufeffDate,y\n2020-01-01,1"), nil)
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if tbl.Columns[0] != "Date" {
		t.Errorf("Expected BOM to be stripped, got %q", tbl.Columns[0])
	}
}

func TestReadCSVFileNotFound(t *testing.T) {
	_, err := ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestColumnNotFound(t *testing.T) {
	tbl, _ := New([]string{"a"}, [][]string{{"1"}})
	if _, err := tbl.Column("b"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

func TestNewRejectsRaggedRows(t *testing.T) {
	if _, err := New([]string{"a", "b"}, [][]string{{"1"}}); err == nil {
		t.Error("Expected error for ragged row")
	}
}

func TestTail(t *testing.T) {
	tbl, _ := New([]string{"v"}, [][]string{{"1"}, {"2"}, {"3"}})

	if got := tbl.Tail(2); got.Len() != 2 || got.Rows[0][0] != "2" {
		t.Errorf("Tail(2) = %v", got.Rows)
	}
	if got := tbl.Tail(10); got.Len() != 3 {
		t.Errorf("Tail(10) should keep all rows, got %d", got.Len())
	}
	if got := tbl.Tail(-1); got.Len() != 0 {
		t.Errorf("Tail(-1) should be empty, got %d", got.Len())
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tbl, _ := New([]string{"ds", "y"}, [][]string{{"2020-01-01", "1.5"}, {"2020-01-02", ""}})

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	back, err := ReadCSV(&buf, nil)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if back.Len() != 2 || back.Rows[0][1] != "1.5" || back.Rows[1][1] != "" {
		t.Errorf("Round trip mismatch: %v", back.Rows)
	}
}
