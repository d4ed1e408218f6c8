package timeseries

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sartorproj/goseries/table"
)

// FromCSV loads a time series from the CSV file at path. opts.PathToCSV is
// not consulted; callers resolve the path themselves.
func FromCSV(path string, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		return nil, fmt.Errorf("%w: csv options are required", ErrInvalidOptions)
	}
	if err := opts.Options.Validate(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	series, err := FromCSVReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return series, nil
}

// FromCSVReader loads a time series from an io.Reader.
func FromCSVReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		return nil, fmt.Errorf("%w: csv options are required", ErrInvalidOptions)
	}

	tbl, err := table.ReadCSV(r, &table.ReadOptions{Delimiter: opts.Delimiter()})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return FromTable(tbl, &opts.Options)
}

// SaveCSV saves a time series to a CSV file.
func SaveCSV(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := series.ToTable().WriteCSV(writer); err != nil {
		return err
	}
	return writer.Flush()
}
