package timeseries

import "errors"

var (
	// ErrInvalidOptions marks a column-mapping configuration that cannot be used.
	ErrInvalidOptions = errors.New("invalid time series options")
	// ErrMissingColumn marks a referenced column that is not in the table.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidData marks tabular data that cannot form a time series.
	ErrInvalidData = errors.New("invalid time series data")
)
