package timeseries

import (
	"fmt"
	"unicode/utf8"
)

// Options maps table columns onto a time-indexed series.
type Options struct {
	TimeCol          string             `mapstructure:"time_col"`           // Column holding timestamps (required)
	ValueCols        []string           `mapstructure:"value_cols"`         // Value columns (default: all but TimeCol)
	Freq             string             `mapstructure:"freq"`               // Frequency alias (default: inferred)
	FillMissingDates bool               `mapstructure:"fill_missing_dates"` // Insert NaN rows for missing timestamps
	FillNAValue      *float64           `mapstructure:"fillna_value"`       // Replacement for NaN values (optional)
	DateFormat       string             `mapstructure:"date_format"`        // Go time layout (default: common layouts)
	StaticCovariates map[string]float64 `mapstructure:"static_covariates"`  // Copied onto the series
	Metadata         map[string]string  `mapstructure:"metadata"`           // Copied onto the series
}

// Validate checks the options without looking at any data.
func (o *Options) Validate() error {
	if o.TimeCol == "" {
		return fmt.Errorf("%w: time_col is required", ErrInvalidOptions)
	}

	seen := make(map[string]bool, len(o.ValueCols))
	for _, c := range o.ValueCols {
		if c == "" {
			return fmt.Errorf("%w: value_cols contains an empty name", ErrInvalidOptions)
		}
		if c == o.TimeCol {
			return fmt.Errorf("%w: %q is both time_col and a value column", ErrInvalidOptions, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate value column %q", ErrInvalidOptions, c)
		}
		seen[c] = true
	}

	if o.Freq != "" {
		if _, err := ParseFrequency(o.Freq); err != nil {
			return err
		}
	}
	return nil
}

// Frequency returns the parsed Freq, or the zero Frequency when unset.
func (o *Options) Frequency() (Frequency, error) {
	if o.Freq == "" {
		return Frequency{}, nil
	}
	return ParseFrequency(o.Freq)
}

// CSVOptions adds file-level settings to Options for FromCSV.
type CSVOptions struct {
	Options   `mapstructure:",squash"`
	PathToCSV string `mapstructure:"path_to_csv"` // File name or path relative to the loader root
	Sep       string `mapstructure:"sep"`         // Field delimiter (default: ",")
}

// Validate checks the CSV settings and the embedded Options.
func (o *CSVOptions) Validate() error {
	if o.PathToCSV == "" {
		return fmt.Errorf("%w: path_to_csv is required", ErrInvalidOptions)
	}
	if o.Sep != "" && utf8.RuneCountInString(o.Sep) != 1 {
		return fmt.Errorf("%w: sep must be a single character, got %q", ErrInvalidOptions, o.Sep)
	}
	return o.Options.Validate()
}

// Delimiter returns the field delimiter rune.
func (o *CSVOptions) Delimiter() rune {
	if o.Sep == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(o.Sep)
	return r
}
