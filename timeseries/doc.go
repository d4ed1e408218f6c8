// Package timeseries provides time series data structures and the
// conversions between tabular data and series.
//
// # Creating a Series
//
// Build a series from a table by naming the time column and the value
// columns:
//
//	tbl, err := table.ReadCSVFile("sales.csv", nil)
//	series, err := timeseries.FromTable(tbl, &timeseries.Options{
//	    TimeCol:   "Date",
//	    ValueCols: []string{"Revenue"},
//	    Freq:      "D",
//	})
//
// # Loading from CSV
//
// Load a series directly from a file:
//
//	series, err := timeseries.FromCSV("sales.csv", &timeseries.CSVOptions{
//	    Options: timeseries.Options{TimeCol: "Date", ValueCols: []string{"Revenue"}},
//	})
//
// # Frequencies
//
// Frequencies use pandas-style aliases with an optional multiple:
// "s", "15min", "h", "D", "B", "W", "MS", "ME", "QS", "QE", "YS", "YE".
// When Freq is empty the frequency is inferred from the timestamps.
//
// # Missing Dates and Values
//
// With FillMissingDates, rows are inserted for every missing timestamp and
// their values are NaN. FillNAValue then replaces every NaN, including
// empty or "NA" cells of the original table:
//
//	fill := 0.0
//	opts := &timeseries.Options{
//	    TimeCol:          "Date",
//	    Freq:             "D",
//	    FillMissingDates: true,
//	    FillNAValue:      &fill,
//	}
//
// # Round Trip
//
// ToTable converts a series back to a table; FromTable with the same time
// and value columns restores the original index and values.
package timeseries
