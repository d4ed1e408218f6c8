package timeseries

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unit is the base step of a Frequency.
type Unit int

// Supported frequency units. Month, quarter and year units are calendar
// anchored: "start" units land on the first day of the period, "end" units
// on its last day.
const (
	UnitNone Unit = iota
	UnitSecond
	UnitMinute
	UnitHour
	UnitDay
	UnitBusinessDay
	UnitWeek
	UnitMonthStart
	UnitMonthEnd
	UnitQuarterStart
	UnitQuarterEnd
	UnitYearStart
	UnitYearEnd
)

var unitAliases = map[string]Unit{
	"S":   UnitSecond,
	"s":   UnitSecond,
	"min": UnitMinute,
	"T":   UnitMinute,
	"H":   UnitHour,
	"h":   UnitHour,
	"D":   UnitDay,
	"B":   UnitBusinessDay,
	"W":   UnitWeek,
	"MS":  UnitMonthStart,
	"M":   UnitMonthEnd,
	"ME":  UnitMonthEnd,
	"QS":  UnitQuarterStart,
	"Q":   UnitQuarterEnd,
	"QE":  UnitQuarterEnd,
	"YS":  UnitYearStart,
	"AS":  UnitYearStart,
	"Y":   UnitYearEnd,
	"YE":  UnitYearEnd,
	"A":   UnitYearEnd,
}

var unitNames = map[Unit]string{
	UnitSecond:       "s",
	UnitMinute:       "min",
	UnitHour:         "h",
	UnitDay:          "D",
	UnitBusinessDay:  "B",
	UnitWeek:         "W",
	UnitMonthStart:   "MS",
	UnitMonthEnd:     "ME",
	UnitQuarterStart: "QS",
	UnitQuarterEnd:   "QE",
	UnitYearStart:    "YS",
	UnitYearEnd:      "YE",
}

// Frequency is a sampling step: N repetitions of Unit.
type Frequency struct {
	N    int
	Unit Unit
}

// ParseFrequency parses a pandas-style alias with an optional multiple,
// e.g. "D", "15min", "2W", "MS".
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Frequency{}, fmt.Errorf("%w: empty frequency", ErrInvalidOptions)
	}

	split := 0
	for split < len(s) && s[split] >= '0' && s[split] <= '9' {
		split++
	}

	n := 1
	if split > 0 {
		v, err := strconv.Atoi(s[:split])
		if err != nil || v <= 0 {
			return Frequency{}, fmt.Errorf("%w: invalid frequency multiple in %q", ErrInvalidOptions, s)
		}
		n = v
	}

	unit, ok := unitAliases[s[split:]]
	if !ok {
		return Frequency{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidOptions, s)
	}
	return Frequency{N: n, Unit: unit}, nil
}

// IsZero reports whether the frequency is unset.
func (f Frequency) IsZero() bool {
	return f.Unit == UnitNone
}

// String returns the canonical alias, e.g. "2D".
func (f Frequency) String() string {
	if f.IsZero() {
		return ""
	}
	name := unitNames[f.Unit]
	if f.N == 1 {
		return name
	}
	return strconv.Itoa(f.N) + name
}

// Next returns the first timestamp one step after t. Anchored units roll
// forward to their anchor, so Next of 2020-01-15 at "MS" is 2020-02-01.
func (f Frequency) Next(t time.Time) time.Time {
	n := f.N
	if n <= 0 {
		n = 1
	}

	switch f.Unit {
	case UnitSecond:
		return t.Add(time.Duration(n) * time.Second)
	case UnitMinute:
		return t.Add(time.Duration(n) * time.Minute)
	case UnitHour:
		return t.Add(time.Duration(n) * time.Hour)
	case UnitDay:
		return t.AddDate(0, 0, n)
	case UnitWeek:
		return t.AddDate(0, 0, 7*n)
	case UnitBusinessDay:
		next := t
		for i := 0; i < n; i++ {
			next = next.AddDate(0, 0, 1)
			for isWeekend(next) {
				next = next.AddDate(0, 0, 1)
			}
		}
		return next
	case UnitMonthStart:
		return monthStart(t, n)
	case UnitQuarterStart:
		q := int(t.Month()-1) / 3 * 3
		return monthStart(t, q-int(t.Month()-1)+3*n)
	case UnitYearStart:
		return monthStart(t, -int(t.Month()-1)+12*n)
	case UnitMonthEnd:
		if isMonthEnd(t) {
			return monthEnd(t, n)
		}
		return monthEnd(t, n-1)
	case UnitQuarterEnd:
		toQuarterEnd := 2 - int(t.Month()-1)%3
		if toQuarterEnd == 0 && isMonthEnd(t) {
			return monthEnd(t, 3*n)
		}
		return monthEnd(t, toQuarterEnd+3*(n-1))
	case UnitYearEnd:
		toYearEnd := 12 - int(t.Month())
		if toYearEnd == 0 && isMonthEnd(t) {
			return monthEnd(t, 12*n)
		}
		return monthEnd(t, toYearEnd+12*(n-1))
	}
	return t
}

// Range returns n consecutive timestamps starting one step after t.
func (f Frequency) Range(t time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		t = f.Next(t)
		out[i] = t
	}
	return out
}

// reaches reports whether stepping from a lands exactly on b.
func (f Frequency) reaches(a, b time.Time) bool {
	for t := a; t.Before(b); {
		t = f.Next(t)
		if t.Equal(b) {
			return true
		}
	}
	return false
}

// InferFrequency guesses the frequency of sorted, distinct timestamps.
// When allowGaps is true, steps may skip whole periods.
func InferFrequency(ts []time.Time, allowGaps bool) (Frequency, error) {
	if len(ts) < 2 {
		return Frequency{}, fmt.Errorf("%w: at least 2 timestamps are needed to infer a frequency", ErrInvalidData)
	}

	a, b := ts[0], ts[1]
	for i := 2; i < len(ts); i++ {
		if ts[i].Sub(ts[i-1]) < b.Sub(a) {
			a, b = ts[i-1], ts[i]
		}
	}

	for _, f := range candidates(a, b) {
		if fits(f, ts, allowGaps) {
			return f, nil
		}
	}
	return Frequency{}, fmt.Errorf("%w: could not infer frequency; set freq explicitly", ErrInvalidData)
}

func candidates(a, b time.Time) []Frequency {
	var out []Frequency

	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if months > 0 && sameClock(a, b) {
		switch {
		case a.Day() == 1 && b.Day() == 1:
			if months%12 == 0 {
				out = append(out, Frequency{N: months / 12, Unit: UnitYearStart})
			}
			if months%3 == 0 {
				out = append(out, Frequency{N: months / 3, Unit: UnitQuarterStart})
			}
			out = append(out, Frequency{N: months, Unit: UnitMonthStart})
		case isMonthEnd(a) && isMonthEnd(b):
			if months%12 == 0 {
				out = append(out, Frequency{N: months / 12, Unit: UnitYearEnd})
			}
			if months%3 == 0 {
				out = append(out, Frequency{N: months / 3, Unit: UnitQuarterEnd})
			}
			out = append(out, Frequency{N: months, Unit: UnitMonthEnd})
		}
	}

	d := b.Sub(a)
	day := 24 * time.Hour
	switch {
	case d%(7*day) == 0:
		out = append(out, Frequency{N: int(d / (7 * day)), Unit: UnitWeek}, Frequency{N: int(d / day), Unit: UnitDay})
	case d%day == 0:
		out = append(out, Frequency{N: int(d / day), Unit: UnitDay})
		if d == day {
			out = append(out, Frequency{N: 1, Unit: UnitBusinessDay})
		}
	case d%time.Hour == 0:
		out = append(out, Frequency{N: int(d / time.Hour), Unit: UnitHour})
	case d%time.Minute == 0:
		out = append(out, Frequency{N: int(d / time.Minute), Unit: UnitMinute})
	case d%time.Second == 0 && d > 0:
		out = append(out, Frequency{N: int(d / time.Second), Unit: UnitSecond})
	}
	return out
}

func fits(f Frequency, ts []time.Time, allowGaps bool) bool {
	for i := 1; i < len(ts); i++ {
		if allowGaps {
			if !f.reaches(ts[i-1], ts[i]) {
				return false
			}
			continue
		}
		if !f.Next(ts[i-1]).Equal(ts[i]) {
			return false
		}
	}
	return true
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

func isMonthEnd(t time.Time) bool {
	return t.AddDate(0, 0, 1).Day() == 1
}

func sameClock(a, b time.Time) bool {
	ah, am, as := a.Clock()
	bh, bm, bs := b.Clock()
	return ah == bh && am == bm && as == bs && a.Nanosecond() == b.Nanosecond()
}

// monthStart returns the first day of the month `months` after t's month,
// keeping t's clock.
func monthStart(t time.Time, months int) time.Time {
	h, m, s := t.Clock()
	return time.Date(t.Year(), t.Month()+time.Month(months), 1, h, m, s, t.Nanosecond(), t.Location())
}

// monthEnd returns the last day of the month `months` after t's month,
// keeping t's clock.
func monthEnd(t time.Time, months int) time.Time {
	h, m, s := t.Clock()
	return time.Date(t.Year(), t.Month()+time.Month(months)+1, 0, h, m, s, t.Nanosecond(), t.Location())
}
