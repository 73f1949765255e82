package tranches

import (
	"encoding/json"
	"fmt"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// compactDateFormat is the short YYMMDD form used inside derived lot identifiers.
const compactDateFormat = "060102"

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.time().Month() }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// String format the date in its standard ISO-8601 form.
func (d Date) String() string { return d.time().Format(DateFormat) }

// Compact formats the date in the short YYMMDD form used in lot identifiers.
func (d Date) Compact() string { return d.time().Format(compactDateFormat) }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool {
	return d.y == 0 && d.m == 0 && d.d == 0
}

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// ISOWeek returns the ISO 8601 year and week number in which d occurs.
func (d Date) ISOWeek() (year, week int) { return d.time().ISOWeek() }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Format returns a textual representation of the date value formatted according
// to the layout defined by the argument. See the documentation for [time.Format].
func (d Date) Format(format string) string { return d.time().Format(format) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Today returns the current date.
func Today() Date { return NewDate(time.Now().Date()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// DaysSince returns the number of whole days elapsed from x to d.
func (d Date) DaysSince(x Date) int {
	return int(d.time().Sub(x.time()) / (24 * time.Hour))
}

// StartOfWeek returns the date of the most recent anchor weekday, on or
// before d. With a Monday anchor a Wednesday maps to its week's Monday.
func (d Date) StartOfWeek(anchor time.Weekday) Date {
	offset := int(d.Weekday() - anchor)
	for offset < 0 {
		offset += 7
	}
	return d.Add(-offset)
}

// StartOfYear returns January 1st of d's year.
func (d Date) StartOfYear() Date { return NewDate(d.y, time.January, 1) }

// ParseDate parses a Date from a string. It is lenient and accepts formats
// like "2025-7-1" as well as the common US spreadsheet form "7/1/2025".
func ParseDate(str string) (Date, error) {
	for _, layout := range []string{readDateFormat, "1/2/2006", "01/02/2006"} {
		if on, err := time.Parse(layout, str); err == nil {
			return NewDate(on.Date()), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q want format %q", str, readDateFormat)
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(str string) Date {
	d, err := ParseDate(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	day, err := ParseDate(str)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	str := d.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
