package tranches

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := NewDate(2024, time.July, 31)
	d2 := NewDate(2024, time.July, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2024-01-15", NewDate(2024, time.January, 15), false},
		{"2024-7-1", NewDate(2024, time.July, 1), false},
		{"7/1/2024", NewDate(2024, time.July, 1), false},
		{"07/01/2024", NewDate(2024, time.July, 1), false},
		{"invalid-date", Date{}, true},
		{"2024/01/15", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.err {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.err)
				return
			}
			if !tt.err && got != tt.expected {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCompact(t *testing.T) {
	if got := NewDate(2024, time.January, 2).Compact(); got != "240102" {
		t.Errorf("Compact() = %q, want %q", got, "240102")
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name   string
		date   Date
		anchor time.Weekday
		want   Date
	}{
		// 2024-01-10 is a Wednesday.
		{"wednesday to monday", NewDate(2024, time.January, 10), time.Monday, NewDate(2024, time.January, 8)},
		{"monday is its own week start", NewDate(2024, time.January, 8), time.Monday, NewDate(2024, time.January, 8)},
		{"sunday belongs to the previous monday week", NewDate(2024, time.January, 14), time.Monday, NewDate(2024, time.January, 8)},
		{"wednesday to sunday anchor", NewDate(2024, time.January, 10), time.Sunday, NewDate(2024, time.January, 7)},
		{"week start across a year boundary", NewDate(2024, time.January, 3), time.Monday, NewDate(2024, time.January, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.StartOfWeek(tt.anchor); got != tt.want {
				t.Errorf("StartOfWeek(%v) = %v, want %v", tt.anchor, got, tt.want)
			}
		})
	}
}

func TestDaysSince(t *testing.T) {
	from := NewDate(2024, time.January, 1)
	to := NewDate(2024, time.March, 1)
	if got := to.DaysSince(from); got != 60 {
		t.Errorf("DaysSince() = %d, want 60 (2024 is a leap year)", got)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.February, 29)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024-02-29"` {
		t.Errorf("MarshalJSON() = %s", b)
	}
	var got Date
	if err := got.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Errorf("round trip = %v, want %v", got, d)
	}
}
