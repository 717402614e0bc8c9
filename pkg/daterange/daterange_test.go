package daterange

import (
	"encoding/json"
	"testing"
	"time"
)

func mustParse(t *testing.T, s string) Date {
	t.Helper()
	d, err := Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestRangeOverlaps(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Range
		overlap bool
	}{
		{
			name:    "disjoint with gap",
			a:       Range{NewDate(2024, time.June, 10), NewDate(2024, time.June, 12)},
			b:       Range{NewDate(2024, time.June, 13), NewDate(2024, time.June, 14)},
			overlap: false,
		},
		{
			name:    "boundary touch conflicts",
			a:       Range{NewDate(2024, time.June, 10), NewDate(2024, time.June, 12)},
			b:       Range{NewDate(2024, time.June, 12), NewDate(2024, time.June, 14)},
			overlap: true,
		},
		{
			name:    "fully contained",
			a:       Range{NewDate(2024, time.June, 1), NewDate(2024, time.June, 30)},
			b:       Range{NewDate(2024, time.June, 10), NewDate(2024, time.June, 12)},
			overlap: true,
		},
		{
			name:    "identical single day",
			a:       Range{NewDate(2024, time.June, 5), NewDate(2024, time.June, 5)},
			b:       Range{NewDate(2024, time.June, 5), NewDate(2024, time.June, 5)},
			overlap: true,
		},
		{
			name:    "single day adjacent",
			a:       Range{NewDate(2024, time.June, 5), NewDate(2024, time.June, 5)},
			b:       Range{NewDate(2024, time.June, 6), NewDate(2024, time.June, 6)},
			overlap: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.overlap {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.overlap)
			}
			// overlap is symmetric
			if got := tt.b.Overlaps(tt.a); got != tt.overlap {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tt.overlap)
			}
		})
	}
}

func TestContainsDiffersFromOverlaps(t *testing.T) {
	// A day that is one reservation's end and another's start belongs to
	// both for display, even though the two ranges conflict at write time.
	first := Range{NewDate(2024, time.June, 10), NewDate(2024, time.June, 12)}
	second := Range{NewDate(2024, time.June, 12), NewDate(2024, time.June, 14)}
	day := NewDate(2024, time.June, 12)

	if !first.Contains(day) {
		t.Error("expected end date to be contained in first range")
	}
	if !second.Contains(day) {
		t.Error("expected start date to be contained in second range")
	}
	if !first.Overlaps(second) {
		t.Error("expected boundary-touching ranges to overlap")
	}
}

func TestRangeValid(t *testing.T) {
	if (Range{NewDate(2024, time.June, 2), NewDate(2024, time.June, 1)}).Valid() {
		t.Error("expected start after end to be invalid")
	}
	if !(Range{NewDate(2024, time.June, 1), NewDate(2024, time.June, 1)}).Valid() {
		t.Error("expected single-day range to be valid")
	}
	if (Range{}).Valid() {
		t.Error("expected zero range to be invalid")
	}
}

func TestRangeDays(t *testing.T) {
	r := Range{NewDate(2024, time.February, 28), NewDate(2024, time.March, 1)}
	days := r.Days()
	want := []string{"2024-02-28", "2024-02-29", "2024-03-01"}
	if len(days) != len(want) {
		t.Fatalf("got %d days, want %d", len(days), len(want))
	}
	for i, d := range days {
		if d.String() != want[i] {
			t.Errorf("day %d = %s, want %s", i, d, want[i])
		}
	}
	if r.Length() != 3 {
		t.Errorf("Length() = %d, want 3", r.Length())
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := mustParse(t, "2024-06-12")
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-06-12"` {
		t.Errorf("marshal = %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip mismatch: %s != %s", back, d)
	}
}

func TestDateIgnoresClockTime(t *testing.T) {
	late := time.Date(2024, time.June, 12, 23, 59, 59, 0, time.UTC)
	early := time.Date(2024, time.June, 12, 0, 0, 1, 0, time.UTC)
	if !FromTime(late).Equal(FromTime(early)) {
		t.Error("dates on the same calendar day must compare equal")
	}
}

func TestMonthWindow(t *testing.T) {
	w := MonthWindow(NewDate(2024, time.February, 15))
	if w.Start.String() != "2024-02-01" || w.End.String() != "2024-02-29" {
		t.Errorf("leap february window = %s", w)
	}
	w = MonthWindow(NewDate(2024, time.June, 1))
	if w.Start.String() != "2024-06-01" || w.End.String() != "2024-06-30" {
		t.Errorf("june window = %s", w)
	}
}

func TestWeekStart(t *testing.T) {
	// 2024-06-01 is a Saturday; the Monday of that week is 2024-05-27.
	if got := WeekStart(NewDate(2024, time.June, 1)); got.String() != "2024-05-27" {
		t.Errorf("WeekStart = %s, want 2024-05-27", got)
	}
	// Monday maps to itself.
	if got := WeekStart(NewDate(2024, time.June, 3)); got.String() != "2024-06-03" {
		t.Errorf("WeekStart = %s, want 2024-06-03", got)
	}
}
