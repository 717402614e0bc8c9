package daterange

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// Date is a timezone-naive calendar day. Reservations are whole-day,
// inclusive-date granularity, so all comparisons happen on the calendar
// day itself, never on clock time. Internally it is the day at UTC
// midnight, which keeps BSON round-trips exact.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar day.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Parse reads a date in 2006-01-02 form.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Today returns the current calendar day according to now.
func Today(now func() time.Time) Date {
	return FromTime(now())
}

func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }
func (d Date) String() string        { return d.t.Format(Layout) }
func (d Date) Equal(o Date) bool     { return d.t.Equal(o.t) }
func (d Date) Before(o Date) bool    { return d.t.Before(o.t) }
func (d Date) After(o Date) bool     { return d.t.After(o.t) }
func (d Date) AddDays(n int) Date    { return FromTime(d.t.AddDate(0, 0, n)) }
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// DaysUntil returns the number of calendar days from d to o
// (negative when o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t) / (24 * time.Hour))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.t)
}

func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var tm time.Time
	if err := bson.UnmarshalValue(t, data, &tm); err != nil {
		return err
	}
	*d = FromTime(tm.UTC())
	return nil
}

// Range is an inclusive span of calendar days. Start == End is a valid
// single-day span. End is the last occupied night, not a checkout day:
// two ranges that touch at a shared boundary date conflict.
type Range struct {
	Start Date
	End   Date
}

func NewRange(start, end Date) Range {
	return Range{Start: start, End: end}
}

func (r Range) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && !r.End.Before(r.Start)
}

// Overlaps reports closed-interval intersection: s1 <= e2 && s2 <= e1.
// A range ending on the day another begins overlaps it. This is the
// write-time conflict rule; Contains is the display rule.
func (r Range) Overlaps(o Range) bool {
	return !r.Start.After(o.End) && !o.Start.After(r.End)
}

// Contains reports whether day falls inside the span, inclusive on both
// ends. Used for calendar rendering only.
func (r Range) Contains(day Date) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// Length is the number of calendar days covered, inclusive.
func (r Range) Length() int {
	return r.Start.DaysUntil(r.End) + 1
}

// Days enumerates every day of the span in order.
func (r Range) Days() []Date {
	if !r.Valid() {
		return nil
	}
	days := make([]Date, 0, r.Length())
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start, r.End)
}

// MonthWindow returns the inclusive range covering the month containing day.
func MonthWindow(day Date) Range {
	first := NewDate(day.Year(), day.Month(), 1)
	last := first.AddDays(-1).AddDays(daysInMonth(day.Year(), day.Month()))
	return Range{Start: first, End: last}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekStart returns the Monday on or before day.
func WeekStart(day Date) Date {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDays(-offset)
}
