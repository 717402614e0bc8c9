package calendar

import (
	"testing"
	"time"

	"innkeep/pkg/daterange"
	"innkeep/pkg/locale"
	"innkeep/pkg/model"
)

func day(y int, m time.Month, d int) daterange.Date {
	return daterange.NewDate(y, m, d)
}

func testData() ([]model.Room, []model.Property, []model.Reservation) {
	properties := []model.Property{
		{ID: "p1", Name: "Seaside"},
		{ID: "p2", Name: "alpine"},
	}
	rooms := []model.Room{
		{ID: "r1", PropertyID: "p1", Name: "Suite"},
		{ID: "r2", PropertyID: "p2", Name: "double"},
		{ID: "r3", PropertyID: "p1", Name: "attic"},
	}
	reservations := []model.Reservation{
		{
			ID: "res1", RoomID: "r1", PropertyID: "p1",
			StartDate: day(2024, time.June, 10), EndDate: day(2024, time.June, 12),
		},
		{
			ID: "res2", RoomID: "r2", PropertyID: "p2",
			StartDate: day(2024, time.May, 30), EndDate: day(2024, time.June, 2),
		},
	}
	return rooms, properties, reservations
}

func TestProjectMonthRowOrder(t *testing.T) {
	rooms, properties, reservations := testData()
	p := New(locale.New("en"))

	grid := p.ProjectMonth(rooms, properties, reservations, day(2024, time.June, 1), day(2024, time.June, 5))

	if grid.NoRooms {
		t.Fatal("expected NoRooms to be false")
	}
	if len(grid.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(grid.Rows))
	}

	// Case-insensitive collation: alpine before Seaside, attic before Suite.
	wantOrder := []string{"r2", "r3", "r1"}
	for i, want := range wantOrder {
		if grid.Rows[i].RoomID != want {
			t.Errorf("row %d: expected room %s, got %s", i, want, grid.Rows[i].RoomID)
		}
	}

	if grid.Rows[0].PropertyName != "alpine" {
		t.Errorf("expected property name resolved, got %q", grid.Rows[0].PropertyName)
	}
}

func TestProjectMonthCells(t *testing.T) {
	rooms, properties, reservations := testData()
	p := New(locale.New("en"))
	today := day(2024, time.June, 5)

	grid := p.ProjectMonth(rooms, properties, reservations, day(2024, time.June, 1), today)

	var suite RoomRow
	for _, row := range grid.Rows {
		if row.RoomID == "r1" {
			suite = row
		}
	}
	if len(suite.Days) != 30 {
		t.Fatalf("June should have 30 cells, got %d", len(suite.Days))
	}

	tests := []struct {
		idx       int // zero-based day of month
		occupied  bool
		resID     string
		spanStart bool
		spanEnd   bool
		past      bool
		clickable bool
	}{
		{idx: 0, past: true, clickable: false},                              // June 1, before today
		{idx: 4, past: false, clickable: true},                              // today itself
		{idx: 8, clickable: true},                                           // June 9, day before span
		{idx: 9, occupied: true, resID: "res1", spanStart: true},            // June 10
		{idx: 10, occupied: true, resID: "res1"},                            // June 11
		{idx: 11, occupied: true, resID: "res1", spanEnd: true},             // June 12
		{idx: 12, clickable: true},                                          // June 13, day after span
	}
	for _, tt := range tests {
		cell := suite.Days[tt.idx]
		if cell.Occupied != tt.occupied || cell.ReservationID != tt.resID {
			t.Errorf("day %s: occupied=%v id=%q, want occupied=%v id=%q",
				cell.Date, cell.Occupied, cell.ReservationID, tt.occupied, tt.resID)
		}
		if cell.SpanStart != tt.spanStart || cell.SpanEnd != tt.spanEnd {
			t.Errorf("day %s: spanStart=%v spanEnd=%v, want %v/%v",
				cell.Date, cell.SpanStart, cell.SpanEnd, tt.spanStart, tt.spanEnd)
		}
		if cell.Past != tt.past || cell.Clickable != tt.clickable {
			t.Errorf("day %s: past=%v clickable=%v, want %v/%v",
				cell.Date, cell.Past, cell.Clickable, tt.past, tt.clickable)
		}
	}
}

func TestProjectMonthReservationSpillsAcrossMonths(t *testing.T) {
	rooms, properties, reservations := testData()
	p := New(locale.New("en"))

	grid := p.ProjectMonth(rooms, properties, reservations, day(2024, time.June, 1), day(2024, time.June, 5))

	var double RoomRow
	for _, row := range grid.Rows {
		if row.RoomID == "r2" {
			double = row
		}
	}

	// res2 started May 30; only June 1-2 fall in the window, and June 1
	// must not be marked as the span start.
	june1 := double.Days[0]
	if !june1.Occupied || june1.SpanStart {
		t.Errorf("June 1: occupied=%v spanStart=%v, want occupied without span start", june1.Occupied, june1.SpanStart)
	}
	june2 := double.Days[1]
	if !june2.Occupied || !june2.SpanEnd {
		t.Errorf("June 2: occupied=%v spanEnd=%v, want occupied span end", june2.Occupied, june2.SpanEnd)
	}
	if double.Days[2].Occupied {
		t.Error("June 3 should be free")
	}
}

func TestProjectMonthNoRooms(t *testing.T) {
	p := New(locale.New("en"))

	grid := p.ProjectMonth(nil, nil, nil, day(2024, time.June, 1), day(2024, time.June, 5))

	if !grid.NoRooms {
		t.Fatal("expected NoRooms for an owner without rooms")
	}
	if grid.Rows != nil {
		t.Fatalf("expected nil rows, got %d", len(grid.Rows))
	}
}

func TestProjectMonthPadded(t *testing.T) {
	rooms, properties, reservations := testData()
	p := New(locale.New("en"))

	grid := p.ProjectMonthPadded(rooms, properties, reservations, day(2024, time.June, 15), day(2024, time.June, 5))

	if grid.Month != "2024-06" {
		t.Fatalf("expected month label 2024-06, got %q", grid.Month)
	}
	// June 1 2024 is a Saturday; the padded window opens on Monday May 27.
	if grid.Window[0] != "2024-05-27" {
		t.Fatalf("expected window start 2024-05-27, got %s", grid.Window[0])
	}
	for _, row := range grid.Rows {
		if len(row.Days) != 42 {
			t.Fatalf("room %s: expected 42 cells, got %d", row.RoomID, len(row.Days))
		}
		if row.Days[0].Date.Weekday() != time.Monday {
			t.Fatalf("padded window must start on Monday, got %s", row.Days[0].Date.Weekday())
		}
	}

	// res2 (May 30 to June 2) is fully visible in the padded window.
	var double RoomRow
	for _, row := range grid.Rows {
		if row.RoomID == "r2" {
			double = row
		}
	}
	may30 := double.Days[3]
	if !may30.Occupied || !may30.SpanStart {
		t.Errorf("May 30: occupied=%v spanStart=%v, want occupied span start", may30.Occupied, may30.SpanStart)
	}
}

func TestProjectRangeForRoom(t *testing.T) {
	rooms, _, reservations := testData()

	cells := ProjectRangeForRoom(rooms[0], reservations, day(2024, time.June, 9), day(2024, time.June, 13), day(2024, time.June, 5))

	if len(cells) != 5 {
		t.Fatalf("expected 5 cells, got %d", len(cells))
	}
	occupied := 0
	for _, c := range cells {
		if c.Occupied {
			occupied++
			if c.ReservationID != "res1" {
				t.Errorf("day %s: unexpected reservation %q", c.Date, c.ReservationID)
			}
		}
	}
	if occupied != 3 {
		t.Fatalf("expected 3 occupied days, got %d", occupied)
	}
}
