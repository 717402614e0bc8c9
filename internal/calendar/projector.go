// Package calendar projects rooms and reservations onto a month grid.
// It is pure: callers load the data, the projector only arranges it.
package calendar

import (
	"sort"

	"innkeep/pkg/daterange"
	"innkeep/pkg/locale"
	"innkeep/pkg/model"
)

// DayCell is one room-day on the grid. SpanStart and SpanEnd mark the
// first and last day of the occupying reservation so the UI can round
// the bar's corners. Occupancy uses the inclusive display rule, which
// is looser than the write-time conflict rule.
type DayCell struct {
	Date          daterange.Date `json:"date"`
	Occupied      bool           `json:"occupied"`
	ReservationID string         `json:"reservation_id,omitempty"`
	SpanStart     bool           `json:"span_start,omitempty"`
	SpanEnd       bool           `json:"span_end,omitempty"`
	Past          bool           `json:"past,omitempty"`
	Clickable     bool           `json:"clickable"`
}

// RoomRow is one room's run of cells plus the labels the grid sorts by.
type RoomRow struct {
	RoomID       string    `json:"room_id"`
	RoomName     string    `json:"room_name"`
	PropertyID   string    `json:"property_id"`
	PropertyName string    `json:"property_name"`
	Days         []DayCell `json:"days"`
}

// MonthGrid is the projected month. NoRooms distinguishes an owner with
// no rooms at all from rooms that simply have no reservations.
type MonthGrid struct {
	Month   string    `json:"month"`
	Window  []string  `json:"window"`
	NoRooms bool      `json:"no_rooms"`
	Rows    []RoomRow `json:"rows,omitempty"`
}

// Projector builds grids with a fixed collation locale.
type Projector struct {
	col *locale.Collator
}

func New(col *locale.Collator) *Projector {
	return &Projector{col: col}
}

// ProjectMonth lays out the calendar month containing monthDay, one row
// per room, ordered by (property name, room name) under the projector's
// locale. Ties keep input order.
func (p *Projector) ProjectMonth(rooms []model.Room, properties []model.Property, reservations []model.Reservation, monthDay, today daterange.Date) MonthGrid {
	window := daterange.MonthWindow(monthDay)
	return p.project(rooms, properties, reservations, window, today)
}

// ProjectMonthPadded is ProjectMonth widened to six full Monday-start
// weeks, 42 cells per row, the shape the mobile layout renders.
func (p *Projector) ProjectMonthPadded(rooms []model.Room, properties []model.Property, reservations []model.Reservation, monthDay, today daterange.Date) MonthGrid {
	month := daterange.MonthWindow(monthDay)
	start := daterange.WeekStart(month.Start)
	window := daterange.NewRange(start, start.AddDays(41))
	grid := p.project(rooms, properties, reservations, window, today)
	grid.Month = month.Start.Time().Format("2006-01")
	return grid
}

func (p *Projector) project(rooms []model.Room, properties []model.Property, reservations []model.Reservation, window daterange.Range, today daterange.Date) MonthGrid {
	grid := MonthGrid{
		Month:  window.Start.Time().Format("2006-01"),
		Window: []string{window.Start.String(), window.End.String()},
	}
	if len(rooms) == 0 {
		grid.NoRooms = true
		return grid
	}

	propNames := make(map[string]string, len(properties))
	for _, prop := range properties {
		propNames[prop.ID] = prop.Name
	}

	byRoom := make(map[string][]model.Reservation)
	for _, res := range reservations {
		byRoom[res.RoomID] = append(byRoom[res.RoomID], res)
	}

	rows := make([]RoomRow, 0, len(rooms))
	for _, room := range rooms {
		rows = append(rows, RoomRow{
			RoomID:       room.ID,
			RoomName:     room.Name,
			PropertyID:   room.PropertyID,
			PropertyName: propNames[room.PropertyID],
			Days:         projectDays(byRoom[room.ID], window, today),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if c := p.col.Compare(rows[i].PropertyName, rows[j].PropertyName); c != 0 {
			return c < 0
		}
		return p.col.Less(rows[i].RoomName, rows[j].RoomName)
	})

	grid.Rows = rows
	return grid
}

// ProjectRangeForRoom renders a single room over an arbitrary window.
func ProjectRangeForRoom(room model.Room, reservations []model.Reservation, from, to, today daterange.Date) []DayCell {
	own := make([]model.Reservation, 0, len(reservations))
	for _, res := range reservations {
		if res.RoomID == room.ID {
			own = append(own, res)
		}
	}
	return projectDays(own, daterange.NewRange(from, to), today)
}

func projectDays(reservations []model.Reservation, window daterange.Range, today daterange.Date) []DayCell {
	days := window.Days()
	cells := make([]DayCell, 0, len(days))
	for _, day := range days {
		cell := DayCell{Date: day, Past: day.Before(today)}
		for i := range reservations {
			res := &reservations[i]
			if !res.Range().Contains(day) {
				continue
			}
			cell.Occupied = true
			cell.ReservationID = res.ID
			cell.SpanStart = day.Equal(res.StartDate)
			cell.SpanEnd = day.Equal(res.EndDate)
			break
		}
		cell.Clickable = !cell.Occupied && !cell.Past
		cells = append(cells, cell)
	}
	return cells
}
