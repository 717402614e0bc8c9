package model

import (
	"time"

	"innkeep/pkg/daterange"
)

// Reservation is a whole-day, inclusive-date booking of one room.
// EndDate is the last occupied night, not a checkout day.
type Reservation struct {
	ID         string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID    string         `json:"owner_id" bson:"owner_id" validate:"required"`
	PropertyID string         `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	RoomID     string         `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	Name       string         `json:"name" bson:"name" validate:"required,min=1,max=120"`
	Lastname   string         `json:"lastname" bson:"lastname" validate:"required,min=1,max=120"`
	Phone      *string        `json:"phone" bson:"phone,omitempty" validate:"omitempty,max=32"`
	Mail       *string        `json:"mail" bson:"mail,omitempty" validate:"omitempty,email"`
	StartDate  daterange.Date `json:"start_date" bson:"start_date" validate:"required"`
	EndDate    daterange.Date `json:"end_date" bson:"end_date" validate:"required"`
	Price      *float64       `json:"price" bson:"price,omitempty" validate:"omitempty,gte=0"`
	Adults     *int           `json:"adults" bson:"adults,omitempty" validate:"omitempty,gte=0,lte=50"`
	Children   *int           `json:"children" bson:"children,omitempty" validate:"omitempty,gte=0,lte=50"`
	Status     Status         `json:"status" bson:"status" validate:"omitempty,reservation_status"`
	CreatedAt  time.Time      `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`

	// Embedded references and display fields, populated on reads;
	// never persisted.
	Room     *RoomRef     `json:"room,omitempty" bson:"-"`
	Property *PropertyRef `json:"property,omitempty" bson:"-"`
	Past     bool         `json:"past" bson:"-"`
	Display  *StatusMeta  `json:"display,omitempty" bson:"-"`
}

func (r *Reservation) Range() daterange.Range {
	return daterange.NewRange(r.StartDate, r.EndDate)
}

// IsPast reports the derived read-only "past" label: the stay ended
// before today. It is never persisted.
func (r *Reservation) IsPast(today daterange.Date) bool {
	return r.EndDate.Before(today)
}

// ListFilter narrows owner-scoped reservation reads.
type ListFilter struct {
	PropertyID     string
	RoomID         string
	StartDateFrom  daterange.Date // keep reservations starting on or after
	LastnamePrefix string         // case-insensitive prefix match
}
