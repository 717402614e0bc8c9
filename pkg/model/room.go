package model

import "time"

// Room belongs to exactly one property; reservations reference the room,
// never the other way around.
type Room struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PropertyID string    `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	OwnerID    string    `json:"owner_id" bson:"owner_id" validate:"required"`
	Name       string    `json:"name" bson:"name" validate:"required,min=1,max=120"`
	CreatedAt  time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

// RoomRef is the embedded shape returned alongside reservations.
type RoomRef struct {
	ID         string `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	PropertyID string `json:"property_id" bson:"property_id"`
}

func (r *Room) Ref() RoomRef {
	return RoomRef{ID: r.ID, Name: r.Name, PropertyID: r.PropertyID}
}
