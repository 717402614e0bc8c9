package model

import "time"

// RoomLock is an advisory lock for serializing the check-then-write
// sequence per room. The lock id is derived from the room, so two
// writers on the same room collide on the unique _id.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	RoomID    string    `bson:"room_id" json:"room_id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
