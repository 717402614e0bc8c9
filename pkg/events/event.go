// Package events publishes reservation lifecycle events to Kafka.
// Publishing is best effort: a failed publish is logged and never fails
// the request that produced it.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeReservationCreated  = "reservation.created"
	TypeReservationUpdated  = "reservation.updated"
	TypeReservationDeleted  = "reservation.deleted"
	TypeConflictRejected    = "reservation.conflict_rejected"
	HeaderEventID           = "event-id"
	HeaderEventType         = "event-type"
	HeaderSchemaVersion     = "schema-version"
	HeaderSource            = "source"
	CurrentSchemaVersion    = "1"
)

// Event is one reservation lifecycle notification. Key is the room id,
// so all events for a room land on the same partition in order.
type Event struct {
	ID      string
	Type    string
	Key     string
	Payload any
	At      time.Time
}

// ReservationPayload is the value body for created/updated/deleted.
type ReservationPayload struct {
	ReservationID string `json:"reservation_id"`
	OwnerID       string `json:"owner_id"`
	PropertyID    string `json:"property_id"`
	RoomID        string `json:"room_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Status        string `json:"status"`
}

// ConflictPayload is the value body for conflict_rejected.
type ConflictPayload struct {
	OwnerID        string   `json:"owner_id"`
	RoomID         string   `json:"room_id"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	ConflictingIDs []string `json:"conflicting_ids"`
}

func New(eventType, key string, payload any) Event {
	return Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		Key:     key,
		Payload: payload,
		At:      time.Now().UTC(),
	}
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e.Payload)
}
