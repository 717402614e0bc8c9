package model

import "time"

type Property struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID     string    `json:"owner_id" bson:"owner_id" validate:"required"`
	Name        string    `json:"name" bson:"name" validate:"required,min=1,max=120"`
	Description *string   `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	CreatedAt   time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

// PropertyRef is the embedded shape returned alongside reservations.
type PropertyRef struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

func (p *Property) Ref() PropertyRef {
	return PropertyRef{ID: p.ID, Name: p.Name}
}
