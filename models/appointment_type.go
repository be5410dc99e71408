package models

import "time"

// AppointmentType describes a bookable service (e.g. cleaning, root canal).
// Buffer overrides are pointers so that "not set" falls through to the
// provider defaults.
type AppointmentType struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	DurationMin     int       `bson:"durationMin" json:"durationMin"`
	BufferBeforeMin *int      `bson:"bufferBeforeMin,omitempty" json:"bufferBeforeMin,omitempty"`
	BufferAfterMin  *int      `bson:"bufferAfterMin,omitempty" json:"bufferAfterMin,omitempty"`
	Active          bool      `bson:"active" json:"active"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}
