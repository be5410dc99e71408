package models

import "time"

// Appointment lifecycle statuses. Creation enters Scheduled or Confirmed;
// the remaining transitions are driven by front-desk operations.
const (
	StatusScheduled  = "scheduled"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked_in"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no_show"
)

// Appointment represents a booked appointment record.
// Invariant: Start < End, both stored in UTC.
type Appointment struct {
	ID                string    `bson:"id" json:"id"`
	ProviderID        string    `bson:"provider_id" json:"provider_id"`
	PatientID         string    `bson:"patient_id" json:"patient_id"`
	AppointmentTypeID string    `bson:"appointment_type_id" json:"appointment_type_id"`
	Start             time.Time `bson:"start" json:"start"`
	End               time.Time `bson:"end" json:"end"`
	Status            string    `bson:"status" json:"status"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}
