package models

import (
	"strings"
	"time"
)

// DaySchedule is a provider's working window for one weekday, in local time.
type DaySchedule struct {
	Start     string `bson:"start" json:"start"` // "HH:MM", e.g. "08:00"
	End       string `bson:"end" json:"end"`     // "HH:MM", e.g. "17:00"
	IsWorking bool   `bson:"isWorking" json:"isWorking"`
}

// Provider represents a clinician who can be booked for appointments.
// The engine treats providers as read-only; management lives elsewhere.
type Provider struct {
	ID              string                 `bson:"id" json:"id"`
	Name            string                 `bson:"name" json:"name"`
	Timezone        string                 `bson:"timezone" json:"timezone"` // IANA name, e.g. "America/New_York"
	WeekSchedule    map[string]DaySchedule `bson:"weekSchedule" json:"weekSchedule"`
	BufferBeforeMin int                    `bson:"bufferBeforeMin" json:"bufferBeforeMin"`
	BufferAfterMin  int                    `bson:"bufferAfterMin" json:"bufferAfterMin"`
	Active          bool                   `bson:"active" json:"active"`
	CreatedAt       time.Time              `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt       time.Time              `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// ScheduleFor returns the schedule entry for a weekday. WeekSchedule is keyed
// by lowercase weekday name ("monday".."sunday").
func (p *Provider) ScheduleFor(day time.Weekday) (DaySchedule, bool) {
	sched, ok := p.WeekSchedule[strings.ToLower(day.String())]
	return sched, ok
}
