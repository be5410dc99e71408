package scheduling

import (
	"fmt"
	"time"

	"clinicore/models"
)

// conflict describes the first existing appointment a candidate collides with.
type conflict struct {
	AppointmentID string
	Reason        string
}

// findConflict tests a candidate interval against appointments pre-sorted by
// start time. Existing appointments are padded by the buffers before
// comparison; the candidate itself is never padded, so availability and
// booking share one authoritative convention.
//
// Single linear pass with early exits: once the candidate ends at or before a
// padded appointment's start, nothing later in the sorted list can overlap.
// Linear is fine for typical per-day volumes; an interval tree is the upgrade
// path for providers with very dense days.
// Reasons quote the existing appointment's times in loc, the provider's
// timezone, so the message matches the clock the clinic staff read. A nil loc
// falls back to UTC.
func findConflict(candidateStart, candidateEnd time.Time, appts []models.Appointment, bufferBefore, bufferAfter time.Duration, loc *time.Location) (*conflict, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for i := range appts {
		appt := &appts[i]
		paddedStart := appt.Start.Add(-bufferBefore)
		paddedEnd := appt.End.Add(bufferAfter)

		if !candidateEnd.After(paddedStart) {
			// Sorted by start: no later appointment can begin earlier.
			return nil, false
		}
		if !candidateStart.Before(paddedEnd) {
			continue
		}

		reason := fmt.Sprintf("conflicts with existing appointment %s–%s",
			appt.Start.In(loc).Format("15:04"), appt.End.In(loc).Format("15:04"))
		if bufferBefore > 0 || bufferAfter > 0 {
			reason += " (including buffer)"
		}
		return &conflict{AppointmentID: appt.ID, Reason: reason}, true
	}
	return nil, false
}
