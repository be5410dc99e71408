package models

import "time"

// AvailabilitySlot is a computed candidate interval for one provider. It is
// never persisted; its lifetime is a single request/response cycle.
type AvailabilitySlot struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Available      bool      `json:"available"`
	ProviderID     string    `json:"providerId"`
	ConflictReason string    `json:"conflictReason,omitempty"`
}

// DayResult reports the outcome of one day's availability computation, so
// callers can tell "provider is closed that day" from "that day failed".
type DayResult struct {
	Date      string `json:"date"` // "2006-01-02" in the provider's timezone
	SlotCount int    `json:"slotCount"`
	Err       string `json:"error,omitempty"`
}

// AvailabilityReport aggregates a multi-day availability computation.
type AvailabilityReport struct {
	Slots     []AvailabilitySlot `json:"slots"`
	Days      []DayResult        `json:"days"`
	Truncated bool               `json:"truncated,omitempty"`
}

// BatchSlotResult is the per-candidate outcome of a batch availability check.
type BatchSlotResult struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"`
}

// CandidateSlot is a caller-supplied interval to check.
type CandidateSlot struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}
