package scheduling

import "fmt"

// ValidationError signals malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// MissingFieldsError signals a booking request with empty required fields.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %v", e.Fields)
}

// InvalidDateError signals an unparsable instant in a request.
type InvalidDateError struct {
	Field string
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date for %s: %q", e.Field, e.Value)
}

// InvalidRangeError signals an interval whose end does not follow its start.
type InvalidRangeError struct {
	Message string
}

func (e *InvalidRangeError) Error() string { return e.Message }

// PastBookingError signals a booking whose start lies in the past.
type PastBookingError struct {
	Start string
}

func (e *PastBookingError) Error() string {
	return fmt.Sprintf("cannot book an appointment starting in the past (%s)", e.Start)
}

// RangeTooLargeError signals an availability query spanning too many days.
type RangeTooLargeError struct {
	Days, MaxDays int
}

func (e *RangeTooLargeError) Error() string {
	return fmt.Sprintf("requested range spans %d days, maximum is %d", e.Days, e.MaxDays)
}

// NotFoundError signals a missing provider or appointment type.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InactiveProviderError signals a provider that exists but is disabled.
type InactiveProviderError struct {
	ProviderID string
}

func (e *InactiveProviderError) Error() string {
	return fmt.Sprintf("provider %s is not active", e.ProviderID)
}

// InactiveTypeError signals an appointment type that exists but is disabled.
type InactiveTypeError struct {
	TypeID string
}

func (e *InactiveTypeError) Error() string {
	return fmt.Sprintf("appointment type %s is not active", e.TypeID)
}

// SlotUnavailableError signals a booking rejected by the conflict check.
// Reason carries the detector's human-readable explanation.
type SlotUnavailableError struct {
	Reason string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("requested slot is unavailable: %s", e.Reason)
}

// InvalidTimeFormatError signals an out-of-range or unparsable HH:MM value
// in a provider's weekday schedule.
type InvalidTimeFormatError struct {
	Value string
}

func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time-of-day %q, expected HH:MM", e.Value)
}

// InternalIterationError signals that the date loop failed to advance. It
// indicates a logic defect, not bad input, and is never degraded.
type InternalIterationError struct {
	Message string
}

func (e *InternalIterationError) Error() string { return e.Message }
