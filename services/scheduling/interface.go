package scheduling

import (
	"context"
	"time"

	appointmentRepo "clinicore/database/repository/appointment"
	appointmentTypeRepo "clinicore/database/repository/appointmenttype"
	providerRepo "clinicore/database/repository/provider"
	"clinicore/models"
)

// Defaults for availability generation and its safety valves.
const (
	DefaultGranularityMinutes = 15
	DefaultMaxRangeDays       = 90
	DefaultMaxSlotsPerDay     = 1000
	DefaultMaxTotalSlots      = 5000
)

// AvailabilityRequest describes a multi-day open-slot query.
type AvailabilityRequest struct {
	ProviderID         string
	AppointmentTypeID  string
	From               time.Time
	To                 time.Time
	GranularityMinutes int // 0 falls back to the engine's configured default
	MaxDays            int // 0 falls back to the engine's configured limit
}

// BookingRequest describes a booking attempt. Only the first provider ID is
// used; the slice shape is reserved for future multi-resource bookings.
type BookingRequest struct {
	PatientID         string
	ProviderIDs       []string
	AppointmentTypeID string
	Start             time.Time
	End               time.Time
	Tentative         bool
}

// BatchCheckRequest carries caller-supplied candidate intervals to evaluate
// against one shared appointment query window.
type BatchCheckRequest struct {
	ProviderID        string
	AppointmentTypeID string
	TimeSlots         []models.CandidateSlot
}

// SchedulingEngine computes availability and commits bookings.
type SchedulingEngine interface {
	GenerateAvailability(ctx context.Context, req AvailabilityRequest) (*models.AvailabilityReport, error)
	BookAppointment(ctx context.Context, req BookingRequest) (*models.Appointment, error)
	BatchCheck(ctx context.Context, req BatchCheckRequest) ([]models.BatchSlotResult, error)
}

// DefaultSchedulingEngine is the production implementation.
type DefaultSchedulingEngine struct {
	ProviderRepo providerRepo.ProviderRepository
	TypeRepo     appointmentTypeRepo.AppointmentTypeRepository
	ApptRepo     appointmentRepo.AppointmentRepository
	Locker       BookingLocker

	// Hours memoizes clock-string parsing. A nil cache is valid: parsing
	// then happens on every call, without any shared state.
	Hours *HoursCache

	// Now is a seam for tests; nil means time.Now.
	Now func() time.Time

	GranularityMinutes int
	MaxRangeDays       int
	MaxSlotsPerDay     int
	MaxTotalSlots      int
}

func (se *DefaultSchedulingEngine) now() time.Time {
	if se.Now != nil {
		return se.Now()
	}
	return time.Now()
}

func (se *DefaultSchedulingEngine) defaultGranularity() int {
	if se.GranularityMinutes > 0 {
		return se.GranularityMinutes
	}
	return DefaultGranularityMinutes
}

func (se *DefaultSchedulingEngine) maxRangeDays() int {
	if se.MaxRangeDays > 0 {
		return se.MaxRangeDays
	}
	return DefaultMaxRangeDays
}

func (se *DefaultSchedulingEngine) maxSlotsPerDay() int {
	if se.MaxSlotsPerDay > 0 {
		return se.MaxSlotsPerDay
	}
	return DefaultMaxSlotsPerDay
}

func (se *DefaultSchedulingEngine) maxTotalSlots() int {
	if se.MaxTotalSlots > 0 {
		return se.MaxTotalSlots
	}
	return DefaultMaxTotalSlots
}

// conflictExcludedStatuses are appointment states that no longer occupy time.
var conflictExcludedStatuses = []string{models.StatusCancelled, models.StatusNoShow}

// effectiveBuffers resolves buffer padding: appointment-type override when
// set, provider defaults otherwise.
func effectiveBuffers(provider *models.Provider, apptType *models.AppointmentType) (before, after time.Duration) {
	beforeMin := provider.BufferBeforeMin
	if apptType.BufferBeforeMin != nil {
		beforeMin = *apptType.BufferBeforeMin
	}
	afterMin := provider.BufferAfterMin
	if apptType.BufferAfterMin != nil {
		afterMin = *apptType.BufferAfterMin
	}
	return time.Duration(beforeMin) * time.Minute, time.Duration(afterMin) * time.Minute
}
