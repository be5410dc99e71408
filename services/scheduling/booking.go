package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicore/models"
	"clinicore/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookAppointment validates a booking request, re-checks conflicts against
// fresh data under a per-provider lock, and commits the appointment
// transactionally. Availability snapshots are never reused.
func (se *DefaultSchedulingEngine) BookAppointment(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	logger := utils.GetLogger()

	var missing []string
	if req.PatientID == "" {
		missing = append(missing, "patientId")
	}
	if len(req.ProviderIDs) == 0 || req.ProviderIDs[0] == "" {
		missing = append(missing, "providerIds")
	}
	if req.AppointmentTypeID == "" {
		missing = append(missing, "appointmentTypeId")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, &InvalidDateError{Field: "start/end", Value: "zero instant"}
	}
	if !req.Start.Before(req.End) {
		return nil, &InvalidRangeError{Message: "appointment end must follow its start"}
	}
	now := se.now()
	if req.Start.Before(now) {
		return nil, &PastBookingError{Start: req.Start.UTC().Format(time.RFC3339)}
	}

	// First provider only; the list shape is reserved for multi-resource
	// bookings (rooms, hygienist + dentist).
	providerID := req.ProviderIDs[0]

	provider, apptType, err := se.loadProviderAndType(ctx, providerID, req.AppointmentTypeID)
	if err != nil {
		return nil, err
	}
	bufferBefore, bufferAfter := effectiveBuffers(provider, apptType)
	loc, err := time.LoadLocation(provider.Timezone)
	if err != nil {
		return nil, fmt.Errorf("provider %s has invalid timezone %q: %w", provider.ID, provider.Timezone, err)
	}

	status := models.StatusConfirmed
	if req.Tentative {
		status = models.StatusScheduled
	}
	appt := &models.Appointment{
		ID:                uuid.New().String(),
		ProviderID:        providerID,
		PatientID:         req.PatientID,
		AppointmentTypeID: req.AppointmentTypeID,
		Start:             req.Start,
		End:               req.End,
		Status:            status,
		CreatedAt:         now,
	}

	commit := func(ctx context.Context) error {
		// Fresh same-day query at commit time keeps the staleness window as
		// small as the store allows.
		pad := bufferBefore + bufferAfter
		dayStart := req.Start.Add(-24 * time.Hour)
		dayEnd := req.End.Add(24 * time.Hour)
		appts, err := se.ApptRepo.ListForProviderInWindow(ctx, providerID,
			dayStart.Add(-pad), dayEnd.Add(pad), conflictExcludedStatuses)
		if err != nil {
			return fmt.Errorf("fetching appointments for conflict check: %w", err)
		}

		if hit, clash := findConflict(req.Start, req.End, appts, bufferBefore, bufferAfter, loc); clash {
			return &SlotUnavailableError{Reason: hit.Reason}
		}

		if err := se.ApptRepo.CreateTransactionally(ctx, appt); err != nil {
			return err
		}
		return nil
	}

	if err := se.withProviderLock(ctx, providerID, commit); err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			return nil, &SlotUnavailableError{Reason: "another booking for this provider is in progress"}
		}
		return nil, err
	}

	logger.Info("booking committed",
		zap.String("appointmentID", appt.ID),
		zap.String("providerID", providerID),
		zap.String("status", status),
		zap.Time("start", appt.Start))
	return appt, nil
}

// withProviderLock runs fn under the per-provider booking lock when a locker
// is configured. Without one, the conflict re-check still runs but only the
// store transaction guards the write.
func (se *DefaultSchedulingEngine) withProviderLock(ctx context.Context, providerID string, fn func(ctx context.Context) error) error {
	if se.Locker == nil {
		return fn(ctx)
	}
	return se.Locker.WithProviderLock(ctx, providerID, fn)
}
