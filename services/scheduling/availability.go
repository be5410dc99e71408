package scheduling

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	appointmentTypeRepo "clinicore/database/repository/appointmenttype"
	providerRepo "clinicore/database/repository/provider"
	"clinicore/models"
	"clinicore/utils"

	"go.uber.org/zap"
)

// GenerateAvailability computes open appointment slots for a provider across
// a date range. A failure on one day degrades that day to zero slots and is
// recorded in the report; the rest of the range still computes.
func (se *DefaultSchedulingEngine) GenerateAvailability(ctx context.Context, req AvailabilityRequest) (*models.AvailabilityReport, error) {
	logger := utils.GetLogger()

	if req.From.IsZero() || req.To.IsZero() {
		return nil, &InvalidDateError{Field: "from/to", Value: "zero instant"}
	}
	if req.To.Before(req.From) {
		return nil, &InvalidRangeError{Message: "range end precedes range start"}
	}

	granularity := req.GranularityMinutes
	if granularity <= 0 {
		granularity = se.defaultGranularity()
	}
	maxDays := req.MaxDays
	if maxDays <= 0 {
		maxDays = se.maxRangeDays()
	}

	provider, apptType, err := se.loadProviderAndType(ctx, req.ProviderID, req.AppointmentTypeID)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(provider.Timezone)
	if err != nil {
		return nil, fmt.Errorf("provider %s has invalid timezone %q: %w", provider.ID, provider.Timezone, err)
	}

	// Day boundaries come from the provider's local calendar; a UTC-derived
	// weekday is wrong whenever the offset crosses a day boundary.
	fromLocal := req.From.In(loc)
	toLocal := req.To.In(loc)
	firstDay := time.Date(fromLocal.Year(), fromLocal.Month(), fromLocal.Day(), 0, 0, 0, 0, loc)
	lastDay := time.Date(toLocal.Year(), toLocal.Month(), toLocal.Day(), 0, 0, 0, 0, loc)

	// Calendar days, not elapsed hours: a DST transition makes a local day
	// 23 or 25 hours long, and truncating hours/24 would undercount the span.
	spanDays := int(math.Round(lastDay.Sub(firstDay).Hours() / 24))
	if spanDays > maxDays {
		return nil, &RangeTooLargeError{Days: spanDays, MaxDays: maxDays}
	}

	duration := time.Duration(apptType.DurationMin) * time.Minute
	step := time.Duration(granularity) * time.Minute
	bufferBefore, bufferAfter := effectiveBuffers(provider, apptType)

	report := &models.AvailabilityReport{}
	iterations := 0

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		// Hard bound against non-advancing date arithmetic. Tripping it means
		// a logic defect, so it fails the whole query.
		iterations++
		if iterations > maxDays+1 {
			return nil, &InternalIterationError{
				Message: fmt.Sprintf("day iteration exceeded %d steps for range %s..%s",
					maxDays+1, firstDay.Format("2006-01-02"), lastDay.Format("2006-01-02")),
			}
		}

		dayResult := models.DayResult{Date: day.Format("2006-01-02")}
		daySlots, truncated, dayErr := se.computeDay(ctx, provider, day, loc, duration, step, bufferBefore, bufferAfter, req.From, req.To)
		if dayErr != nil {
			logger.Error("availability: day computation failed",
				zap.String("providerID", provider.ID),
				zap.String("date", dayResult.Date),
				zap.Error(dayErr))
			dayResult.Err = dayErr.Error()
			report.Days = append(report.Days, dayResult)
			continue
		}
		if truncated {
			logger.Warn("availability: per-day slot cap reached, day truncated",
				zap.String("providerID", provider.ID),
				zap.String("date", dayResult.Date),
				zap.Int("cap", se.maxSlotsPerDay()))
			report.Truncated = true
		}

		appended := 0
		for _, slot := range daySlots {
			if len(report.Slots) >= se.maxTotalSlots() {
				logger.Warn("availability: total slot cap reached, aggregation halted",
					zap.String("providerID", provider.ID),
					zap.Int("cap", se.maxTotalSlots()))
				report.Truncated = true
				dayResult.SlotCount = appended
				report.Days = append(report.Days, dayResult)
				return report, nil
			}
			report.Slots = append(report.Slots, slot)
			appended++
		}
		dayResult.SlotCount = appended
		report.Days = append(report.Days, dayResult)
	}

	return report, nil
}

// computeDay produces one local day's open slots.
func (se *DefaultSchedulingEngine) computeDay(
	ctx context.Context,
	provider *models.Provider,
	day time.Time,
	loc *time.Location,
	duration, step, bufferBefore, bufferAfter time.Duration,
	clampStart, clampEnd time.Time,
) ([]models.AvailabilitySlot, bool, error) {
	sched, ok := provider.ScheduleFor(day.Weekday())
	if !ok {
		return nil, false, nil
	}

	windowStart, windowEnd, working, err := se.Hours.ResolveWorkingWindow(day, sched, loc)
	if err != nil {
		return nil, false, err
	}
	if !working {
		return nil, false, nil
	}

	// Widen the query window by the buffer padding so neighbors whose padded
	// interval reaches into this window are not missed.
	pad := bufferBefore + bufferAfter
	appts, err := se.ApptRepo.ListForProviderInWindow(ctx, provider.ID,
		windowStart.Add(-pad), windowEnd.Add(pad), conflictExcludedStatuses)
	if err != nil {
		return nil, false, fmt.Errorf("fetching appointments: %w", err)
	}

	var slots []models.AvailabilitySlot
	gen := newSlotGenerator(windowStart, windowEnd, duration, step, clampStart, clampEnd, se.maxSlotsPerDay())
	for {
		start, end, more := gen.Next()
		if !more {
			break
		}
		if _, clash := findConflict(start, end, appts, bufferBefore, bufferAfter, loc); clash {
			continue
		}
		slots = append(slots, models.AvailabilitySlot{
			Start:      start,
			End:        end,
			Available:  true,
			ProviderID: provider.ID,
		})
	}

	return slots, gen.Truncated(), nil
}

// loadProviderAndType fetches both lookups and applies the active checks.
func (se *DefaultSchedulingEngine) loadProviderAndType(ctx context.Context, providerID, typeID string) (*models.Provider, *models.AppointmentType, error) {
	provider, err := se.ProviderRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return nil, nil, &NotFoundError{Resource: "provider", ID: providerID}
		}
		return nil, nil, err
	}
	if !provider.Active {
		return nil, nil, &InactiveProviderError{ProviderID: providerID}
	}

	apptType, err := se.TypeRepo.GetByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, appointmentTypeRepo.ErrNotFound) {
			return nil, nil, &NotFoundError{Resource: "appointment type", ID: typeID}
		}
		return nil, nil, err
	}
	if !apptType.Active {
		return nil, nil, &InactiveTypeError{TypeID: typeID}
	}

	return provider, apptType, nil
}
