package scheduling

import (
	"context"
	"fmt"
	"time"

	"clinicore/models"
)

// BatchCheck evaluates caller-supplied candidate intervals against one shared
// appointment query spanning all of them, amortizing the store round-trip.
// Results come back in the same order and count as the input.
func (se *DefaultSchedulingEngine) BatchCheck(ctx context.Context, req BatchCheckRequest) ([]models.BatchSlotResult, error) {
	if len(req.TimeSlots) == 0 {
		return []models.BatchSlotResult{}, nil
	}

	provider, apptType, err := se.loadProviderAndType(ctx, req.ProviderID, req.AppointmentTypeID)
	if err != nil {
		return nil, err
	}
	bufferBefore, bufferAfter := effectiveBuffers(provider, apptType)
	loc, err := time.LoadLocation(provider.Timezone)
	if err != nil {
		return nil, fmt.Errorf("provider %s has invalid timezone %q: %w", provider.ID, provider.Timezone, err)
	}

	// Union window over all candidates.
	unionStart := req.TimeSlots[0].Start
	unionEnd := req.TimeSlots[0].End
	for _, slot := range req.TimeSlots[1:] {
		if slot.Start.Before(unionStart) {
			unionStart = slot.Start
		}
		if slot.End.After(unionEnd) {
			unionEnd = slot.End
		}
	}

	pad := bufferBefore + bufferAfter
	appts, err := se.ApptRepo.ListForProviderInWindow(ctx, req.ProviderID,
		unionStart.Add(-pad), unionEnd.Add(pad), conflictExcludedStatuses)
	if err != nil {
		return nil, fmt.Errorf("fetching appointments for batch check: %w", err)
	}

	results := make([]models.BatchSlotResult, 0, len(req.TimeSlots))
	for _, slot := range req.TimeSlots {
		result := models.BatchSlotResult{Start: slot.Start, End: slot.End}
		switch {
		case !slot.Start.Before(slot.End):
			result.Reason = "interval end does not follow its start"
		default:
			hit, clash := findConflict(slot.Start, slot.End, appts, bufferBefore, bufferAfter, loc)
			if clash {
				result.Reason = hit.Reason
			} else {
				result.Available = true
			}
		}
		results = append(results, result)
	}

	return results, nil
}
