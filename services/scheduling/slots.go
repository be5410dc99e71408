package scheduling

import "time"

// slotGenerator lazily emits fixed-duration candidate intervals across one
// day's working window, stepping by the configured granularity. It is finite
// and non-restartable: once Next returns false it stays exhausted.
type slotGenerator struct {
	cursor    time.Time
	windowEnd time.Time
	duration  time.Duration
	step      time.Duration
	emitted   int
	maxSlots  int
	truncated bool
}

// newSlotGenerator builds a generator over [windowStart, windowEnd). When the
// query's range boundary falls inside this day, clampStart/clampEnd narrow the
// effective window; pass zero values to leave a side unclamped.
func newSlotGenerator(windowStart, windowEnd time.Time, duration, step time.Duration, clampStart, clampEnd time.Time, maxSlots int) *slotGenerator {
	start := windowStart
	if !clampStart.IsZero() && clampStart.After(start) {
		start = clampStart
	}
	end := windowEnd
	if !clampEnd.IsZero() && clampEnd.Before(end) {
		end = clampEnd
	}
	return &slotGenerator{
		cursor:    start,
		windowEnd: end,
		duration:  duration,
		step:      step,
		maxSlots:  maxSlots,
	}
}

// Next emits the next candidate [start, start+duration), or ok=false once the
// window is exhausted or the per-day cap trips. The cap stops generation early
// rather than failing; Truncated reports it so the caller can warn.
func (g *slotGenerator) Next() (start, end time.Time, ok bool) {
	if g.step <= 0 || g.duration <= 0 {
		return time.Time{}, time.Time{}, false
	}
	if g.maxSlots > 0 && g.emitted >= g.maxSlots {
		g.truncated = true
		return time.Time{}, time.Time{}, false
	}

	candidateEnd := g.cursor.Add(g.duration)
	if candidateEnd.After(g.windowEnd) {
		return time.Time{}, time.Time{}, false
	}

	start = g.cursor
	g.cursor = g.cursor.Add(g.step)
	g.emitted++
	return start, candidateEnd, true
}

// Truncated reports whether the per-day candidate cap stopped generation.
func (g *slotGenerator) Truncated() bool {
	return g.truncated
}
