package scheduling

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"clinicore/models"
)

// defaultHoursCacheSize bounds the clock-parse memoization before a bulk clear.
const defaultHoursCacheSize = 512

// HoursCache memoizes parsed "HH:MM" clock values as minutes from midnight.
// It is a performance aid only: entries may be cleared at any time and the
// resolver stays correct, so concurrent use just costs a recomputation.
type HoursCache struct {
	mu      sync.Mutex
	entries map[string]int
	maxSize int
}

// NewHoursCache constructs a bounded clock-parse cache.
func NewHoursCache(maxSize int) *HoursCache {
	if maxSize <= 0 {
		maxSize = defaultHoursCacheSize
	}
	return &HoursCache{
		entries: make(map[string]int),
		maxSize: maxSize,
	}
}

// Clear drops all memoized entries.
func (c *HoursCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]int)
}

// MinutesOfDay parses an "HH:MM" value into minutes from midnight,
// memoizing the result. Out-of-range or unparsable values fail with
// InvalidTimeFormatError. A nil receiver parses without memoizing.
func (c *HoursCache) MinutesOfDay(value string) (int, error) {
	if c == nil {
		return parseClockMinutes(value)
	}

	c.mu.Lock()
	if minutes, ok := c.entries[value]; ok {
		c.mu.Unlock()
		return minutes, nil
	}
	c.mu.Unlock()

	minutes, err := parseClockMinutes(value)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	// Bulk eviction once the threshold is crossed.
	if len(c.entries) >= c.maxSize {
		c.entries = make(map[string]int)
	}
	c.entries[value] = minutes
	c.mu.Unlock()

	return minutes, nil
}

func parseClockMinutes(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, &InvalidTimeFormatError{Value: value}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &InvalidTimeFormatError{Value: value}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &InvalidTimeFormatError{Value: value}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, &InvalidTimeFormatError{Value: value}
	}
	return hour*60 + minute, nil
}

// ResolveWorkingWindow converts a provider's schedule entry for one calendar
// day into absolute start/end instants in the provider's timezone. A day with
// IsWorking=false yields ok=false and no window. The calendar date comes from
// interpreting the given instant in loc, never from its UTC fields.
func (c *HoursCache) ResolveWorkingWindow(date time.Time, sched models.DaySchedule, loc *time.Location) (start, end time.Time, ok bool, err error) {
	if !sched.IsWorking {
		return time.Time{}, time.Time{}, false, nil
	}

	startMin, err := c.MinutesOfDay(sched.Start)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	endMin, err := c.MinutesOfDay(sched.End)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}

	local := date.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	start = midnight.Add(time.Duration(startMin) * time.Minute)
	end = midnight.Add(time.Duration(endMin) * time.Minute)
	if !start.Before(end) {
		return time.Time{}, time.Time{}, false, nil
	}
	return start, end, true, nil
}
