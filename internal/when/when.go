// Package when turns the time phrases captured by the reminder pattern into
// trigger timestamps.
package when

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Resolve returns the epoch second a reminder should fire at. inMinutes
// takes precedence over atTime; empty strings are treated as absent. The
// second return value is false when the expression can't be resolved,
// which callers should turn into a request for clarification.
func Resolve(now time.Time, inMinutes, atTime, amPm string) (int64, bool) {
	if inMinutes != "" {
		mins, err := strconv.Atoi(strings.TrimSpace(inMinutes))
		// Larger counts would wrap around time.Duration.
		if err != nil || mins < 0 || int64(mins) > math.MaxInt64/int64(time.Minute) {
			return 0, false
		}
		return now.Add(time.Duration(mins) * time.Minute).Unix(), true
	}

	if atTime != "" {
		return resolveClock(now, atTime, amPm)
	}

	return 0, false
}

func resolveClock(now time.Time, atTime, amPm string) (int64, bool) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(atTime), ":")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(strings.TrimSpace(amPm)) {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}

	// time.Date would silently normalize 25:00 into tomorrow.
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}

	at := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at.Unix(), true
}

// Resolver binds Resolve to a wall clock. The executor resolves reminder
// times through one.
type Resolver struct {
	Now func() time.Time
}

func NewResolver() *Resolver {
	return &Resolver{Now: time.Now}
}

func (r *Resolver) Resolve(inMinutes, atTime, amPm string) (int64, bool) {
	now := time.Now
	if r != nil && r.Now != nil {
		now = r.Now
	}
	return Resolve(now(), inMinutes, atTime, amPm)
}
