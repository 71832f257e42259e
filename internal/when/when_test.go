package when

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolveInMinutes(t *testing.T) {
	now := at("2024-01-01T18:00:00").Add(250 * time.Millisecond)

	ts, ok := Resolve(now, "10", "", "")
	require.True(t, ok)
	assert.Equal(t, now.Unix()+600, ts)

	// in_minutes wins over a clock time.
	ts, ok = Resolve(now, "1", "9:00", "am")
	require.True(t, ok)
	assert.Equal(t, now.Unix()+60, ts)
}

func TestResolveInMinutesNotANumber(t *testing.T) {
	ts, ok := Resolve(time.Now(), "not_a_number", "", "")
	assert.False(t, ok)
	assert.Zero(t, ts)
}

func TestResolveInMinutesOverflow(t *testing.T) {
	now := at("2024-01-01T18:00:00")

	// One past the largest minute count a time.Duration can hold.
	_, ok := Resolve(now, "153722867280912931", "", "")
	assert.False(t, ok)

	_, ok = Resolve(now, "99999999999999999999999", "", "")
	assert.False(t, ok)

	_, ok = Resolve(now, "-5", "", "")
	assert.False(t, ok)

	ts, ok := Resolve(now, "153722867280912930", "", "")
	require.True(t, ok)
	assert.Greater(t, ts, now.Unix())
}

func TestResolveClock(t *testing.T) {
	tests := []struct {
		name   string
		now    string
		atTime string
		amPm   string
		want   string
	}{
		{"pm rolls to tomorrow", "2024-01-01T18:00:00", "5:30", "pm", "2024-01-02T17:30:00"},
		{"pm later today", "2024-01-01T09:00:00", "5:30", "pm", "2024-01-01T17:30:00"},
		{"twelve am is midnight", "2024-01-01T09:00:00", "12:15", "am", "2024-01-02T00:15:00"},
		{"twelve pm is noon", "2024-01-01T09:00:00", "12:00", "PM", "2024-01-01T12:00:00"},
		{"24h clock", "2024-01-01T09:00:00", "21:45", "", "2024-01-01T21:45:00"},
		{"equal to now rolls", "2024-01-01T09:00:00", "9:00", "", "2024-01-02T09:00:00"},
		{"month boundary", "2024-01-31T23:00:00", "7:00", "am", "2024-02-01T07:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, ok := Resolve(at(tt.now), "", tt.atTime, tt.amPm)
			require.True(t, ok)
			assert.Equal(t, at(tt.want).Unix(), ts)
		})
	}
}

func TestResolveClockInvalid(t *testing.T) {
	now := at("2024-01-01T09:00:00")
	for _, in := range []string{"ab:30", "5:xx", "530", "25:00", "7:75"} {
		_, ok := Resolve(now, "", in, "")
		assert.False(t, ok, in)
	}
}

func TestResolveNothing(t *testing.T) {
	_, ok := Resolve(time.Now(), "", "", "pm")
	assert.False(t, ok)
}

func TestResolverUsesClock(t *testing.T) {
	fixed := at("2024-06-01T12:00:00")
	r := &Resolver{Now: func() time.Time { return fixed }}

	ts, ok := r.Resolve("5", "", "")
	require.True(t, ok)
	assert.Equal(t, fixed.Unix()+300, ts)
}
