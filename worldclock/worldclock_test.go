package worldclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadings(t *testing.T) {
	c, err := New(Sessions, false)
	require.NoError(t, err)

	// Monday 19 Oct 2026, 13:30 UTC
	now := time.Date(2026, 10, 19, 13, 30, 0, 0, time.UTC)
	got := c.Readings(now)
	require.Len(t, got, 4)

	byLabel := map[string]Reading{}
	for _, r := range got {
		byLabel[r.Label] = r
	}

	assert.Equal(t, "14:30:00", byLabel["London"].Time)
	assert.True(t, byLabel["London"].Open)

	assert.Equal(t, "09:30:00", byLabel["New York"].Time)
	assert.True(t, byLabel["New York"].Open)

	assert.Equal(t, "22:30:00", byLabel["Tokyo"].Time)
	assert.False(t, byLabel["Tokyo"].Open)

	assert.Equal(t, "Tue 20 Oct", byLabel["Sydney"].Date)
	assert.False(t, byLabel["Sydney"].Open)
}

func TestWeekendClosed(t *testing.T) {
	c, err := New(Sessions, false)
	require.NoError(t, err)

	sat := time.Date(2026, 10, 24, 12, 0, 0, 0, time.UTC)
	for _, r := range c.Readings(sat) {
		assert.False(t, r.Open, r.Label)
	}
}

func TestLocalFirst(t *testing.T) {
	c, err := New(Sessions[:1], true)
	require.NoError(t, err)

	got := c.Readings(time.Now())
	require.Len(t, got, 2)
	assert.Equal(t, "Local", got[0].Label)
}

func TestUnknownZone(t *testing.T) {
	_, err := New([]Zone{{Label: "Nowhere", Location: "Mars/Olympus"}}, false)
	assert.Error(t, err)
}
