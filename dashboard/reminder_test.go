package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/rustyeddy/tradedash/kv"
	"github.com/rustyeddy/tradedash/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLastDayOfMonth(t *testing.T) {
	tests := []struct {
		day  time.Time
		want bool
	}{
		{time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 10, 30, 23, 59, 0, 0, time.UTC), false},
		{time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC), true},
		{time.Date(2028, 2, 28, 12, 0, 0, 0, time.UTC), false},
		{time.Date(2028, 2, 29, 12, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 12, 31, 12, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 4, 30, 12, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsLastDayOfMonth(tt.day), tt.day.String())
	}
}

func TestReminderKey(t *testing.T) {
	assert.Equal(t, "eomReminder_2026_10", ReminderKey(2026, time.October))
}

func TestReminderNotOnOrdinaryDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(monday)
	c := f.controller(t, market.XAUUSD)
	c.Load(ctx)

	assert.False(t, c.CheckEndOfMonth(ctx))
	assert.Empty(t, f.notes.Messages())
}

func TestReminderFiresOncePerMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2026, 10, 31, 7, 0, 0, 0, time.UTC))
	c := f.controller(t, market.XAUUSD)

	c.Load(ctx)
	require.Len(t, f.notes.Messages(), 1)
	assert.Contains(t, f.notes.Messages()[0], "October 2026")
	assert.True(t, kv.Get(ctx, f.store, "eomReminder_2026_10", false))

	for i := 0; i < 5; i++ {
		assert.False(t, c.CheckEndOfMonth(ctx))
	}

	// a second instrument shares the same flag
	other := f.controller(t, market.V75)
	other.Load(ctx)
	assert.Len(t, f.notes.Messages(), 1)

	// next month's last day fires again
	f.clock.Set(time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC))
	assert.True(t, c.CheckEndOfMonth(ctx))
	assert.Len(t, f.notes.Messages(), 2)
}

func TestReminderScheduledCheck(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := newFixture(time.Date(2026, 10, 30, 20, 0, 0, 0, time.UTC))
	c := f.controller(t, market.V75)
	c.Load(ctx)
	c.Start(ctx)
	assert.Empty(t, f.notes.Messages())

	f.clock.Advance(ReminderInterval)
	require.Len(t, f.notes.Messages(), 1)

	f.clock.Advance(3 * ReminderInterval)
	assert.Len(t, f.notes.Messages(), 1)
	assert.Equal(t, 1, f.clock.Jobs())

	cancel()
	assert.Eventually(t, func() bool { return f.clock.Jobs() == 0 }, time.Second, time.Millisecond)
}

func TestNotifierFunc(t *testing.T) {
	var got string
	NotifierFunc(func(msg string) { got = msg }).Notify("hi")
	assert.Equal(t, "hi", got)
}
