package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		assert.Len(t, next, 26)
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestNewAtEmbedsTime(t *testing.T) {
	ts := time.Date(2026, 10, 19, 8, 15, 0, 123_000_000, time.UTC)
	got, err := Time(NewAt(ts))
	require.NoError(t, err)
	assert.True(t, got.Equal(ts), "got %v", got)
}

func TestTimeRejectsGarbage(t *testing.T) {
	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}
