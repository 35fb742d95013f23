package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in     string
		hour   int
		minute int
		str    string
	}{
		{"07:30 AM", 7, 30, "07:30 AM"},
		{"7:05 pm", 19, 5, "07:05 PM"},
		{"12:00 PM", 12, 0, "12:00 PM"},
		{"12:15 AM", 0, 15, "12:15 AM"},
		{"  11:59 PM ", 23, 59, "11:59 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tod, err := ParseTimeOfDay(tt.in)
			require.NoError(t, err)

			hour, minute := tod.Clock24()
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
			assert.Equal(t, tt.str, tod.String())
		})
	}
}

func TestParseTimeOfDayRejects(t *testing.T) {
	for _, in := range []string{"", "07:30", "19:30 PM", "00:10 AM", "7:5 AM", "07:60 AM", "07:30 XM", "7.30 AM", "noon"} {
		_, err := ParseTimeOfDay(in)
		assert.ErrorIs(t, err, ErrInvalidTime, in)
	}
}

func TestNextOccurrence(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

	earlier, _ := ParseTimeOfDay("02:00 PM")
	assert.Equal(t, time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC), earlier.NextOccurrence(now))

	later, _ := ParseTimeOfDay("05:00 PM")
	assert.Equal(t, time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC), later.NextOccurrence(now))

	same, _ := ParseTimeOfDay("03:00 PM")
	assert.Equal(t, now, same.NextOccurrence(now))

	// rolls across a month boundary
	endOfMonth := time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)
	morning, _ := ParseTimeOfDay("08:00 AM")
	assert.Equal(t, time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC), morning.NextOccurrence(endOfMonth))
}

func TestTaskCreatedAt(t *testing.T) {
	created, err := Task{ID: "1741964400000"}.CreatedAt()
	require.NoError(t, err)
	assert.Equal(t, int64(1741964400000), created.UnixMilli())

	_, err = Task{ID: "abc"}.CreatedAt()
	assert.Error(t, err)
}
