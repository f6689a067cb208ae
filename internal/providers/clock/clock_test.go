package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(zone string, at time.Time) *Tool {
	t := New(zone)
	t.now = func() time.Time { return at }
	return t
}

func TestCurrentTimeDefaultZone(t *testing.T) {
	at := time.Date(2026, 8, 30, 15, 4, 0, 0, time.UTC)
	tool := fixedClock("UTC", at)

	res, err := tool.Execute(context.Background(), map[string]any{}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Equal(t, "UTC", res.Context["timezone"])
	assert.Equal(t, 15, res.Context["hour"])
	assert.Equal(t, 4, res.Context["minute"])
	assert.Equal(t, "Sunday", res.Context["weekday"])
	assert.Equal(t, 0, res.Context["utc_offset_seconds"])
}

func TestCurrentTimeExplicitZone(t *testing.T) {
	at := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	tool := fixedClock("UTC", at)

	res, err := tool.Execute(context.Background(), map[string]any{"timezone": "Asia/Tokyo"}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Equal(t, "Asia/Tokyo", res.Context["timezone"])
	assert.Equal(t, 21, res.Context["hour"])
	assert.Equal(t, 9*3600, res.Context["utc_offset_seconds"])
}

func TestCurrentTimeUnknownZone(t *testing.T) {
	tool := New("UTC")

	res, err := tool.Execute(context.Background(), map[string]any{"timezone": "Mars/Olympus"}, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.NotNil(t, res.Error)
	assert.Contains(t, *res.Error, "Mars/Olympus")
}

func TestCurrentTimeReturnsTimeValue(t *testing.T) {
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	tool := fixedClock("UTC", at)

	res, err := tool.Execute(context.Background(), map[string]any{}, nil)
	require.NoError(t, err)

	got, ok := res.Context["time"].(time.Time)
	require.True(t, ok, "time should stay a time.Time until wire normalization")
	assert.True(t, got.Equal(at))
}
