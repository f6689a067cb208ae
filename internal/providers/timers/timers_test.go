package timers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicekit/voicenode/internal/logging"
	"github.com/voicekit/voicenode/internal/timers"
)

func newService(t *testing.T) *timers.Service {
	t.Helper()
	s := timers.NewService(logging.NewNop(), nil)
	t.Cleanup(s.Stop)
	return s
}

func TestSetTimer(t *testing.T) {
	svc := newService(t)
	tool := NewSet(svc)

	res, err := tool.Execute(context.Background(), map[string]any{
		"duration_seconds": float64(480), "label": "pasta",
	}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.NotEmpty(t, res.Context["timer_id"])
	assert.Equal(t, "pasta", res.Context["label"])
	assert.Equal(t, 480, res.Context["duration_seconds"])
	_, ok := res.Context["ends_at"].(time.Time)
	assert.True(t, ok)
	assert.Equal(t, 1, svc.Count())
}

func TestSetTimerRejectsZeroDuration(t *testing.T) {
	tool := NewSet(newService(t))

	res, err := tool.Execute(context.Background(), map[string]any{
		"duration_seconds": float64(0),
	}, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestSetTimerMissingDuration(t *testing.T) {
	tool := NewSet(newService(t))

	_, err := tool.Execute(context.Background(), map[string]any{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration_seconds")
}

func TestCancelTimerByLabel(t *testing.T) {
	svc := newService(t)
	_, err := svc.Set(time.Hour, "pasta")
	require.NoError(t, err)

	res, err := NewCancel(svc).Execute(context.Background(), map[string]any{"label": "pasta"}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "pasta", res.Context["label"])
	assert.Equal(t, 0, svc.Count())
}

func TestCancelTimerByID(t *testing.T) {
	svc := newService(t)
	info, err := svc.Set(time.Hour, "")
	require.NoError(t, err)

	res, err := NewCancel(svc).Execute(context.Background(), map[string]any{"timer_id": info.ID}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, info.ID, res.Context["timer_id"])
}

func TestCancelTimerRequiresSelector(t *testing.T) {
	_, err := NewCancel(newService(t)).Execute(context.Background(), map[string]any{}, nil)
	assert.Error(t, err)
}

func TestCancelTimerNoMatch(t *testing.T) {
	res, err := NewCancel(newService(t)).Execute(context.Background(), map[string]any{"label": "ghost"}, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestCheckTimers(t *testing.T) {
	svc := newService(t)
	_, err := svc.Set(10*time.Minute, "laundry")
	require.NoError(t, err)
	_, err = svc.Set(time.Minute, "tea")
	require.NoError(t, err)

	res, err := NewCheck(svc).Execute(context.Background(), nil, nil)
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Equal(t, 2, res.Context["count"])
	listed := res.Context["timers"].([]any)
	require.Len(t, listed, 2)

	first := listed[0].(map[string]any)
	assert.Equal(t, "tea", first["label"], "soonest timer first")
	remaining := first["remaining_seconds"].(int)
	assert.Greater(t, remaining, 50)
	assert.LessOrEqual(t, remaining, 60)
}

func TestCheckTimersEmpty(t *testing.T) {
	res, err := NewCheck(newService(t)).Execute(context.Background(), nil, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 0, res.Context["count"])
}
