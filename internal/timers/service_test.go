package timers

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicekit/voicenode/internal/logging"
)

func TestSetAndList(t *testing.T) {
	s := NewService(logging.NewNop(), nil)
	defer s.Stop()

	first, err := s.Set(time.Hour, "slow")
	require.NoError(t, err)
	second, err := s.Set(time.Minute, "fast")
	require.NoError(t, err)

	assert.Len(t, first.ID, idLength)
	assert.Equal(t, 2, s.Count())

	infos := s.List()
	require.Len(t, infos, 2)
	assert.Equal(t, second.ID, infos[0].ID, "soonest timer first")
	assert.Equal(t, first.ID, infos[1].ID)
}

func TestSetRejectsNonPositiveDuration(t *testing.T) {
	s := NewService(logging.NewNop(), nil)
	defer s.Stop()

	_, err := s.Set(0, "")
	assert.Error(t, err)
	_, err = s.Set(-time.Second, "")
	assert.Error(t, err)
	assert.Equal(t, 0, s.Count())
}

func TestCancelByID(t *testing.T) {
	s := NewService(logging.NewNop(), nil)
	defer s.Stop()

	info, err := s.Set(time.Hour, "pasta")
	require.NoError(t, err)

	cancelled, err := s.Cancel(info.ID, "")
	require.NoError(t, err)
	assert.Equal(t, info.ID, cancelled.ID)
	assert.Equal(t, 0, s.Count())
}

func TestCancelByLabel(t *testing.T) {
	s := NewService(logging.NewNop(), nil)
	defer s.Stop()

	_, err := s.Set(time.Hour, "pasta")
	require.NoError(t, err)

	cancelled, err := s.Cancel("", "pasta")
	require.NoError(t, err)
	assert.Equal(t, "pasta", cancelled.Label)
	assert.Equal(t, 0, s.Count())
}

func TestCancelNoMatch(t *testing.T) {
	s := NewService(logging.NewNop(), nil)
	defer s.Stop()

	_, err := s.Cancel("nope", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestCompletionCallback(t *testing.T) {
	var (
		mu    sync.Mutex
		fired []Info
	)
	done := make(chan struct{})
	s := NewService(logging.NewNop(), func(info Info) {
		mu.Lock()
		fired = append(fired, info)
		mu.Unlock()
		close(done)
	})
	defer s.Stop()

	info, err := s.Set(10*time.Millisecond, "quick")
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, fired, 1)
	assert.Equal(t, info.ID, fired[0].ID)
	assert.Equal(t, "quick", fired[0].Label)
	assert.Equal(t, 0, s.Count())
}

func TestCancelledTimerDoesNotFire(t *testing.T) {
	fired := make(chan Info, 1)
	s := NewService(logging.NewNop(), func(info Info) { fired <- info })
	defer s.Stop()

	info, err := s.Set(30*time.Millisecond, "")
	require.NoError(t, err)
	_, err = s.Cancel(info.ID, "")
	require.NoError(t, err)

	select {
	case <-fired:
		t.Fatal("cancelled timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRemaining(t *testing.T) {
	now := time.Now()
	info := Info{EndsAt: now.Add(time.Minute)}

	assert.Equal(t, time.Minute, info.Remaining(now))
	assert.Equal(t, time.Duration(0), info.Remaining(now.Add(2*time.Minute)))
}

func TestStopClearsAll(t *testing.T) {
	s := NewService(logging.NewNop(), nil)
	_, err := s.Set(time.Hour, "a")
	require.NoError(t, err)
	_, err = s.Set(time.Hour, "b")
	require.NoError(t, err)

	s.Stop()
	assert.Equal(t, 0, s.Count())
}
