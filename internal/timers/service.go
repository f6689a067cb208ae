// Package timers manages background countdown timers for the timer
// tools. Timers fire a completion callback (typically a websocket
// announcement) and evaporate; they are not persisted across restarts.
package timers

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voicekit/voicenode/internal/logging"
)

// idLength is the number of uuid characters kept for spoken timer ids.
const idLength = 8

// Info describes an active timer.
type Info struct {
	ID        string        `json:"timer_id"`
	Label     string        `json:"label,omitempty"`
	Duration  time.Duration `json:"-"`
	StartedAt time.Time     `json:"started_at"`
	EndsAt    time.Time     `json:"ends_at"`
}

// Remaining returns the time left, floored at zero.
func (i Info) Remaining(now time.Time) time.Duration {
	if rem := i.EndsAt.Sub(now); rem > 0 {
		return rem
	}
	return 0
}

// CompletionFunc is invoked when a timer fires.
type CompletionFunc func(info Info)

// Service owns all active timers for the node.
type Service struct {
	logger     *logging.Logger
	onComplete CompletionFunc

	mu     sync.Mutex
	active map[string]*entry
}

type entry struct {
	info  Info
	timer *time.Timer
}

// NewService creates a timer service. onComplete may be nil.
func NewService(logger *logging.Logger, onComplete CompletionFunc) *Service {
	return &Service{
		logger:     logger,
		onComplete: onComplete,
		active:     make(map[string]*entry),
	}
}

// Set starts a timer and returns its info.
func (s *Service) Set(duration time.Duration, label string) (Info, error) {
	if duration <= 0 {
		return Info{}, fmt.Errorf("timer duration must be positive")
	}

	now := time.Now()
	info := Info{
		ID:        uuid.NewString()[:idLength],
		Label:     label,
		Duration:  duration,
		StartedAt: now,
		EndsAt:    now.Add(duration),
	}

	s.mu.Lock()
	s.active[info.ID] = &entry{
		info:  info,
		timer: time.AfterFunc(duration, func() { s.fire(info.ID) }),
	}
	s.mu.Unlock()

	s.logger.Info("timer set",
		zap.String("timer_id", info.ID),
		zap.String("label", label),
		zap.Duration("duration", duration),
	)
	return info, nil
}

// Cancel stops a timer by id, or by label when id is empty. Returns
// the cancelled timer's info.
func (s *Service) Cancel(id, label string) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.active[id]
	if !ok && label != "" {
		for _, candidate := range s.active {
			if candidate.info.Label == label {
				e = candidate
				ok = true
				break
			}
		}
	}
	if !ok {
		return Info{}, fmt.Errorf("no active timer matching %q", firstNonEmpty(id, label))
	}

	e.timer.Stop()
	delete(s.active, e.info.ID)
	s.logger.Info("timer cancelled", zap.String("timer_id", e.info.ID))
	return e.info, nil
}

// List returns active timers ordered by completion time.
func (s *Service) List() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]Info, 0, len(s.active))
	for _, e := range s.active {
		infos = append(infos, e.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].EndsAt.Before(infos[j].EndsAt) })
	return infos
}

// Count returns the number of active timers.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Stop cancels all timers. Used at shutdown.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.active {
		e.timer.Stop()
		delete(s.active, id)
	}
}

func (s *Service) fire(id string) {
	s.mu.Lock()
	e, ok := s.active[id]
	if ok {
		delete(s.active, id)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	s.logger.Info("timer completed",
		zap.String("timer_id", e.info.ID),
		zap.String("label", e.info.Label),
	)
	if s.onComplete != nil {
		s.onComplete(e.info)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
