// Package ws pushes conversation events to connected clients and
// relays validation questions to whoever can answer them (a display,
// a companion app, a test harness).
package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voicekit/voicenode/internal/logging"
	"github.com/voicekit/voicenode/internal/monitoring"
	"github.com/voicekit/voicenode/internal/protocol"
)

// Event is a message pushed to websocket clients.
type Event struct {
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// Hub tracks connected clients and pending validation questions.
type Hub struct {
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu      sync.RWMutex
	conns   map[*conn]struct{}
	pending map[string]chan string
}

// NewHub creates an empty hub. metrics may be nil.
func NewHub(logger *logging.Logger, metrics *monitoring.Metrics) *Hub {
	return &Hub{
		logger:  logger,
		metrics: metrics,
		conns:   make(map[*conn]struct{}),
		pending: make(map[string]chan string),
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast sends an event to every connected client. Slow or broken
// clients are dropped.
func (h *Hub) Broadcast(eventType string, payload map[string]any) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	}

	h.mu.RLock()
	conns := make([]*conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.send(event); err != nil {
			h.logger.Debug("dropping websocket client", zap.Error(err))
			h.remove(c)
		}
	}
}

// AskValidation pushes a clarification question to connected clients
// and waits for the first answer. Fails when no client is connected or
// no answer arrives within the timeout, letting the caller fall back
// to the default policy.
func (h *Hub) AskValidation(ctx context.Context, req protocol.ValidationRequest, timeout time.Duration) (string, error) {
	if h.ClientCount() == 0 {
		return "", fmt.Errorf("no websocket client connected")
	}

	id := uuid.NewString()
	answer := make(chan string, 1)

	h.mu.Lock()
	h.pending[id] = answer
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.pending, id)
		h.mu.Unlock()
	}()

	payload := map[string]any{
		"request_id":     id,
		"question":       req.Question,
		"parameter_name": req.ParameterName,
	}
	if len(req.Options) > 0 {
		payload["options"] = req.Options
	}
	h.Broadcast("validation_request", payload)

	select {
	case ans := <-answer:
		return ans, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(timeout):
		return "", fmt.Errorf("no validation answer within %s", timeout)
	}
}

// resolveValidation delivers a client's answer to the waiting asker.
func (h *Hub) resolveValidation(id, answer string) bool {
	h.mu.RLock()
	ch, ok := h.pending[id]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	select {
	case ch <- answer:
	default:
	}
	return true
}

func (h *Hub) add(c *conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	_, present := h.conns[c]
	delete(h.conns, c)
	h.mu.Unlock()
	if present {
		c.close()
		if h.metrics != nil {
			h.metrics.WSConnections.Dec()
		}
	}
}
