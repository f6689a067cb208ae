package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicekit/voicenode/internal/config"
	"github.com/voicekit/voicenode/internal/conversation"
)

// One server per test binary: metrics register against the default
// prometheus registerer, which rejects duplicates.
func TestServer(t *testing.T) {
	// A closed listener gives fast connection-refused failures for
	// command center calls.
	peer := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	peerURL := peer.URL
	peer.Close()

	cfg := config.Default()
	cfg.CommandCenter.URL = peerURL
	cfg.RateLimit.Enabled = false

	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, float64(7), body["tools"])
	})

	t.Run("list tools", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tools", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Tools []struct {
				Name string `json:"command_name"`
			} `json:"tools"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Tools, 7)
		assert.Equal(t, "calculate", body.Tools[0].Name)
	})

	t.Run("command requires text", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/command", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		s.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("command with unreachable command center", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/command",
			strings.NewReader(`{"text": "what is 2 plus 2", "register_tools": false}`))
		req.Header.Set("Content-Type", "application/json")
		s.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadGateway, w.Code)
		var outcome conversation.Outcome
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
		assert.False(t, outcome.Success)
		assert.Contains(t, outcome.Message, "Failed to communicate with Command Center")
		assert.NotEmpty(t, outcome.ConversationID)
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "voicenode_")
	})
}
