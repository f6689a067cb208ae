package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voicekit/voicenode/internal/conversation"
	"github.com/voicekit/voicenode/internal/protocol"
)

// commandRequest is how a transcriber hands an utterance to the node.
type commandRequest struct {
	Text           string `json:"text" binding:"required"`
	ConversationID string `json:"conversation_id,omitempty"`
	RegisterTools  *bool  `json:"register_tools,omitempty"`
}

func (s *Server) handleCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	registerTools := true
	if req.RegisterTools != nil {
		registerTools = *req.RegisterTools
	}

	s.hub.Broadcast("conversation_started", map[string]any{"utterance": req.Text})

	outcome := s.orchestrator.Process(c.Request.Context(), req.Text, conversation.Options{
		RegisterTools:     registerTools,
		ConversationID:    req.ConversationID,
		ValidationHandler: s.validationHandler(),
	})

	s.hub.Broadcast("conversation_completed", map[string]any{
		"conversation_id": outcome.ConversationID,
		"success":         outcome.Success,
		"message":         outcome.Message,
	})
	s.metrics.TimersActive.Set(float64(s.timerService.Count()))

	status := http.StatusOK
	if !outcome.Success {
		status = http.StatusBadGateway
	}
	c.JSON(status, outcome)
}

// validationHandler relays clarification questions to connected
// websocket clients. With nobody connected the broker's fallback
// policy applies.
func (s *Server) validationHandler() conversation.ValidationHandler {
	if s.hub.ClientCount() == 0 {
		return nil
	}
	return func(req protocol.ValidationRequest) (string, error) {
		ctx, cancel := context.WithTimeout(context.Background(), validationTimeout+time.Second)
		defer cancel()
		return s.hub.AskValidation(ctx, req, validationTimeout)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"node_id":       s.config.Node.ID,
		"room":          s.config.Node.Room,
		"tools":         len(s.registry.Names()),
		"active_timers": s.timerService.Count(),
		"ws_clients":    s.hub.ClientCount(),
	})
}

func (s *Server) handleListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": s.registry.Schemas()})
}
