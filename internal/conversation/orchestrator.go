// Package conversation implements the tool-calling conversation loop:
// one voice command in, a terminal spoken message (or structured
// failure) out, with local tool execution and user clarification in
// between as directed by the command center.
package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voicekit/voicenode/internal/logging"
	"github.com/voicekit/voicenode/internal/monitoring"
	"github.com/voicekit/voicenode/internal/protocol"
	"github.com/voicekit/voicenode/internal/tools"
	"github.com/voicekit/voicenode/internal/types"
)

// completionFallback is spoken when the command center reports
// completion without a message.
const completionFallback = "Command completed."

// PeerClient is the command center as seen by the orchestrator. Peer
// calls are strictly sequential within one conversation.
type PeerClient interface {
	SendCommand(ctx context.Context, utterance, conversationID string) (*protocol.Response, error)
	SendToolResults(ctx context.Context, conversationID string, results []protocol.ToolResult) (*protocol.Response, error)
	StartConversation(ctx context.Context, conversationID string, schemas []types.Schema) error
}

// Outcome is the structured result of one processed voice command.
// The orchestrator always returns an Outcome, never an error.
type Outcome struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

// Options tune a single Process call.
type Options struct {
	// ValidationHandler answers clarification requests. Without one,
	// the broker's fallback policy applies.
	ValidationHandler ValidationHandler
	// RegisterTools sends the tool schemas to the command center
	// before the utterance. Best-effort.
	RegisterTools bool
	// ConversationID, when set, resumes a caller-managed conversation
	// instead of generating a fresh id.
	ConversationID string
}

// Orchestrator drives one conversation from utterance to terminal
// response. Safe for concurrent use: each Process call is independent
// and the registry is read-only during conversations.
type Orchestrator struct {
	peer          PeerClient
	registry      *tools.Registry
	dispatcher    *Dispatcher
	broker        *Broker
	logger        *logging.Logger
	metrics       *monitoring.Metrics
	nodeID        string
	room          string
	maxIterations int
}

// NewOrchestrator creates an orchestrator with the default iteration cap.
func NewOrchestrator(peer PeerClient, registry *tools.Registry, dispatcher *Dispatcher, broker *Broker, logger *logging.Logger) *Orchestrator {
	return &Orchestrator{
		peer:          peer,
		registry:      registry,
		dispatcher:    dispatcher,
		broker:        broker,
		logger:        logger,
		maxIterations: 10,
	}
}

// WithMaxIterations overrides the tool-calling round-trip cap.
func (o *Orchestrator) WithMaxIterations(n int) *Orchestrator {
	if n > 0 {
		o.maxIterations = n
	}
	return o
}

// WithNodeInfo sets the node identity passed to tools as ambient context.
func (o *Orchestrator) WithNodeInfo(nodeID, room string) *Orchestrator {
	o.nodeID = nodeID
	o.room = room
	return o
}

// WithMetrics attaches a metrics collector.
func (o *Orchestrator) WithMetrics(m *monitoring.Metrics) *Orchestrator {
	o.metrics = m
	return o
}

// Process runs one voice command to completion. Every failure path
// returns a structured Outcome; nothing escapes this boundary.
func (o *Orchestrator) Process(ctx context.Context, utterance string, opts Options) (outcome Outcome) {
	conversationID := opts.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("conversation panicked",
				zap.String("conversation_id", conversationID),
				zap.Any("panic", r),
			)
			outcome = o.fail(conversationID, fmt.Sprintf("Internal error processing command: %v", r), nil)
		}
		if o.metrics != nil {
			result := "failure"
			if outcome.Success {
				result = "success"
			}
			o.metrics.RecordConversation(result, time.Since(start))
		}
	}()

	o.logger.Info("processing voice command",
		zap.String("conversation_id", conversationID),
		zap.String("utterance", utterance),
	)

	if opts.RegisterTools {
		if err := o.peer.StartConversation(ctx, conversationID, o.registry.Schemas()); err != nil {
			// Registration is best-effort; the peer may still route
			// tool calls from a previously known schema set.
			o.logger.Warn("tool registration failed, continuing",
				zap.String("conversation_id", conversationID),
				zap.Error(err),
			)
		}
	}

	resp, err := o.peer.SendCommand(ctx, utterance, conversationID)
	if err != nil || resp == nil {
		return o.fail(conversationID, "Failed to communicate with Command Center", err)
	}

	req := &types.Request{
		Utterance:      utterance,
		ConversationID: conversationID,
		NodeID:         o.nodeID,
		Room:           o.room,
	}

	for iteration := 0; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return o.fail(conversationID, "Conversation cancelled", err)
		}

		switch {
		case resp.IsFinal():
			message := resp.Message()
			if message == "" {
				message = completionFallback
			}
			o.logger.Info("conversation complete",
				zap.String("conversation_id", conversationID),
				zap.Int("iterations", iteration),
			)
			return Outcome{Success: true, Message: message, ConversationID: conversationID}

		case iteration >= o.maxIterations:
			// Safety valve against a peer that never stops asking for tools.
			return o.fail(conversationID,
				fmt.Sprintf("Exceeded maximum iterations (%d) without completing conversation", o.maxIterations), nil)

		case resp.RequiresToolExecution():
			o.logger.Debug("executing tool batch",
				zap.String("conversation_id", conversationID),
				zap.Int("iteration", iteration),
				zap.Int("calls", len(resp.ToolCalls)),
			)
			results := o.dispatcher.Execute(ctx, resp.ToolCalls, req)
			resp, err = o.peer.SendToolResults(ctx, conversationID, results)
			if err != nil || resp == nil {
				return o.fail(conversationID, "Failed to send tool results", err)
			}

		case resp.RequiresValidation():
			request := *resp.ValidationRequest
			answer := o.broker.Resolve(request, opts.ValidationHandler)
			o.logger.Debug("validation resolved",
				zap.String("conversation_id", conversationID),
				zap.String("parameter", request.ParameterName),
			)
			continuation := o.broker.Continuation(request, answer)
			resp, err = o.peer.SendToolResults(ctx, conversationID, []protocol.ToolResult{continuation})
			if err != nil || resp == nil {
				return o.fail(conversationID, "Failed to send validation response", err)
			}

		default:
			return o.fail(conversationID,
				fmt.Sprintf("Unknown stop_reason: %s", resp.StopReasonValue()), nil)
		}
	}
}

func (o *Orchestrator) fail(conversationID, message string, err error) Outcome {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	o.logger.Warn("conversation failed",
		zap.String("conversation_id", conversationID),
		zap.String("reason", message),
	)
	return Outcome{Success: false, Message: message, ConversationID: conversationID}
}
