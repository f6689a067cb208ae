package conversation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/voicekit/voicenode/internal/logging"
	"github.com/voicekit/voicenode/internal/monitoring"
	"github.com/voicekit/voicenode/internal/protocol"
	"github.com/voicekit/voicenode/internal/tools"
	"github.com/voicekit/voicenode/internal/types"
)

// Dispatcher executes requested tool calls against the local registry.
// It never lets a failure escape: unknown tools, tool errors, and tool
// panics all become failure tool results so the command center decides
// how to proceed.
type Dispatcher struct {
	registry    *tools.Registry
	logger      *logging.Logger
	metrics     *monitoring.Metrics
	toolTimeout time.Duration
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *tools.Registry, logger *logging.Logger, toolTimeout time.Duration) *Dispatcher {
	if toolTimeout <= 0 {
		toolTimeout = 60 * time.Second
	}
	return &Dispatcher{
		registry:    registry,
		logger:      logger,
		toolTimeout: toolTimeout,
	}
}

// WithMetrics attaches a metrics collector.
func (d *Dispatcher) WithMetrics(m *monitoring.Metrics) *Dispatcher {
	d.metrics = m
	return d
}

// Execute runs every call sequentially in the order received and
// returns one result per call, each correlated by tool_call_id.
// Partial failure is expected: a failed call does not stop the batch.
func (d *Dispatcher) Execute(ctx context.Context, calls []protocol.ToolCall, req *types.Request) []protocol.ToolResult {
	results := make([]protocol.ToolResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, d.executeOne(ctx, call, req))
	}
	return results
}

func (d *Dispatcher) executeOne(ctx context.Context, call protocol.ToolCall, req *types.Request) (result protocol.ToolResult) {
	name := call.Function.Name
	start := time.Now()
	result.ToolCallID = call.ID

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool panicked",
				zap.String("tool", name),
				zap.Any("panic", r),
			)
			result.Output = protocol.ErrorOutput(fmt.Sprintf("tool %s panicked: %v", name, r))
		}
		if d.metrics != nil {
			status := "success"
			if !result.Output.Succeeded() {
				status = "error"
			}
			d.metrics.RecordToolExecution(name, status, time.Since(start))
		}
	}()

	tool, ok := d.registry.Get(name)
	if !ok {
		d.logger.Warn("unknown tool requested", zap.String("tool", name))
		result.Output = protocol.ErrorOutput("Unknown tool: " + name)
		return result
	}

	params := protocol.DecodeArguments(call.Function.Arguments)

	toolCtx, cancel := context.WithTimeout(ctx, d.toolTimeout)
	defer cancel()

	res, err := tool.Execute(toolCtx, params, req)
	if err != nil {
		d.logger.Warn("tool execution failed",
			zap.String("tool", name),
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err),
		)
		result.Output = protocol.ErrorOutput(err.Error())
		return result
	}
	if res == nil {
		result.Output = protocol.ErrorOutput(fmt.Sprintf("tool %s returned no result", name))
		return result
	}

	// An error message forces failure, and a failure always carries one.
	success := res.Success && res.Error == nil
	output := protocol.Output{
		"success": success,
		"context": NormalizeMap(res.Context),
		"error":   nil,
	}
	if res.Error != nil {
		output["error"] = *res.Error
	} else if !success {
		output["error"] = fmt.Sprintf("tool %s failed without details", name)
	}
	result.Output = output

	d.logger.Debug("tool executed",
		zap.String("tool", name),
		zap.Bool("success", res.Success),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}
