package conversation

import (
	"go.uber.org/zap"

	"github.com/voicekit/voicenode/internal/logging"
	"github.com/voicekit/voicenode/internal/protocol"
)

// FallbackAnswer is returned when no handler is available and the
// request carries no options to pick from. A deployment that wants
// real clarification must supply a handler; this keeps the contract
// that resolution never fails.
const FallbackAnswer = "I'm not sure"

// ValidationHandler obtains a user-facing answer to a clarification
// request, typically by speaking the question and listening, or by
// prompting a connected client.
type ValidationHandler func(req protocol.ValidationRequest) (string, error)

// Broker resolves validation requests from the command center into
// continuation answers. Stateless per call.
type Broker struct {
	logger *logging.Logger
}

// NewBroker creates a validation broker.
func NewBroker(logger *logging.Logger) *Broker {
	return &Broker{logger: logger}
}

// Resolve obtains an answer for the request. A supplied handler's
// answer is returned verbatim; a failed or panicking handler falls
// back to the default policy. Never fails, always returns a string.
func (b *Broker) Resolve(req protocol.ValidationRequest, handler ValidationHandler) (answer string) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("validation handler panicked",
				zap.String("parameter", req.ParameterName),
				zap.Any("panic", r),
			)
			answer = b.fallback(req)
		}
	}()

	if handler != nil {
		ans, err := handler(req)
		if err == nil {
			return ans
		}
		b.logger.Warn("validation handler failed, using fallback",
			zap.String("parameter", req.ParameterName),
			zap.Error(err),
		)
	}
	return b.fallback(req)
}

// fallback picks the first offered option, or the fixed non-committal
// answer when the request is open-ended.
func (b *Broker) fallback(req protocol.ValidationRequest) string {
	if len(req.Options) > 0 {
		return req.Options[0]
	}
	return FallbackAnswer
}

// Continuation packages an answer as the single synthetic tool result
// sent on the continue endpoint.
func (b *Broker) Continuation(req protocol.ValidationRequest, answer string) protocol.ToolResult {
	return protocol.ToolResult{
		ToolCallID: req.ToolCallID,
		Output:     protocol.AnswerOutput(answer, req),
	}
}
