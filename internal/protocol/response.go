// Package protocol defines the wire contract with the command center:
// the tagged response returned after every request, the tool calls it
// may carry, and the tool results sent back on the continue endpoint.
package protocol

// Stop reasons returned by the command center. The stop reason selects
// which payload field of a Response is active.
const (
	StopComplete           = "complete"
	StopToolCalls          = "tool_calls"
	StopValidationRequired = "validation_required"
)

// ToolCallFunction is the function portion of a tool call. Arguments
// is a JSON-encoded string, not a structured object.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is a single requested local action. ID correlates the
// eventual result back to this call.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ValidationRequest asks the user to clarify a parameter before a tool
// call can proceed.
type ValidationRequest struct {
	Question      string   `json:"question"`
	ParameterName string   `json:"parameter_name"`
	Options       []string `json:"options,omitempty"`
	ToolCallID    string   `json:"tool_call_id"`
}

// RequestInformation echoes the originating request.
type RequestInformation struct {
	VoiceCommand   string `json:"voice_command"`
	ConversationID string `json:"conversation_id"`
}

// Response is the tagged union returned by the command center. Exactly
// one payload is active, selected by StopReason; a nil or unrecognized
// StopReason is an error signal handled by the orchestrator.
type Response struct {
	StopReason         *string             `json:"stop_reason"`
	AssistantMessage   *string             `json:"assistant_message"`
	ToolCalls          []ToolCall          `json:"tool_calls"`
	ValidationRequest  *ValidationRequest  `json:"validation_request"`
	RequestInformation *RequestInformation `json:"request_information"`
}

// IsFinal reports whether the conversation is complete.
func (r *Response) IsFinal() bool {
	return r.StopReason != nil && *r.StopReason == StopComplete
}

// RequiresToolExecution reports whether tools must be executed locally
// and their results sent back.
func (r *Response) RequiresToolExecution() bool {
	return r.StopReason != nil && *r.StopReason == StopToolCalls && len(r.ToolCalls) > 0
}

// RequiresValidation reports whether user clarification is needed.
func (r *Response) RequiresValidation() bool {
	return r.StopReason != nil && *r.StopReason == StopValidationRequired && r.ValidationRequest != nil
}

// StopReasonValue returns the stop reason for diagnostics, or "none"
// when the field is absent.
func (r *Response) StopReasonValue() string {
	if r.StopReason == nil {
		return "none"
	}
	return *r.StopReason
}

// Message returns the assistant message, or "" when absent.
func (r *Response) Message() string {
	if r.AssistantMessage == nil {
		return ""
	}
	return *r.AssistantMessage
}
