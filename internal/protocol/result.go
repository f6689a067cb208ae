package protocol

// Output is the payload of a tool result. For executed tools it carries
// {success, context, error}; for validation answers it carries
// {answer, parameter_name, question, options}. Keys with null values
// are kept so the wire shape stays stable.
type Output map[string]any

// ToolResult is sent back on the continue endpoint, one per tool call.
// ToolCallID must echo the originating ToolCall.ID.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Output     Output `json:"output"`
}

// SuccessOutput builds the output for a successfully executed tool.
// Context must already be JSON-safe.
func SuccessOutput(context any) Output {
	return Output{
		"success": true,
		"context": context,
		"error":   nil,
	}
}

// ErrorOutput builds the output for a failed tool execution.
func ErrorOutput(message string) Output {
	return Output{
		"success": false,
		"context": nil,
		"error":   message,
	}
}

// AnswerOutput builds the output for a validation answer continuation.
func AnswerOutput(answer string, req ValidationRequest) Output {
	out := Output{
		"answer":         answer,
		"parameter_name": req.ParameterName,
		"question":       req.Question,
		"options":        nil,
	}
	if len(req.Options) > 0 {
		out["options"] = req.Options
	}
	return out
}

// Succeeded reports whether the output marks a successful execution.
func (o Output) Succeeded() bool {
	ok, _ := o["success"].(bool)
	return ok
}

// ErrorMessage returns the error string, or "" on success.
func (o Output) ErrorMessage() string {
	msg, _ := o["error"].(string)
	return msg
}
