package types

// Request carries the ambient context of the voice command being
// processed. Tools receive it alongside their decoded parameters.
type Request struct {
	Utterance      string `json:"utterance"`
	ConversationID string `json:"conversation_id"`
	NodeID         string `json:"node_id,omitempty"`
	Room           string `json:"room,omitempty"`
}

// Result is what a tool execution produces. Context holds the raw data
// for the command center to phrase a response from; tools do not
// generate spoken text themselves.
type Result struct {
	Success bool           `json:"success"`
	Context map[string]any `json:"context,omitempty"`
	Error   *string        `json:"error,omitempty"`
}

// Ok builds a successful result carrying context data.
func Ok(context map[string]any) *Result {
	return &Result{Success: true, Context: context}
}

// Fail builds a failed result with an error message.
func Fail(msg string) *Result {
	return &Result{Success: false, Error: &msg}
}
