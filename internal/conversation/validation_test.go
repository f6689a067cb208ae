package conversation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voicekit/voicenode/internal/logging"
	"github.com/voicekit/voicenode/internal/protocol"
)

func TestBrokerResolveWithHandler(t *testing.T) {
	b := NewBroker(logging.NewNop())

	answer := b.Resolve(protocol.ValidationRequest{Question: "Which room?"}, func(protocol.ValidationRequest) (string, error) {
		return "kitchen", nil
	})
	assert.Equal(t, "kitchen", answer)
}

func TestBrokerResolveFallbackFirstOption(t *testing.T) {
	b := NewBroker(logging.NewNop())

	req := protocol.ValidationRequest{
		Question: "Which room?",
		Options:  []string{"kitchen", "hallway"},
	}
	assert.Equal(t, "kitchen", b.Resolve(req, nil))
}

func TestBrokerResolveFallbackOpenEnded(t *testing.T) {
	b := NewBroker(logging.NewNop())

	assert.Equal(t, FallbackAnswer, b.Resolve(protocol.ValidationRequest{Question: "What label?"}, nil))
}

func TestBrokerResolveHandlerError(t *testing.T) {
	b := NewBroker(logging.NewNop())

	req := protocol.ValidationRequest{Options: []string{"rock"}}
	answer := b.Resolve(req, func(protocol.ValidationRequest) (string, error) {
		return "", errors.New("nobody listening")
	})
	assert.Equal(t, "rock", answer)
}

func TestBrokerResolveHandlerPanic(t *testing.T) {
	b := NewBroker(logging.NewNop())

	answer := b.Resolve(protocol.ValidationRequest{}, func(protocol.ValidationRequest) (string, error) {
		panic("handler bug")
	})
	assert.Equal(t, FallbackAnswer, answer)
}

func TestBrokerContinuation(t *testing.T) {
	b := NewBroker(logging.NewNop())

	req := protocol.ValidationRequest{
		Question:      "Which city?",
		ParameterName: "location",
		Options:       []string{"New York"},
		ToolCallID:    "call_v9",
	}
	result := b.Continuation(req, "New York")

	assert.Equal(t, "call_v9", result.ToolCallID)
	assert.Equal(t, "New York", result.Output["answer"])
	assert.Equal(t, "location", result.Output["parameter_name"])
	assert.Equal(t, "Which city?", result.Output["question"])
}
