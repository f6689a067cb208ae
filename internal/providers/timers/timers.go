// Package timers exposes the timer service as tools: set, cancel, and
// check timers.
package timers

import (
	"context"
	"fmt"
	"time"

	"github.com/voicekit/voicenode/internal/providers/params"
	"github.com/voicekit/voicenode/internal/timers"
	"github.com/voicekit/voicenode/internal/types"
)

// SetTool starts a countdown timer.
type SetTool struct {
	service *timers.Service
}

// NewSet creates the set_timer tool.
func NewSet(service *timers.Service) *SetTool {
	return &SetTool{service: service}
}

// Schema returns the registration descriptor.
func (t *SetTool) Schema() types.Schema {
	return types.Schema{
		Name:        "set_timer",
		Description: "Set a countdown timer with an optional label.",
		Category:    types.CategoryTimer,
		Keywords:    []string{"timer", "set a timer", "countdown", "remind"},
		Parameters: []types.Parameter{
			{Name: "duration_seconds", Type: "int", Description: "Timer length in seconds.", Required: true},
			{Name: "label", Type: "string", Description: "What the timer is for (e.g. 'pasta').", Required: false},
		},
		Examples: []types.Example{
			{Utterance: "Set a timer for 10 minutes",
				Parameters: map[string]any{"duration_seconds": 600}},
			{Utterance: "Set a pasta timer for 8 minutes",
				Parameters: map[string]any{"duration_seconds": 480, "label": "pasta"}},
		},
	}
}

// Execute starts the timer.
func (t *SetTool) Execute(_ context.Context, p map[string]any, _ *types.Request) (*types.Result, error) {
	seconds, err := params.Int(p, "duration_seconds")
	if err != nil {
		return nil, err
	}
	label := params.OptionalString(p, "label", "")

	info, err := t.service.Set(time.Duration(seconds)*time.Second, label)
	if err != nil {
		return types.Fail(err.Error()), nil
	}

	return types.Ok(map[string]any{
		"timer_id":         info.ID,
		"label":            info.Label,
		"duration_seconds": seconds,
		"ends_at":          info.EndsAt,
	}), nil
}

// CancelTool stops an active timer.
type CancelTool struct {
	service *timers.Service
}

// NewCancel creates the cancel_timer tool.
func NewCancel(service *timers.Service) *CancelTool {
	return &CancelTool{service: service}
}

// Schema returns the registration descriptor.
func (t *CancelTool) Schema() types.Schema {
	return types.Schema{
		Name:        "cancel_timer",
		Description: "Cancel an active timer by id or label.",
		Category:    types.CategoryTimer,
		Keywords:    []string{"cancel timer", "stop timer", "remove timer"},
		Parameters: []types.Parameter{
			{Name: "timer_id", Type: "string", Description: "Id of the timer to cancel.", Required: false},
			{Name: "label", Type: "string", Description: "Label of the timer to cancel.", Required: false},
		},
		Examples: []types.Example{
			{Utterance: "Cancel the pasta timer",
				Parameters: map[string]any{"label": "pasta"}},
		},
	}
}

// Execute cancels the matching timer.
func (t *CancelTool) Execute(_ context.Context, p map[string]any, _ *types.Request) (*types.Result, error) {
	id := params.OptionalString(p, "timer_id", "")
	label := params.OptionalString(p, "label", "")
	if id == "" && label == "" {
		return nil, fmt.Errorf("either timer_id or label is required")
	}

	info, err := t.service.Cancel(id, label)
	if err != nil {
		return types.Fail(err.Error()), nil
	}

	return types.Ok(map[string]any{
		"timer_id": info.ID,
		"label":    info.Label,
	}), nil
}

// CheckTool lists active timers.
type CheckTool struct {
	service *timers.Service
}

// NewCheck creates the check_timers tool.
func NewCheck(service *timers.Service) *CheckTool {
	return &CheckTool{service: service}
}

// Schema returns the registration descriptor.
func (t *CheckTool) Schema() types.Schema {
	return types.Schema{
		Name:        "check_timers",
		Description: "List active timers and their remaining time.",
		Category:    types.CategoryTimer,
		Keywords:    []string{"check timers", "how long", "remaining", "timers"},
		Examples: []types.Example{
			{Utterance: "How much time is left on my timers?", Parameters: map[string]any{}},
		},
	}
}

// Execute lists the timers.
func (t *CheckTool) Execute(_ context.Context, _ map[string]any, _ *types.Request) (*types.Result, error) {
	now := time.Now()
	infos := t.service.List()

	listed := make([]any, 0, len(infos))
	for _, info := range infos {
		listed = append(listed, map[string]any{
			"timer_id":          info.ID,
			"label":             info.Label,
			"remaining_seconds": int(info.Remaining(now).Seconds()),
			"ends_at":           info.EndsAt,
		})
	}

	return types.Ok(map[string]any{
		"count":  len(listed),
		"timers": listed,
	}), nil
}
