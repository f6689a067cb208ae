// Package clock implements the current-time tool.
package clock

import (
	"context"
	"fmt"
	"time"

	"github.com/voicekit/voicenode/internal/providers/params"
	"github.com/voicekit/voicenode/internal/types"
)

// Tool reports the current time in a requested timezone.
type Tool struct {
	defaultZone string
	now         func() time.Time
}

// New creates the clock tool with the node's configured timezone as
// the default.
func New(defaultZone string) *Tool {
	if defaultZone == "" {
		defaultZone = "UTC"
	}
	return &Tool{defaultZone: defaultZone, now: time.Now}
}

// Schema returns the registration descriptor.
func (t *Tool) Schema() types.Schema {
	return types.Schema{
		Name:        "current_time",
		Description: "Get the current time, optionally in a specific timezone.",
		Category:    types.CategoryInformation,
		Keywords:    []string{"time", "clock", "timezone", "what time"},
		Parameters: []types.Parameter{
			{Name: "timezone", Type: "string", Description: "IANA timezone name (e.g. 'America/New_York'). Defaults to the node's timezone.", Required: false},
		},
		Examples: []types.Example{
			{Utterance: "What time is it in Tokyo?",
				Parameters: map[string]any{"timezone": "Asia/Tokyo"}},
		},
	}
}

// Execute looks up the time.
func (t *Tool) Execute(_ context.Context, p map[string]any, _ *types.Request) (*types.Result, error) {
	zone := params.OptionalString(p, "timezone", t.defaultZone)

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return types.Fail(fmt.Sprintf("Unknown timezone %q", zone)), nil
	}

	now := t.now().In(loc)
	_, offset := now.Zone()

	return types.Ok(map[string]any{
		"timezone":           zone,
		"time":               now,
		"hour":               now.Hour(),
		"minute":             now.Minute(),
		"weekday":            now.Weekday().String(),
		"utc_offset_seconds": offset,
	}), nil
}
