// Package tools implements the local tool registry. Tools register
// explicitly at startup; the set available in a process is statically
// known and testable.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/voicekit/voicenode/internal/types"
)

// Tool is a locally executable action. Execute receives the decoded
// parameter map plus the ambient request context and returns a
// structured result; it may also return an error for failures it does
// not convert into a Result itself.
type Tool interface {
	Schema() types.Schema
	Execute(ctx context.Context, params map[string]any, req *types.Request) (*types.Result, error)
}

// Registry maps tool names to implementations. Registration happens at
// startup; lookups are safe for concurrent use during conversations.
type Registry struct {
	tools sync.Map
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a tool. The schema name is the lookup key.
func (r *Registry) Register(tool Tool) error {
	name := tool.Schema().Name
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	r.tools.Store(name, tool)
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	val, ok := r.tools.Load(name)
	if !ok {
		return nil, false
	}
	return val.(Tool), true
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	var names []string
	r.tools.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}

// Schemas returns all registered schemas sorted by name, as sent to
// the command center at conversation start.
func (r *Registry) Schemas() []types.Schema {
	var schemas []types.Schema
	r.tools.Range(func(_, value any) bool {
		schemas = append(schemas, value.(Tool).Schema())
		return true
	})
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	return schemas
}

// Discover returns up to limit tools whose metadata matches the given
// utterance, most relevant first. Used for diagnostics only; routing
// decisions belong to the command center.
func (r *Registry) Discover(utterance string, limit int) []types.Schema {
	type scored struct {
		schema types.Schema
		score  float64
	}

	lowered := strings.ToLower(utterance)
	var results []scored

	r.tools.Range(func(_, value any) bool {
		schema := value.(Tool).Schema()
		score := relevance(lowered, schema)
		if score > 0 {
			results = append(results, scored{schema: schema, score: score})
		}
		return true
	})

	sort.Slice(results, func(i, j int) bool { return results[i].score > results[j].score })

	out := make([]types.Schema, 0, limit)
	for i := 0; i < len(results) && i < limit; i++ {
		out = append(out, results[i].schema)
	}
	return out
}

func relevance(utterance string, schema types.Schema) float64 {
	score := 0.0
	if strings.Contains(utterance, strings.ReplaceAll(schema.Name, "_", " ")) {
		score += 10.0
	}
	for _, kw := range schema.Keywords {
		if strings.Contains(utterance, strings.ToLower(kw)) {
			score += 5.0
		}
	}
	if strings.Contains(utterance, string(schema.Category)) {
		score += 2.0
	}
	return score
}
