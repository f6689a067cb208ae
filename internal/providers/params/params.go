// Package params coerces the generic parameter maps handed to tools
// into typed values. Tools validate their inputs at entry instead of
// trusting the duck-typed bag from the wire.
package params

import (
	"fmt"
	"strconv"
)

// String returns a required string parameter.
func String(p map[string]any, name string) (string, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required parameter %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string", name)
	}
	return s, nil
}

// OptionalString returns a string parameter or the fallback.
func OptionalString(p map[string]any, name, fallback string) string {
	if s, ok := p[name].(string); ok {
		return s
	}
	return fallback
}

// Float returns a required numeric parameter. JSON numbers arrive as
// float64; numeric strings from the LLM are tolerated.
func Float(p map[string]any, name string) (float64, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing required parameter %q", name)
	}
	return toFloat(v, name)
}

// OptionalFloat returns a numeric parameter or the fallback.
func OptionalFloat(p map[string]any, name string, fallback float64) (float64, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return fallback, nil
	}
	return toFloat(v, name)
}

// Int returns a required integer parameter.
func Int(p map[string]any, name string) (int, error) {
	f, err := Float(p, name)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// FloatSlice returns a required list of numbers.
func FloatSlice(p map[string]any, name string) ([]float64, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return nil, fmt.Errorf("missing required parameter %q", name)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("parameter %q must be a list of numbers", name)
	}
	out := make([]float64, 0, len(list))
	for i, item := range list {
		f, err := toFloat(item, fmt.Sprintf("%s[%d]", name, i))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func toFloat(v any, name string) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("parameter %q must be a number", name)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("parameter %q must be a number", name)
	}
}
