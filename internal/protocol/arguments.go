package protocol

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DecodeArguments parses a tool call's JSON-encoded argument string
// into a parameter map. The command center double-encodes list-typed
// parameters in some code paths, so any string value that is bracketed
// like a list gets a repair pass: re-parse as JSON, then as a loose
// single-quoted literal, and if both fail the original string stands.
// A top-level decode failure degrades to an empty map rather than
// failing the call.
func DecodeArguments(raw string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{}
	}

	for key, value := range args {
		s, ok := value.(string)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(s)
		if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
			continue
		}
		var list []any
		if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
			args[key] = list
			continue
		}
		if list, ok := parseLooseList(trimmed); ok {
			args[key] = list
		}
	}
	return args
}

// parseLooseList parses a flat list literal with single-quoted strings,
// e.g. ['kitchen', 'hallway'] or [1, 2.5, true]. Nested lists are not
// repaired; the caller keeps the original string for those.
func parseLooseList(s string) ([]any, bool) {
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return []any{}, true
	}
	if strings.ContainsAny(inner, "[]") {
		return nil, false
	}

	parts := splitTopLevel(inner)
	list := make([]any, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		list = append(list, parseLooseScalar(part))
	}
	return list, true
}

// splitTopLevel splits on commas that are not inside quotes.
func splitTopLevel(s string) []string {
	var parts []string
	var quote rune
	start := 0
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ',':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func parseLooseScalar(s string) any {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	switch s {
	case "true", "True":
		return true
	case "false", "False":
		return false
	case "null", "None":
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}
