package types

// Category groups tools for registry listing and discovery.
type Category string

const (
	CategoryUtility     Category = "utility"
	CategorySmartHome   Category = "smart_home"
	CategoryMedia       Category = "media"
	CategoryInformation Category = "information"
	CategoryTimer       Category = "timer"
)

// Parameter describes a single tool parameter as advertised to the
// command center at registration time.
type Parameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	EnumValues  []string `json:"enum_values,omitempty"`
	Required    bool     `json:"required"`
}

// Example pairs an utterance with the parameters it should parse into.
// Examples are sent with the tool schema to ground the command center.
type Example struct {
	Utterance  string         `json:"voice_command"`
	Parameters map[string]any `json:"expected_parameters"`
}

// Schema is the registration-time descriptor for a tool.
type Schema struct {
	Name        string      `json:"command_name"`
	Description string      `json:"description"`
	Category    Category    `json:"-"`
	Keywords    []string    `json:"keywords"`
	Parameters  []Parameter `json:"parameters"`
	Examples    []Example   `json:"examples,omitempty"`
}
