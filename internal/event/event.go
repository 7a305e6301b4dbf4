package event

// Tool names the audit hook recognises. Anything else is ignored.
const (
	ToolEdit      = "Edit"
	ToolMultiEdit = "MultiEdit"
	ToolWrite     = "Write"
	ToolBash      = "Bash"
)

// ToolEvent is the PostToolUse payload the host pipes to the audit hook.
// Only its derived audit row is ever persisted.
type ToolEvent struct {
	// ToolName is the tool the host just ran (e.g. "Edit", "Bash")
	ToolName string `json:"tool_name"`

	// ToolInput holds the tool arguments; its shape depends on ToolName
	ToolInput map[string]any `json:"tool_input,omitempty"`
}

// StringInput returns ToolInput[key] when it is a string, else fallback.
func (e ToolEvent) StringInput(key, fallback string) string {
	v, ok := e.ToolInput[key]
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

// StatusInput is the payload the host pipes to the statusline command.
type StatusInput struct {
	Model ModelInfo `json:"model"`
}

// ModelInfo describes the active model.
type ModelInfo struct {
	DisplayName string `json:"display_name,omitempty"`
}

// DefaultModelName is shown when the host does not name the model.
const DefaultModelName = "Claude"

// ModelName returns the display name, or DefaultModelName when absent.
func (s StatusInput) ModelName() string {
	if s.Model.DisplayName == "" {
		return DefaultModelName
	}
	return s.Model.DisplayName
}
