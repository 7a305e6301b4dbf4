package ops

import (
	"github.com/hpungsan/hookline/internal/audit"
	"github.com/hpungsan/hookline/internal/event"
)

// Appender persists one classified entry. *audit.Logger implements it.
type Appender interface {
	Append(e audit.Entry) (audit.Record, error)
}

// ClassifyOutput explains what the audit hook would do with an event.
type ClassifyOutput struct {
	Log    bool         `json:"log"`
	Reason string       `json:"reason"`
	Entry  *audit.Entry `json:"entry,omitempty"`
}

// LogOutput is the result of LogChange.
type LogOutput struct {
	Logged bool          `json:"logged"`
	Reason string        `json:"reason"`
	Record *audit.Record `json:"record,omitempty"`
}

// Skip reasons.
const (
	ReasonMutation     = "mutation"
	ReasonReadOnly     = "read_only_command"
	ReasonEmptyCommand = "empty_command"
	ReasonIgnoredTool  = "ignored_tool"
)

// Classify reports whether ev would be logged, and why, without writing.
func Classify(ev event.ToolEvent) *ClassifyOutput {
	entry, ok := audit.Classify(ev)
	if ok {
		return &ClassifyOutput{Log: true, Reason: ReasonMutation, Entry: &entry}
	}
	return &ClassifyOutput{Reason: skipReason(ev)}
}

// skipReason names why Classify rejected ev.
func skipReason(ev event.ToolEvent) string {
	if ev.ToolName != event.ToolBash {
		return ReasonIgnoredTool
	}
	if ev.StringInput("command", "") == "" {
		return ReasonEmptyCommand
	}
	return ReasonReadOnly
}

// LogChange classifies ev and, if it is a mutation, appends it.
// Append failures are returned; callers at the hook boundary swallow them.
func LogChange(appender Appender, ev event.ToolEvent) (*LogOutput, error) {
	c := Classify(ev)
	if !c.Log {
		return &LogOutput{Reason: c.Reason}, nil
	}
	rec, err := appender.Append(*c.Entry)
	if err != nil {
		return nil, err
	}
	return &LogOutput{Logged: true, Reason: c.Reason, Record: &rec}, nil
}
