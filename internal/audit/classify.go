package audit

import (
	"strings"

	"github.com/hpungsan/hookline/internal/event"
	"github.com/hpungsan/hookline/internal/text"
)

// readOnlyPrefixes are shell command prefixes treated as inspection only.
// Matching is a plain case-sensitive prefix test with no shell parsing, so a
// chained command such as "ls && rm -rf x" is still classified read-only.
var readOnlyPrefixes = []string{
	"cat", "head", "tail", "less", "more",
	"ls", "dir", "tree", "pwd", "which", "where", "whereis",
	"echo", "printf",
	"grep", "rg", "find", "fd", "ag",
	"git status", "git log", "git diff", "git show", "git branch",
	"git remote", "git stash list", "git tag",
	"node -e", "python -c", "ruby -e",
	"type", "file", "wc", "du", "df",
}

// ReadOnlyPrefixes returns a copy of the read-only allow-list, in match order.
func ReadOnlyPrefixes() []string {
	out := make([]string, len(readOnlyPrefixes))
	copy(out, readOnlyPrefixes)
	return out
}

// IsReadOnly reports whether command starts with a read-only prefix once
// surrounding whitespace is stripped.
func IsReadOnly(command string) bool {
	cmd := strings.TrimSpace(command)
	for _, prefix := range readOnlyPrefixes {
		if strings.HasPrefix(cmd, prefix) {
			return true
		}
	}
	return false
}

// Classify decides whether ev should be recorded and what the row says.
// The second return value is false when the event is noise.
func Classify(ev event.ToolEvent) (Entry, bool) {
	switch ev.ToolName {
	case event.ToolEdit, event.ToolMultiEdit:
		return Entry{
			Tool:     ev.ToolName,
			FilePath: ev.StringInput("file_path", UnknownPath),
			Action:   ActionModified,
		}, true

	case event.ToolWrite:
		return Entry{
			Tool:     ev.ToolName,
			FilePath: ev.StringInput("file_path", UnknownPath),
			Action:   ActionCreated,
		}, true

	case event.ToolBash:
		command := ev.StringInput("command", "")
		if command == "" || IsReadOnly(command) {
			return Entry{}, false
		}
		return Entry{
			Tool:     ev.ToolName,
			FilePath: NoPath,
			Action:   ActionExecuted,
			Details:  text.Truncate(command, MaxDetailsChars),
		}, true
	}

	return Entry{}, false
}
