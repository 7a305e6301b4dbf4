package audit

// Action is the closed set of things an audit row can say happened.
type Action string

const (
	ActionModified Action = "modified"
	ActionCreated  Action = "created"
	ActionExecuted Action = "executed"
)

// Sentinel file_path values.
const (
	// UnknownPath is recorded when a file tool omits file_path.
	UnknownPath = "unknown"

	// NoPath is recorded for shell commands, which have no single target file.
	NoPath = "-"
)

// MaxDetailsChars is the hard cap on the details column, in characters.
const MaxDetailsChars = 200

// TimestampLayout is the local wall-clock format of the timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// Entry is what the classifier decided to record for one tool event.
type Entry struct {
	Tool     string `json:"tool"`
	FilePath string `json:"file_path"`
	Action   Action `json:"action"`
	Details  string `json:"details"`
}

// Record is one row of the audit log.
type Record struct {
	Timestamp string `json:"timestamp"`
	Tool      string `json:"tool"`
	FilePath  string `json:"file_path"`
	Action    Action `json:"action"`
	Details   string `json:"details"`
}

// row returns the record as CSV fields in header order.
func (r Record) row() []string {
	return []string{r.Timestamp, r.Tool, r.FilePath, string(r.Action), r.Details}
}
