package ops

import (
	"strings"

	"github.com/hpungsan/hookline/internal/audit"
	"github.com/hpungsan/hookline/internal/config"
	"github.com/hpungsan/hookline/internal/errors"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Tool   string // optional, exact match
	Action string // optional: modified|created|executed
	Limit  int    // default: 20, max: 500
	Offset int    // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []audit.Record `json:"items"`
	Pagination Pagination     `json:"pagination"`
	Sort       string         `json:"sort"`
}

// List returns audit rows newest first, optionally filtered.
func List(cfg *config.Config, input ListInput) (*ListOutput, error) {
	if input.Offset < 0 {
		return nil, errors.NewInvalidRequest("offset must be non-negative")
	}
	action := strings.TrimSpace(input.Action)
	if action != "" && !validAction(action) {
		return nil, errors.NewInvalidRequest("action must be one of: modified, created, executed")
	}
	tool := strings.TrimSpace(input.Tool)
	limit := clampLimit(input.Limit, DefaultListLimit, MaxListLimit)

	records, err := audit.ReadAll(cfg.LogPath, cfg.Header)
	if err != nil {
		return nil, err
	}

	matched := make([]audit.Record, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if tool != "" && r.Tool != tool {
			continue
		}
		if action != "" && string(r.Action) != action {
			continue
		}
		matched = append(matched, r)
	}

	total := len(matched)
	start := min(input.Offset, total)
	end := min(start+limit, total)

	return &ListOutput{
		Items: matched[start:end],
		Pagination: Pagination{
			Limit:   limit,
			Offset:  input.Offset,
			HasMore: end < total,
			Total:   total,
		},
		Sort: "timestamp_desc",
	}, nil
}

func validAction(a string) bool {
	switch audit.Action(a) {
	case audit.ActionModified, audit.ActionCreated, audit.ActionExecuted:
		return true
	}
	return false
}
