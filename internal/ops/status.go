package ops

import (
	"context"

	"github.com/hpungsan/hookline/internal/event"
	"github.com/hpungsan/hookline/internal/gitctx"
	"github.com/hpungsan/hookline/internal/status"
)

// StatusInput contains parameters for the Status operation.
type StatusInput struct {
	ModelName string // optional, default "Claude"
}

// StatusOutput is the rendered statusline plus its structured parts.
type StatusOutput struct {
	Line             string           `json:"line"`
	Deadline         string           `json:"deadline"`
	Tier             string           `json:"tier"`
	Remaining        string           `json:"remaining"`
	SecondsRemaining int              `json:"seconds_remaining"`
	Git              *gitctx.Snapshot `json:"git,omitempty"`
}

// Status renders the statusline the same way the hook does and exposes
// the pieces it was built from. Git and the clock are read once, so the
// line always agrees with the structured fields.
func Status(ctx context.Context, r *status.Renderer, input StatusInput) *StatusOutput {
	frame := r.Capture(ctx, event.StatusInput{Model: event.ModelInfo{DisplayName: input.ModelName}})

	out := &StatusOutput{
		Line:             frame.Line(),
		Deadline:         r.Deadline.String(),
		Tier:             frame.Sample.Tier.String(),
		Remaining:        frame.Sample.Text(),
		SecondsRemaining: frame.Sample.SecondsRemaining,
	}
	if frame.HasGit {
		snap := frame.Git
		out.Git = &snap
	}
	return out
}
