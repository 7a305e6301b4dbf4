package status

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/hookline/internal/config"
	"github.com/hpungsan/hookline/internal/errors"
	"github.com/hpungsan/hookline/internal/event"
	"github.com/hpungsan/hookline/internal/gitctx"
	"github.com/hpungsan/hookline/internal/text"
	"github.com/hpungsan/hookline/internal/urgency"
)

// Separator joins statusline segments.
const Separator = " \033[90m|\033[0m "

// maxErrorChars bounds the error text shown in the fallback line.
const maxErrorChars = 30

const (
	colorModel = "\033[94m"
	colorError = "\033[31m"
	reset      = "\033[0m"
)

// Renderer composes the statusline from the host payload, git state and
// the deadline clock.
type Renderer struct {
	Git      gitctx.Reader
	Deadline urgency.Deadline

	// Now defaults to time.Now.
	Now func() time.Time

	Logger *zap.Logger
}

// New builds a Renderer from cfg. The deadline is resolved here, once;
// malformed values silently become the default.
func New(cfg *config.Config, git gitctx.Reader, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	deadline := urgency.Resolve(cfg.Deadline, cfg.DefaultDeadline)
	if _, ok := urgency.ParseDeadline(cfg.Deadline); !ok {
		logger.Debug("malformed deadline, using default",
			zap.String("value", cfg.Deadline),
			zap.Stringer("deadline", deadline),
		)
	}
	return &Renderer{
		Git:      git,
		Deadline: deadline,
		Now:      time.Now,
		Logger:   logger,
	}
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Sample returns the current urgency sample.
func (r *Renderer) Sample() urgency.Sample {
	return urgency.At(r.now(), r.Deadline)
}

// Frame holds one reading of everything a statusline is built from.
type Frame struct {
	Model  string
	Git    gitctx.Snapshot
	HasGit bool
	Sample urgency.Sample
}

// Capture reads git and the clock once for in.
func (r *Renderer) Capture(ctx context.Context, in event.StatusInput) Frame {
	snap, ok := gitctx.Take(ctx, r.Git)
	return Frame{
		Model:  in.ModelName(),
		Git:    snap,
		HasGit: ok,
		Sample: r.Sample(),
	}
}

// Line renders f. The git segment is omitted when no snapshot was taken;
// the model and urgency segments are always present.
func (f Frame) Line() string {
	parts := []string{ModelSegment(f.Model)}
	if f.HasGit {
		parts = append(parts, f.Git.Render())
	}
	parts = append(parts, f.Sample.Render())
	return strings.Join(parts, Separator)
}

// Render builds the statusline for in.
func (r *Renderer) Render(ctx context.Context, in event.StatusInput) string {
	return r.Capture(ctx, in).Line()
}

// Safe decodes the payload from stdin and renders it. It never fails:
// decode errors and panics produce Fallback instead.
func (r *Renderer) Safe(ctx context.Context, stdin io.Reader) (line string) {
	defer func() {
		if p := recover(); p != nil {
			r.logger().Error("statusline panic", zap.Any("panic", p))
			line = Fallback(fmt.Errorf("%v", p))
		}
	}()

	in, err := event.DecodeStatusInput(stdin)
	if err != nil {
		r.logger().Debug("statusline payload rejected", zap.Error(err))
		return Fallback(err)
	}
	return r.Render(ctx, in)
}

func (r *Renderer) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// ModelSegment renders the bracketed model name.
func ModelSegment(name string) string {
	return colorModel + "[" + name + "]" + reset
}

// Fallback is the line printed when rendering cannot proceed: the default
// model segment plus the first 30 characters of the error.
func Fallback(err error) string {
	msg := "unknown error"
	if err != nil {
		msg = text.OneLine(describe(err))
	}
	return ModelSegment(event.DefaultModelName) + " " +
		colorError + "[Error: " + text.Truncate(msg, maxErrorChars) + "]" + reset
}

// describe prefers the underlying cause of a HookError, which is what a
// user can act on (e.g. "unexpected EOF"), over the coded wrapper.
func describe(err error) string {
	var hErr *errors.HookError
	if stderrors.As(err, &hErr) && hErr.Unwrap() != nil {
		return hErr.Unwrap().Error()
	}
	return err.Error()
}
