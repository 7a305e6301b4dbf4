package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/hookline/internal/audit"
	"github.com/hpungsan/hookline/internal/config"
	"github.com/hpungsan/hookline/internal/errors"
	"github.com/hpungsan/hookline/internal/event"
	"github.com/hpungsan/hookline/internal/gitctx"
	"github.com/hpungsan/hookline/internal/hook"
	"github.com/hpungsan/hookline/internal/ops"
	"github.com/hpungsan/hookline/internal/status"
)

// env carries what commands share. Zero-valued fields fall back to the
// real implementation, so tests only set what they fake.
type env struct {
	cfg    *config.Config
	git    gitctx.Reader
	now    func() time.Time
	logger *zap.Logger
}

// log returns the diagnostic logger, or a no-op before Before has run.
func (e *env) log() *zap.Logger {
	if e.logger == nil {
		return zap.NewNop()
	}
	return e.logger
}

func (e *env) renderer() *status.Renderer {
	git := e.git
	if git == nil {
		git = gitctx.NewExecReader("")
	}
	r := status.New(e.cfg, git, e.log())
	if e.now != nil {
		r.Now = e.now
	}
	return r
}

func (e *env) auditLogger() *audit.Logger {
	l := audit.NewLogger(e.cfg)
	if e.now != nil {
		l.Now = e.now
	}
	return l
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(e *env) *cli.App {
	app := &cli.App{
		Name:    "hookline",
		Usage:   "Audit log and statusline hooks for coding agents",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Write debug diagnostics to stderr"},
		},
		Before: func(c *cli.Context) error {
			if e.logger == nil {
				e.logger = hook.NewLogger(c.App.ErrWriter, c.Bool("verbose"))
			}
			return nil
		},
		Commands: []*cli.Command{
			logCmd(e),
			statuslineCmd(e),
			classifyCmd(),
			auditCmd(e),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// hookCommand builds a hook command. Flags it does not know are logged at
// debug level and ignored; the action still runs and the exit status stays 0.
func hookCommand(e *env, name, usage string, action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Write debug diagnostics to stderr"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				e.logger = hook.NewLogger(c.App.ErrWriter, true)
			}
			return nil
		},
		OnUsageError: func(c *cli.Context, err error, _ bool) error {
			e.log().Debug("ignoring hook arguments", zap.String("hook", name), zap.Error(err))
			return action(c)
		},
		Action: action,
	}
}

// logCmd creates the log command, the PostToolUse hook. It never fails:
// anything that goes wrong is logged and the exit status stays 0.
func logCmd(e *env) *cli.Command {
	return hookCommand(e, "log", "Record a tool event read from stdin (PostToolUse hook)",
		func(c *cli.Context) error {
			_ = hook.Run(e.log(), "log", func() error {
				ev, err := event.DecodeToolEvent(c.App.Reader)
				if err != nil {
					return err
				}
				out, err := ops.LogChange(e.auditLogger(), ev)
				if err != nil {
					return err
				}
				e.log().Debug("tool event handled",
					zap.String("tool", ev.ToolName),
					zap.Bool("logged", out.Logged),
					zap.String("reason", out.Reason),
				)
				return nil
			})
			return nil
		})
}

// statuslineCmd creates the statusline command. It always prints exactly
// one line and exits 0.
func statuslineCmd(e *env) *cli.Command {
	return hookCommand(e, "statusline", "Print the statusline for the JSON payload on stdin",
		func(c *cli.Context) error {
			var line string
			err := hook.Run(e.log(), "statusline", func() error {
				line = e.renderer().Safe(c.Context, c.App.Reader)
				return nil
			})
			if line == "" {
				line = status.Fallback(err)
			}
			fmt.Fprintln(c.App.Writer, line)
			return nil
		})
}

// classifyCmd creates the classify command.
func classifyCmd() *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "Show whether the tool event on stdin would be logged, without writing",
		Action: func(c *cli.Context) error {
			ev, err := event.DecodeToolEvent(c.App.Reader)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, ops.Classify(ev))
		},
	}
}

// auditCmd groups the commands that read the audit log back.
func auditCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Inspect the audit log",
		Subcommands: []*cli.Command{
			auditListCmd(e),
			auditReportCmd(e),
		},
	}
}

// auditListCmd creates the audit list command.
func auditListCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List logged changes, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tool", Aliases: []string{"t"}, Usage: "Filter by tool (Edit, MultiEdit, Write, Bash)"},
			&cli.StringFlag{Name: "action", Aliases: []string{"a"}, Usage: "Filter by action: modified|created|executed"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max results"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Pagination offset"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(e.cfg, ops.ListInput{
				Tool:   c.String("tool"),
				Action: c.String("action"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// auditReportCmd creates the audit report command.
func auditReportCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Summarise the audit log as markdown (or HTML)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "html", Usage: "Render HTML instead of markdown"},
			&cli.IntFlag{Name: "recent", Aliases: []string{"n"}, Value: ops.DefaultRecent, Usage: "Rows in the recent-changes table"},
			&cli.StringFlag{Name: "out", Usage: "Write the report to this .md/.html file instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			format := ops.ReportMarkdown
			if c.Bool("html") {
				format = ops.ReportHTML
			}
			report, err := ops.Report(e.cfg, ops.ReportInput{Format: format, Recent: c.Int("recent")})
			if err != nil {
				return outputError(err)
			}

			if path := c.String("out"); path != "" {
				written, err := ops.WriteReport(path, report)
				if err != nil {
					return outputError(err)
				}
				return outputJSON(c.App.Writer, written)
			}
			_, err = io.WriteString(c.App.Writer, report.Body)
			return err
		},
	}
}

// Output helpers

// outputJSON writes JSON to w.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var hookErr *errors.HookError
	if stderrors.As(err, &hookErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", hookErr.Code, hookErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
