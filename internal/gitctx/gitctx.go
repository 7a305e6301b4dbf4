package gitctx

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Reader is the version-control capability the statusline needs.
// Both methods report false on any failure instead of returning an error.
type Reader interface {
	CurrentBranch(ctx context.Context) (string, bool)
	ChangedPathCount(ctx context.Context) (int, bool)
}

// Runner executes git with args in dir and returns its stdout.
type Runner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// ExecRunner runs the git binary found on PATH. Stderr is discarded.
func ExecRunner(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// ExecReader implements Reader by shelling out to git.
type ExecReader struct {
	// Dir is the working directory for git; empty means the current one.
	Dir string

	// Run defaults to ExecRunner.
	Run Runner
}

// NewExecReader returns a Reader for dir backed by the git binary.
func NewExecReader(dir string) *ExecReader {
	return &ExecReader{Dir: dir, Run: ExecRunner}
}

func (r *ExecReader) run(ctx context.Context, args ...string) ([]byte, error) {
	run := r.Run
	if run == nil {
		run = ExecRunner
	}
	return run(ctx, r.Dir, args...)
}

// inRepo reports whether Dir is inside a git repository.
func (r *ExecReader) inRepo(ctx context.Context) bool {
	_, err := r.run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// CurrentBranch returns the checked-out branch name. Detached HEAD yields
// an empty name, which is reported as absent.
func (r *ExecReader) CurrentBranch(ctx context.Context) (string, bool) {
	if !r.inRepo(ctx) {
		return "", false
	}
	out, err := r.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", false
	}
	branch := strings.TrimSpace(string(out))
	if branch == "" {
		return "", false
	}
	return branch, true
}

// ChangedPathCount counts lines of `git status --porcelain`.
func (r *ExecReader) ChangedPathCount(ctx context.Context) (int, bool) {
	out, err := r.run(ctx, "status", "--porcelain")
	if err != nil {
		return 0, false
	}
	return countLines(out), true
}

// countLines counts newline-terminated (or trailing unterminated) lines.
func countLines(out []byte) int {
	if len(out) == 0 {
		return 0
	}
	n := bytes.Count(out, []byte{'\n'})
	if out[len(out)-1] != '\n' {
		n++
	}
	return n
}

// Snapshot is a point-in-time read of branch and working-tree dirtiness.
type Snapshot struct {
	Branch     string `json:"branch"`
	DirtyCount int    `json:"dirty_count"`
}

// Take reads a Snapshot through r. The second return is false when there is
// no repository, no named branch, or any git call fails.
func Take(ctx context.Context, r Reader) (Snapshot, bool) {
	if r == nil {
		return Snapshot{}, false
	}
	branch, ok := r.CurrentBranch(ctx)
	if !ok || branch == "" {
		return Snapshot{}, false
	}
	count, ok := r.ChangedPathCount(ctx)
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{Branch: branch, DirtyCount: count}, true
}

const (
	colorDirty = "\033[31m"
	colorClean = "\033[32m"
	reset      = "\033[0m"
)

// Render formats the snapshot: green "· main" when clean, red "· main (3)"
// when there are changed paths.
func (s Snapshot) Render() string {
	if s.DirtyCount > 0 {
		return colorDirty + "· " + s.Branch + " (" + strconv.Itoa(s.DirtyCount) + ")" + reset
	}
	return colorClean + "· " + s.Branch + reset
}
