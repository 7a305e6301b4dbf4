package ops

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hpungsan/hookline/internal/config"
	"github.com/hpungsan/hookline/internal/status"
)

type stubGit struct {
	branch  string
	changes int
}

func (s stubGit) CurrentBranch(context.Context) (string, bool) { return s.branch, s.branch != "" }
func (s stubGit) ChangedPathCount(context.Context) (int, bool) { return s.changes, s.branch != "" }

func renderer(git stubGit, deadline string) *status.Renderer {
	cfg := config.DefaultConfig()
	cfg.Deadline = deadline
	r := status.New(cfg, git, zap.NewNop())
	r.Now = func() time.Time { return time.Date(2026, 7, 1, 14, 0, 0, 0, time.Local) }
	return r
}

func TestStatus_WithGit(t *testing.T) {
	r := renderer(stubGit{branch: "main", changes: 2}, "15:30")

	out := Status(context.Background(), r, StatusInput{ModelName: "Opus"})

	require.Equal(t, "15:30", out.Deadline)
	require.Equal(t, "YELLOW", out.Tier)
	require.Equal(t, "1h 30m", out.Remaining)
	require.Equal(t, 5400, out.SecondsRemaining)
	require.NotNil(t, out.Git)
	require.Equal(t, "main", out.Git.Branch)
	require.Equal(t, 2, out.Git.DirtyCount)
	require.Contains(t, out.Line, "[Opus]")
	require.Contains(t, out.Line, "· main (2)")
}

func TestStatus_NoGitDefaultModel(t *testing.T) {
	r := renderer(stubGit{}, "13:55")

	out := Status(context.Background(), r, StatusInput{})

	require.Nil(t, out.Git)
	require.Equal(t, "OVERTIME", out.Tier)
	require.Equal(t, "OVERTIME +5m", out.Remaining)
	require.Contains(t, out.Line, "[Claude]")
	require.NotContains(t, out.Line, "·")
}

func TestStatus_MalformedDeadlineFallsBack(t *testing.T) {
	r := renderer(stubGit{}, "abc")

	out := Status(context.Background(), r, StatusInput{})
	require.Equal(t, "15:30", out.Deadline)
}

// tickingGit reports a different branch on every read and counts reads.
type tickingGit struct {
	reads int
}

func (g *tickingGit) CurrentBranch(context.Context) (string, bool) {
	g.reads++
	return fmt.Sprintf("b%d", g.reads), true
}

func (g *tickingGit) ChangedPathCount(context.Context) (int, bool) {
	g.reads++
	return g.reads, true
}

func TestStatus_SingleReading(t *testing.T) {
	git := &tickingGit{}
	cfg := config.DefaultConfig()
	cfg.Deadline = "15:30"
	r := status.New(cfg, git, zap.NewNop())

	clock := time.Date(2026, 7, 1, 14, 0, 0, 0, time.Local)
	r.Now = func() time.Time {
		now := clock
		clock = clock.Add(time.Minute)
		return now
	}

	out := Status(context.Background(), r, StatusInput{ModelName: "Opus"})

	require.Equal(t, 2, git.reads, "branch and dirty count read once each")
	require.Equal(t, "1h 30m", out.Remaining)
	require.Contains(t, out.Line, out.Remaining)
	require.NotNil(t, out.Git)
	require.Equal(t, "b1", out.Git.Branch)
	require.Equal(t, 2, out.Git.DirtyCount)
	require.Contains(t, out.Line, "· b1 (2)")
}
