package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hpungsan/hookline/internal/audit"
	"github.com/hpungsan/hookline/internal/config"
	"github.com/hpungsan/hookline/internal/errors"
	"github.com/hpungsan/hookline/internal/status"
)

type stubGit struct{ branch string }

func (s stubGit) CurrentBranch(context.Context) (string, bool) { return s.branch, s.branch != "" }
func (s stubGit) ChangedPathCount(context.Context) (int, bool) { return 0, s.branch != "" }

// testSetup creates a config pointing at a temp log and handlers over it.
func testSetup(t *testing.T) (*config.Config, *Handlers) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.LogPath = filepath.Join(t.TempDir(), ".claude", "critical_log_changes.csv")

	renderer := newTestRenderer(cfg)
	return cfg, NewHandlers(cfg, renderer, zap.NewNop())
}

// seedLog appends entries through the real logger.
func seedLog(t *testing.T, cfg *config.Config, entries ...audit.Entry) {
	t.Helper()
	logger := audit.NewLogger(cfg)
	for _, e := range entries {
		if _, err := logger.Append(e); err != nil {
			t.Fatalf("seed append failed: %v", err)
		}
	}
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestHandleAuditList(t *testing.T) {
	cfg, h := testSetup(t)
	ctx := context.Background()

	seedLog(t, cfg,
		audit.Entry{Tool: "Edit", FilePath: "a.go", Action: audit.ActionModified},
		audit.Entry{Tool: "Write", FilePath: "b.go", Action: audit.ActionCreated},
		audit.Entry{Tool: "Bash", FilePath: audit.NoPath, Action: audit.ActionExecuted, Details: "make"},
	)

	t.Run("pagination metadata correct", func(t *testing.T) {
		result, err := h.HandleAuditList(ctx, makeRequest(map[string]any{"limit": 1}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		output := parseOutput(t, result)
		pagination := output["pagination"].(map[string]any)

		if int(pagination["limit"].(float64)) != 1 {
			t.Errorf("pagination.limit = %v, want 1", pagination["limit"])
		}
		if pagination["has_more"] != true {
			t.Errorf("pagination.has_more = %v, want true", pagination["has_more"])
		}
		if int(pagination["total"].(float64)) != 3 {
			t.Errorf("pagination.total = %v, want 3", pagination["total"])
		}
		items := output["items"].([]any)
		if len(items) != 1 {
			t.Fatalf("len(items) = %d, want 1", len(items))
		}
		if tool := items[0].(map[string]any)["tool"]; tool != "Bash" {
			t.Errorf("items[0].tool = %v, want Bash (newest first)", tool)
		}
	})

	t.Run("filter by action", func(t *testing.T) {
		result, err := h.HandleAuditList(ctx, makeRequest(map[string]any{"action": "created"}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		items := parseOutput(t, result)["items"].([]any)
		if len(items) != 1 {
			t.Fatalf("len(items) = %d, want 1", len(items))
		}
		if fp := items[0].(map[string]any)["file_path"]; fp != "b.go" {
			t.Errorf("file_path = %v, want b.go", fp)
		}
	})

	t.Run("invalid action", func(t *testing.T) {
		result, _ := h.HandleAuditList(ctx, makeRequest(map[string]any{"action": "deleted"}))
		assertErrorCode(t, result, string(errors.ErrInvalidRequest))
	})

	t.Run("unknown argument", func(t *testing.T) {
		result, _ := h.HandleAuditList(ctx, makeRequest(map[string]any{"tools": "Edit"}))
		assertErrorCode(t, result, string(errors.ErrInvalidRequest))
	})

	t.Run("wrong argument type", func(t *testing.T) {
		result, _ := h.HandleAuditList(ctx, makeRequest(map[string]any{"limit": "ten"}))
		assertErrorCode(t, result, string(errors.ErrInvalidRequest))
	})
}

func TestHandleAuditList_NoArguments(t *testing.T) {
	_, h := testSetup(t)

	result, err := h.HandleAuditList(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	if items := output["items"].([]any); len(items) != 0 {
		t.Errorf("len(items) = %d, want 0 for missing log", len(items))
	}
}

func TestHandleAuditClassify(t *testing.T) {
	cfg, h := testSetup(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		args   map[string]any
		log    bool
		reason string
	}{
		{"git status skipped", map[string]any{"tool_name": "Bash", "tool_input": map[string]any{"command": "git status"}}, false, "read_only_command"},
		{"git commit logged", map[string]any{"tool_name": "Bash", "tool_input": map[string]any{"command": "git commit -m x"}}, true, "mutation"},
		{"write logged", map[string]any{"tool_name": "Write", "tool_input": map[string]any{"file_path": "x.go"}}, true, "mutation"},
		{"read ignored", map[string]any{"tool_name": "Read"}, false, "ignored_tool"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := h.HandleAuditClassify(ctx, makeRequest(tc.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			output := parseOutput(t, result)
			if output["log"] != tc.log {
				t.Errorf("log = %v, want %v", output["log"], tc.log)
			}
			if output["reason"] != tc.reason {
				t.Errorf("reason = %v, want %v", output["reason"], tc.reason)
			}
		})
	}

	// Classification never writes.
	rows, err := audit.ReadAll(cfg.LogPath, cfg.Header)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("log has %d rows after classify, want 0", len(rows))
	}

	t.Run("missing tool_name", func(t *testing.T) {
		result, _ := h.HandleAuditClassify(ctx, makeRequest(map[string]any{}))
		assertErrorCode(t, result, string(errors.ErrInvalidRequest))
	})
}

func TestHandleAuditReport(t *testing.T) {
	cfg, h := testSetup(t)
	ctx := context.Background()
	seedLog(t, cfg,
		audit.Entry{Tool: "Edit", FilePath: "a.go", Action: audit.ActionModified},
		audit.Entry{Tool: "Edit", FilePath: "b.go", Action: audit.ActionModified},
	)

	result, err := h.HandleAuditReport(ctx, makeRequest(map[string]any{"format": "html"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	if output["format"] != "html" {
		t.Errorf("format = %v, want html", output["format"])
	}
	if body := output["body"].(string); !strings.Contains(body, "<table>") {
		t.Errorf("body missing table: %s", body)
	}
	summary := output["summary"].(map[string]any)
	if int(summary["total"].(float64)) != 2 {
		t.Errorf("summary.total = %v, want 2", summary["total"])
	}

	result, _ = h.HandleAuditReport(ctx, makeRequest(map[string]any{"format": "pdf"}))
	assertErrorCode(t, result, string(errors.ErrInvalidRequest))
}

func TestHandleStatusRender(t *testing.T) {
	_, h := testSetup(t)

	result, err := h.HandleStatusRender(context.Background(), makeRequest(map[string]any{"model_name": "Sonnet"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)

	line := output["line"].(string)
	if !strings.Contains(line, "[Sonnet]") {
		t.Errorf("line = %q, want model segment", line)
	}
	if !strings.Contains(line, "· main") {
		t.Errorf("line = %q, want git segment", line)
	}
	if output["tier"] != "GREEN" {
		t.Errorf("tier = %v, want GREEN", output["tier"])
	}
	if output["remaining"] != "2h 5m" {
		t.Errorf("remaining = %v, want 2h 5m", output["remaining"])
	}
	git := output["git"].(map[string]any)
	if git["branch"] != "main" {
		t.Errorf("git.branch = %v, want main", git["branch"])
	}
}

func TestServerRegistration(t *testing.T) {
	cfg := config.DefaultConfig()

	s := NewServer(cfg, newTestRenderer(cfg), zap.NewNop(), "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{"audit_list", "audit_classify", "audit_report", "status_render"}
	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}
	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestToolNames(t *testing.T) {
	names := toolNames()
	want := []string{"audit_classify", "audit_list", "audit_report", "status_render"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("toolNames() = %v, want %v", names, want)
	}
}

func TestNewServer_LogsRegisteredTools(t *testing.T) {
	cfg := config.DefaultConfig()
	core, logs := observer.New(zapcore.DebugLevel)

	NewServer(cfg, newTestRenderer(cfg), zap.New(core), "test")

	entries := logs.FilterMessage("mcp tools registered").All()
	if len(entries) != 1 {
		t.Fatalf("got %d registration entries, want 1", len(entries))
	}
	got, ok := entries[0].ContextMap()["tools"].([]interface{})
	if !ok {
		t.Fatalf("tools field = %T, want list", entries[0].ContextMap()["tools"])
	}
	if len(got) != len(toolRegistry) || got[0] != "audit_classify" {
		t.Errorf("logged tools = %v", got)
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("rename /home/me/.claude/report.md: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	errObj := parseError(t, r)
	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if strings.Contains(errObj["message"].(string), "/home/me") {
		t.Errorf("message leaks path: %v", errObj["message"])
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
}

func TestErrorResult_WrappedErrorKeepsCode(t *testing.T) {
	wrapped := fmt.Errorf("listing: %w", errors.NewLogRead("x.csv", fmt.Errorf("bad row")))

	errObj := parseError(t, errorResult(wrapped))
	if errObj["code"] != string(errors.ErrLogRead) {
		t.Errorf("code=%v, want %v", errObj["code"], errors.ErrLogRead)
	}
	details := errObj["details"].(map[string]any)
	if details["path"] != "x.csv" {
		t.Errorf("details.path = %v, want x.csv", details["path"])
	}
}

func TestErrorResult_PlainError(t *testing.T) {
	errObj := parseError(t, errorResult(fmt.Errorf("boom")))
	if errObj["code"] != string(errors.ErrInternal) {
		t.Errorf("code=%v, want INTERNAL", errObj["code"])
	}
	if errObj["message"] != "an internal error occurred" {
		t.Errorf("message=%v", errObj["message"])
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

// parseError extracts the error object from an error result.
func parseError(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	return payload["error"].(map[string]any)
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()
	if result == nil || !result.IsError {
		t.Fatalf("expected error result with code %s", expectedCode)
	}
	if code := parseError(t, result)["code"]; code != expectedCode {
		t.Errorf("error code = %v, want %s", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}
	if tc, ok := result.Content[0].(mcp.TextContent); ok {
		return tc.Text
	}
	return "<non-text content>"
}

// fixedClock is 13:25 local, 125 minutes before the default deadline.
func fixedClock() time.Time {
	return time.Date(2026, 7, 1, 13, 25, 0, 0, time.Local)
}

func newTestRenderer(cfg *config.Config) *status.Renderer {
	r := status.New(cfg, stubGit{branch: "main"}, zap.NewNop())
	r.Now = fixedClock
	return r
}
