package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hpungsan/hookline/internal/config"
	"github.com/hpungsan/hookline/internal/errors"
	"github.com/hpungsan/hookline/internal/event"
	"github.com/hpungsan/hookline/internal/ops"
	"github.com/hpungsan/hookline/internal/status"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg      *config.Config
	renderer *status.Renderer
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config, renderer *status.Renderer, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{cfg: cfg, renderer: renderer, logger: logger}
}

// AuditListRequest represents the arguments for audit_list.
type AuditListRequest struct {
	Tool   string `json:"tool,omitempty"`
	Action string `json:"action,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// AuditClassifyRequest represents the arguments for audit_classify.
// It mirrors the hook payload so a captured event can be pasted in as is.
type AuditClassifyRequest struct {
	ToolName  string         `json:"tool_name"`
	ToolInput map[string]any `json:"tool_input,omitempty"`
}

// AuditReportRequest represents the arguments for audit_report.
type AuditReportRequest struct {
	Format string `json:"format,omitempty"`
	Recent int    `json:"recent,omitempty"`
}

// StatusRenderRequest represents the arguments for status_render.
type StatusRenderRequest struct {
	ModelName string `json:"model_name,omitempty"`
}

// HandleAuditList handles the audit_list tool call.
func (h *Handlers) HandleAuditList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AuditListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.cfg, ops.ListInput{
		Tool:   input.Tool,
		Action: input.Action,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		h.logger.Debug("audit_list failed", zap.Error(err))
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAuditClassify handles the audit_classify tool call.
func (h *Handlers) HandleAuditClassify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AuditClassifyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ToolName == "" {
		return errorResult(errors.NewInvalidRequest("tool_name is required")), nil
	}

	return successResult(ops.Classify(event.ToolEvent{
		ToolName:  input.ToolName,
		ToolInput: input.ToolInput,
	}))
}

// HandleAuditReport handles the audit_report tool call.
func (h *Handlers) HandleAuditReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AuditReportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Report(h.cfg, ops.ReportInput{
		Format: ops.ReportFormat(input.Format),
		Recent: input.Recent,
	})
	if err != nil {
		h.logger.Debug("audit_report failed", zap.Error(err))
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStatusRender handles the status_render tool call.
func (h *Handlers) HandleStatusRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StatusRenderRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	return successResult(ops.Status(ctx, h.renderer, ops.StatusInput{ModelName: input.ModelName}))
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var hookErr *errors.HookError
	if stderrors.As(err, &hookErr) {
		errorObj := map[string]any{
			"code":    hookErr.Code,
			"message": hookErr.Message,
			"status":  hookErr.Status,
		}
		// Internal errors can carry filesystem detail; keep it out of results.
		if hookErr.Code == errors.ErrInternal {
			errorObj["message"] = "an internal error occurred"
		} else if hookErr.Details != nil {
			errorObj["details"] = hookErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
