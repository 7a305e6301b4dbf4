package mcp

import "github.com/mark3labs/mcp-go/mcp"

var auditListToolDef = mcp.NewTool("audit_list",
	mcp.WithDescription("List audit log rows newest first. Rows record Edit/MultiEdit/Write calls and mutating Bash commands."),
	mcp.WithString("tool", mcp.Description("Only rows for this tool (Edit, MultiEdit, Write, Bash)")),
	mcp.WithString("action",
		mcp.Description("Only rows with this action"),
		mcp.Enum("modified", "created", "executed"),
	),
	mcp.WithNumber("limit", mcp.Description("Max rows to return (default 20, max 500)")),
	mcp.WithNumber("offset", mcp.Description("Rows to skip (default 0)")),
)

var auditClassifyToolDef = mcp.NewTool("audit_classify",
	mcp.WithDescription("Report whether a tool event would be written to the audit log, and why. Nothing is written."),
	mcp.WithString("tool_name",
		mcp.Required(),
		mcp.Description("Tool that ran, e.g. Edit or Bash"),
	),
	mcp.WithObject("tool_input", mcp.Description("The tool's input object, e.g. {\"command\": \"git status\"}")),
)

var auditReportToolDef = mcp.NewTool("audit_report",
	mcp.WithDescription("Summarise the audit log as a review document."),
	mcp.WithString("format",
		mcp.Description("Output format (default markdown)"),
		mcp.Enum("markdown", "html"),
	),
	mcp.WithNumber("recent", mcp.Description("Rows in the recent-changes table (default 20)")),
)

var statusRenderToolDef = mcp.NewTool("status_render",
	mcp.WithDescription("Render the statusline (model, git branch, deadline countdown) with its structured parts."),
	mcp.WithString("model_name", mcp.Description("Model display name (default Claude)")),
)
