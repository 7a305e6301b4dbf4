package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/hpungsan/hookline/internal/config"
	"github.com/hpungsan/hookline/internal/status"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"audit_list": {
		def:     auditListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAuditList },
	},
	"audit_classify": {
		def:     auditClassifyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAuditClassify },
	},
	"audit_report": {
		def:     auditReportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAuditReport },
	},
	"status_render": {
		def:     statusRenderToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatusRender },
	},
}

// toolNames returns the registered tool names, sorted.
func toolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewServer creates an MCP server with every hookline tool registered.
func NewServer(cfg *config.Config, renderer *status.Renderer, logger *zap.Logger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"hookline",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	if logger == nil {
		logger = zap.NewNop()
	}

	h := NewHandlers(cfg, renderer, logger)
	names := toolNames()
	for _, name := range names {
		entry := toolRegistry[name]
		s.AddTool(entry.def, entry.handler(h))
	}
	logger.Debug("mcp tools registered", zap.Strings("tools", names))
	return s
}

// Run starts the MCP server using stdio transport.
func Run(cfg *config.Config, renderer *status.Renderer, logger *zap.Logger, version string) error {
	s := NewServer(cfg, renderer, logger, version)
	return server.ServeStdio(s)
}
