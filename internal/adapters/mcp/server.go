package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/secureai/docshield-console/internal/core/ports"
	"github.com/secureai/docshield-console/internal/core/state"
	"github.com/secureai/docshield-console/internal/view"
)

// Server exposes the console's transform/ask/workspace surface as MCP
// tools over stdio, so agent hosts can drive the same session a browser
// user would.
type Server struct {
	mcpServer *server.MCPServer

	transformer ports.Transformer
	asker       ports.Asker
	workspace   *state.Workspace
	view        *view.CategoryView
}

func NewServer(
	name, version string,
	transformer ports.Transformer,
	asker ports.Asker,
	workspace *state.Workspace,
	categoryView *view.CategoryView,
) *Server {
	s := &Server{
		mcpServer:   server.NewMCPServer(name, version, server.WithToolCapabilities(false)),
		transformer: transformer,
		asker:       asker,
		workspace:   workspace,
		view:        categoryView,
	}
	s.registerTransformTool()
	s.registerAskTool()
	s.registerWorkspaceTool()
	return s
}

// ServeStdio blocks serving the stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTransformTool() {
	tool := mcp.NewTool("docshield_transform",
		mcp.WithDescription("Upload raw text for masking and classification; returns the committed document."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Document text to mask and classify"),
		),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		doc, err := s.transformer.Transform(ctx, ports.TransformInput{Text: text})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("transform failed: %v", err)), nil
		}
		return jsonResult(map[string]any{
			"document": doc,
			"state":    s.transformer.State(),
		})
	})
}

func (s *Server) registerAskTool() {
	tool := mcp.NewTool("docshield_ask",
		mcp.WithDescription("Ask a question against the selected documents; returns the answer transcript entry."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Question to ask"),
		),
		mcp.WithString("document_id",
			mcp.Description("Optional document id to select before asking"),
		),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if docID := req.GetString("document_id", ""); docID != "" {
			if _, ok := s.workspace.Document(docID); !ok {
				return mcp.NewToolResultError(fmt.Sprintf("unknown document id %q", docID)), nil
			}
			s.workspace.ToggleSelection(docID, true)
		}

		entry, err := s.asker.Ask(ctx, question)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("ask failed: %v", err)), nil
		}
		return jsonResult(map[string]any{
			"entry":   entry,
			"summary": view.SummarizeMetrics(entry.Metrics),
		})
	})
}

func (s *Server) registerWorkspaceTool() {
	tool := mcp.NewTool("docshield_workspace",
		mcp.WithDescription("Current category accordion state: sections, documents, selection."),
	)

	s.mcpServer.AddTool(tool, func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(s.view.Render())
	})
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
