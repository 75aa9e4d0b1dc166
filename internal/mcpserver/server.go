// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the memo to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/memopad/internal/apperr"
	"github.com/starford/memopad/internal/models"
	"github.com/starford/memopad/internal/notice"
)

// Memo is the memo state the tools operate on.
type Memo interface {
	Key() string
	Snapshot() models.Memo
	OnTextChanged(ctx context.Context, text string) error
}

// NoticeSource reports the notice visibility.
type NoticeSource interface {
	State() notice.State
}

// Server wraps the MCP server with memo tools.
type Server struct {
	mcp    *server.MCPServer
	memo   Memo
	notice NoticeSource
}

// New creates a new MCP server with all memo tools registered.
func New(memo Memo, ns NoticeSource, version string) *Server {
	s := &Server{memo: memo, notice: ns}

	s.mcp = server.NewMCPServer(
		"memopad",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("read_memo",
		mcp.WithDescription("Read the full text of the persistent memo."),
	), s.readMemo)

	s.mcp.AddTool(mcp.NewTool("write_memo",
		mcp.WithDescription("Replace the memo text. The new text is persisted immediately. "+
			"An empty string clears the memo."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Complete new memo text")),
	), s.writeMemo)

	s.mcp.AddTool(mcp.NewTool("notice_status",
		mcp.WithDescription("Report whether the \"saved\" notice is currently visible."),
	), s.noticeStatus)

	s.mcp.AddResource(
		mcp.NewResource(s.resourceURI(), "Memo",
			mcp.WithResourceDescription("Current text of the persistent memo."),
			mcp.WithMIMEType("text/plain"),
		),
		s.readMemoResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) resourceURI() string {
	return "memo://" + s.memo.Key()
}

func (s *Server) readMemo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.memo.Snapshot().Text), nil
}

func (s *Server) writeMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	raw, ok := args["text"]
	if !ok {
		return mcp.NewToolResultError("required argument \"text\" not found"), nil
	}
	text, ok := raw.(string)
	if !ok {
		return mcp.NewToolResultError("argument \"text\" must be a string"), nil
	}

	if err := s.memo.OnTextChanged(ctx, text); err != nil {
		switch {
		case errors.Is(err, apperr.ErrTooLarge):
			return mcp.NewToolResultError("memo too large"), nil
		case errors.Is(err, apperr.ErrStorageUnavailable):
			return mcp.NewToolResultError("storage unavailable: " + err.Error()), nil
		default:
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved %d characters", len([]rune(text)))), nil
}

func (s *Server) noticeStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.notice.State().String()), nil
}

func (s *Server) readMemoResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      s.resourceURI(),
			MIMEType: "text/plain",
			Text:     s.memo.Snapshot().Text,
		},
	}, nil
}
