// Package mcp serves the tool registry over the Model Context Protocol.
//
// Protocol handling (handshake, tools/list, tools/call, resources/list,
// ping) is delegated to mark3labs/mcp-go. This package adds the stdio line
// loop, advertises the tool map under capabilities.experimental, and answers
// tools/call for unregistered names with an isError result instead of a
// JSON-RPC error so every front-end reports unknown tools the same way.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	gomcp "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"memomcp/internal/logging"
	"memomcp/internal/tools"
)

// Options identifies the server during the handshake.
type Options struct {
	Name    string
	Version string
}

// Server exposes a tool registry over MCP.
type Server struct {
	registry *tools.Registry
	mcp      *server.MCPServer
	toolMap  map[string]tools.Definition
}

// NewServer registers every tool of reg with a new MCP server.
func NewServer(reg *tools.Registry, opts Options) (*Server, error) {
	if opts.Name == "" {
		opts.Name = "memomcp"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	s := &Server{
		registry: reg,
		toolMap:  make(map[string]tools.Definition, reg.Count()),
	}

	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(s.advertiseTools)

	s.mcp = server.NewMCPServer(
		opts.Name,
		opts.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithHooks(hooks),
	)

	for _, def := range reg.Definitions() {
		raw, err := json.Marshal(def.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema for %s: %w", def.Name, err)
		}
		s.mcp.AddTool(gomcp.NewToolWithRawSchema(def.Name, def.Description, raw), s.handlerFor(def.Name))
		s.toolMap[def.Name] = def
	}

	logging.ServerDebug("registered %d tools with MCP server %s %s", reg.Count(), opts.Name, opts.Version)
	return s, nil
}

// advertiseTools adds the name-keyed definition map to the initialize result.
func (s *Server) advertiseTools(ctx context.Context, id any, msg *gomcp.InitializeRequest, result *gomcp.InitializeResult) {
	if result == nil {
		return
	}
	if result.Capabilities.Experimental == nil {
		result.Capabilities.Experimental = map[string]any{}
	}
	result.Capabilities.Experimental["tools"] = s.toolMap

	client := msg.Params.ClientInfo
	logging.Server("client connected: %s %s (protocol %s)", client.Name, client.Version, result.ProtocolVersion)
}

func (s *Server) handlerFor(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		return toCallResult(s.registry.Invoke(ctx, name, req.GetArguments())), nil
	}
}

func toCallResult(res tools.Result) *gomcp.CallToolResult {
	if res.IsError {
		return gomcp.NewToolResultError(res.Text)
	}
	return gomcp.NewToolResultText(res.Text)
}
