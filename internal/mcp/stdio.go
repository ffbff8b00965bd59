package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	gomcp "github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"memomcp/internal/logging"
)

// maxMessageSize bounds a single JSON-RPC line.
const maxMessageSize = 16 << 20

// rpcRequest is the part of a JSON-RPC request the line loop inspects.
type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// rpcResponse is a JSON-RPC response built outside mcp-go.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
}

type callParams struct {
	Name string `json:"name"`
}

// HandleMessage processes one JSON-RPC message and returns the encoded
// response, or nil when the message needs none (notifications).
func (s *Server) HandleMessage(ctx context.Context, raw []byte) []byte {
	var req rpcRequest
	if err := json.Unmarshal(raw, &req); err == nil {
		logging.ServerDebug("<- %s", req.Method)
		if out, handled := s.interceptUnknownTool(req); handled {
			return out
		}
	}

	resp := s.mcp.HandleMessage(ctx, raw)
	if resp == nil {
		return nil
	}
	out, err := json.Marshal(resp)
	if err != nil {
		logging.ServerError("failed to encode response to %s: %v", req.Method, err)
		return nil
	}
	if req.Method == string(gomcp.MethodToolsCall) {
		out = withExplicitIsError(out)
	}
	return out
}

// withExplicitIsError adds "isError": false to a tools/call result, which
// mcp-go omits on success.
func withExplicitIsError(out []byte) []byte {
	if !gjson.GetBytes(out, "result").IsObject() || gjson.GetBytes(out, "result.isError").Exists() {
		return out
	}
	patched, err := sjson.SetBytes(out, "result.isError", false)
	if err != nil {
		logging.ServerError("failed to mark tools/call result: %v", err)
		return out
	}
	return patched
}

// interceptUnknownTool answers tools/call for names the registry does not
// know with the same isError result the invoker produces.
func (s *Server) interceptUnknownTool(req rpcRequest) ([]byte, bool) {
	if req.Method != string(gomcp.MethodToolsCall) {
		return nil, false
	}
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, false
	}
	if s.registry.Has(params.Name) {
		return nil, false
	}

	res := s.registry.Invoke(context.Background(), params.Name, nil)
	if len(req.ID) == 0 {
		return nil, true
	}

	out, err := json.Marshal(rpcResponse{
		JSONRPC: gomcp.JSONRPC_VERSION,
		ID:      req.ID,
		Result:  toCallResult(res),
	})
	if err != nil {
		logging.ServerError("failed to encode unknown tool response: %v", err)
		return nil, true
	}
	return out, true
}

// Serve reads newline-delimited JSON-RPC messages from in and writes one
// response line per request to out. It returns nil at end of input, or the
// context error once ctx is done. Malformed messages get error responses
// and never end the session.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			msg := make([]byte, len(line))
			copy(msg, line)
			select {
			case lines <- msg:
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	logging.Server("MCP server listening on stdio (%d tools)", s.registry.Count())

	w := bufio.NewWriter(out)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("failed to read message: %w", err)
					}
				default:
				}
				logging.Server("stdin closed, MCP server stopping")
				return nil
			}

			resp := s.HandleMessage(ctx, msg)
			if resp == nil {
				continue
			}
			if _, err := w.Write(append(resp, '\n')); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}
	}
}
