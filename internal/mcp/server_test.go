package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"memomcp/internal/tools"
	"memomcp/internal/tools/core"
)

const initializeRequest = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test-client","version":"0.0.1"}}}`

type ServerSuite struct {
	suite.Suite
	reg    *tools.Registry
	server *Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	failing := &tools.Tool{
		Name:        "alwaysFails",
		Description: "Fails on every call",
		Schema:      tools.NewToolSchema(),
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("boom")
		},
	}

	reg, err := tools.NewRegistry(append(core.All(), failing)...)
	s.Require().NoError(err)
	s.reg = reg

	srv, err := NewServer(reg, Options{Name: "memomcp-test", Version: "9.9.9"})
	s.Require().NoError(err)
	s.server = srv

	s.Require().NotNil(s.send(initializeRequest))
}

func (s *ServerSuite) send(msg string) []byte {
	return s.server.HandleMessage(context.Background(), []byte(msg))
}

func (s *ServerSuite) call(id int, name string, args map[string]any) gjson.Result {
	msg := `{"jsonrpc":"2.0","method":"tools/call"}`
	msg, _ = sjson.Set(msg, "id", id)
	msg, _ = sjson.Set(msg, "params.name", name)
	if args != nil {
		msg, _ = sjson.Set(msg, "params.arguments", args)
	}
	out := s.send(msg)
	s.Require().NotNil(out)
	return gjson.ParseBytes(out)
}

// =============================================================================
// HANDSHAKE
// =============================================================================

func (s *ServerSuite) TestInitializeAdvertisesTools() {
	resp := gjson.ParseBytes(s.send(initializeRequest))

	s.Equal("memomcp-test", resp.Get("result.serverInfo.name").String())
	s.Equal("9.9.9", resp.Get("result.serverInfo.version").String())
	s.True(resp.Get("result.capabilities.tools").Exists())
	s.True(resp.Get("result.capabilities.resources").Exists())

	advertised := resp.Get("result.capabilities.experimental.tools")
	s.Require().True(advertised.IsObject())
	for _, name := range s.reg.Names() {
		s.Equal(name, advertised.Get(name+".name").String())
		s.True(advertised.Get(name+".inputSchema").IsObject(), name)
	}
	s.Equal("object", advertised.Get("getStringLength.inputSchema.type").String())
}

func (s *ServerSuite) TestPing() {
	resp := gjson.ParseBytes(s.send(`{"jsonrpc":"2.0","id":"p1","method":"ping"}`))
	s.Equal("p1", resp.Get("id").String())
	s.True(resp.Get("result").Exists())
	s.False(resp.Get("error").Exists())
}

func (s *ServerSuite) TestNotificationHasNoResponse() {
	s.Nil(s.send(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
}

// =============================================================================
// LISTING
// =============================================================================

func (s *ServerSuite) TestToolsListMatchesRegistry() {
	resp := gjson.ParseBytes(s.send(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

	var names []string
	for _, tool := range resp.Get("result.tools").Array() {
		names = append(names, tool.Get("name").String())
		s.NotEmpty(tool.Get("description").String())
	}
	s.ElementsMatch(s.reg.Names(), names)
}

func (s *ServerSuite) TestToolsListMatchesDefinitions() {
	resp := gjson.ParseBytes(s.send(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

	listed := map[string]gjson.Result{}
	for _, tool := range resp.Get("result.tools").Array() {
		listed[tool.Get("name").String()] = tool
	}

	defs := s.reg.Definitions()
	s.Len(listed, len(defs))
	for _, def := range defs {
		tool, ok := listed[def.Name]
		s.Require().True(ok, def.Name)
		s.Equal(def.Description, tool.Get("description").String(), def.Name)

		schema, err := json.Marshal(def.InputSchema)
		s.Require().NoError(err)
		s.JSONEq(string(schema), tool.Get("inputSchema").Raw, def.Name)
	}
}

func (s *ServerSuite) TestResourcesListIsEmpty() {
	resp := gjson.ParseBytes(s.send(`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`))
	s.False(resp.Get("error").Exists(), resp.Raw)
	s.Empty(resp.Get("result.resources").Array())
}

// =============================================================================
// CALLS
// =============================================================================

func (s *ServerSuite) TestCallSuccess() {
	resp := s.call(4, "getStringLength", map[string]any{"input": "héllo"})

	s.Equal(int64(4), resp.Get("id").Int())
	s.True(resp.Get("result.isError").Exists(), resp.Raw)
	s.False(resp.Get("result.isError").Bool())
	s.Equal("text", resp.Get("result.content.0.type").String())
	s.Equal("5", resp.Get("result.content.0.text").String())
}

func (s *ServerSuite) TestCallValidationError() {
	resp := s.call(5, "getStringLength", map[string]any{"input": 12})

	s.True(resp.Get("result.isError").Bool())
	s.Contains(resp.Get("result.content.0.text").String(), "expected input to be a string, got number")
}

func (s *ServerSuite) TestCallExecutionError() {
	resp := s.call(6, "alwaysFails", nil)

	s.True(resp.Get("result.isError").Bool())
	s.Equal("boom", resp.Get("result.content.0.text").String())
}

func (s *ServerSuite) TestCallUnknownTool() {
	resp := s.call(7, "nope", map[string]any{})

	s.Equal(int64(7), resp.Get("id").Int())
	s.False(resp.Get("error").Exists())
	s.True(resp.Get("result.isError").Bool())
	s.Equal("Unknown tool: nope", resp.Get("result.content.0.text").String())
}

func (s *ServerSuite) TestUnknownToolKeepsStringID() {
	out := s.send(`{"jsonrpc":"2.0","id":"abc","method":"tools/call","params":{"name":"nope"}}`)
	s.Equal("abc", gjson.GetBytes(out, "id").String())
}

// =============================================================================
// STDIO LOOP
// =============================================================================

func TestServeAnswersEachLine(t *testing.T) {
	reg, err := tools.NewRegistry(core.All()...)
	require.NoError(t, err)
	srv, err := NewServer(reg, Options{})
	require.NoError(t, err)

	in := strings.Join([]string{
		initializeRequest,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`this is not json`,
		"",
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"getStringLength","arguments":{"input":"abc"}}}`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, srv.Serve(context.Background(), strings.NewReader(in), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3, out.String())

	assert.Equal(t, "memomcp", gjson.Get(lines[0], "result.serverInfo.name").String())
	assert.Equal(t, int64(-32700), gjson.Get(lines[1], "error.code").Int())
	assert.Equal(t, "3", gjson.Get(lines[2], "result.content.0.text").String())
}

func TestServeStopsOnCancel(t *testing.T) {
	reg, err := tools.NewRegistry(core.All()...)
	require.NoError(t, err)
	srv, err := NewServer(reg, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = srv.Serve(ctx, strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
