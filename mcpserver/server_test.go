package mcpserver_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/hcmbridge/hcm"
	"github.com/effective-security/hcmbridge/mcpserver"
	"github.com/effective-security/hcmbridge/schema"
	"github.com/effective-security/hcmbridge/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type lookupRequest struct {
	ID string `json:"id" validate:"required"`
}

type lookupResult struct {
	Name string `json:"name"`
}

type lookupTool struct{}

func (t *lookupTool) Name() string        { return "lookup" }
func (t *lookupTool) Description() string { return "Looks up the name" }
func (t *lookupTool) Parameters() any {
	return json.RawMessage(`{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`)
}

func (t *lookupTool) Run(_ context.Context, req *lookupRequest) (*lookupResult, error) {
	switch req.ID {
	case "missing":
		return nil, hcm.InvalidParams("not found: %s", req.ID)
	case "down":
		return nil, hcm.HTTPError(errors.New("connection refused"))
	}
	return &lookupResult{Name: "name-" + req.ID}, nil
}

func (t *lookupTool) Call(ctx context.Context, input string) (string, error) {
	return tools.CallTool[lookupRequest, lookupResult](ctx, t, input)
}

func newServer(t *testing.T) *mcpserver.Server {
	r := tools.NewRegistry()
	require.NoError(t, r.Register(&lookupTool{}))
	s, err := mcpserver.New(r, mcpserver.WithVersion("1.2.3"))
	require.NoError(t, err)
	return s
}

func handle(t *testing.T, s *mcpserver.Server, msg string) gjson.Result {
	res := s.MCP().HandleMessage(context.Background(), json.RawMessage(msg))
	js, err := json.Marshal(res)
	require.NoError(t, err)
	return gjson.ParseBytes(js)
}

func TestNew(t *testing.T) {
	_, err := mcpserver.New(nil)
	assert.EqualError(t, err, "tools registry is required")
}

func TestServer_Initialize(t *testing.T) {
	s := newServer(t)
	res := handle(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)

	assert.Equal(t, mcpserver.DefaultName, res.Get("result.serverInfo.name").String())
	assert.Equal(t, "1.2.3", res.Get("result.serverInfo.version").String())
	assert.Equal(t, mcpserver.Instructions, res.Get("result.instructions").String())
	assert.True(t, res.Get("result.capabilities.tools").Exists())
}

func TestServer_ListTools(t *testing.T) {
	s := newServer(t)
	res := handle(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	list := res.Get("result.tools").Array()
	require.Len(t, list, 1)
	assert.Equal(t, "lookup", list[0].Get("name").String())
	assert.Equal(t, "Looks up the name", list[0].Get("description").String())
	assert.Equal(t, `["id"]`, list[0].Get("inputSchema.required").Raw)
}

// reflectedTool advertises the schema reflected from lookupRequest
type reflectedTool struct {
	lookupTool
	sc *schema.Schema
}

func (t *reflectedTool) Name() string    { return "reflected" }
func (t *reflectedTool) Parameters() any { return t.sc }

func TestServer_ReflectedSchema(t *testing.T) {
	sc, err := schema.For[lookupRequest]()
	require.NoError(t, err)

	r := tools.NewRegistry()
	require.NoError(t, r.Register(&reflectedTool{sc: sc}))
	s, err := mcpserver.New(r)
	require.NoError(t, err)

	res := handle(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	list := res.Get("result.tools").Array()
	require.Len(t, list, 1)
	assert.Equal(t, "reflected", list[0].Get("name").String())
	assert.Equal(t, "object", list[0].Get("inputSchema.type").String())
	assert.Equal(t, `["id"]`, list[0].Get("inputSchema.required").Raw)
	assert.False(t, list[0].Get("inputSchema.$defs").Exists())
}

func TestServer_CallTool(t *testing.T) {
	s := newServer(t)

	t.Run("success", func(t *testing.T) {
		res := handle(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"lookup","arguments":{"id":"42"}}}`)
		assert.False(t, res.Get("result.isError").Bool())
		assert.Equal(t, "name-42", res.Get("result.structuredContent.name").String())
		assert.Equal(t, `{"name":"name-42"}`, res.Get("result.content.0.text").String())
	})

	tcases := []struct {
		args string
		code int
		kind string
		msg  string
	}{
		{
			args: `{"id":""}`,
			code: mcp.INVALID_PARAMS,
			kind: "invalid_params",
			msg:  "invalid parameters: id is required and cannot be empty",
		},
		{
			args: `{"id":"missing"}`,
			code: mcp.INVALID_PARAMS,
			kind: "invalid_params",
			msg:  "invalid parameters: not found: missing",
		},
		{
			args: `{"id":"down"}`,
			code: mcp.INTERNAL_ERROR,
			kind: "http",
			msg:  "HTTP request error: connection refused",
		},
	}
	for _, tc := range tcases {
		t.Run(tc.kind+tc.args, func(t *testing.T) {
			res := handle(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"lookup","arguments":`+tc.args+`}}`)
			assert.True(t, res.Get("result.isError").Bool())
			assert.Equal(t, tc.msg, res.Get("result.content.0.text").String())
			assert.Equal(t, int64(tc.code), res.Get("result.structuredContent.code").Int())
			assert.Equal(t, tc.kind, res.Get("result.structuredContent.kind").String())
		})
	}

	t.Run("no arguments", func(t *testing.T) {
		res := handle(t, s, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"lookup"}}`)
		assert.True(t, res.Get("result.isError").Bool())
		assert.Equal(t, int64(mcp.INVALID_PARAMS), res.Get("result.structuredContent.code").Int())
	})
}

func TestServer_HTTPHandler(t *testing.T) {
	s := newServer(t)
	srv := httptest.NewServer(s.HTTPHandler())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+mcpserver.EndpointPath, strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), mcpserver.DefaultName)
}

func TestServer_Stdio(t *testing.T) {
	s := newServer(t)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		_ = inW.Close()
		_ = outR.Close()
	}()

	go func() {
		_ = s.ServeStdio(ctx, inR, outW)
	}()
	go func() {
		_, _ = io.WriteString(inW, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`+"\n")
	}()

	line, err := bufio.NewReader(outR).ReadBytes('\n')
	require.NoError(t, err)
	assert.Equal(t, "lookup", gjson.GetBytes(line, "result.tools.0.name").String())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, -32602, mcpserver.ErrorCode(hcm.InvalidParams("bad")))
	assert.Equal(t, -32603, mcpserver.ErrorCode(hcm.MissingConfig(hcm.EnvBaseURL)))
	assert.Equal(t, -32603, mcpserver.ErrorCode(hcm.HTTPError(errors.New("reset"))))
	assert.Equal(t, -32603, mcpserver.ErrorCode(hcm.Internal("HTTP 500")))
	assert.Equal(t, -32603, mcpserver.ErrorCode(errors.New("plain")))
	assert.Equal(t, -32602, mcpserver.ErrorCode(errors.Wrap(hcm.InvalidParams("bad"), "wrapped")))
}

func TestErrorResult(t *testing.T) {
	res := mcpserver.ErrorResult(hcm.InvalidParams("PersonID not found for Westpac Employee ID: x"))
	assert.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "invalid parameters: PersonID not found for Westpac Employee ID: x", text.Text)
	assert.Equal(t, mcpserver.ErrorPayload{
		Code:    mcp.INVALID_PARAMS,
		Kind:    "invalid_params",
		Message: "invalid parameters: PersonID not found for Westpac Employee ID: x",
	}, res.StructuredContent)
}
