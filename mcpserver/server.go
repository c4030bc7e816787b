package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/hcmbridge/schema"
	"github.com/effective-security/hcmbridge/tools"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/hcmbridge", "mcpserver")

const (
	// DefaultName of the server
	DefaultName = "hcm-mcp"
	// EndpointPath is the path of streamable HTTP endpoint
	EndpointPath = "/mcp"
	// Instructions advertised to the clients on initialize
	Instructions = "Oracle HCM (also known as People HQ at Westpac) MCP Server with tools to look up employee PersonId, absence types, absence balances and projected balances."
)

var emptySchema = json.RawMessage(`{"type":"object","properties":{}}`)

// Server exposes the tools registry over MCP
type Server struct {
	mcp      *server.MCPServer
	registry *tools.Registry
}

type options struct {
	name         string
	version      string
	instructions string
}

// Option configures the Server
type Option func(*options)

// WithName specifies the server name
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithVersion specifies the server version
func WithVersion(version string) Option {
	return func(o *options) {
		o.version = version
	}
}

// WithInstructions specifies the instructions advertised on initialize
func WithInstructions(instructions string) Option {
	return func(o *options) {
		o.instructions = instructions
	}
}

// New returns MCP server with all tools from the registry
func New(registry *tools.Registry, opts ...Option) (*Server, error) {
	if registry == nil {
		return nil, errors.New("tools registry is required")
	}
	o := &options{
		name:         DefaultName,
		version:      "dev",
		instructions: Instructions,
	}
	for _, opt := range opts {
		opt(o)
	}

	s := &Server{
		registry: registry,
		mcp: server.NewMCPServer(o.name, o.version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
			server.WithInstructions(o.instructions),
		),
	}

	for _, t := range registry.List() {
		raw, err := rawSchema(t.Parameters())
		if err != nil {
			return nil, errors.WithMessagef(err, "tool %s", t.Name())
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(t.Name(), t.Description(), raw), s.handler(t.Name()))
	}

	return s, nil
}

// MCP returns the protocol server
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// HTTPHandler returns streamable HTTP handler serving EndpointPath
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp, server.WithEndpointPath(EndpointPath))
}

// ServeStdio serves the tools over stdio until ctx is done or input is closed
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input := "{}"
		if args := req.GetArguments(); args != nil {
			js, err := json.Marshal(args)
			if err != nil {
				return ErrorResult(errors.Wrap(err, "failed to marshal arguments")), nil
			}
			input = string(js)
		}

		ctx = tools.WithInvocationID(ctx, uuid.NewString())
		out, err := s.registry.Call(ctx, name, input)
		if err != nil {
			logger.ContextKV(ctx, xlog.WARNING,
				"invocation_id", tools.InvocationID(ctx),
				"tool", name,
				"code", ErrorCode(err),
				"err", err.Error())
			return ErrorResult(err), nil
		}
		return mcp.NewToolResultStructured(json.RawMessage(out), out), nil
	}
}

func rawSchema(params any) (json.RawMessage, error) {
	switch p := params.(type) {
	case nil:
		return emptySchema, nil
	case json.RawMessage:
		return p, nil
	case *schema.Schema:
		return p.RawParameters()
	default:
		js, err := json.Marshal(p)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal schema")
		}
		return js, nil
	}
}
