package main

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/hcmbridge/callbacks"
	"github.com/effective-security/hcmbridge/hcm"
	"github.com/effective-security/hcmbridge/tools"
	"github.com/effective-security/hcmbridge/tools/hcmtools"
	"github.com/effective-security/xlog"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/hcmbridge", "hcm-mcp")

// version is set at build time
var version = "dev"

// Options is the root command that groups sub-commands.
// The struct tags are interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config    string `short:"c" long:"config" description:"optional HCM config YAML/JSON path, environment variables take precedence"`
	EnvFile   string `long:"env-file" description:"dotenv file to load, ignored if not found" default:".env"`
	LogLevel  string `long:"log-level" description:"log level: TRACE|DEBUG|INFO|NOTICE|WARNING|ERROR" default:"INFO"`
	LogFormat string `long:"log-format" description:"log format" choice:"text" choice:"json" default:"text"`

	Serve ServeCmd `command:"serve" description:"Serve MCP over streamable HTTP"`
	Stdio StdioCmd `command:"stdio" description:"Serve MCP over stdio"`
	Tools ToolsCmd `command:"tools" description:"Print the tools with their input schemas"`
	Call  CallCmd  `command:"call" description:"Call a tool with JSON arguments and print the result"`

	out io.Writer
}

// bridge holds the tools built from the configuration
type bridge struct {
	cfg      *hcm.Config
	registry *tools.Registry
}

// run parses the arguments and executes the selected command
func run(args []string, out io.Writer) error {
	opts := &Options{out: out}
	opts.Serve.global = opts
	opts.Stdio.global = opts
	opts.Tools.global = opts
	opts.Call.global = opts

	parser := flags.NewParser(opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if err := opts.setup(); err != nil {
			return err
		}
		return cmd.Execute(args)
	}

	_, err := parser.ParseArgs(args)
	return err
}

// setup loads dotenv file and configures logging
func (o *Options) setup() error {
	if o.EnvFile != "" {
		if err := godotenv.Load(o.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.WithMessagef(err, "failed to load %s", o.EnvFile)
		}
	}

	level, err := parseLevel(o.LogLevel)
	if err != nil {
		return err
	}
	if o.LogFormat == "json" {
		xlog.SetFormatter(xlog.NewJSONFormatter(os.Stderr))
	} else {
		xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	}
	xlog.SetGlobalLogLevel(level)
	return nil
}

func parseLevel(s string) (xlog.LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return xlog.TRACE, nil
	case "DEBUG":
		return xlog.DEBUG, nil
	case "INFO", "":
		return xlog.INFO, nil
	case "NOTICE":
		return xlog.NOTICE, nil
	case "WARNING", "WARN":
		return xlog.WARNING, nil
	case "ERROR":
		return xlog.ERROR, nil
	default:
		return xlog.INFO, errors.Errorf("invalid log level: %s", s)
	}
}

// newBridge resolves the configuration and builds the tools registry.
// It fails if the configuration is incomplete.
func (o *Options) newBridge(cb tools.Callback) (*bridge, error) {
	cfg, err := hcm.Load(o.Config)
	if err != nil {
		return nil, err
	}
	client, err := hcm.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	list, err := hcmtools.New(client)
	if err != nil {
		return nil, err
	}

	if cb == nil {
		cb = callbacks.NewPackageLogger(logger)
	}
	registry := tools.NewRegistry(tools.WithCallback(cb))
	if err = registry.Register(list...); err != nil {
		return nil, err
	}

	logger.KV(xlog.NOTICE, "config", cfg.String(), "tools", len(list))
	return &bridge{cfg: cfg, registry: registry}, nil
}
