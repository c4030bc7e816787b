package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/hcmbridge/mcpserver"
)

// StdioCmd serves MCP over stdin and stdout.
// Logs are written to stderr.
type StdioCmd struct {
	global *Options
}

func (c *StdioCmd) Execute(_ []string) error {
	b, err := c.global.newBridge(nil)
	if err != nil {
		return err
	}
	s, err := mcpserver.New(b.registry, mcpserver.WithVersion(version))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.ServeStdio(ctx, os.Stdin, os.Stdout)
}
