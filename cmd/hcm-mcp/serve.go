package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/hcmbridge/mcpserver"
	"github.com/effective-security/xlog"
)

// ServeCmd serves MCP over streamable HTTP.
// Usage: hcm-mcp serve --addr 0.0.0.0:8080
type ServeCmd struct {
	Addr            string        `short:"a" long:"addr" description:"listen address" default:"0.0.0.0:8080"`
	ShutdownTimeout time.Duration `long:"shutdown-timeout" description:"time to drain in-flight requests" default:"10s"`

	global *Options
	// ready is notified with the listen address, used in tests
	ready func(addr string)
}

func (c *ServeCmd) Execute(_ []string) error {
	// fail before listening if the configuration is incomplete
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
	return c.serve(ctx, s.HTTPHandler())
}

func (c *ServeCmd) serve(ctx context.Context, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle(mcpserver.EndpointPath, handler)

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", c.Addr)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.KV(xlog.NOTICE, "status", "listening", "addr", ln.Addr().String(), "path", mcpserver.EndpointPath)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	if c.ready != nil {
		c.ready(ln.Addr().String())
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.KV(xlog.NOTICE, "status", "shutting_down")
		sctx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return errors.Wrap(err, "failed to shutdown")
		}
		return nil
	}
}
