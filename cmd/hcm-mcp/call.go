package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/hcmbridge/callbacks"
	"github.com/effective-security/hcmbridge/tools"
	"github.com/effective-security/hcmbridge/utils"
)

// CallCmd invokes a single tool and prints its JSON result.
// Usage: hcm-mcp call get_oracle_hcm_person_id_from_westpac_id '{"wbc_employee_id":"M061230"}'
type CallCmd struct {
	Verbose bool `short:"v" long:"verbose" description:"print tool events to stderr"`

	Args struct {
		Tool  string `positional-arg-name:"tool" description:"tool name" required:"yes"`
		Input string `positional-arg-name:"json" description:"tool arguments as JSON object"`
	} `positional-args:"yes"`

	global *Options
}

func (c *CallCmd) Execute(_ []string) error {
	if c.Args.Tool == "" {
		return errors.New("tool name is required")
	}

	var cb tools.Callback
	if c.Verbose {
		cb = callbacks.NewFanout(
			callbacks.NewPackageLogger(logger),
			callbacks.NewPrinter(os.Stderr, callbacks.ModeVerbose),
		)
	}

	b, err := c.global.newBridge(cb)
	if err != nil {
		return err
	}

	out, err := b.registry.Call(context.Background(), c.Args.Tool, c.Args.Input)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.global.out, utils.JSONIndent(out))
	return nil
}
