package main

import (
	"fmt"

	"github.com/effective-security/hcmbridge/tools"
)

// ToolsCmd prints the tools with their descriptions and input schemas.
type ToolsCmd struct {
	Format string `short:"o" long:"format" description:"output format" choice:"yaml" choice:"json" default:"yaml"`

	global *Options
}

func (c *ToolsCmd) Execute(_ []string) error {
	b, err := c.global.newBridge(nil)
	if err != nil {
		return err
	}

	list := b.registry.List()
	if c.Format == "json" {
		fmt.Fprintln(c.global.out, tools.GetDescriptionsJSON(list...))
		return nil
	}
	fmt.Fprint(c.global.out, tools.GetDescriptionsYAML(list...))
	return nil
}
