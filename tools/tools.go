package tools

import (
	"context"

	"github.com/effective-security/hcmbridge/utils"
)

//go:generate mockgen -destination=../mocks/mocktools/tools_mock.gen.go -package mocktools github.com/effective-security/hcmbridge/tools ITool,Callback

// ITool is a tool exposed to the clients of the bridge.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool.
	Description() string
	// Parameters returns the JSON schema of the tool input.
	Parameters() any

	// Call executes the tool with the given JSON input and returns the JSON result.
	Call(context.Context, string) (string, error)
}

type Callback interface {
	OnToolStart(context.Context, ITool, string)
	OnToolEnd(context.Context, ITool, string, string)
	OnToolError(context.Context, ITool, string, error)
	OnToolNotFound(context.Context, string)
}

type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// Description of the tool
type Description struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
	Parameters  any    `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
}

type toolsDescription struct {
	Tools []Description `json:"Tools" yaml:"Tools"`
}

// Describe returns the descriptions of the tools, including the input schema
func Describe(list ...ITool) []Description {
	res := make([]Description, 0, len(list))
	for _, tool := range list {
		res = append(res, Description{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return res
}

// GetDescriptionsJSON returns the indented JSON of the tool descriptions
func GetDescriptionsJSON(list ...ITool) string {
	return utils.ToJSONIndent(toolsDescription{Tools: Describe(list...)})
}

func GetDescriptionsYAML(list ...ITool) string {
	return utils.ToYAML(toolsDescription{Tools: Describe(list...)})
}
