package mcpserver

import (
	"github.com/effective-security/hcmbridge/hcm"
	"github.com/mark3labs/mcp-go/mcp"
)

// ErrorPayload is the structured content of a failed tool call
type ErrorPayload struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorCode returns JSON-RPC error code for the error kind
func ErrorCode(err error) int {
	switch hcm.KindOf(err) {
	case hcm.KindInvalidParams:
		return mcp.INVALID_PARAMS
	default:
		return mcp.INTERNAL_ERROR
	}
}

// ErrorResult returns the failed tool call result
func ErrorResult(err error) *mcp.CallToolResult {
	res := mcp.NewToolResultError(err.Error())
	res.StructuredContent = ErrorPayload{
		Code:    ErrorCode(err),
		Kind:    hcm.KindOf(err).String(),
		Message: err.Error(),
	}
	return res
}
