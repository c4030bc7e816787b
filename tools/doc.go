// Package tools defines the Tool interface, the typed input handling and the Registry that dispatches named tool calls with callbacks and metrics.
package tools
