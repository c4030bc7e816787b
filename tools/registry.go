package tools

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/hcmbridge/hcm"
	"github.com/effective-security/hcmbridge/pkg/metricskey"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/hcmbridge", "tools")

type contextKey int

const keyInvocationID contextKey = iota

// WithInvocationID returns a context with the invocation ID
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyInvocationID, id)
}

// InvocationID returns the invocation ID of the tool call,
// or empty string if the context has none
func InvocationID(ctx context.Context) string {
	id, _ := ctx.Value(keyInvocationID).(string)
	return id
}

// Registry dispatches tool calls by name.
// The registry is safe for concurrent use.
type Registry struct {
	lock     sync.RWMutex
	tools    map[string]ITool
	callback Callback
}

// RegistryOption configures the Registry
type RegistryOption func(*Registry)

// WithCallback specifies the callback for tool events
func WithCallback(cb Callback) RegistryOption {
	return func(r *Registry) {
		r.callback = cb
	}
}

// NewRegistry returns a new Registry with the tools
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tools: make(map[string]ITool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds the tools to the registry.
// Names must be unique.
func (r *Registry) Register(list ...ITool) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, t := range list {
		if t == nil {
			return errors.New("tool is nil")
		}
		name := t.Name()
		if name == "" {
			return errors.New("tool name is empty")
		}
		if _, ok := r.tools[name]; ok {
			return errors.Errorf("tool already registered: %s", name)
		}
		r.tools[name] = t
	}
	return nil
}

// Get returns the tool by name
func (r *Registry) Get(name string) (ITool, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns the registered tools sorted by name
func (r *Registry) List() []ITool {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]ITool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}

// Call executes the named tool with JSON input.
// Unknown tool returns InvalidParams error.
func (r *Registry) Call(ctx context.Context, name, input string) (string, error) {
	if InvocationID(ctx) == "" {
		ctx = WithInvocationID(ctx, uuid.NewString())
	}

	t, ok := r.Get(name)
	if !ok {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, name)
		if r.callback != nil {
			r.callback.OnToolNotFound(ctx, name)
		}
		return "", hcm.InvalidParams("unknown tool: %s", name)
	}

	started := time.Now()
	defer metricskey.PerfToolCall.MeasureSince(started, name)

	if r.callback != nil {
		r.callback.OnToolStart(ctx, t, input)
	}

	out, err := t.Call(ctx, input)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.DEBUG,
			"invocation_id", InvocationID(ctx),
			"tool", name,
			"kind", hcm.KindOf(err).String(),
			"elapsed", time.Since(started).String(),
			"err", err.Error())
		if r.callback != nil {
			r.callback.OnToolError(ctx, t, input, err)
		}
		return "", err
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, name)
	logger.ContextKV(ctx, xlog.DEBUG,
		"invocation_id", InvocationID(ctx),
		"tool", name,
		"elapsed", time.Since(started).String())
	if r.callback != nil {
		r.callback.OnToolEnd(ctx, t, input, out)
	}
	return out, nil
}
