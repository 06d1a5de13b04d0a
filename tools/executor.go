// Tool Executor - total dispatch from (name, raw arguments) to a result.
//
// Information Hiding:
// - Argument parsing strategy hidden
// - Timeout handling hidden
// - Error-to-value conversion hidden

package tools

import (
	"context"
	"time"

	"github.com/docmgr/docchat/internal/jsonx"
	"github.com/docmgr/docchat/observability"
)

// DefaultToolTimeout bounds a single tool execution.
const DefaultToolTimeout = 30 * time.Second

// Executor dispatches tool calls against a registry. Execute is total:
// every (name, arguments) pair yields a ToolResult, never a panic or an
// error, and execution is bounded by the configured timeout.
type Executor struct {
	registry *Registry
	timeout  time.Duration
}

// NewExecutor creates an executor over the given registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry, timeout: DefaultToolTimeout}
}

// WithTimeout overrides the per-execution timeout.
func (e *Executor) WithTimeout(timeout time.Duration) *Executor {
	e.timeout = timeout
	return e
}

// Execute looks up the named tool, parses and validates its raw
// argument text, and runs it. Unknown names, malformed arguments,
// missing required arguments, and backend failures all come back as
// ToolResult errors.
func (e *Executor) Execute(ctx context.Context, name, rawArgs string) ToolResult {
	tool, ok := e.registry.Get(name)
	if !ok {
		observability.RecordToolExecution(name, false)
		return ErrorResultf("unknown tool: %s", name)
	}

	args, err := jsonx.ParseArguments(rawArgs)
	if err != nil {
		observability.RecordToolExecution(name, false)
		return ErrorResultf("invalid tool arguments: %v", err)
	}

	if err := tool.Validate(args); err != nil {
		observability.RecordToolExecution(name, false)
		return ErrorResult(err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result := tool.Execute(ctx, args)
	observability.RecordToolExecution(name, result.OK())
	return result
}
