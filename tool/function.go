package tool

import (
	"context"
	"errors"

	"github.com/hupe1980/agentrecall/internal/util"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a tool.
//
// Responsibilities:
//   - Holds a lightweight JSON-Schema-like parameter specification
//   - Validates supplied arguments against that schema before execution
//   - Normalizes error handling so callers receive *ToolError with consistent codes:
//     VALIDATION_ERROR  -> schema / argument mismatch
//     EXECUTION_ERROR   -> underlying function returned an error (non-ToolError)
//     (custom codes preserved if the function returns *ToolError directly)
//
// A FunctionTool has no internal mutable state after construction and is
// safe for concurrent use by multiple goroutines.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, args map[string]any) (any, error)
}

// NewFunctionTool constructs a FunctionTool from explicit schema and function.
//
// Example:
//
//	greet := tool.NewFunctionTool(
//	  "greet",
//	  "Greet a person by name",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "name": map[string]any{"type": "string"},
//	    },
//	    "required": []string{"name"},
//	  },
//	  func(ctx context.Context, args map[string]any) (any, error) {
//	    return "hello " + args["name"].(string), nil
//	  },
//	)
func NewFunctionTool(
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// Name returns the tool identifier.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the human-readable tool description.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the JSON schema for the tool arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Call validates args against the schema and invokes the wrapped function.
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (any, error) {
	if err := util.ValidateParameters(args, t.parameters); err != nil {
		var vErr *util.ValidationError
		if errors.As(err, &vErr) {
			return nil, &ToolError{
				Tool:    t.name,
				Message: vErr.Message,
				Code:    "VALIDATION_ERROR",
				Details: vErr,
			}
		}
		return nil, NewToolError(t.name, err.Error(), "VALIDATION_ERROR")
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		var tErr *ToolError
		if errors.As(err, &tErr) {
			return nil, tErr
		}
		return nil, NewToolError(t.name, err.Error(), "EXECUTION_ERROR")
	}
	return result, nil
}
