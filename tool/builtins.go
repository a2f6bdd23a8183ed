package tool

import (
	"context"
	"fmt"

	"github.com/Knetic/govaluate"
)

// NewCalculator returns a tool that evaluates arithmetic expressions.
// Expressions are parsed by govaluate, never handed to an interpreter, so
// arbitrary code can not be executed through this tool.
func NewCalculator() *FunctionTool {
	return NewFunctionTool(
		"calculator",
		"Evaluate a mathematical expression",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"expression": map[string]any{
					"type":        "string",
					"description": "Arithmetic expression, e.g. (2 + 3) * 4",
				},
			},
			"required": []string{"expression"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			exprText, _ := args["expression"].(string)
			expr, err := govaluate.NewEvaluableExpression(exprText)
			if err != nil {
				return nil, NewToolError("calculator", fmt.Sprintf("invalid expression %q: %v", exprText, err), "VALIDATION_ERROR")
			}
			result, err := expr.Evaluate(nil)
			if err != nil {
				return nil, NewToolError("calculator", fmt.Sprintf("cannot evaluate %q: %v", exprText, err), "EXECUTION_ERROR")
			}
			return result, nil
		},
	)
}

// NewWebSearch returns a simulated web search tool. It fabricates a result
// string instead of reaching the network, which keeps examples and tests
// hermetic.
func NewWebSearch() *FunctionTool {
	return NewFunctionTool(
		"web_search",
		"Search the web for information",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query",
				},
			},
			"required": []string{"query"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			return fmt.Sprintf("Simulated web search results for: %s", query), nil
		},
	)
}
