// Package calculator implements arithmetic and list-statistics tools.
package calculator

import (
	"context"
	"fmt"
	"math"

	"github.com/voicekit/voicenode/internal/providers/params"
	"github.com/voicekit/voicenode/internal/types"
)

// Tool performs two-operand arithmetic.
type Tool struct{}

// New creates the calculator tool.
func New() *Tool {
	return &Tool{}
}

// Schema returns the registration descriptor.
func (t *Tool) Schema() types.Schema {
	return types.Schema{
		Name:        "calculate",
		Description: "Perform two-number arithmetic: addition, subtraction, multiplication, or division.",
		Category:    types.CategoryUtility,
		Keywords:    []string{"calculate", "math", "add", "subtract", "multiply", "divide", "plus", "minus", "times"},
		Parameters: []types.Parameter{
			{Name: "num1", Type: "float", Description: "First number.", Required: true},
			{Name: "num2", Type: "float", Description: "Second number.", Required: true},
			{Name: "operation", Type: "string", Description: "Exactly one of 'add', 'subtract', 'multiply', 'divide'.",
				EnumValues: []string{"add", "subtract", "multiply", "divide"}, Required: true},
		},
		Examples: []types.Example{
			{Utterance: "What's 5 plus 3?", Parameters: map[string]any{"num1": 5, "num2": 3, "operation": "add"}},
			{Utterance: "Divide 20 by 5", Parameters: map[string]any{"num1": 20, "num2": 5, "operation": "divide"}},
		},
	}
}

// Execute runs the calculation.
func (t *Tool) Execute(_ context.Context, p map[string]any, _ *types.Request) (*types.Result, error) {
	num1, err := params.Float(p, "num1")
	if err != nil {
		return nil, err
	}
	num2, err := params.Float(p, "num2")
	if err != nil {
		return nil, err
	}
	op, err := params.String(p, "operation")
	if err != nil {
		return nil, err
	}

	var result float64
	switch op {
	case "add":
		result = num1 + num2
	case "subtract":
		result = num1 - num2
	case "multiply":
		result = num1 * num2
	case "divide":
		if num2 == 0 {
			return types.Fail("Cannot divide by zero"), nil
		}
		result = num1 / num2
	default:
		return nil, fmt.Errorf("unsupported operation %q", op)
	}

	if math.IsInf(result, 0) || math.IsNaN(result) {
		return types.Fail("Calculation produced an invalid result"), nil
	}

	return types.Ok(map[string]any{
		"num1":      num1,
		"num2":      num2,
		"operation": op,
		"result":    result,
	}), nil
}
