package calculator

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/voicekit/voicenode/internal/providers/params"
	"github.com/voicekit/voicenode/internal/types"
)

// StatisticsTool computes summary statistics over a list of numbers.
type StatisticsTool struct{}

// NewStatistics creates the statistics tool.
func NewStatistics() *StatisticsTool {
	return &StatisticsTool{}
}

// Schema returns the registration descriptor.
func (t *StatisticsTool) Schema() types.Schema {
	return types.Schema{
		Name:        "statistics",
		Description: "Compute the mean, median, or standard deviation of a list of numbers.",
		Category:    types.CategoryUtility,
		Keywords:    []string{"average", "mean", "median", "standard deviation", "statistics"},
		Parameters: []types.Parameter{
			{Name: "values", Type: "list[float]", Description: "The numbers to summarize.", Required: true},
			{Name: "measure", Type: "string", Description: "Which statistic to compute.",
				EnumValues: []string{"mean", "median", "stddev"}, Required: true},
		},
		Examples: []types.Example{
			{Utterance: "What's the average of 3, 7, and 14?",
				Parameters: map[string]any{"values": []any{3, 7, 14}, "measure": "mean"}},
		},
	}
}

// Execute computes the requested statistic.
func (t *StatisticsTool) Execute(_ context.Context, p map[string]any, _ *types.Request) (*types.Result, error) {
	values, err := params.FloatSlice(p, "values")
	if err != nil {
		return nil, err
	}
	measure, err := params.String(p, "measure")
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return types.Fail("Cannot compute statistics of an empty list"), nil
	}

	var result float64
	switch measure {
	case "mean":
		result = stat.Mean(values, nil)
	case "median":
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		result = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	case "stddev":
		if len(values) < 2 {
			return types.Fail("Standard deviation needs at least two values"), nil
		}
		result = stat.StdDev(values, nil)
	default:
		return nil, fmt.Errorf("unsupported measure %q", measure)
	}

	if math.IsNaN(result) {
		return types.Fail("Statistic produced an invalid result"), nil
	}

	return types.Ok(map[string]any{
		"measure": measure,
		"count":   len(values),
		"result":  result,
	}), nil
}
