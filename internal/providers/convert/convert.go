// Package convert implements the measurement conversion tool. All
// conversions go through a base unit per category (meters, liters,
// grams); temperature is handled separately since its scales do not
// share a zero.
package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/voicekit/voicenode/internal/providers/params"
	"github.com/voicekit/voicenode/internal/types"
)

// factors map a unit to its base-unit multiplier within a category.
var (
	distanceFactors = map[string]float64{
		"millimeters": 0.001, "centimeters": 0.01, "meters": 1, "kilometers": 1000,
		"inches": 0.0254, "feet": 0.3048, "yards": 0.9144, "miles": 1609.344,
	}
	volumeFactors = map[string]float64{
		"milliliters": 0.001, "liters": 1,
		"cups": 0.2365882365, "pints": 0.473176473, "quarts": 0.946352946, "gallons": 3.785411784,
	}
	weightFactors = map[string]float64{
		"milligrams": 0.001, "grams": 1, "kilograms": 1000,
		"ounces": 28.349523125, "pounds": 453.59237,
	}
	temperatureUnits = map[string]bool{
		"celsius": true, "fahrenheit": true, "kelvin": true,
	}

	aliases = map[string]string{
		"millimeter": "millimeters", "mm": "millimeters",
		"centimeter": "centimeters", "cm": "centimeters",
		"meter": "meters", "m": "meters",
		"kilometer": "kilometers", "km": "kilometers",
		"inch": "inches", "in": "inches",
		"foot": "feet", "ft": "feet",
		"yard": "yards", "yd": "yards",
		"mile": "miles", "mi": "miles",
		"milliliter": "milliliters", "ml": "milliliters",
		"liter": "liters", "l": "liters",
		"cup": "cups", "pint": "pints", "quart": "quarts", "gallon": "gallons",
		"milligram": "milligrams", "mg": "milligrams",
		"gram": "grams", "g": "grams",
		"kilogram": "kilograms", "kg": "kilograms",
		"ounce": "ounces", "oz": "ounces",
		"pound": "pounds", "lb": "pounds", "lbs": "pounds",
		"c": "celsius", "f": "fahrenheit", "k": "kelvin",
	}
)

// Tool converts between measurement units.
type Tool struct{}

// New creates the conversion tool.
func New() *Tool {
	return &Tool{}
}

// Schema returns the registration descriptor.
func (t *Tool) Schema() types.Schema {
	return types.Schema{
		Name:        "convert_measurement",
		Description: "Convert between measurement units: distance, volume, weight, and temperature.",
		Category:    types.CategoryUtility,
		Keywords:    []string{"convert", "conversion", "miles", "kilometers", "gallons", "pounds", "fahrenheit", "celsius"},
		Parameters: []types.Parameter{
			{Name: "value", Type: "float", Description: "The numeric value to convert.", Required: true},
			{Name: "from_unit", Type: "string", Description: "The source unit (e.g. 'miles', 'gallons', 'pounds').", Required: true},
			{Name: "to_unit", Type: "string", Description: "The target unit (e.g. 'kilometers', 'cups', 'kilograms').", Required: true},
		},
		Examples: []types.Example{
			{Utterance: "How many kilometers is 5 miles?",
				Parameters: map[string]any{"value": 5, "from_unit": "miles", "to_unit": "kilometers"}},
			{Utterance: "Convert 350 fahrenheit to celsius",
				Parameters: map[string]any{"value": 350, "from_unit": "fahrenheit", "to_unit": "celsius"}},
		},
	}
}

// Execute performs the conversion.
func (t *Tool) Execute(_ context.Context, p map[string]any, _ *types.Request) (*types.Result, error) {
	value, err := params.Float(p, "value")
	if err != nil {
		return nil, err
	}
	fromRaw, err := params.String(p, "from_unit")
	if err != nil {
		return nil, err
	}
	toRaw, err := params.String(p, "to_unit")
	if err != nil {
		return nil, err
	}

	from := canonical(fromRaw)
	to := canonical(toRaw)

	result, err := convert(value, from, to)
	if err != nil {
		return types.Fail(err.Error()), nil
	}

	return types.Ok(map[string]any{
		"value":     value,
		"from_unit": from,
		"to_unit":   to,
		"result":    result,
	}), nil
}

func canonical(unit string) string {
	unit = strings.ToLower(strings.TrimSpace(unit))
	if resolved, ok := aliases[unit]; ok {
		return resolved
	}
	return unit
}

func convert(value float64, from, to string) (float64, error) {
	if temperatureUnits[from] && temperatureUnits[to] {
		return convertTemperature(value, from, to)
	}
	for _, factors := range []map[string]float64{distanceFactors, volumeFactors, weightFactors} {
		fromFactor, okFrom := factors[from]
		toFactor, okTo := factors[to]
		if okFrom && okTo {
			return value * fromFactor / toFactor, nil
		}
	}
	return 0, fmt.Errorf("cannot convert from %q to %q: units are unknown or in different categories", from, to)
}

func convertTemperature(value float64, from, to string) (float64, error) {
	// Normalize through celsius.
	var celsius float64
	switch from {
	case "celsius":
		celsius = value
	case "fahrenheit":
		celsius = (value - 32) * 5 / 9
	case "kelvin":
		celsius = value - 273.15
	}
	switch to {
	case "celsius":
		return celsius, nil
	case "fahrenheit":
		return celsius*9/5 + 32, nil
	case "kelvin":
		return celsius + 273.15, nil
	}
	return 0, fmt.Errorf("unknown temperature unit %q", to)
}
