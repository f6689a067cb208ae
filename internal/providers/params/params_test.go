package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	p := map[string]any{"name": "pasta", "count": 2.0}

	s, err := String(p, "name")
	require.NoError(t, err)
	assert.Equal(t, "pasta", s)

	_, err = String(p, "missing")
	assert.Error(t, err)

	_, err = String(p, "count")
	assert.Error(t, err)
}

func TestOptionalString(t *testing.T) {
	p := map[string]any{"label": "tea"}
	assert.Equal(t, "tea", OptionalString(p, "label", "x"))
	assert.Equal(t, "x", OptionalString(p, "missing", "x"))
	assert.Equal(t, "x", OptionalString(map[string]any{"label": 5}, "label", "x"))
}

func TestFloat(t *testing.T) {
	p := map[string]any{
		"json":   2.5,
		"int":    3,
		"string": "4.5",
		"bad":    "not a number",
		"nil":    nil,
	}

	f, err := Float(p, "json")
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	f, err = Float(p, "int")
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	f, err = Float(p, "string")
	require.NoError(t, err)
	assert.Equal(t, 4.5, f)

	_, err = Float(p, "bad")
	assert.Error(t, err)
	_, err = Float(p, "nil")
	assert.Error(t, err)
	_, err = Float(p, "missing")
	assert.Error(t, err)
}

func TestOptionalFloat(t *testing.T) {
	f, err := OptionalFloat(map[string]any{}, "missing", 7.5)
	require.NoError(t, err)
	assert.Equal(t, 7.5, f)

	f, err = OptionalFloat(map[string]any{"v": 1.0}, "v", 7.5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f)

	_, err = OptionalFloat(map[string]any{"v": "junk"}, "v", 7.5)
	assert.Error(t, err)
}

func TestInt(t *testing.T) {
	n, err := Int(map[string]any{"seconds": 480.0}, "seconds")
	require.NoError(t, err)
	assert.Equal(t, 480, n)
}

func TestFloatSlice(t *testing.T) {
	values, err := FloatSlice(map[string]any{"v": []any{1.0, 2, "3"}}, "v")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, values)

	_, err = FloatSlice(map[string]any{"v": "not a list"}, "v")
	assert.Error(t, err)

	_, err = FloatSlice(map[string]any{"v": []any{1.0, "junk"}}, "v")
	assert.Error(t, err)

	_, err = FloatSlice(map[string]any{}, "v")
	assert.Error(t, err)
}
