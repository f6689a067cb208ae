package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTime(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	assert.Equal(t, "2026-03-14T09:26:53Z", Normalize(ts))
	assert.Equal(t, "2026-03-14T09:26:53Z", Normalize(&ts))

	var nilTime *time.Time
	assert.Nil(t, Normalize(nilTime))
}

func TestNormalizeDuration(t *testing.T) {
	assert.Equal(t, "1m30s", Normalize(90*time.Second))
}

func TestNormalizeScalarsPassThrough(t *testing.T) {
	assert.Equal(t, 42, Normalize(42))
	assert.Equal(t, 2.5, Normalize(2.5))
	assert.Equal(t, true, Normalize(true))
	assert.Equal(t, "plain", Normalize("plain"))
	assert.Nil(t, Normalize(nil))
}

func TestNormalizeRecursesIntoCollections(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	in := map[string]any{
		"when":  ts,
		"items": []any{ts, "x", 1},
		"inner": map[string]any{"deadline": &ts},
	}

	out := Normalize(in).(map[string]any)
	assert.Equal(t, "2026-01-02T03:04:05Z", out["when"])
	assert.Equal(t, []any{"2026-01-02T03:04:05Z", "x", 1}, out["items"])
	assert.Equal(t, "2026-01-02T03:04:05Z", out["inner"].(map[string]any)["deadline"])
}

func TestNormalizeTypedCollections(t *testing.T) {
	out := Normalize(map[string]time.Time{"a": time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
	assert.Equal(t, map[string]any{"a": "2026-01-01T00:00:00Z"}, out)

	assert.Equal(t, []any{1.0, 2.0}, Normalize([]float64{1, 2}))
}

func TestNormalizeUnknownTypesStringify(t *testing.T) {
	type opaque struct{ A int }
	assert.Equal(t, "{7}", Normalize(opaque{A: 7}))
}

func TestNormalizeMapPreservesNil(t *testing.T) {
	assert.Nil(t, NormalizeMap(nil))
	assert.Equal(t, map[string]any{}, NormalizeMap(map[string]any{}))
}
