package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.grader/pkg/grading"
)

func TestJSONStructure_ExactKeys(t *testing.T) {
	keySets := [][]string{
		{"name"},
		{"name", "version"},
		{"a", "b", "c", "d"},
	}
	for _, keys := range keySets {
		data := map[string]any{}
		for _, k := range keys {
			data[k] = true
		}
		o := JSONStructure(data, keys)
		assert.True(t, o.Passed, "keys %v", keys)
		assert.Equal(t, 1.0, o.Score)
		assert.Equal(t, []string{}, o.Details["missing"])
		assert.Equal(t, []string{}, o.Details["extra"])
		assert.Equal(t, "JSON structure valid!", o.Feedback)
	}
}

func TestJSONStructure_MissingKey(t *testing.T) {
	o := JSONStructure(
		`{"name": "x", "version": "1"}`,
		[]string{"name", "version", "license"},
	)

	assert.False(t, o.Passed)
	assert.InDelta(t, 2.0/3.0, o.Score, 1e-9)
	assert.Contains(t, o.Details["missing"], "license")
	assert.Contains(t, o.Feedback, "Missing required keys: 'license'")
}

func TestJSONStructure_ExtraKeysReportedNotFailed(t *testing.T) {
	o := JSONStructure(
		[]byte(`{"name": "x", "debug": true, "author": "y"}`),
		[]string{"name"},
		"author",
	)

	assert.True(t, o.Passed)
	assert.Equal(t, 1.0, o.Score)
	assert.Equal(t, []string{"debug"}, o.Details["extra"])
	assert.Contains(t, o.Feedback, "Unexpected keys: 'debug'")
	assert.Contains(t, o.Feedback, "JSON structure valid!")
}

func TestJSONStructure_MalformedJSON(t *testing.T) {
	for _, required := range [][]string{nil, {"a"}, {"a", "b"}} {
		o := JSONStructure(`{"a": `, required)
		assert.False(t, o.Passed)
		assert.Equal(t, 0.0, o.Score)
		assert.Contains(t, o.Feedback, "Invalid JSON")
	}
}

func TestJSONStructure_NotAnObject(t *testing.T) {
	tests := []struct {
		data any
		want string
	}{
		{`[1, 2]`, "array"},
		{`"text"`, "string"},
		{`42`, "number"},
		{`null`, "null"},
		{`true`, "boolean"},
		{[]any{"x"}, "array"},
		{3.5, "number"},
	}
	for _, tt := range tests {
		o := JSONStructure(tt.data, []string{"a"})
		assert.False(t, o.Passed)
		assert.Equal(t, 0.0, o.Score)
		assert.Equal(t, "Expected object, got "+tt.want, o.Feedback)
	}
}

func TestJSONStructure_NoRequiredKeys(t *testing.T) {
	o := JSONStructure(`{}`, nil)
	assert.True(t, o.Passed)
	assert.Equal(t, 1.0, o.Score)
}

func TestJSONStructure_DuplicateRequiredKeys(t *testing.T) {
	o := JSONStructure(`{"a": 1}`, []string{"a", "a", "b"})
	assert.Equal(t, 0.5, o.Score)
	assert.Equal(t, []string{"b"}, o.Details["missing"])
}

func TestJSONStructure_AcceptsDecodedForms(t *testing.T) {
	sub := grading.Submission{"commands": []any{}}
	assert.True(t, JSONStructure(sub, []string{"commands"}).Passed)

	raw := json.RawMessage(`{"commands": []}`)
	assert.True(t, JSONStructure(raw, []string{"commands"}).Passed)
}

func TestJSONStructure_Idempotent(t *testing.T) {
	data := `{"z": 1, "y": 2, "x": 3}`
	assert.Equal(t,
		JSONStructure(data, []string{"x", "w"}),
		JSONStructure(data, []string{"x", "w"}),
	)
}

func TestParseObject(t *testing.T) {
	obj, err := ParseObject(`{"mcpServers": {}}`)
	require.NoError(t, err)
	assert.Contains(t, obj, "mcpServers")

	_, err = ParseObject(`not json`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid JSON")
}
