package rubric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateNotEmpty(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		passed bool
	}{
		{"nil value", nil, false},
		{"empty string", "", false},
		{"whitespace only", "   ", false},
		{"non-empty string", "hello", true},
		{"empty string slice", []string{}, false},
		{"empty slice", []any{}, false},
		{"non-empty slice", []any{1}, true},
		{"empty map", map[string]any{}, false},
		{"non-empty map", map[string]any{"k": "v"}, true},
		{"integer", 42, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := evaluateNotEmpty(Check{}, tt.value)
			assert.Equal(t, tt.passed, ok)
		})
	}
}

func TestEvaluateIsTrue(t *testing.T) {
	ok, _ := evaluateIsTrue(Check{}, true)
	assert.True(t, ok)
	ok, _ = evaluateIsTrue(Check{}, false)
	assert.False(t, ok)
	ok, msg := evaluateIsTrue(Check{}, "true")
	assert.False(t, ok)
	assert.Equal(t, "value is not a boolean", msg)
}

func TestEvaluateContains(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected any
		passed   bool
	}{
		{"match", "tmux send-keys", "send-keys", true},
		{"case-insensitive", "Docker RUN --RM", "--rm", true},
		{"absent", "tmux attach", "send-keys", false},
		{"non-string value", 5, "5", false},
		{"non-string expected", "abc", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := evaluateContains(
				Check{Value: tt.expected}, tt.value,
			)
			assert.Equal(t, tt.passed, ok)
		})
	}
}

func TestEvaluateContainsAny(t *testing.T) {
	c := Check{Values: Strings("navigate", "page", "browser")}
	ok, msg := evaluateContainsAny(c, "Navigated to example.com")
	assert.True(t, ok)
	assert.Equal(t, "contains 'navigate'", msg)

	ok, _ = evaluateContainsAny(c, "no luck")
	assert.False(t, ok)

	ok, _ = evaluateContainsAny(Check{Value: "diff, git"}, "git diff")
	assert.True(t, ok)

	ok, _ = evaluateContainsAny(c, nil)
	assert.False(t, ok)
}

func TestEvaluateContainsCount(t *testing.T) {
	c := Check{
		Value:  2,
		Values: Strings("review", "test", "debug", "ci"),
	}
	ok, msg := evaluateContainsCount(c, "review PR then debug")
	assert.True(t, ok)
	assert.Equal(t, "found 2 >= 2", msg)

	ok, _ = evaluateContainsCount(c, "review only")
	assert.False(t, ok)

	ok, _ = evaluateContainsCount(Check{Values: c.Values}, "x")
	assert.False(t, ok, "missing minimum")
}

func TestEvaluateRegex(t *testing.T) {
	ok, _ := evaluateRegex(
		Check{Value: `from\s+(node|npm)`}, "FROM node:20-slim",
	)
	assert.True(t, ok)

	ok, _ = evaluateRegex(Check{Value: `^abc$`}, "xabc")
	assert.False(t, ok)

	assert.Panics(t, func() {
		evaluateRegex(Check{Value: `(`}, "x")
	})
}

func TestEvaluateRegexAny(t *testing.T) {
	c := Check{Values: Strings(`tmux\s+new-session`, `tmux\s+new\s+-s`)}
	ok, _ := evaluateRegexAny(c, "tmux new -s runner")
	assert.True(t, ok)
	ok, _ = evaluateRegexAny(c, "tmux attach")
	assert.False(t, ok)
	ok, _ = evaluateRegexAny(Check{}, "anything")
	assert.False(t, ok)
}

func TestEvaluateMinLength(t *testing.T) {
	ok, _ := evaluateMinLength(Check{Value: 11}, "exactly 11!")
	assert.True(t, ok)
	ok, _ = evaluateMinLength(Check{Value: 11}, "too short")
	assert.False(t, ok)
	ok, _ = evaluateMinLength(Check{Value: 3}, "héé")
	assert.True(t, ok, "counts runes")
	ok, _ = evaluateMinLength(Check{Value: "3"}, "abc")
	assert.False(t, ok)
}

func TestEvaluateMinCount(t *testing.T) {
	ok, _ := evaluateMinCount(Check{Value: 3}, []string{"a", "b", "c"})
	assert.True(t, ok)
	ok, _ = evaluateMinCount(Check{Value: 3}, []any{"a"})
	assert.False(t, ok)
	ok, msg := evaluateMinCount(Check{Value: 1}, "abc")
	assert.False(t, ok)
	assert.Equal(t, "value is not countable", msg)
}

func TestEvaluateMinAndAboveValue(t *testing.T) {
	ok, _ := evaluateMinValue(Check{Value: 0.5}, 0.5)
	assert.True(t, ok)
	ok, _ = evaluateMinValue(Check{Value: 0.5}, 0.49)
	assert.False(t, ok)
	ok, _ = evaluateMinValue(Check{Value: 3}, 4)
	assert.True(t, ok)

	ok, _ = evaluateAboveValue(Check{Value: 0}, 0.0)
	assert.False(t, ok)
	ok, _ = evaluateAboveValue(Check{Value: 0}, 0.01)
	assert.True(t, ok)
	ok, _ = evaluateAboveValue(Check{Value: 0}, "1")
	assert.False(t, ok)
}
