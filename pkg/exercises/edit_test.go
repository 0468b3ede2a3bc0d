package exercises

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.grader/pkg/grading"
)

func edit(content string) grading.Outcome {
	return NewSimpleEdit().Validate(grading.Submission{"content": content})
}

func TestSimpleEdit_Fixed(t *testing.T) {
	o := edit(simpleEditFixed)

	assert.True(t, o.Passed)
	assert.InDelta(t, 1.0, o.Score, 1e-9)
	assert.Equal(t, 4, o.Detail("fixes_applied"))
	assert.Equal(t, 100, o.Detail("points"))
	assert.InDelta(t, 1.0, o.Detail("similarity"), 1e-9)
	assert.Equal(t, true, o.Detail("structure_preserved"))
	assert.Equal(t, []string{}, o.Detail("missing_fixes"))
	assert.Contains(t, o.Messages(), "File structure preserved")
	assert.Contains(t, o.Messages(), "Similarity: 100.0%")
}

func TestSimpleEdit_Starter(t *testing.T) {
	o := edit(simpleEditStarter)

	assert.False(t, o.Passed)
	assert.InDelta(t, 0.45, o.Score, 1e-9)
	assert.Equal(t, 0, o.Detail("fixes_applied"))
	assert.Equal(t, []string{
		"variable: 10/25",
		"return_type: 15/25",
		"parameter_type: 0/25",
		"import: 20/25",
	}, o.PartialCredit)
	assert.Contains(t, o.Messages(), "FAIL: Parameter still untyped")
	assert.Contains(t, o.Messages(),
		"PARTIAL: Return type updated to Promise<Data> (format may differ)")
}

func TestSimpleEdit_InPlaceFixes(t *testing.T) {
	content := applyEditFixes(simpleEditStarter)
	require.NotEqual(t, simpleEditFixed, content)

	o := edit(content)
	assert.True(t, o.Passed)
	assert.Equal(t, 4, o.Detail("fixes_applied"))
}

func TestSimpleEdit_Rewritten(t *testing.T) {
	g := NewSimpleEdit()
	var rewritten grading.Scenario
	for _, s := range g.Scenarios() {
		if s.Name == "Rewritten file" {
			rewritten = s
		}
	}
	require.NotEmpty(t, rewritten.Name)

	o := g.Validate(rewritten.Input)
	assert.False(t, o.Passed)
	assert.Equal(t, 100, o.Detail("points"))
	assert.Equal(t, false, o.Detail("structure_preserved"))
	assert.Less(t, o.Detail("similarity"), 0.8)
	assert.Contains(t, o.Messages(),
		"Not passed: too different from the corrected file, edit in place instead of rewriting")
	assert.True(t, strings.HasPrefix(
		o.Messages()[4], "Warning: the Edit tool should make minimal changes."))
}

func TestSimpleEdit_ReorderedImportPasses(t *testing.T) {
	content := strings.Replace(simpleEditFixed,
		"import { helper, utils }", "import { utils, helper }", 1)

	o := edit(content)
	assert.True(t, o.Passed, o.Feedback)
	assert.InDelta(t, 0.95, o.Score, 1e-9)
	assert.Equal(t, 95, o.Detail("points"))
	assert.Equal(t, 3, o.Detail("fixes_applied"))
	assert.Contains(t, o.PartialCredit, "import: 20/25")
	assert.Contains(t, o.Messages(),
		"PARTIAL: Import updated to include utils (format may differ)")
	for _, m := range o.Messages() {
		assert.False(t, strings.HasPrefix(m, "Not passed"), m)
	}
}

func TestSimpleEdit_BelowPassPoints(t *testing.T) {
	o := edit(strings.ReplaceAll(simpleEditStarter, "usrName", "userName"))

	assert.False(t, o.Passed)
	assert.Equal(t, 60, o.Detail("points"))
	assert.Contains(t, o.Messages(), "Not passed: 60/100 points, 75 needed")
}

func TestSimpleEdit_FixesAreCaseSensitive(t *testing.T) {
	content := strings.ReplaceAll(simpleEditFixed, "userName", "USERNAME")

	o := edit(content)
	assert.Equal(t, 85, o.Detail("points"))
	assert.Equal(t, 3, o.Detail("fixes_applied"))
	assert.Contains(t, o.PartialCredit, "variable: 10/25")
	assert.Contains(t, o.Detail("missing_fixes"), `(?-i)const userName\b`)

	lower := strings.Replace(simpleEditFixed,
		"function processItem(item: Item)", "FUNCTION processItem(item: Item)", 1)
	assert.Contains(t, edit(lower).PartialCredit, "parameter_type: 15/25")
}

func TestSimpleEdit_StarterFiles(t *testing.T) {
	files := NewSimpleEdit().Info().StarterFiles
	require.Contains(t, files, "app.ts")
	assert.Equal(t, simpleEditStarter, files["app.ts"])
	assert.Contains(t, simpleEditStarter, "const usrName = 'John';")
}

func TestSimpleEdit_Empty(t *testing.T) {
	o := edit("")
	assert.False(t, o.Passed)
	assert.Equal(t, "No file content submitted.", o.Feedback)
}
