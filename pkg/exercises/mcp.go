package exercises

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/rubric"
)

var browserIndicators = []string{
	"navigate", "page", "browser", "url", "screenshot", "html",
}

const (
	mcpPassPoints      = 0.7
	mcpConfigPoints    = 0.3
	mcpVerifyPattern   = `/mcp|mcp\s+list|mcp\s+status`
	mcpMissingServers  = "Missing: No MCP server configuration detected"
	mcpInvalidJSON     = "Error: Configuration is not valid JSON"
	mcpParseErrorTitle = "Error parsing configuration"
)

// MCPServerSetup grades an MCP server configuration, its
// verification, and a browser automation smoke test.
type MCPServerSetup struct {
	grading.BaseGrader
}

// NewMCPServerSetup creates the MCP server setup grader.
func NewMCPServerSetup() *MCPServerSetup {
	return &MCPServerSetup{
		BaseGrader: grading.NewBaseGrader(grading.Info{
			ID:                  MCPServerSetupID,
			Name:                "MCP Server Setup",
			Category:            grading.CategoryMCPIntegrations,
			Difficulty:          grading.DifficultyMedium,
			Kind:                grading.KindArtifact,
			Description:         "Configure MCP servers to extend Claude Code with external tools",
			RelatedTips:         []int{11, 25},
			Prerequisites:       []grading.ID{StatusLineSetupID},
			TimeEstimateMinutes: 20,
			Hints: []string{
				"MCP config goes in ~/.claude/settings.json under mcpServers",
				"Each server needs a command and args",
				"Use /mcp to check connection status",
			},
			Objectives: []string{
				"Understand MCP server architecture",
				"Configure external tool integrations",
				"Verify and troubleshoot MCP connections",
			},
		}),
	}
}

// Validate expects configuration (JSON text or an object),
// verification_commands and test_output. It passes at 0.7
// points.
func (g *MCPServerSetup) Validate(sub grading.Submission) grading.Outcome {
	servers, configIssue := mcpServers(sub.Value("configuration"))
	verifyCommands := sub.Strings("verification_commands")
	verify := lowerText(sub, "verification_commands")

	checks := []rubric.Check{
		{
			Type:   "is_true", Target: "servers_found",
			Points: mcpConfigPoints,
			Pass:   "Good: MCP server configuration found",
			Fail:   configIssue,
			Then: []rubric.Check{{
				Type:   "contains", Target: "servers", Value: "playwright",
				Points: 0.2,
				Pass:   "Good: Playwright MCP configured",
				Fail:   "Note: Playwright not detected, but other MCP servers work too",
			}},
		},
		{
			Type:   "regex", Target: "verification", Value: mcpVerifyPattern,
			Points: 0.2,
			Pass:   "Good: Used MCP verification command",
			Fail:   "Tip: Use /mcp to verify server connections",
		},
		{
			Type:   "contains_any", Target: "test_output",
			Values: rubric.Strings(browserIndicators...),
			Points: 0.3,
			Pass:   "Good: Browser automation test successful",
			Fail:   "Missing: No test output provided",
			Otherwise: &rubric.Check{
				Type:   "min_length", Target: "test_output", Value: 1,
				Points: 0.1,
				Pass:   "Partial: Test output provided but browser action not clear",
			},
		},
	}

	tally := engine.Tally(checks, map[string]any{
		"servers_found": configIssue == "",
		"servers":       servers,
		"verification":  verify,
		"test_output":   sub.String("test_output"),
	})

	return tally.Outcome(mcpPassPoints, map[string]any{
		"has_mcp_config":   tally.Reached(mcpConfigPoints),
		"has_verification": len(verifyCommands) > 0 && strings.Contains(verify, "/mcp"),
	})
}

// mcpServers extracts the server section of an MCP
// configuration as raw JSON. mcpServers is preferred and mcp is
// the fallback. When no usable section exists the returned
// issue explains why.
func mcpServers(config any) (servers, issue string) {
	var raw string
	switch v := config.(type) {
	case nil:
	case string:
		raw = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Sprintf("%s: %v", mcpParseErrorTitle, err)
		}
		raw = string(data)
	}

	if !gjson.Valid(raw) {
		return "", mcpInvalidJSON
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return "", fmt.Sprintf(
			"%s: expected an object, got %s",
			mcpParseErrorTitle, jsonKind(root),
		)
	}

	section := root.Get("mcpServers")
	if !section.Exists() {
		section = root.Get("mcp")
	}
	if !truthy(section) {
		return "", mcpMissingServers
	}
	return section.Raw, ""
}

// truthy reports whether a JSON value is non-empty: a non-empty
// object, array or string, a non-zero number, or true.
func truthy(r gjson.Result) bool {
	switch {
	case r.IsObject():
		return len(r.Map()) > 0
	case r.IsArray():
		return len(r.Array()) > 0
	}
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True:
		return true
	}
	return false
}

func jsonKind(r gjson.Result) string {
	switch r.Type {
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.JSON:
		if r.IsArray() {
			return "array"
		}
		return "object"
	}
	return strings.ToLower(r.Type.String())
}

// Scenarios returns the self-test fixtures.
func (g *MCPServerSetup) Scenarios() []grading.Scenario {
	return []grading.Scenario{
		grading.NewScenario(
			"Playwright setup",
			"Complete Playwright MCP configuration",
			grading.Submission{
				"configuration": `{"mcpServers": {"playwright": ` +
					`{"command": "npx", "args": ["@anthropic/mcp-server-playwright"]}}}`,
				"verification_commands": []any{"/mcp", "/mcp list"},
				"test_output":           "Navigated to https://example.com, page title: Example Domain",
			},
			true,
		),
		grading.NewScenario(
			"Decoded configuration",
			"Configuration submitted as an object with a non-browser server",
			grading.Submission{
				"configuration": map[string]any{
					"mcpServers": map[string]any{
						"github": map[string]any{
							"command": "npx",
							"args":    []any{"@modelcontextprotocol/server-github"},
						},
					},
				},
				"verification_commands": []any{"/mcp"},
				"test_output":           "Listed 3 open issues; opened the issue page for #12",
			},
			true,
		),
		grading.NewScenario(
			"Invalid configuration",
			"Configuration is not JSON",
			grading.Submission{
				"configuration":         "{mcpServers: playwright",
				"verification_commands": []any{"/mcp"},
				"test_output":           "Navigated to the page",
			},
			false,
		),
		grading.NewScenario(
			"Nothing submitted",
			"Empty submission",
			grading.Submission{},
			false,
		),
	}
}
