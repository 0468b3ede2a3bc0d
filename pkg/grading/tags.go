package grading

import "fmt"

// Category groups exercises by skill area.
type Category int

// Category members. The list is closed; Valid rejects any other
// value.
const (
	CategoryUnknown Category = iota
	CategoryCLIFundamentals
	CategoryContextManagement
	CategoryMCPIntegrations
	CategoryTestingVerification
	CategoryWorkflowAutomation
	CategoryAdvancedOrchestration
)

var categoryNames = map[Category]string{
	CategoryCLIFundamentals:       "cli-fundamentals",
	CategoryContextManagement:     "context-management",
	CategoryMCPIntegrations:       "mcp-integrations",
	CategoryTestingVerification:   "testing-verification",
	CategoryWorkflowAutomation:    "workflow-automation",
	CategoryAdvancedOrchestration: "advanced-orchestration",
}

// Categories returns every valid category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryCLIFundamentals,
		CategoryContextManagement,
		CategoryMCPIntegrations,
		CategoryTestingVerification,
		CategoryWorkflowAutomation,
		CategoryAdvancedOrchestration,
	}
}

// String returns the category slug.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether c is a declared member.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory resolves a category slug.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown category: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category: %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Difficulty is the expected effort level of an exercise.
type Difficulty int

// Difficulty members.
const (
	DifficultyUnknown Difficulty = iota
	DifficultyEasy
	DifficultyMedium
	DifficultyHard
)

var difficultyNames = map[Difficulty]string{
	DifficultyEasy:   "easy",
	DifficultyMedium: "medium",
	DifficultyHard:   "hard",
}

// Difficulties returns every valid difficulty, easiest first.
func Difficulties() []Difficulty {
	return []Difficulty{
		DifficultyEasy, DifficultyMedium, DifficultyHard,
	}
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether d is a declared member.
func (d Difficulty) Valid() bool {
	_, ok := difficultyNames[d]
	return ok
}

// ParseDifficulty resolves a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	for d, name := range difficultyNames {
		if name == s {
			return d, nil
		}
	}
	return DifficultyUnknown, fmt.Errorf(
		"unknown difficulty: %q", s,
	)
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid difficulty: %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Kind names what a grader inspects in a submission.
type Kind int

// Kind members.
const (
	KindUnknown Kind = iota
	// KindCommand validates the sequence of commands used.
	KindCommand
	// KindOutput validates output or report content.
	KindOutput
	// KindArtifact validates created files or configuration.
	KindArtifact
	// KindScenario validates the final state after a scenario.
	KindScenario
)

var kindNames = map[Kind]string{
	KindCommand:  "command",
	KindOutput:   "output",
	KindArtifact: "artifact",
	KindScenario: "scenario",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k is a declared member.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind resolves a kind name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown validation kind: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid validation kind: %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
