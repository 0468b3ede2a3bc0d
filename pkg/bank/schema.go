package bank

import "digital.vasic.grader/pkg/grading"

// File represents the on-disk structure of a scenario bank
// file. YAML and JSON files share this shape.
type File struct {
	Version   string         `yaml:"version" json:"version" validate:"required"`
	Name      string         `yaml:"name" json:"name"`
	Scenarios []Entry        `yaml:"scenarios" json:"scenarios"`
	Metadata  map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Entry is one extra scenario attached to a grader by ID.
type Entry struct {
	Grader      grading.ID         `yaml:"grader" json:"grader" validate:"required"`
	Name        string             `yaml:"name" json:"name" validate:"required"`
	Description string             `yaml:"description" json:"description"`
	Input       grading.Submission `yaml:"input" json:"input" validate:"required"`
	Expected    map[string]any     `yaml:"expected" json:"expected"`
	Weight      *float64           `yaml:"weight,omitempty" json:"weight,omitempty" validate:"omitempty,gte=0"`
	Hints       []string           `yaml:"hints,omitempty" json:"hints,omitempty"`
}

// Scenario converts the entry, defaulting a missing weight to
// 1.0.
func (e Entry) Scenario() grading.Scenario {
	weight := 1.0
	if e.Weight != nil {
		weight = *e.Weight
	}
	expected := make(map[string]any, len(e.Expected))
	for k, v := range e.Expected {
		expected[k] = v
	}
	return grading.Scenario{
		Name:        e.Name,
		Description: e.Description,
		Input:       e.Input,
		Expected:    expected,
		Weight:      weight,
		Hints:       append([]string(nil), e.Hints...),
	}
}
