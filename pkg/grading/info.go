package grading

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DefaultTimeEstimateMinutes is used when an exercise does not
// declare how long it takes.
const DefaultTimeEstimateMinutes = 15

var infoValidate = validator.New()

// Info is the static metadata describing an exercise.
type Info struct {
	ID          ID         `json:"id" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Category    Category   `json:"category" validate:"required"`
	Difficulty  Difficulty `json:"difficulty" validate:"required"`
	Kind        Kind       `json:"validation_type" validate:"required"`
	Description string     `json:"description"`

	// RelatedTips references numbered tips in the course
	// material.
	RelatedTips []int `json:"related_tips" validate:"dive,gte=0"`

	// Prerequisites lists exercises that should be completed
	// first. The registry orders graders by them.
	Prerequisites []ID `json:"prerequisites"`

	TimeEstimateMinutes int `json:"time_estimate_minutes" validate:"gte=1"`

	Hints      []string `json:"hints"`
	Objectives []string `json:"learning_objectives"`

	// StarterFiles maps relative paths to the content handed
	// to the learner before they begin.
	StarterFiles map[string]string `json:"-"`
}

// Validate checks that the metadata is complete and that every
// tag is a declared member of its set.
func (i Info) Validate() error {
	if err := infoValidate.Struct(i); err != nil {
		return fmt.Errorf("grader %q: %w", i.ID, err)
	}
	if !i.Category.Valid() {
		return fmt.Errorf(
			"grader %q: invalid category %d", i.ID, int(i.Category),
		)
	}
	if !i.Difficulty.Valid() {
		return fmt.Errorf(
			"grader %q: invalid difficulty %d",
			i.ID, int(i.Difficulty),
		)
	}
	if !i.Kind.Valid() {
		return fmt.Errorf(
			"grader %q: invalid validation kind %d",
			i.ID, int(i.Kind),
		)
	}
	for _, p := range i.Prerequisites {
		if p == i.ID {
			return fmt.Errorf(
				"grader %q: lists itself as a prerequisite", i.ID,
			)
		}
	}
	return nil
}
