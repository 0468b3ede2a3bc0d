package bank

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidationError represents a validation issue found in a bank
// file.
type ValidationError struct {
	Field   string
	Message string
	Index   int // -1 if not applicable
}

func (e ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf(
			"scenarios[%d].%s: %s", e.Index, e.Field, e.Message,
		)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateFile validates a bank file and returns every problem
// found, combined into one error. Use multierr.Errors to split
// it into individual ValidationErrors.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ValidationError{Field: "file", Message: err.Error(), Index: -1}
	}

	file, err := decode(data)
	if err != nil {
		return err
	}
	return validateFile(file)
}

func decode(data []byte) (File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, ValidationError{
			Field: "syntax", Message: err.Error(), Index: -1,
		}
	}
	return file, nil
}

func validateFile(file File) error {
	var errs error

	if file.Version == "" {
		errs = multierr.Append(errs, ValidationError{
			Field: "version", Message: "version is required", Index: -1,
		})
	}

	seen := make(map[string]bool, len(file.Scenarios))
	for i, entry := range file.Scenarios {
		errs = multierr.Append(errs, validateEntry(i, entry))

		key := string(entry.Grader) + "\x00" + entry.Name
		if entry.Grader != "" && entry.Name != "" {
			if seen[key] {
				errs = multierr.Append(errs, ValidationError{
					Field: "name",
					Message: fmt.Sprintf(
						"duplicate scenario %q for grader %s",
						entry.Name, entry.Grader,
					),
					Index: i,
				})
			}
			seen[key] = true
		}
	}

	return errs
}

func validateEntry(index int, entry Entry) error {
	var errs error

	if err := validate.Struct(entry); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return ValidationError{
				Field: "scenario", Message: err.Error(), Index: index,
			}
		}
		for _, fe := range fieldErrs {
			errs = multierr.Append(errs, ValidationError{
				Field:   fe.Field(),
				Message: describe(fe),
				Index:   index,
			})
		}
	}

	if v, ok := entry.Expected["passed"]; ok {
		if _, isBool := v.(bool); !isBool {
			errs = multierr.Append(errs, ValidationError{
				Field:   "expected.passed",
				Message: fmt.Sprintf("must be a boolean, got %v", v),
				Index:   index,
			})
		}
	}

	return errs
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be >= " + fe.Param()
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
