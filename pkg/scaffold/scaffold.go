// Package scaffold generates the skeleton of a new exercise: its
// learner-facing description, a grader stub wired to the
// grading packages, and empty solution and starter directories.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"digital.vasic.grader/pkg/grading"
)

// Files written into every generated exercise directory.
const (
	DescriptionFile = "challenge.md"
	GraderFile      = "grader.go"
	SolutionDir     = "solution"
	StarterDir      = "starter"
)

const (
	permissionDirectory = 0o755
	permissionFile      = 0o644
)

//go:embed templates/*.tmpl
var templates embed.FS

// ErrExists is returned when the category already holds an
// exercise with the requested name.
var ErrExists = errors.New("exercise already exists")

var validName = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// defaultDifficulty is the starting difficulty for each
// category.
var defaultDifficulty = map[grading.Category]grading.Difficulty{
	grading.CategoryCLIFundamentals:       grading.DifficultyEasy,
	grading.CategoryContextManagement:     grading.DifficultyMedium,
	grading.CategoryMCPIntegrations:       grading.DifficultyMedium,
	grading.CategoryTestingVerification:   grading.DifficultyMedium,
	grading.CategoryWorkflowAutomation:    grading.DifficultyMedium,
	grading.CategoryAdvancedOrchestration: grading.DifficultyHard,
}

var categoryConst = map[grading.Category]string{
	grading.CategoryCLIFundamentals:       "CategoryCLIFundamentals",
	grading.CategoryContextManagement:     "CategoryContextManagement",
	grading.CategoryMCPIntegrations:       "CategoryMCPIntegrations",
	grading.CategoryTestingVerification:   "CategoryTestingVerification",
	grading.CategoryWorkflowAutomation:    "CategoryWorkflowAutomation",
	grading.CategoryAdvancedOrchestration: "CategoryAdvancedOrchestration",
}

// Options selects what to generate.
type Options struct {
	// Root is the directory holding one subdirectory per
	// category.
	Root string

	// Category is a category slug such as "cli-fundamentals".
	Category string

	// Name is the exercise name. Dashes and spaces are folded
	// to underscores and the result is lower-cased.
	Name string
}

// Result describes a generated exercise.
type Result struct {
	ID         grading.ID
	Dir        string
	Number     int
	Category   grading.Category
	Difficulty grading.Difficulty
	Files      []string
}

// templateData is the data handed to both templates.
type templateData struct {
	ID              string
	Title           string
	Package         string
	Type            string
	Difficulty      string
	DifficultyConst string
	CategoryDisplay string
	CategoryConst   string
}

// NormalizeName folds an exercise name to snake case.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "_", " ", "_").Replace(name)
}

// Title converts a snake_case name to Title Case words.
func Title(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

// Generate writes a new exercise skeleton under
// <root>/<category>/<n>_<name>, where n is one past the highest
// number already used in the category.
func Generate(opts Options) (*Result, error) {
	category, err := grading.ParseCategory(opts.Category)
	if err != nil {
		return nil, fmt.Errorf(
			"%w (valid categories: %s)", err, categoryList(),
		)
	}

	name := NormalizeName(opts.Name)
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("invalid exercise name: %q", opts.Name)
	}

	categoryDir := filepath.Join(opts.Root, category.String())
	number, err := nextNumber(categoryDir, name)
	if err != nil {
		return nil, err
	}

	dirName := fmt.Sprintf("%d_%s", number, name)
	dir := filepath.Join(categoryDir, dirName)
	difficulty := defaultDifficulty[category]
	id := grading.ID(category.String() + "/" + dirName)

	data := templateData{
		ID:              string(id),
		Title:           Title(name),
		Package:         strings.ReplaceAll(name, "_", ""),
		Type:            strings.ReplaceAll(Title(name), " ", ""),
		Difficulty:      difficulty.String(),
		DifficultyConst: "Difficulty" + capitalize(difficulty.String()),
		CategoryDisplay: Title(category.String()),
		CategoryConst:   categoryConst[category],
	}
	if data.Package[0] >= '0' && data.Package[0] <= '9' {
		data.Package = "exercise" + data.Package
		data.Type = "Exercise" + data.Type
	}

	tmpl, err := load()
	if err != nil {
		return nil, err
	}
	description, err := render(tmpl, "challenge.md.tmpl", data)
	if err != nil {
		return nil, err
	}
	stub, err := render(tmpl, "grader.go.tmpl", data)
	if err != nil {
		return nil, err
	}
	if stub, err = format.Source(stub); err != nil {
		return nil, fmt.Errorf("formatting grader stub: %w", err)
	}

	for _, sub := range []string{SolutionDir, StarterDir} {
		if err := os.MkdirAll(
			filepath.Join(dir, sub), permissionDirectory,
		); err != nil {
			return nil, fmt.Errorf("creating exercise directory: %w", err)
		}
	}

	files := map[string][]byte{
		DescriptionFile: description,
		GraderFile:      stub,
	}
	for _, file := range []string{DescriptionFile, GraderFile} {
		err := os.WriteFile(
			filepath.Join(dir, file), files[file], permissionFile,
		)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", file, err)
		}
	}

	return &Result{
		ID:         id,
		Dir:        dir,
		Number:     number,
		Category:   category,
		Difficulty: difficulty,
		Files: []string{
			DescriptionFile, GraderFile, SolutionDir + "/", StarterDir + "/",
		},
	}, nil
}

func load() (*template.Template, error) {
	funcMap := template.FuncMap{
		"title": capitalize,
	}
	t, err := template.New("templates").
		Option("missingkey=error").
		Funcs(funcMap).
		ParseFS(templates, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return t, nil
}

func render(
	t *template.Template, name string, data templateData,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// nextNumber scans a category directory for numbered exercise
// directories and returns the next free number. It fails with
// ErrExists when name is already taken under any number.
func nextNumber(categoryDir, name string) (int, error) {
	entries, err := os.ReadDir(categoryDir)
	if errors.Is(err, os.ErrNotExist) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading category directory: %w", err)
	}

	highest := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		prefix, rest, ok := strings.Cut(entry.Name(), "_")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		if rest == name {
			return 0, fmt.Errorf(
				"%w: %s", ErrExists,
				filepath.Join(categoryDir, entry.Name()),
			)
		}
		highest = max(highest, n)
	}
	return highest + 1, nil
}

func categoryList() string {
	names := make([]string, 0, len(grading.Categories()))
	for _, c := range grading.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}
