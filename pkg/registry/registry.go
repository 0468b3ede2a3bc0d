// Package registry provides grader registration, discovery,
// and prerequisite-ordered retrieval.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"digital.vasic.grader/pkg/grading"
)

// ErrNotFound is returned when no grader is registered under
// the requested ID.
var ErrNotFound = errors.New("grader not found")

// Registry defines the interface for managing graders.
type Registry interface {
	// Register adds a grader. Its metadata must be valid and
	// its ID unused.
	Register(g grading.Grader) error

	// Get retrieves a grader by ID.
	Get(id grading.ID) (grading.Grader, error)

	// List returns all registered graders sorted by ID.
	List() []grading.Grader

	// ListByCategory returns graders in the given category,
	// sorted by ID.
	ListByCategory(category grading.Category) []grading.Grader

	// ListByDifficulty returns graders of the given
	// difficulty, sorted by ID.
	ListByDifficulty(
		difficulty grading.Difficulty,
	) []grading.Grader

	// GetDependencyOrder returns graders in topological
	// (prerequisite) order.
	GetDependencyOrder() ([]grading.Grader, error)

	// ValidateDependencies checks that every prerequisite
	// referenced by a grader is also registered.
	ValidateDependencies() error

	// Clear removes all graders.
	Clear()

	// Count returns the number of registered graders.
	Count() int
}

// DefaultRegistry is the standard Registry implementation.
// It is safe for concurrent use.
type DefaultRegistry struct {
	mu      sync.RWMutex
	graders map[grading.ID]grading.Grader
}

// NewRegistry creates a new, empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		graders: make(map[grading.ID]grading.Grader),
	}
}

// Register adds a grader to the registry. Returns an error if
// the grader is nil, its metadata is invalid, or a grader with
// the same ID is already registered.
func (r *DefaultRegistry) Register(g grading.Grader) error {
	if g == nil {
		return errors.New("cannot register nil grader")
	}
	info := g.Info()
	if err := info.Validate(); err != nil {
		return fmt.Errorf("invalid grader metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.graders[info.ID]; exists {
		return fmt.Errorf("grader already registered: %s", info.ID)
	}

	r.graders[info.ID] = g
	return nil
}

// Get retrieves a grader by ID.
func (r *DefaultRegistry) Get(
	id grading.ID,
) (grading.Grader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, exists := r.graders[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return g, nil
}

// List returns all registered graders sorted by ID.
func (r *DefaultRegistry) List() []grading.Grader {
	return r.filter(func(grading.Info) bool { return true })
}

// ListByCategory returns graders in the given category.
func (r *DefaultRegistry) ListByCategory(
	category grading.Category,
) []grading.Grader {
	return r.filter(func(info grading.Info) bool {
		return info.Category == category
	})
}

// ListByDifficulty returns graders of the given difficulty.
func (r *DefaultRegistry) ListByDifficulty(
	difficulty grading.Difficulty,
) []grading.Grader {
	return r.filter(func(info grading.Info) bool {
		return info.Difficulty == difficulty
	})
}

func (r *DefaultRegistry) filter(
	keep func(grading.Info) bool,
) []grading.Grader {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]grading.Grader, 0, len(r.graders))
	for _, g := range r.graders {
		if keep(g.Info()) {
			out = append(out, g)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Info().ID < out[j].Info().ID
	})
	return out
}

// GetDependencyOrder returns graders in topological order
// using Kahn's algorithm. Prerequisites that are not
// registered are ignored. Returns an error if a cycle is
// detected.
func (r *DefaultRegistry) GetDependencyOrder() (
	[]grading.Grader, error,
) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return topologicalSort(r.graders)
}

// ValidateDependencies checks that every prerequisite
// referenced by a registered grader is also registered.
// Returns the first missing prerequisite in ID order.
func (r *DefaultRegistry) ValidateDependencies() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := sortedIDs(r.graders)
	for _, id := range ids {
		for _, dep := range r.graders[id].Info().Prerequisites {
			if _, exists := r.graders[dep]; !exists {
				return fmt.Errorf(
					"grader %s has unregistered "+
						"prerequisite: %s",
					id, dep,
				)
			}
		}
	}
	return nil
}

// Clear removes all graders.
func (r *DefaultRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.graders = make(map[grading.ID]grading.Grader)
}

// Count returns the number of registered graders.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.graders)
}

// ValidateSubmission looks up a grader and validates a single
// submission with it.
func ValidateSubmission(
	reg Registry,
	id grading.ID,
	submission grading.Submission,
) (grading.Outcome, error) {
	g, err := reg.Get(id)
	if err != nil {
		return grading.Outcome{}, err
	}
	return g.Validate(submission), nil
}

func sortedIDs(graders map[grading.ID]grading.Grader) []grading.ID {
	ids := make([]grading.ID, 0, len(graders))
	for id := range graders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
