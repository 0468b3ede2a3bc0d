package registry

import (
	"fmt"
	"sort"
	"strings"

	"digital.vasic.grader/pkg/grading"
)

// topologicalSort orders graders by prerequisite using Kahn's
// algorithm, breaking ties by ID. Edges to unregistered
// prerequisites are skipped. It returns an error if a cycle is
// detected.
func topologicalSort(
	graders map[grading.ID]grading.Grader,
) ([]grading.Grader, error) {
	inDegree := make(map[grading.ID]int, len(graders))
	dependents := make(map[grading.ID][]grading.ID, len(graders))

	for id, g := range graders {
		if _, exists := inDegree[id]; !exists {
			inDegree[id] = 0
		}
		for _, dep := range g.Info().Prerequisites {
			if _, registered := graders[dep]; !registered {
				continue
			}
			inDegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var queue []grading.ID
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}
	sortIDs(queue)

	ordered := make([]grading.Grader, 0, len(graders))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		ordered = append(ordered, graders[id])

		var ready []grading.ID
		for _, dep := range dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
		sortIDs(ready)
		queue = append(queue, ready...)
	}

	if len(ordered) != len(graders) {
		return nil, fmt.Errorf(
			"circular dependency detected: %s",
			detectCycle(graders),
		)
	}

	return ordered, nil
}

// detectCycle returns a human-readable description of a
// prerequisite cycle, e.g. "a -> b -> a". It uses iterative DFS
// with three colouring states.
func detectCycle(graders map[grading.ID]grading.Grader) string {
	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // finished
	)

	colour := make(map[grading.ID]int, len(graders))

	type frame struct {
		id    grading.ID
		deps  []grading.ID
		index int
	}

	for _, startID := range sortedIDs(graders) {
		if colour[startID] != white {
			continue
		}

		stack := []frame{
			{id: startID, deps: prerequisites(graders, startID)},
		}
		colour[startID] = gray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.index >= len(top.deps) {
				colour[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}

			dep := top.deps[top.index]
			top.index++

			switch colour[dep] {
			case gray:
				var path []string
				for i := len(stack) - 1; i >= 0; i-- {
					path = append(path, string(stack[i].id))
					if stack[i].id == dep {
						break
					}
				}
				// stack order runs dependent -> prerequisite
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				path = append(path, string(dep))
				return strings.Join(path, " -> ")
			case white:
				colour[dep] = gray
				stack = append(stack, frame{
					id:   dep,
					deps: prerequisites(graders, dep),
				})
			}
		}
	}

	return "unknown cycle"
}

// prerequisites returns the sorted, registered prerequisite IDs
// of a grader.
func prerequisites(
	graders map[grading.ID]grading.Grader,
	id grading.ID,
) []grading.ID {
	g, ok := graders[id]
	if !ok {
		return nil
	}
	var deps []grading.ID
	for _, dep := range g.Info().Prerequisites {
		if _, registered := graders[dep]; registered {
			deps = append(deps, dep)
		}
	}
	sortIDs(deps)
	return deps
}

func sortIDs(ids []grading.ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
