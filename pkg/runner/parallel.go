package runner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"digital.vasic.grader/pkg/grading"
)

// runParallel self-tests graders concurrently, at most
// maxConcurrency at a time. Reports are returned in the same
// order as ids; graders that could not start are left out and
// the first such error is returned.
func runParallel(
	ctx context.Context,
	r *DefaultRunner,
	ids []grading.ID,
	maxConcurrency int,
) ([]*GraderReport, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	ordered := make([]*GraderReport, len(ids))
	var group errgroup.Group
	group.SetLimit(maxConcurrency)

	for i, id := range ids {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, err := r.registry.Get(id)
			if err != nil {
				return fmt.Errorf("grader %s: %w", id, err)
			}
			ordered[i] = r.execute(ctx, g)
			return nil
		})
	}
	err := group.Wait()

	reports := make([]*GraderReport, 0, len(ids))
	for _, report := range ordered {
		if report != nil {
			reports = append(reports, report)
		}
	}
	return reports, err
}
