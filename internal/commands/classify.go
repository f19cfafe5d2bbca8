package commands

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/codeprompt/internal/pathfilter"
)

// ClassifyPaths evaluates every path with filter using at most workers goroutines.
// Results keep the order of paths. A non-positive workers value uses runtime.NumCPU.
func ClassifyPaths(ctx context.Context, filter *pathfilter.Filter, paths []string, workers int) ([]pathfilter.Decision, error) {
	if filter == nil {
		filter = pathfilter.New(pathfilter.Options{})
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	decisions := make([]pathfilter.Decision, len(paths))
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for pathIndex, candidatePath := range paths {
		pathIndex, candidatePath := pathIndex, candidatePath
		if groupContext.Err() != nil {
			break
		}
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			decisions[pathIndex] = filter.Classify(candidatePath)
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}
	return decisions, nil
}
