package commands_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/temirov/codeprompt/internal/commands"
	"github.com/temirov/codeprompt/internal/pathfilter"
)

func TestClassifyPathsPreservesOrder(testingHandle *testing.T) {
	testingHandle.Parallel()

	filter := pathfilter.New(pathfilter.Options{CustomInclude: pathfilter.ParsePatternList("**/*.png")})
	var paths []string
	for pathIndex := 0; pathIndex < 200; pathIndex++ {
		switch pathIndex % 4 {
		case 0:
			paths = append(paths, fmt.Sprintf("src/file%d.go", pathIndex))
		case 1:
			paths = append(paths, fmt.Sprintf("node_modules/pkg%d/index.js", pathIndex))
		case 2:
			paths = append(paths, fmt.Sprintf("assets/image%d.png", pathIndex))
		default:
			paths = append(paths, fmt.Sprintf("archive%d.zip", pathIndex))
		}
	}

	for _, workers := range []int{0, 1, 3, 64} {
		decisions, classifyError := commands.ClassifyPaths(context.Background(), filter, paths, workers)
		if classifyError != nil {
			testingHandle.Fatalf("ClassifyPaths(workers=%d) error: %v", workers, classifyError)
		}
		if len(decisions) != len(paths) {
			testingHandle.Fatalf("expected %d decisions, got %d", len(paths), len(decisions))
		}
		for decisionIndex, decision := range decisions {
			if decision.Path != paths[decisionIndex] {
				testingHandle.Fatalf("decision %d out of order: %s vs %s", decisionIndex, decision.Path, paths[decisionIndex])
			}
			if decision != filter.Classify(paths[decisionIndex]) {
				testingHandle.Fatalf("parallel decision differs for %s: %+v", decision.Path, decision)
			}
		}
	}
}

func TestClassifyPathsHonorsCancellation(testingHandle *testing.T) {
	testingHandle.Parallel()

	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()
	_, classifyError := commands.ClassifyPaths(cancelledContext, nil, []string{"a.go", "b.go"}, 2)
	if !errors.Is(classifyError, context.Canceled) {
		testingHandle.Fatalf("expected context.Canceled, got %v", classifyError)
	}
}

func TestClassifyPathsEmptyInput(testingHandle *testing.T) {
	testingHandle.Parallel()

	decisions, classifyError := commands.ClassifyPaths(context.Background(), nil, nil, 4)
	if classifyError != nil || len(decisions) != 0 {
		testingHandle.Fatalf("unexpected result for empty input: %v %v", decisions, classifyError)
	}
}
