package engine

import (
	"sync"

	"github.com/andreyakinshin/taskforge/internal/trace"
)

// runParallel drives scheduled through a pool of worker goroutines, all
// coordinated by a single coordinator actor. Exactly one attempt is made
// per scheduled target.
func runParallel(scheduled map[string]*Target, effective map[string][]string, layers []Layer, ctx *TargetContext, tracer trace.Tracer, workers int) (*TargetContext, error) {
	if workers < 1 {
		workers = 1
	}
	// Never spin up more workers than there is work to saturate.
	if workers > len(scheduled) {
		workers = len(scheduled)
	}
	if workers < 1 {
		workers = 1
	}

	coord := newCoordinator(scheduled, effective, layers, ctx, tracer, workers)

	var wg sync.WaitGroup
	errs := make([]error, workers)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			errs[i] = runWorker(coord, ctx, tracer)
		}(i)
	}

	finalCtx, coordErr := coord.run()
	wg.Wait()

	if coordErr != nil {
		return finalCtx, coordErr
	}
	for _, err := range errs {
		if err != nil {
			return finalCtx, err
		}
	}
	return finalCtx, nil
}
