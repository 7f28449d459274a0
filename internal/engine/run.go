package engine

import (
	"context"

	"github.com/andreyakinshin/taskforge/internal/interrupt"
	"github.com/andreyakinshin/taskforge/internal/trace"
)

// RunMode selects how the main phase's scheduled targets are executed.
type RunMode int

const (
	// ModeSequential walks the flattened layered order one target at a time.
	ModeSequential RunMode = iota
	// ModeParallel drives the layered order through a worker pool respecting
	// effective-predecessor readiness.
	ModeParallel
	// ModeSingleTarget runs exactly the named target, ignoring its
	// dependencies entirely.
	ModeSingleTarget
)

// RunOptions configures one invocation of Run.
type RunOptions struct {
	Mode      RunMode
	Workers   int // only consulted when Mode == ModeParallel
	Arguments []string
	Tracer    trace.Tracer
	Interrupt *interrupt.Handler // nil disables signal handling (e.g. library callers, tests)
}

// Run executes the named root target through the main phase, then the
// lifecycle hooks, and returns a *BuildFailedError (never a
// bare target error) if any scheduled target failed. e must have no pending
// description; HasPendingDescription is checked first.
func Run(e *Engine, rootName string, opts RunOptions) (*TargetContext, error) {
	if e.HasPendingDescription() {
		return nil, newDeclarationError("a Description() call was never consumed by a following Create()")
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.NoopTracer{}
	}

	cancelCtx := context.Background()
	var stopInterrupt func()
	if opts.Interrupt != nil {
		cancelCtx, stopInterrupt = opts.Interrupt.Install()
		defer stopInterrupt()
	}

	ctx := &TargetContext{
		FinalTarget:         rootName,
		AllExecutingTargets: make(map[string]*Target),
		Arguments:           opts.Arguments,
		CancellationToken:   cancelCtx,
	}

	var mainErr error
	switch opts.Mode {
	case ModeSingleTarget:
		t, err := e.Get(rootName)
		if err != nil {
			return nil, err
		}
		ctx.AllExecutingTargets[t.canonical] = t
		ctx = runSequential([]*Target{t}, ctx, tracer)

	case ModeParallel:
		layers, reachable, effective, err := e.buildSchedule(rootName)
		if err != nil {
			return nil, err
		}
		ctx.AllExecutingTargets = reachable
		ctx, mainErr = runParallel(reachable, effective, layers, ctx, tracer, opts.Workers)
		if mainErr != nil {
			return ctx, mainErr
		}

	default: // ModeSequential
		layers, reachable, _, err := e.buildSchedule(rootName)
		if err != nil {
			return nil, err
		}
		ctx.AllExecutingTargets = reachable
		ctx = runSequential(Flatten(layers), ctx, tracer)
	}

	ctx = runBuildFailureTargets(e, ctx, tracer)
	ctx = runFinalTargets(e, ctx, tracer)

	// Cancellation takes precedence over aggregation: per,
	// BuildFailed is only raised "if errors exist and cancellation was not
	// requested" — a cancelled run reports cancellation instead, even
	// though some of its skipped targets carry a (cancellation-kind) error.
	if cancelCtx.Err() != nil {
		tracer.BuildState(trace.StatusCancelled, "build cancelled")
		return ctx, newCancellationError(rootName)
	}

	if failed := failedTargets(ctx); len(failed) > 0 {
		tracer.BuildState(trace.StatusFailure, "build failed")
		return ctx, buildFailedFrom(ctx, failed)
	}

	tracer.BuildState(trace.StatusOk, "build succeeded")
	return ctx, nil
}

// failedTargets returns the names of every target in ctx whose result
// recorded a non-nil error, in completion order.
func failedTargets(ctx *TargetContext) []string {
	var names []string
	for _, r := range ctx.PreviousTargets {
		if r.Err != nil {
			names = append(names, r.Target.Name)
		}
	}
	return names
}

// buildFailedFrom aggregates every failed result into a single
// *BuildFailedError.
func buildFailedFrom(ctx *TargetContext, failed []string) *BuildFailedError {
	errs := make([]error, 0, len(failed))
	for _, r := range ctx.PreviousTargets {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return &BuildFailedError{FailedTargets: failed, Errors: errs}
}
