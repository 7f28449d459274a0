package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andreyakinshin/taskforge/internal/trace"
)

// driveTarget executes one target against ctx, returning a new context with
// the result appended. It never panics out: a panicking
// target body is recovered and wrapped into the result's error.
//
// The HasError skip check below is bypassed for final targets and for
// build-failure targets: both are expected to run despite a prior failure
// (spec §4.7). Only final targets additionally ignore cancellation.
func driveTarget(t *Target, ctx *TargetContext, tracer trace.Tracer) *TargetContext {
	if !ctx.IsRunningFinalTargets {
		if !ctx.IsRunningBuildFailureTargets && ctx.HasError() {
			return ctx.withResult(TargetResult{Target: t, WasSkipped: true})
		}
		if ctx.CancellationToken != nil && ctx.CancellationToken.Err() != nil {
			return ctx.withResult(TargetResult{Target: t, WasSkipped: true, Err: newCancellationError(t.Name)})
		}
	}

	depString := strings.Join(t.Dependencies, ", ")
	scope := tracer.TaskStart(t.Name, t.Description, depString)

	start := time.Now()
	err := invoke(t, ctx)
	elapsed := time.Since(start)

	if err != nil {
		scope.MarkFailed(err)
	} else {
		scope.MarkSuccess()
	}
	scope.Close()

	return ctx.withResult(TargetResult{Target: t, Duration: elapsed, Err: err})
}

// invoke calls the target's body, converting a panic into an error that
// retains the original panic value in its message.
func invoke(t *Target, ctx *TargetContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = wrapTargetFailure(t.Name, fmt.Errorf("panic: %v", r))
		}
	}()

	if t.Function == nil {
		return nil
	}

	runErr := t.Function(contextValue(ctx), &TargetParameter{Target: t, Context: ctx})
	if runErr != nil {
		return wrapTargetFailure(t.Name, runErr)
	}
	return nil
}

// contextValue extracts a context.Context suitable for passing to the
// target body's first parameter, defaulting to context.Background() if the
// run was started without an explicit cancellation token.
func contextValue(ctx *TargetContext) context.Context {
	if ctx.CancellationToken != nil {
		return ctx.CancellationToken
	}
	return context.Background()
}
