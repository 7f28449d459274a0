package engine

import "github.com/andreyakinshin/taskforge/internal/trace"

// runBuildFailureTargets runs every activated build-failure target in
// case-insensitive name order, sequentially, but only if the main phase
// recorded an error and was not cancelled. Build-failure targets may
// themselves fail; their results are folded into ctx exactly like ordinary
// targets so a failing build-failure target still surfaces in the final
// report.
func runBuildFailureTargets(e *Engine, ctx *TargetContext, tracer trace.Tracer) *TargetContext {
	if !ctx.HasError() {
		return ctx
	}
	if ctx.CancellationToken != nil && ctx.CancellationToken.Err() != nil {
		return ctx
	}

	cp := ctx.clone()
	cp.IsRunningBuildFailureTargets = true
	ctx = cp

	for _, t := range e.ActiveBuildFailureTargets() {
		ctx = driveTarget(t, ctx, tracer)
	}
	return ctx
}

// runFinalTargets runs every activated final target in case-insensitive
// name order, sequentially, unconditionally: ignoring HasError and
// cancellation. IsRunningFinalTargets is set first so driveTarget's skip
// logic does not suppress them.
func runFinalTargets(e *Engine, ctx *TargetContext, tracer trace.Tracer) *TargetContext {
	cp := ctx.clone()
	cp.IsRunningFinalTargets = true
	ctx = cp

	for _, t := range e.ActiveFinalTargets() {
		ctx = driveTarget(t, ctx, tracer)
	}
	return ctx
}
