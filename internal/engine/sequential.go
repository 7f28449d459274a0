package engine

import "github.com/andreyakinshin/taskforge/internal/trace"

// runSequential folds driveTarget over the flattened layered order.
// In single-target mode, order is just [root].
func runSequential(order []*Target, ctx *TargetContext, tracer trace.Tracer) *TargetContext {
	for _, t := range order {
		ctx = driveTarget(t, ctx, tracer)
	}
	return ctx
}
