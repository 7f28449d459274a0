package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/andreyakinshin/taskforge/internal/trace"
)

func TestRunSequential_OrderAndSkipPropagation(t *testing.T) {
	var ran []string
	mk := func(name string, fail bool) *Target {
		return &Target{Name: name, canonical: fold(name), Function: func(ctx context.Context, p *TargetParameter) error {
			ran = append(ran, name)
			if fail {
				return errors.New("failure in " + name)
			}
			return nil
		}}
	}

	order := []*Target{mk("fetch", false), mk("compile", true), mk("build", false)}
	out := runSequential(order, emptyCtx(), trace.NoopTracer{})

	if len(ran) != 2 {
		t.Fatalf("ran = %v, want exactly [fetch, compile] (build must be skipped)", ran)
	}
	if len(out.PreviousTargets) != 3 {
		t.Fatalf("len(PreviousTargets) = %d, want 3", len(out.PreviousTargets))
	}

	last := out.PreviousTargets[2]
	if !last.WasSkipped || last.Err != nil {
		t.Errorf("build result = %+v, want WasSkipped=true, Err=nil", last)
	}
}

func TestRunSequential_AtMostOncePerTarget(t *testing.T) {
	count := 0
	tgt := &Target{Name: "build", canonical: fold("build"), Function: func(ctx context.Context, p *TargetParameter) error {
		count++
		return nil
	}}

	out := runSequential([]*Target{tgt}, emptyCtx(), trace.NoopTracer{})
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if len(out.PreviousTargets) != 1 {
		t.Errorf("len(PreviousTargets) = %d, want 1", len(out.PreviousTargets))
	}
}
