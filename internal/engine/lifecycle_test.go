package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/andreyakinshin/taskforge/internal/trace"
)

func TestRunFinalTargets_AlwaysRunsRegardlessOfError(t *testing.T) {
	e := New()
	ran := false
	_ = e.CreateFinal("cleanup", func(ctx context.Context, p *TargetParameter) error {
		ran = true
		return nil
	})
	_ = e.ActivateFinal("cleanup")

	failing := &Target{Name: "build", canonical: fold("build")}
	ctx := emptyCtx().withResult(TargetResult{Target: failing, Err: errors.New("failed")})

	out := runFinalTargets(e, ctx, trace.NoopTracer{})
	if !ran {
		t.Fatal("final target did not run after an upstream failure")
	}
	if !out.IsRunningFinalTargets {
		t.Error("IsRunningFinalTargets = false after runFinalTargets")
	}
}

func TestRunFinalTargets_RunsInNameOrder(t *testing.T) {
	e := New()
	var order []string
	record := func(name string) TargetFunc {
		return func(ctx context.Context, p *TargetParameter) error {
			order = append(order, name)
			return nil
		}
	}
	_ = e.CreateFinal("Zeta", record("Zeta"))
	_ = e.CreateFinal("alpha", record("alpha"))
	_ = e.ActivateFinal("Zeta")
	_ = e.ActivateFinal("alpha")

	runFinalTargets(e, emptyCtx(), trace.NoopTracer{})

	if len(order) != 2 || order[0] != "alpha" || order[1] != "Zeta" {
		t.Errorf("order = %v, want [alpha, Zeta]", order)
	}
}

func TestRunBuildFailureTargets_SkippedWithoutError(t *testing.T) {
	e := New()
	ran := false
	_ = e.CreateBuildFailure("notify", func(ctx context.Context, p *TargetParameter) error {
		ran = true
		return nil
	})
	_ = e.ActivateBuildFailure("notify")

	runBuildFailureTargets(e, emptyCtx(), trace.NoopTracer{})
	if ran {
		t.Error("build-failure target ran despite no error in context")
	}
}

func TestRunBuildFailureTargets_RunsOnlyOnError(t *testing.T) {
	e := New()
	ran := false
	_ = e.CreateBuildFailure("notify", func(ctx context.Context, p *TargetParameter) error {
		ran = true
		return nil
	})
	_ = e.ActivateBuildFailure("notify")

	failing := &Target{Name: "build", canonical: fold("build")}
	ctx := emptyCtx().withResult(TargetResult{Target: failing, Err: errors.New("failed")})

	runBuildFailureTargets(e, ctx, trace.NoopTracer{})
	if !ran {
		t.Error("build-failure target did not run despite an error in context")
	}
}

func TestRunBuildFailureTargets_SkippedWhenCancelled(t *testing.T) {
	e := New()
	ran := false
	_ = e.CreateBuildFailure("notify", func(ctx context.Context, p *TargetParameter) error {
		ran = true
		return nil
	})
	_ = e.ActivateBuildFailure("notify")

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	failing := &Target{Name: "build", canonical: fold("build")}
	ctx := emptyCtx().withResult(TargetResult{Target: failing, Err: errors.New("failed")})
	ctx.CancellationToken = cancelled

	runBuildFailureTargets(e, ctx, trace.NoopTracer{})
	if ran {
		t.Error("build-failure target ran despite an active cancellation")
	}
}
