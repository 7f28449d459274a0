package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/andreyakinshin/taskforge/internal/trace"
)

func emptyCtx() *TargetContext {
	return &TargetContext{AllExecutingTargets: make(map[string]*Target)}
}

func TestDriveTarget_Success(t *testing.T) {
	tgt := &Target{Name: "build", canonical: fold("build"), Function: func(ctx context.Context, p *TargetParameter) error {
		return nil
	}}

	out := driveTarget(tgt, emptyCtx(), trace.NoopTracer{})
	if len(out.PreviousTargets) != 1 {
		t.Fatalf("len(PreviousTargets) = %d, want 1", len(out.PreviousTargets))
	}
	r := out.PreviousTargets[0]
	if r.Err != nil || r.WasSkipped {
		t.Errorf("result = %+v, want success with no error and not skipped", r)
	}
}

func TestDriveTarget_Failure(t *testing.T) {
	wantErr := errors.New("boom")
	tgt := &Target{Name: "build", canonical: fold("build"), Function: func(ctx context.Context, p *TargetParameter) error {
		return wantErr
	}}

	out := driveTarget(tgt, emptyCtx(), trace.NoopTracer{})
	r := out.PreviousTargets[0]
	if r.Err == nil || !errors.Is(r.Err, wantErr) {
		t.Errorf("r.Err = %v, want wrapped %v", r.Err, wantErr)
	}
}

func TestDriveTarget_PanicRecovered(t *testing.T) {
	tgt := &Target{Name: "build", canonical: fold("build"), Function: func(ctx context.Context, p *TargetParameter) error {
		panic("kaboom")
	}}

	out := driveTarget(tgt, emptyCtx(), trace.NoopTracer{})
	r := out.PreviousTargets[0]
	if r.Err == nil {
		t.Fatal("r.Err = nil, want panic wrapped into an error")
	}
}

func TestDriveTarget_SkipsAfterUpstreamFailure(t *testing.T) {
	failed := &Target{Name: "compile", canonical: fold("compile")}
	ctx := emptyCtx().withResult(TargetResult{Target: failed, Err: errors.New("upstream failed")})

	tgt := &Target{Name: "build", canonical: fold("build"), Function: func(ctx context.Context, p *TargetParameter) error {
		t.Fatal("target body ran after an upstream failure, want it skipped")
		return nil
	}}

	out := driveTarget(tgt, ctx, trace.NoopTracer{})
	r := out.PreviousTargets[len(out.PreviousTargets)-1]
	if !r.WasSkipped || r.Err != nil {
		t.Errorf("result = %+v, want WasSkipped=true, Err=nil", r)
	}
}

func TestDriveTarget_SkipsWhenCancelled(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	ctx := emptyCtx()
	ctx.CancellationToken = cancelled

	tgt := &Target{Name: "build", canonical: fold("build"), Function: func(ctx context.Context, p *TargetParameter) error {
		t.Fatal("target body ran after cancellation, want it skipped")
		return nil
	}}

	out := driveTarget(tgt, ctx, trace.NoopTracer{})
	r := out.PreviousTargets[0]
	if !r.WasSkipped || r.Err == nil {
		t.Errorf("result = %+v, want WasSkipped=true with a cancellation error", r)
	}
}

func TestDriveTarget_FinalIgnoresCancellation(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	ctx := emptyCtx()
	ctx.CancellationToken = cancelled
	ctx.IsRunningFinalTargets = true

	ran := false
	tgt := &Target{Name: "cleanup", canonical: fold("cleanup"), Function: func(ctx context.Context, p *TargetParameter) error {
		ran = true
		return nil
	}}

	out := driveTarget(tgt, ctx, trace.NoopTracer{})
	if !ran {
		t.Fatal("final target body did not run despite IsRunningFinalTargets")
	}
	r := out.PreviousTargets[0]
	if r.WasSkipped {
		t.Error("final target result WasSkipped = true, want false")
	}
}

func TestDriveTarget_BuildFailureRunsDespiteUpstreamError(t *testing.T) {
	failed := &Target{Name: "compile", canonical: fold("compile")}
	ctx := emptyCtx().withResult(TargetResult{Target: failed, Err: errors.New("upstream failed")})
	ctx.IsRunningBuildFailureTargets = true

	ran := false
	tgt := &Target{Name: "notify", canonical: fold("notify"), Function: func(ctx context.Context, p *TargetParameter) error {
		ran = true
		return nil
	}}

	out := driveTarget(tgt, ctx, trace.NoopTracer{})
	if !ran {
		t.Fatal("build-failure target body did not run despite IsRunningBuildFailureTargets")
	}
	r := out.PreviousTargets[len(out.PreviousTargets)-1]
	if r.WasSkipped {
		t.Error("build-failure target result WasSkipped = true, want false")
	}
}
