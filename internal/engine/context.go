package engine

import (
	"context"
	"time"
)

// TargetResult records the outcome of one attempted target.
type TargetResult struct {
	Target     *Target
	Duration   time.Duration
	Err        error
	WasSkipped bool
}

// TargetContext is the immutable-per-step carrier threaded through a run.
// Each update (driver.go) produces a new snapshot rather than mutating in
// place.
type TargetContext struct {
	FinalTarget                  string
	AllExecutingTargets          map[string]*Target // keyed by folded name
	PreviousTargets              []TargetResult
	Arguments                    []string
	IsRunningFinalTargets        bool
	IsRunningBuildFailureTargets bool
	CancellationToken            context.Context
}

// HasError reports whether any previously completed target recorded an
// error (including skip-with-cancellation results; WasSkipped-with-no-error
// results from ordinary upstream-failure skips do not count).
func (c *TargetContext) HasError() bool {
	for _, r := range c.PreviousTargets {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// clone returns a shallow copy of c with its own PreviousTargets backing
// array, so appending to the clone never aliases the original.
func (c *TargetContext) clone() *TargetContext {
	cp := *c
	cp.PreviousTargets = append([]TargetResult(nil), c.PreviousTargets...)
	return &cp
}

// withResult returns a new context with r appended. It does not deduplicate;
// the parallel coordinator's merge skips results already present before
// calling it.
func (c *TargetContext) withResult(r TargetResult) *TargetContext {
	cp := c.clone()
	cp.PreviousTargets = append(cp.PreviousTargets, r)
	return cp
}

// completedSet returns the folded names of targets already present in
// PreviousTargets.
func (c *TargetContext) completedSet() map[string]bool {
	done := make(map[string]bool, len(c.PreviousTargets))
	for _, r := range c.PreviousTargets {
		done[fold(r.Target.Name)] = true
	}
	return done
}

// TargetParameter is what each target body receives.
type TargetParameter struct {
	Target  *Target
	Context *TargetContext
}
