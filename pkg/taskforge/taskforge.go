// Package taskforge is the build-script API: the surface user code calls
// to declare targets, wire dependencies, and run a build. It wraps a
// single lazily-initialized default *engine.Engine so build scripts can
// call package-level functions directly instead of constructing and
// threading an Engine value themselves.
package taskforge

import (
	"os"

	"github.com/andreyakinshin/taskforge/internal/cliargs"
	"github.com/andreyakinshin/taskforge/internal/engine"
	"github.com/andreyakinshin/taskforge/internal/interrupt"
	"github.com/andreyakinshin/taskforge/internal/output"
	"github.com/andreyakinshin/taskforge/internal/settings"
	"github.com/andreyakinshin/taskforge/internal/trace"
)

// SettingsFile is the path the CLI dispatch functions (RunOrDefault,
// RunOrDefaultWithArguments, RunOrList) load for engine defaults, if
// present. Build scripts may override it before calling any
// Run* function.
var SettingsFile = ".taskforge.yml"

// TargetFunc is the user-supplied action bound to a target.
type TargetFunc = engine.TargetFunc

// TargetParameter is what each target body receives.
type TargetParameter = engine.TargetParameter

// TargetContext is the value threaded through a run, returned by Run and the
// WithContext family.
type TargetContext = engine.TargetContext

var def = engine.New()

// Reset clears all declared targets and activation state on the default
// engine. Primarily for test harnesses.
func Reset() { def.Reset() }

// Description arms the pending-description slot consumed by the next
// Create/CreateFinal/CreateBuildFailure call.
func Description(text string) error { return def.Description(text) }

// Create registers a plain target.
func Create(name string, fn TargetFunc) error { return def.Create(name, fn) }

// CreateFinal registers a target as a final target candidate, initially
// inactive; ActivateFinal enables it.
func CreateFinal(name string, fn TargetFunc) error { return def.CreateFinal(name, fn) }

// CreateBuildFailure registers a target as a build-failure target
// candidate, initially inactive; ActivateBuildFailure enables it.
func CreateBuildFailure(name string, fn TargetFunc) error { return def.CreateBuildFailure(name, fn) }

// ActivateFinal / DeactivateFinal toggle whether a declared final target
// runs at the end of the build.
func ActivateFinal(name string) error   { return def.ActivateFinal(name) }
func DeactivateFinal(name string) error { return def.DeactivateFinal(name) }

// ActivateBuildFailure / DeactivateBuildFailure toggle whether a declared
// build-failure target runs after a failed main phase.
func ActivateBuildFailure(name string) error   { return def.ActivateBuildFailure(name) }
func DeactivateBuildFailure(name string) error { return def.DeactivateBuildFailure(name) }

// AddDependency registers a hard edge target ==> dep.
func AddDependency(target, dep string) error { return def.AddDependency(target, dep) }

// AddSoftDependency registers a soft edge target ?=> dep.
func AddSoftDependency(target, dep string) error { return def.AddSoftDependency(target, dep) }

// RunOptions configures a programmatic Run call.
type RunOptions struct {
	// Parallel is the worker count; 0 or 1 means sequential execution.
	Parallel int
	// SingleTarget executes only the named target, ignoring its dependencies.
	SingleTarget bool
	// Arguments are the build script's own arguments (everything after `--`
	// on the engine's command line).
	Arguments []string
	// Quiet and Verbose configure the default console tracer's output.Writer.
	Quiet, Verbose bool
}

func (o RunOptions) mode() engine.RunMode {
	switch {
	case o.SingleTarget:
		return engine.ModeSingleTarget
	case o.Parallel > 1:
		return engine.ModeParallel
	default:
		return engine.ModeSequential
	}
}

// Run executes name through the main phase and lifecycle hooks, installing
// the default interrupt handler and a console tracer, and returns a non-nil
// error (a *engine.BuildFailedError, a cancellation error when the run was
// interrupted, or the root cause of a declaration failure) if the build did
// not succeed.
func Run(name string, opts RunOptions) (*TargetContext, error) {
	w := output.New()
	w.SetQuiet(opts.Quiet)
	w.SetVerbose(opts.Verbose)
	tracer := trace.NewConsoleTracer(w)

	printRunningOrder(w, name, opts)

	h := interrupt.New(func() {
		w.Warning("Gracefully shutting down… press Ctrl-C again to force quit.")
	})

	ctx, err := engine.Run(def, name, engine.RunOptions{
		Mode:      opts.mode(),
		Workers:   opts.Parallel,
		Arguments: opts.Arguments,
		Tracer:    tracer,
		Interrupt: h,
	})

	if ctx != nil {
		w.Report(reportRows(ctx))
	}
	return ctx, err
}

// printRunningOrder prints the layered execution order before Run starts
// driving targets (spec.md §2 "Report Writer"). In single-target mode the
// order is just the chosen target itself.
func printRunningOrder(w *output.Writer, name string, opts RunOptions) {
	if opts.SingleTarget {
		w.RunningOrder([][]string{{name}})
		return
	}
	layers, err := def.BuildOrder(name)
	if err != nil {
		// Run below will resolve and report the same error properly.
		return
	}
	w.RunningOrder(engine.LayerNames(layers))
}

// RunOrDefault parses the engine's own command-line arguments (os.Args[1:])
// and runs the resolved target, falling back to defaultTarget if nothing
// else resolves it.
func RunOrDefault(defaultTarget string) (*TargetContext, error) {
	return RunOrDefaultWithArguments(defaultTarget, os.Args[1:])
}

// RunOrDefaultWithArguments is RunOrDefault, parsing argv instead of
// os.Args[1:].
func RunOrDefaultWithArguments(defaultTarget string, argv []string) (*TargetContext, error) {
	return dispatch(defaultTarget, argv)
}

// RunOrList parses the engine's own command-line arguments and lists all
// declared targets if no target can be resolved.
func RunOrList() (*TargetContext, error) {
	return dispatch("", os.Args[1:])
}

func dispatch(defaultTarget string, argv []string) (*TargetContext, error) {
	w := output.New()

	loaded, err := settings.Load(SettingsFile)
	if err != nil {
		w.ErrorPrefix("%v", err)
		return nil, exitError{code: engine.ExitConfigError, err: err}
	}
	if err := loaded.ApplyEnvironment(); err != nil {
		w.ErrorPrefix("%v", err)
		return nil, exitError{code: engine.ExitConfigError, err: err}
	}

	args, err := cliargs.Parse(argv)
	if err != nil {
		w.ErrorPrefix("%v", err)
		w.Print("%s", cliargs.Usage)
		return nil, exitError{code: engine.ExitUsageError, err: err}
	}
	for _, warning := range args.Warnings {
		w.Warning("%s", warning)
	}

	switch args.Mode {
	case cliargs.ModeHelp:
		w.Print("%s", cliargs.Usage)
		return nil, nil
	case cliargs.ModeVersion:
		w.Println("taskforge %s", Version)
		return nil, nil
	}

	if err := args.ApplyEnvOverrides(); err != nil {
		w.ErrorPrefix("%v", err)
		return nil, exitError{code: engine.ExitConfigError, err: err}
	}

	// Precedence ladder:
	// positional `target <name>` > --target > env var target >
	// .taskforge.yml target > provided default > list-mode.
	fallback := defaultTarget
	if loaded.Target != "" {
		fallback = loaded.Target
	}

	name, ok := args.ResolveTarget(fallback)
	if !ok || args.Mode == cliargs.ModeList {
		for _, n := range def.Names() {
			t, _ := def.Get(n)
			if t.Description != "" {
				w.List([]string{n + " — " + t.Description})
			} else {
				w.List([]string{n})
			}
		}
		return nil, nil
	}

	if args.Mode == cliargs.ModeGraph {
		var lines []string
		if err := def.PrintDependencyGraph(name, func(line string) { lines = append(lines, line) }); err != nil {
			w.ErrorPrefix("%v", err)
			return nil, exitError{code: engine.ExitConfigError, err: err}
		}
		w.DependencyGraph(lines)
		return nil, nil
	}

	parallel := args.ResolveParallel()
	if args.Parallel == 0 && os.Getenv("parallel-jobs") == "" && loaded.ParallelJobs > 0 {
		parallel = loaded.ParallelJobs
	}
	single := args.ResolveSingleTarget() || loaded.SingleTarget

	return Run(name, RunOptions{
		Parallel:     parallel,
		SingleTarget: single,
		Arguments:    args.ScriptArgs,
	})
}

// exitError carries a process exit code alongside the underlying cause, so
// a cmd/taskforge front-end can call ExitCode below uniformly for both
// CLI parse failures and engine-level failures.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) Unwrap() error { return e.err }
func (e exitError) ExitCode() int { return e.code }

// ExitCode inspects err's chain and returns the process exit code it should
// produce, falling back to engine.GetExitCode for engine-originated errors.
func ExitCode(err error) int {
	if err == nil {
		return engine.ExitSuccess
	}
	if ec, ok := err.(interface{ ExitCode() int }); ok {
		return ec.ExitCode()
	}
	return engine.GetExitCode(err)
}

func reportRows(ctx *TargetContext) [][]string {
	rows := make([][]string, 0, len(ctx.PreviousTargets))
	for _, r := range ctx.PreviousTargets {
		status := "Ok"
		errText := ""
		switch {
		case r.WasSkipped:
			status = "Skipped"
		case r.Err != nil:
			status = "Failure"
			errText = r.Err.Error()
		}
		rows = append(rows, []string{r.Target.Name, status, r.Duration.Round(1000000).String(), errText})
	}
	return rows
}
