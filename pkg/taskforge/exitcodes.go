package taskforge

import "github.com/andreyakinshin/taskforge/internal/engine"

// Exit codes returned by a taskforge build script's own process. These
// constants allow external tools (CI runners, wrapper scripts) to check
// exit codes symbolically rather than using magic numbers.
const (
	// ExitSuccess indicates the build completed successfully.
	ExitSuccess = engine.ExitSuccess

	// ExitFailure indicates a target (or lifecycle hook) failed.
	ExitFailure = engine.ExitBuildFailure

	// ExitConfigError indicates a declaration error (unknown target, cyclic
	// dependency, duplicate name, leftover description) or an invalid
	// environment-variable override.
	ExitConfigError = engine.ExitConfigError

	// ExitUsageError indicates the engine's own command line could not be
	// parsed.
	ExitUsageError = engine.ExitUsageError

	// ExitInterrupted indicates the build was cancelled by a user interrupt.
	ExitInterrupted = engine.ExitInterrupted
)
