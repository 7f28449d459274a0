// Package interrupt installs the engine's SIGINT/SIGTERM handling: the
// context cancelled on the first signal, a second signal exiting the
// process immediately with code 1, and a registry of child processes
// killed on the first signal.
package interrupt

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Handler owns the cancellation context for one engine run and the
// registry of child processes spawned by target bodies, so the first
// interrupt can kill them before cancelling the run.
type Handler struct {
	processes *ProcessRegistry

	onFirstInterrupt func()
}

// New creates a Handler. onFirstInterrupt is called exactly once, on the
// first interrupt, after child processes have been killed and before the
// cancellation token is cancelled — typically used to print the "gracefully
// shutting down" message.
func New(onFirstInterrupt func()) *Handler {
	return &Handler{
		processes:        NewProcessRegistry(),
		onFirstInterrupt: onFirstInterrupt,
	}
}

// Processes returns the registry target bodies should register spawned
// child processes with, so they can be killed on the first interrupt.
func (h *Handler) Processes() *ProcessRegistry { return h.processes }

// Install starts watching for the platform interrupt signal and returns a
// context cancelled on first delivery. A second delivery terminates the
// process immediately with exit code 1; Stop cancels
// watching (e.g. once the run completes normally).
func (h *Handler) Install() (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sig:
			// First interrupt: kill children, notify, cancel, then arm a
			// one-shot hard-exit on any further signal.
			h.processes.KillAll()
			if h.onFirstInterrupt != nil {
				h.onFirstInterrupt()
			}
			cancel()
			select {
			case <-sig:
				os.Exit(1)
			case <-done:
			}
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(sig)
		close(done)
	}
}
