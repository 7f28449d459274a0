package interrupt

import (
	"os/exec"
	"sync"
)

// ProcessRegistry tracks child processes spawned by target bodies so the
// interrupt Handler can kill them on the first interrupt.
type ProcessRegistry struct {
	mu    sync.Mutex
	procs map[*exec.Cmd]bool
}

// NewProcessRegistry creates an empty registry.
func NewProcessRegistry() *ProcessRegistry {
	return &ProcessRegistry{procs: make(map[*exec.Cmd]bool)}
}

// Register records cmd as a tracked child process. Call Unregister once it
// exits normally to avoid trying to kill an already-reaped process.
func (r *ProcessRegistry) Register(cmd *exec.Cmd) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.procs[cmd] = true
}

// Unregister stops tracking cmd.
func (r *ProcessRegistry) Unregister(cmd *exec.Cmd) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.procs, cmd)
}

// KillAll terminates every currently-tracked process. Errors from an
// already-exited process are expected and ignored.
func (r *ProcessRegistry) KillAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for cmd := range r.procs {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}
}
