package engine

import (
	"sort"
	"strings"
	"sync"
)

// Engine is the process-wide target registry plus activation state, bundled
// into a value the caller creates and owns.
//
// Declaration (Create, AddDependency, ...) is single-threaded by contract;
// the mutex below only protects against accidental concurrent declaration,
// it is not part of the execution-phase concurrency design (see
// internal/engine/coordinator.go for that).
type Engine struct {
	mu sync.Mutex

	targets map[string]*Target // keyed by folded name

	finalTargets        map[string]bool // folded name -> activated
	finalTargetNames    map[string]string
	buildFailureTargets map[string]bool
	buildFailureNames   map[string]string

	pendingDescription *string
}

// New creates an empty Engine.
func New() *Engine {
	return &Engine{
		targets:             make(map[string]*Target),
		finalTargets:        make(map[string]bool),
		finalTargetNames:    make(map[string]string),
		buildFailureTargets: make(map[string]bool),
		buildFailureNames:   make(map[string]string),
	}
}

// Reset clears all declared targets and activation state. Primarily for
// test harnesses.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.targets = make(map[string]*Target)
	e.finalTargets = make(map[string]bool)
	e.finalTargetNames = make(map[string]string)
	e.buildFailureTargets = make(map[string]bool)
	e.buildFailureNames = make(map[string]string)
	e.pendingDescription = nil
}

// Description arms the pending-description slot consumed by the next
// Create/CreateFinal/CreateBuildFailure call. Fails if the slot is already
// full, preventing a description from silently attaching to the wrong
// target.
func (e *Engine) Description(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pendingDescription != nil {
		return newDeclarationError("Description() called twice before a Create(): pending description %q was never consumed", *e.pendingDescription)
	}
	e.pendingDescription = &text
	return nil
}

// takePendingDescription consumes and clears the pending-description slot.
// Caller must hold e.mu.
func (e *Engine) takePendingDescription() string {
	if e.pendingDescription == nil {
		return ""
	}
	text := *e.pendingDescription
	e.pendingDescription = nil
	return text
}

// HasPendingDescription reports a leftover armed description, a fatal
// configuration error at run start.
func (e *Engine) HasPendingDescription() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingDescription != nil
}

// Create registers a plain target. Fails on duplicate (case-insensitive) name.
func (e *Engine) Create(name string, fn TargetFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.create(name, fn)
}

func (e *Engine) create(name string, fn TargetFunc) error {
	if name == "" {
		return newDeclarationError("target name must not be empty")
	}
	key := fold(name)
	if _, exists := e.targets[key]; exists {
		return newDeclarationError("target %q is already declared", name)
	}
	e.targets[key] = &Target{
		Name:        name,
		Description: e.takePendingDescription(),
		Function:    fn,
		canonical:   key,
	}
	return nil
}

// CreateFinal registers a target as a final target candidate, initially
// inactive; ActivateFinal enables it.
func (e *Engine) CreateFinal(name string, fn TargetFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.create(name, fn); err != nil {
		return err
	}
	key := fold(name)
	e.finalTargets[key] = false
	e.finalTargetNames[key] = name
	return nil
}

// CreateBuildFailure registers a target as a build-failure target
// candidate, initially inactive; ActivateBuildFailure enables it.
func (e *Engine) CreateBuildFailure(name string, fn TargetFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.create(name, fn); err != nil {
		return err
	}
	key := fold(name)
	e.buildFailureTargets[key] = false
	e.buildFailureNames[key] = name
	return nil
}

// ActivateFinal / DeactivateFinal toggle whether a declared final target
// runs at the end of the build. Fails if name is unknown as a final target.
func (e *Engine) ActivateFinal(name string) error   { return e.setFinal(name, true) }
func (e *Engine) DeactivateFinal(name string) error { return e.setFinal(name, false) }

func (e *Engine) setFinal(name string, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := fold(name)
	if _, ok := e.finalTargets[key]; !ok {
		return e.unknownTargetError(name)
	}
	e.finalTargets[key] = active
	return nil
}

// ActivateBuildFailure / DeactivateBuildFailure toggle whether a declared
// build-failure target runs after a failed main phase.
func (e *Engine) ActivateBuildFailure(name string) error   { return e.setBuildFailure(name, true) }
func (e *Engine) DeactivateBuildFailure(name string) error { return e.setBuildFailure(name, false) }

func (e *Engine) setBuildFailure(name string, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := fold(name)
	if _, ok := e.buildFailureTargets[key]; !ok {
		return e.unknownTargetError(name)
	}
	e.buildFailureTargets[key] = active
	return nil
}

// Get performs a case-insensitive lookup. On miss it returns an error
// listing all known target names.
func (e *Engine) Get(name string) (*Target, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.targets[fold(name)]
	if !ok {
		return nil, e.unknownTargetError(name)
	}
	return t, nil
}

// unknownTargetError must be called with e.mu held.
func (e *Engine) unknownTargetError(name string) error {
	names := e.namesLocked()
	return newDeclarationError("target %q not found; known targets: %s", name, strings.Join(names, ", "))
}

// Names returns all declared target names, sorted case-insensitively.
func (e *Engine) Names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.namesLocked()
}

func (e *Engine) namesLocked() []string {
	names := make([]string, 0, len(e.targets))
	for _, t := range e.targets {
		names = append(names, t.Name)
	}
	sort.Slice(names, func(i, j int) bool { return fold(names[i]) < fold(names[j]) })
	return names
}

// ActiveFinalTargets returns the declared+activated final targets, sorted
// case-insensitively by name.
func (e *Engine) ActiveFinalTargets() []*Target {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*Target
	for key, active := range e.finalTargets {
		if active {
			out = append(out, e.targets[key])
		}
	}
	sort.Slice(out, func(i, j int) bool { return fold(out[i].Name) < fold(out[j].Name) })
	return out
}

// ActiveBuildFailureTargets returns declared+activated build-failure
// targets, sorted case-insensitively by name.
func (e *Engine) ActiveBuildFailureTargets() []*Target {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*Target
	for key, active := range e.buildFailureTargets {
		if active {
			out = append(out, e.targets[key])
		}
	}
	sort.Slice(out, func(i, j int) bool { return fold(out[i].Name) < fold(out[j].Name) })
	return out
}

// fmtTargetList joins target names with ", ".
func fmtTargetList(names []string) string {
	return strings.Join(names, ", ")
}
