package engine

// AddDependency records a hard edge target==>dep: dep must run before
// target. Rejects unknown names and anything that would close a cycle.
// If dep is currently a soft dependency of target, it is promoted (removed
// from SoftDependencies, inserted into Dependencies).
func (e *Engine) AddDependency(target, dep string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addDependency(target, dep, true)
}

// AddSoftDependency records a soft edge target?=>dep: dep must run before
// target only if dep is also hard-reachable from the run's root. dep need
// not be a known target at declaration time.
func (e *Engine) AddSoftDependency(target, dep string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addDependency(target, dep, false)
}

func (e *Engine) addDependency(targetName, depName string, hard bool) error {
	t, ok := e.targets[fold(targetName)]
	if !ok {
		return e.unknownTargetError(targetName)
	}

	if hard {
		if _, ok := e.targets[fold(depName)]; !ok {
			return e.unknownTargetError(depName)
		}
		if err := e.checkAcyclic(t.canonical, fold(depName)); err != nil {
			return err
		}
	}

	depFolded := fold(depName)
	if hard {
		if !containsFold(t.Dependencies, depFolded) {
			// Insert at the front: preserves the usual right-to-left
			// declaration idiom.
			t.Dependencies = append([]string{depName}, t.Dependencies...)
		}
		t.SoftDependencies = removeFold(t.SoftDependencies, depFolded)
	} else {
		if !containsFold(t.Dependencies, depFolded) && !containsFold(t.SoftDependencies, depFolded) {
			t.SoftDependencies = append([]string{depName}, t.SoftDependencies...)
		}
	}
	return nil
}

// checkAcyclic walks the hard-dependency subgraph reachable from dep
// (case-insensitively), and fails if it reaches targetKey — meaning the
// proposed edge targetKey->dep would close a cycle.
func (e *Engine) checkAcyclic(targetKey, depKey string) error {
	if targetKey == depKey {
		return newDeclarationError("Cyclic dependency between %q and %q", targetKey, targetKey)
	}
	visited := make(map[string]bool)
	var walk func(key string) bool
	walk = func(key string) bool {
		if key == targetKey {
			return true
		}
		if visited[key] {
			return false
		}
		visited[key] = true
		dep, ok := e.targets[key]
		if !ok {
			return false
		}
		for _, d := range dep.Dependencies {
			if walk(fold(d)) {
				return true
			}
		}
		return false
	}
	if walk(depKey) {
		return newDeclarationError("Cyclic dependency between %q and %q", targetNameOrKey(e, targetKey), targetNameOrKey(e, depKey))
	}
	return nil
}

func targetNameOrKey(e *Engine, key string) string {
	if t, ok := e.targets[key]; ok {
		return t.Name
	}
	return key
}
