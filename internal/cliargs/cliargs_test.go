package cliargs

import "testing"

func TestParse_PositionalTarget(t *testing.T) {
	a, err := Parse([]string{"target", "build"})
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if a.Target != "build" || !a.TargetExplicit {
		t.Errorf("Target = %q, TargetExplicit = %v, want build/true", a.Target, a.TargetExplicit)
	}
}

func TestParse_FlagTarget(t *testing.T) {
	a, err := Parse([]string{"-t", "build"})
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if a.Target != "build" {
		t.Errorf("Target = %q, want build", a.Target)
	}
}

func TestParse_PositionalOverridesFlagWithWarning(t *testing.T) {
	a, err := Parse([]string{"--target", "compile", "target", "build"})
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if a.Target != "build" {
		t.Errorf("Target = %q, want build (positional wins)", a.Target)
	}
	if len(a.Warnings) == 0 {
		t.Error("Warnings is empty, want a warning about the positional override")
	}
}

func TestParse_ScriptArgsAfterDoubleDash(t *testing.T) {
	a, err := Parse([]string{"-t", "build", "--", "--verbose", "extra"})
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if len(a.ScriptArgs) != 2 || a.ScriptArgs[0] != "--verbose" || a.ScriptArgs[1] != "extra" {
		t.Errorf("ScriptArgs = %v, want [--verbose, extra]", a.ScriptArgs)
	}
}

func TestParse_List(t *testing.T) {
	a, err := Parse([]string{"--list"})
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if a.Mode != ModeList {
		t.Errorf("Mode = %v, want ModeList", a.Mode)
	}
}

func TestParse_Graph(t *testing.T) {
	a, err := Parse([]string{"--graph", "-t", "build"})
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if a.Mode != ModeGraph {
		t.Errorf("Mode = %v, want ModeGraph", a.Mode)
	}
}

func TestParse_Help(t *testing.T) {
	for _, flag := range []string{"--help", "-h"} {
		a, err := Parse([]string{flag})
		if err != nil {
			t.Fatalf("Parse(%s) error = %v", flag, err)
		}
		if a.Mode != ModeHelp {
			t.Errorf("Parse(%s).Mode = %v, want ModeHelp", flag, a.Mode)
		}
	}
}

func TestParse_EnvironmentVariable(t *testing.T) {
	a, err := Parse([]string{"-e", "FOO=bar"})
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if a.EnvOverrides["FOO"] != "bar" {
		t.Errorf("EnvOverrides[FOO] = %q, want bar", a.EnvOverrides["FOO"])
	}
}

func TestParse_EnvironmentVariableMissingEquals(t *testing.T) {
	if _, err := Parse([]string{"-e", "FOO"}); err == nil {
		t.Error("Parse error = nil, want error for missing '='")
	}
}

func TestParse_SingleTargetFlag(t *testing.T) {
	a, err := Parse([]string{"-s"})
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if !a.SingleTarget {
		t.Error("SingleTarget = false, want true")
	}
}

func TestParse_ParallelFlag(t *testing.T) {
	a, err := Parse([]string{"-p", "4"})
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if a.Parallel != 4 {
		t.Errorf("Parallel = %d, want 4", a.Parallel)
	}
}

func TestParse_ParallelFlagInvalid(t *testing.T) {
	if _, err := Parse([]string{"-p", "zero"}); err == nil {
		t.Error("Parse error = nil, want error for non-numeric -p value")
	}
	if _, err := Parse([]string{"-p", "0"}); err == nil {
		t.Error("Parse error = nil, want error for -p 0")
	}
}

func TestParse_UnrecognizedOption(t *testing.T) {
	if _, err := Parse([]string{"--bogus"}); err == nil {
		t.Error("Parse error = nil, want error for an unrecognized option")
	}
}

func TestResolveTarget_Precedence(t *testing.T) {
	a := &Args{}
	if name, ok := a.ResolveTarget("default"); !ok || name != "default" {
		t.Errorf("ResolveTarget = (%q, %v), want (default, true)", name, ok)
	}

	a = &Args{Target: "explicit", TargetExplicit: true}
	if name, ok := a.ResolveTarget("default"); !ok || name != "explicit" {
		t.Errorf("ResolveTarget = (%q, %v), want (explicit, true)", name, ok)
	}
}

func TestResolveTarget_NoneResolves(t *testing.T) {
	a := &Args{}
	if _, ok := a.ResolveTarget(""); ok {
		t.Error("ResolveTarget = ok, want false when nothing resolves")
	}
}

func TestResolveParallel_DefaultsToOne(t *testing.T) {
	a := &Args{}
	if got := a.ResolveParallel(); got != 1 {
		t.Errorf("ResolveParallel() = %d, want 1", got)
	}
}
