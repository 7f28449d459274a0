// Package main is a self-hosted build script: it declares the targets used
// to build and test taskforge itself, using the same pkg/taskforge DSL any
// build script imports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/andreyakinshin/taskforge/pkg/taskforge"
)

func run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func main() {
	must(taskforge.Description("format all Go source"))
	must(taskforge.Create("format", func(ctx context.Context, p *taskforge.TargetParameter) error {
		return run(ctx, "gofmt", "-l", "-w", ".")
	}))

	must(taskforge.Description("vet the module"))
	must(taskforge.Create("vet", func(ctx context.Context, p *taskforge.TargetParameter) error {
		return run(ctx, "go", "vet", "./...")
	}))
	must(taskforge.AddDependency("vet", "format"))

	must(taskforge.Description("compile every package"))
	must(taskforge.Create("build", func(ctx context.Context, p *taskforge.TargetParameter) error {
		return run(ctx, "go", "build", "./...")
	}))
	must(taskforge.AddDependency("build", "vet"))

	must(taskforge.Description("run the test suite"))
	must(taskforge.Create("test", func(ctx context.Context, p *taskforge.TargetParameter) error {
		return run(ctx, "go", "test", "./...")
	}))
	must(taskforge.AddDependency("test", "build"))

	// lint is soft: test still runs fully if lint is unavailable or not
	// hard-reachable from the chosen root, but runs before test when it is.
	must(taskforge.Description("static analysis (best effort)"))
	must(taskforge.Create("lint", func(ctx context.Context, p *taskforge.TargetParameter) error {
		if _, err := exec.LookPath("golangci-lint"); err != nil {
			return nil
		}
		return run(ctx, "golangci-lint", "run")
	}))
	must(taskforge.AddSoftDependency("test", "lint"))

	must(taskforge.Description("the default entry point"))
	must(taskforge.Create("ci", func(ctx context.Context, p *taskforge.TargetParameter) error {
		return nil
	}))
	must(taskforge.AddDependency("ci", "test"))

	must(taskforge.CreateFinal("report-timing", func(ctx context.Context, p *taskforge.TargetParameter) error {
		fmt.Printf("ran %d targets\n", len(p.Context.PreviousTargets))
		return nil
	}))
	must(taskforge.ActivateFinal("report-timing"))

	must(taskforge.CreateBuildFailure("print-failure-hint", func(ctx context.Context, p *taskforge.TargetParameter) error {
		fmt.Println("hint: run with -p 1 to reproduce failures sequentially")
		return nil
	}))
	must(taskforge.ActivateBuildFailure("print-failure-hint"))

	_, err := taskforge.RunOrDefault("ci")
	os.Exit(taskforge.ExitCode(err))
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskforge: declaration error: %v\n", err)
		os.Exit(taskforge.ExitConfigError)
	}
}
