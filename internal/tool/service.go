package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ytget/modelfetch/internal/model"
)

// Executable and argument constants
const (
	DescriptorFlag = "-f"
	PathEnv        = "PATH"
)

// PathLocator searches the directories listed in PATH
type PathLocator struct {
	// LookupEnv reads an environment variable; os.LookupEnv by default.
	LookupEnv func(key string) (string, bool)
}

// NewPathLocator creates a locator reading the process environment
func NewPathLocator() *PathLocator {
	return &PathLocator{LookupEnv: os.LookupEnv}
}

// Locate returns the first regular file called name in a PATH directory.
// The list separator follows the platform (";" on Windows, ":" elsewhere).
func (l *PathLocator) Locate(name string) (string, bool) {
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	value, ok := lookup(PathEnv)
	if !ok {
		return "", false
	}

	for _, dir := range filepath.SplitList(value) {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

// ExecRunner runs binaries with os/exec, capturing their output
type ExecRunner struct{}

// Run blocks until the process exits. There is no timeout.
func (ExecRunner) Run(ctx context.Context, path string, args ...string) model.ToolOutcome {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	outcome := model.ToolOutcome{
		Path:     path,
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		outcome.Status = model.ToolStatusSucceeded
		outcome.ExitCode = 0
	case errors.As(err, &exitErr):
		outcome.Status = model.ToolStatusFailed
		outcome.ExitCode = exitErr.ExitCode()
		outcome.Err = model.NewError(model.KindSubprocess, fmt.Sprintf("%s exited with code %d", filepath.Base(path), outcome.ExitCode), err)
	default:
		outcome.Status = model.ToolStatusSpawnFailed
		outcome.Err = model.NewError(model.KindSubprocess, "failed to spawn", err)
	}
	return outcome
}

// Invoker locates the tool and hands it the descriptor file
type Invoker struct {
	locator Locator
	runner  Runner
}

// NewInvoker creates an invoker; nil arguments select PATH lookup and os/exec.
func NewInvoker(locator Locator, runner Runner) *Invoker {
	if locator == nil {
		locator = NewPathLocator()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Invoker{
		locator: locator,
		runner:  runner,
	}
}

// LocateAndRun runs `name -f descriptorPath` when name is on the search path.
// A missing tool is reported through the outcome status, never as an error.
// onFound, when set, is called with the resolved path before the tool starts.
func (i *Invoker) LocateAndRun(ctx context.Context, name, descriptorPath string, onFound func(path string)) model.ToolOutcome {
	path, ok := i.locator.Locate(name)
	if !ok {
		log.Printf("Executable %q not found in %s", name, PathEnv)
		return model.ToolOutcome{Status: model.ToolStatusNotFound, ExitCode: -1}
	}

	if onFound != nil {
		onFound(path)
	}
	return i.Run(ctx, path, descriptorPath)
}

// Run hands descriptorPath to an already located tool
func (i *Invoker) Run(ctx context.Context, path, descriptorPath string) model.ToolOutcome {
	args := BuildArgs(descriptorPath)
	log.Printf("Running %s %v", path, args)

	outcome := i.runner.Run(ctx, path, args...)
	outcome.Path = path
	if outcome.Status.Ran() {
		log.Printf("Tool %s finished: %s (exit code %d)", path, outcome.Status, outcome.ExitCode)
	} else {
		log.Printf("Tool %s did not start: %v", path, outcome.Err)
	}
	return outcome
}

// BuildArgs builds the tool command arguments
func BuildArgs(descriptorPath string) []string {
	return []string{DescriptorFlag, descriptorPath}
}
