package trace

import (
	"fmt"
	"time"

	"github.com/andreyakinshin/taskforge/internal/output"
)

// ConsoleTracer is the default Tracer, backed by internal/output.Writer,
// reporting each target's start/success/failure with the same colored
// console styling the rest of the CLI uses.
type ConsoleTracer struct {
	w *output.Writer
}

// NewConsoleTracer wraps w as a Tracer.
func NewConsoleTracer(w *output.Writer) *ConsoleTracer {
	return &ConsoleTracer{w: w}
}

type consoleScope struct {
	w         *output.Writer
	name      string
	started   time.Time
	succeeded bool
	failErr   error
	done      bool
}

func (s *consoleScope) MarkSuccess() {
	s.succeeded = true
}

func (s *consoleScope) MarkFailed(err error) {
	s.failErr = err
}

func (s *consoleScope) Close() {
	if s.done {
		return
	}
	s.done = true
	elapsed := time.Since(s.started)
	switch {
	case s.failErr != nil:
		s.w.TargetFailed(s.name, s.failErr)
	case s.succeeded:
		s.w.TargetSuccess(s.name, elapsed.Round(time.Millisecond).String())
	}
}

func (c *ConsoleTracer) TaskStart(name, description, dependencyString string) Scope {
	label := name
	if description != "" {
		label = fmt.Sprintf("%s (%s)", name, description)
	}
	if dependencyString != "" {
		label = fmt.Sprintf("%s [deps: %s]", label, dependencyString)
	}
	c.w.TargetStart(label)
	return &consoleScope{w: c.w, name: name, started: time.Now()}
}

func (c *ConsoleTracer) Log(sev Severity, format string, args ...interface{}) {
	switch sev {
	case SeverityDebug:
		c.w.Debug(format, args...)
	case SeverityWarn:
		c.w.Warning(format, args...)
	case SeverityError:
		c.w.ErrorPrefix(format, args...)
	default:
		c.w.Info(format, args...)
	}
}

func (c *ConsoleTracer) BuildState(status Status, message string) {
	switch status {
	case StatusOk:
		if message == "" {
			message = "Ok"
		}
		c.w.Success("%s", message)
	case StatusCancelled:
		if message == "" {
			message = "Cancelled"
		}
		c.w.Warning("%s", message)
	default:
		if message == "" {
			message = "Failure"
		}
		c.w.ErrorPrefix("%s", message)
	}
}
