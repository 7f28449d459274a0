// Package output provides formatted console output for the taskforge CLI:
// the usage banner, the pre-run layered order, and the post-run time/status
// table.
//
// # Design Note: Singleton Pattern
//
// CLI commands use a package-level Writer created via New(). This is
// intentional: output configuration (color, quiet/verbose) is set once at
// startup, and a CLI process is effectively single-threaded at the point it
// writes to the terminal. For testing, use NewWithWriters to inject custom
// io.Writers and capture output.
//
// Write errors are intentionally ignored throughout this package. Output
// failures (broken pipe, closed terminal) are non-recoverable and should
// not affect exit codes or control flow.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer handles CLI output formatting.
type Writer struct {
	out     io.Writer
	err     io.Writer
	color   bool
	quiet   bool
	verbose bool
}

// New creates a new Writer writing to stdout/stderr with color auto-detected.
func New() *Writer {
	return &Writer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: isTerminal(),
	}
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{out: out, err: err, color: color}
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) { w.quiet = quiet }

// SetVerbose enables or disables verbose mode.
func (w *Writer) SetVerbose(verbose bool) { w.verbose = verbose }

// IsVerbose returns true if verbose mode is enabled.
func (w *Writer) IsVerbose() bool { return w.verbose }

func (w *Writer) styled(style, text string) string {
	if w.color {
		return style + text + reset
	}
	return text
}

// Debug prints a debug message (only in verbose mode).
func (w *Writer) Debug(format string, args ...interface{}) {
	if !w.verbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s[debug]%s %s", dim, reset, msg)
	} else {
		w.Println("[debug] %s", msg)
	}
}

// Print formats and writes to the output stream.
func (w *Writer) Print(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w.out, format+"\n", args...)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w.err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w.err, format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Success prints a success message.
func (w *Writer) Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	w.Println("%s", w.styled(green, msg))
}

// Warning prints a warning message to stderr.
func (w *Writer) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf("warning: "+format, args...)
	w.Errorln("%s", w.styled(yellow, msg))
}

// ErrorPrefix prints a taskforge-prefixed error message to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%staskforge:%s %s", red, reset, msg)
	} else {
		w.Errorln("taskforge: %s", msg)
	}
}

// TargetStart prints the start of a target invocation.
func (w *Writer) TargetStart(name string) {
	if w.quiet {
		return
	}
	w.Println("")
	label := fmt.Sprintf("─── %s ───", name)
	w.Println("%s", w.styled(bold+cyan, label))
}

// TargetSuccess prints a target's successful completion with its duration.
func (w *Writer) TargetSuccess(name, duration string) {
	if w.quiet {
		return
	}
	if w.color {
		w.Println(green+"%s"+reset+" done in %s "+green+"✓"+reset, name, duration)
	} else {
		w.Println("%s done in %s", name, duration)
	}
}

// TargetFailed prints a target's failure.
func (w *Writer) TargetFailed(name string, err error) {
	if w.color {
		w.Errorln(red+"%s failed:"+reset+" %v", name, err)
	} else {
		w.Errorln("%s failed: %v", name, err)
	}
}

// TargetSkipped prints a target's skip status (quiet mode still shows it
// once, since a skip is build-relevant information, not routine noise).
func (w *Writer) TargetSkipped(name, reason string) {
	if w.color {
		w.Println(dim+"%s skipped (%s)"+reset, name, reason)
	} else {
		w.Println("%s skipped (%s)", name, reason)
	}
}

// Section prints a section header.
func (w *Writer) Section(title string) {
	if w.quiet {
		return
	}
	w.Println("")
	header := fmt.Sprintf("=== %s ===", title)
	w.Println("%s", w.styled(bold, header))
}

// List prints a list of items.
func (w *Writer) List(items []string) {
	for _, item := range items {
		w.Println("  - %s", item)
	}
}

// Table prints a simple left-aligned table.
func (w *Writer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var headerParts []string
	for i, h := range headers {
		headerParts = append(headerParts, fmt.Sprintf("%-*s", widths[i], h))
	}
	w.Println("%s", strings.Join(headerParts, "  "))

	var sepParts []string
	for _, width := range widths {
		sepParts = append(sepParts, strings.Repeat("-", width))
	}
	w.Println("%s", strings.Join(sepParts, "  "))

	for _, row := range rows {
		var rowParts []string
		for i, cell := range row {
			if i < len(widths) {
				rowParts = append(rowParts, fmt.Sprintf("%-*s", widths[i], cell))
			}
		}
		w.Println("%s", strings.Join(rowParts, "  "))
	}
}

// Report prints the final per-target time/status table.
func (w *Writer) Report(rows [][]string) {
	w.Section("Build Report")
	w.Table([]string{"Target", "Status", "Duration", "Error"}, rows)
}

// RunningOrder prints the layered execution order before a run starts, one
// line per layer in the order targets within it will be considered.
func (w *Writer) RunningOrder(layers [][]string) {
	if w.quiet {
		return
	}
	w.Section("Running Order")
	for i, names := range layers {
		w.Println("  [%d] %s", i+1, strings.Join(names, ", "))
	}
}

// DependencyGraph prints the lines produced by walking a dependency graph
// (engine.Engine.PrintDependencyGraph), under a section header.
func (w *Writer) DependencyGraph(lines []string) {
	if w.quiet {
		return
	}
	w.Section("Dependency Graph")
	for _, line := range lines {
		w.Println("%s", line)
	}
}

func isTerminal() bool {
	if fi, _ := os.Stdout.Stat(); fi != nil {
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// Semantic color roles for help output.
const (
	colorTitle       = bold + cyan
	colorSection     = bold + yellow
	colorCommand     = bold + cyan
	colorFlag        = yellow
	colorDescription = dim
	colorExample     = cyan
	colorEnvVar      = yellow
)

// HelpTitle formats the main help title line.
func (w *Writer) HelpTitle(title string) {
	w.Println("%s", w.styled(colorTitle, title))
}

// HelpSection formats a section header (e.g. "Options:").
func (w *Writer) HelpSection(title string) {
	w.Println("")
	w.Println("%s", w.styled(colorSection, title))
}

// HelpCommand formats a command with its description, padded to width.
func (w *Writer) HelpCommand(name, description string, width int) {
	if w.color {
		padding := width - len(name)
		if padding < 0 {
			padding = 0
		}
		w.Println("  %s%s%s%s  %s%s%s", colorCommand, name, reset, strings.Repeat(" ", padding), colorDescription, description, reset)
	} else {
		w.Println("  %-*s  %s", width, name, description)
	}
}

// HelpFlag formats a flag with its description.
func (w *Writer) HelpFlag(name, description string, width int) {
	if w.color {
		padding := width - len(name)
		if padding < 0 {
			padding = 0
		}
		w.Println("  %s%s%s%s  %s%s%s", colorFlag, name, reset, strings.Repeat(" ", padding), colorDescription, description, reset)
	} else {
		w.Println("  %-*s  %s", width, name, description)
	}
}

// HelpExample formats an example command with an optional description.
func (w *Writer) HelpExample(command, description string) {
	if w.color {
		w.Println("  %s%s%s", colorExample, command, reset)
		if description != "" {
			w.Println("      %s%s%s", colorDescription, description, reset)
		}
	} else {
		w.Println("  %s", command)
		if description != "" {
			w.Println("      %s", description)
		}
	}
}

// HelpUsage formats a usage line.
func (w *Writer) HelpUsage(usage string) {
	w.Println("  %s", usage)
}

// HelpEnvVar formats an environment variable entry.
func (w *Writer) HelpEnvVar(name, description string, width int) {
	if w.color {
		w.Println("  %s%-*s%s  %s%s%s", colorEnvVar, width, name, reset, colorDescription, description, reset)
	} else {
		w.Println("  %-*s  %s", width, name, description)
	}
}
