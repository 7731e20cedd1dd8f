package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/sokinpui/catchfix/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

// Stdout receives the per-file result lines and the final count. Everything
// else goes to stderr.
var Stdout io.Writer = os.Stdout

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(os.Stderr, "  "+format+"\n", a...)
}

// --- Results ---

// Fixed prints the line for a file that was (or, in a dry run, would be) rewritten.
func Fixed(path string, dryRun bool) {
	if dryRun {
		fmt.Fprintf(Stdout, "Would fix: %s\n", path)
		return
	}
	fmt.Fprintf(Stdout, "Fixed: %s\n", path)
}

// Diff prints a unified diff as-is.
func Diff(d string) {
	fmt.Fprint(Stdout, d)
}

// PrintFixSummary prints the final count, followed by any failures on stderr.
func PrintFixSummary(summary model.Summary) {
	if summary.Message != "" {
		Info("%s", summary.Message)
	}
	if summary.DryRun {
		fmt.Fprintf(Stdout, "\nWould fix %d files\n", len(summary.Fixed))
	} else {
		fmt.Fprintf(Stdout, "\nFixed %d files\n", len(summary.Fixed))
	}

	if len(summary.Failed) == 0 {
		return
	}
	Error("Failed to process %d file(s):", len(summary.Failed))
	for _, f := range summary.Failed {
		Path("- %s: %v", f.Path, f.Err)
	}
}
