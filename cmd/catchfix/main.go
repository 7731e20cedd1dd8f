package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/sokinpui/catchfix/catchfix"
	"github.com/sokinpui/catchfix/cli"
	"github.com/sokinpui/catchfix/internal/logging"
	"github.com/sokinpui/catchfix/internal/tui"
	"github.com/sokinpui/catchfix/internal/ui"
	"github.com/sokinpui/catchfix/model"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		ui.Error("%v", err)
		return 1
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		ui.Error("%v", err)
		return 1
	}
	defer logger.Sync()

	app, err := catchfix.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		return 1
	}
	app.SetLogger(logger)

	if cfg.TUI {
		return runTUI(app)
	}

	if !cfg.Stdin {
		app.SetResultCallback(func(r model.FileResult) {
			switch {
			case r.Err != nil:
				ui.Error("Error: %v", r.Err)
			case r.Fixed:
				if r.Diff != "" {
					ui.Diff(r.Diff)
				}
				ui.Fixed(r.Path, cfg.DryRun)
			}
		})
	}

	summary, err := app.Execute()
	if cfg.Stdin {
		if err == nil && summary.Message != "" {
			ui.Success("%s", summary.Message)
		}
	} else {
		ui.PrintFixSummary(summary)
	}
	if err != nil {
		printError(err)
		return 1
	}
	return 0
}

func runTUI(app *catchfix.App) int {
	m := tui.New(app)
	p := tea.NewProgram(m)
	m.SetProgram(p)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		return 1
	}

	if _, err := m.Summary(); err != nil {
		printError(err)
		return 1
	}
	return 0
}

func printError(err error) {
	// The stack is printed after any UI has exited.
	if e, ok := tui.IsDetailed(err); ok {
		fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", e.Stack)
	}
	ui.Error("Error: %v", err)
}
