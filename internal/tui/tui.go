package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/catchfix/catchfix"
	"github.com/sokinpui/catchfix/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))           // Red
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// --- Messages ---
type summaryMsg struct {
	model.Summary
	err error
}

type progressMsg struct {
	current, total int
}

// Runner is the part of the app the TUI drives.
type Runner interface {
	Execute() (model.Summary, error)
	SetProgressCallback(cb catchfix.ProgressUpdate)
}

// --- Model ---
type Model struct {
	app      Runner
	spinner  spinner.Model
	state    state
	progress progressMsg
	summary  model.Summary
	err      error
	// quitting is set when a quit key arrives before Execute has returned.
	quitting bool
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New(app Runner) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &Model{
		app:     app,
		spinner: s,
		state:   stateProcessing,
	}
}

// SetProgram routes the app's progress updates to the running program.
func (m *Model) SetProgram(p *tea.Program) {
	m.app.SetProgressCallback(func(current, total int) {
		p.Send(progressMsg{current: current, total: total})
	})
}

// Summary returns the final summary and error once the program has exited.
func (m *Model) Summary() (model.Summary, error) {
	return m.summary, m.err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// Files may still be mid-write; exit once the summary is in.
			if m.state == stateProcessing {
				m.quitting = true
				return m, nil
			}
			return m, tea.Quit
		}

	case progressMsg:
		m.progress = msg
		return m, nil

	case summaryMsg:
		m.summary = msg.Summary
		m.err = msg.err
		m.state = stateSummary
		if msg.err != nil {
			m.state = stateError
		}
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) View() string {
	switch m.state {
	case stateProcessing:
		if m.quitting {
			return fmt.Sprintf("%s Finishing...", m.spinner.View())
		}
		if m.progress.total > 0 {
			return fmt.Sprintf("%s Processing... [%d/%d]", m.spinner.View(), m.progress.current, m.progress.total)
		}
		return fmt.Sprintf("%s Processing...", m.spinner.View())
	case stateError:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n" + m.renderSummary()
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m *Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Message != "" {
		b.WriteString(headerStyle.Render(m.summary.Message))
		b.WriteString("\n\n")
	}

	for _, f := range m.summary.Fixed {
		b.WriteString(successStyle.Render("Fixed:"))
		b.WriteString(fmt.Sprintf(" %s\n", pathStyle.Render(f)))
	}
	if len(m.summary.Failed) > 0 {
		b.WriteString(errorStyle.Render("Failed:"))
		b.WriteString("\n")
		for _, f := range m.summary.Failed {
			b.WriteString(fmt.Sprintf("  %s: %v\n", pathStyle.Render(f.Path), f.Err))
		}
	}

	if len(m.summary.Fixed) == 0 && len(m.summary.Failed) == 0 && m.summary.Scanned == 0 && m.summary.Message == "" {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\nFixed %d files\n", len(m.summary.Fixed)))
	return b.String()
}

func (m *Model) runApp() tea.Msg {
	summary, err := m.app.Execute()
	return summaryMsg{Summary: summary, err: err}
}

// IsDetailed reports whether err carries a stack trace worth printing after
// the program exits.
func IsDetailed(err error) (*catchfix.DetailedError, bool) {
	var detailed *catchfix.DetailedError
	if errors.As(err, &detailed) {
		return detailed, true
	}
	return nil, false
}
