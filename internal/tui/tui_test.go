package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/catchfix/catchfix"
	"github.com/sokinpui/catchfix/model"
)

type fakeRunner struct {
	summary model.Summary
	err     error
	cb      catchfix.ProgressUpdate
}

func (f *fakeRunner) Execute() (model.Summary, error) {
	if f.cb != nil {
		f.cb(1, 1)
	}
	return f.summary, f.err
}

func (f *fakeRunner) SetProgressCallback(cb catchfix.ProgressUpdate) {
	f.cb = cb
}

func TestUpdateSummary(t *testing.T) {
	runner := &fakeRunner{summary: model.Summary{
		Scanned: 3,
		Fixed:   []string{"src/a.ts", "src/b.ts"},
		Failed:  []model.FileFailure{{Path: "src/c.ts", Err: errors.New("denied")}},
	}}
	m := New(runner)

	msg := m.runApp()
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	view := m.View()
	assert.Contains(t, view, "src/a.ts")
	assert.Contains(t, view, "src/b.ts")
	assert.Contains(t, view, "src/c.ts: denied")
	assert.True(t, strings.HasSuffix(view, "Fixed 2 files\n"))

	summary, err := m.Summary()
	assert.NoError(t, err)
	assert.Len(t, summary.Fixed, 2)
}

func TestUpdateError(t *testing.T) {
	m := New(&fakeRunner{err: errors.New("boom")})
	m.Update(m.runApp())

	assert.Contains(t, m.View(), "Error: boom")
	_, err := m.Summary()
	assert.EqualError(t, err, "boom")
}

func TestProgressView(t *testing.T) {
	m := New(&fakeRunner{})
	m.Update(progressMsg{current: 2, total: 5})
	assert.Contains(t, m.View(), "Processing... [2/5]")
}

func TestQuitWaitsForSummary(t *testing.T) {
	m := New(&fakeRunner{summary: model.Summary{Fixed: []string{"src/a.ts"}}})

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(key)
		assert.Nil(t, cmd, key.String())
	}
	assert.Equal(t, stateProcessing, m.state)
	assert.Contains(t, m.View(), "Finishing...")

	_, cmd := m.Update(m.runApp())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	summary, err := m.Summary()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, summary.Fixed)
}

func TestIsDetailed(t *testing.T) {
	detailed := &catchfix.DetailedError{Err: errors.New("panic"), Stack: []byte("trace")}
	got, ok := IsDetailed(fmt.Errorf("wrapped: %w", detailed))
	require.True(t, ok)
	assert.Equal(t, []byte("trace"), got.Stack)

	_, ok = IsDetailed(errors.New("plain"))
	assert.False(t, ok)
}
