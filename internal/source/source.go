package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/catchfix/internal/ui"
)

// Origin identifies where content was read from.
type Origin int

const (
	OriginStdin Origin = iota
	OriginClipboard
)

// SourceProvider determines and retrieves the source content, and writes the
// rewritten content back to the matching destination.
type SourceProvider struct {
	stdin  *os.File
	stdout io.Writer
}

// New creates a new SourceProvider bound to the process's standard streams.
func New() *SourceProvider {
	return &SourceProvider{stdin: os.Stdin, stdout: os.Stdout}
}

func (sp *SourceProvider) isPiped() bool {
	stat, err := sp.stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// GetContent retrieves content from stdin (if piped) or the clipboard.
func (sp *SourceProvider) GetContent() (string, Origin, error) {
	if sp.isPiped() {
		ui.Header("--- Reading from stdin ---")
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return "", OriginStdin, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), OriginStdin, nil
	}

	ui.Header("--- Reading from clipboard ---")
	content, err := clipboard.ReadAll()
	if err != nil {
		return "", OriginClipboard, fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		ui.Warning("Clipboard is empty. Nothing to process.")
		return "", OriginClipboard, nil
	}
	return content, OriginClipboard, nil
}

// PutContent sends rewritten content to stdout for piped input, or back to
// the clipboard otherwise.
func (sp *SourceProvider) PutContent(content string, origin Origin) error {
	if origin == OriginStdin {
		if _, err := io.WriteString(sp.stdout, content); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return nil
	}
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}
