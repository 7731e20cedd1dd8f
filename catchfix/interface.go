package catchfix

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/sokinpui/catchfix/cli"
	"github.com/sokinpui/catchfix/internal/rewrite"
)

// Config for using catchfix as a library.
type Config struct {
	// Directory to scan recursively. Defaults to "src".
	Root string
	// File extensions to process (e.g., 'ts', '.tsx'). Defaults to ".ts".
	Extensions []string
	// Glob patterns, relative to Root, of files to skip.
	Excludes []string
	// Also scan dot-files and dot-directories.
	Hidden bool
	// "shallow" (default) or "balanced".
	Mode string
	// Report what would change without writing.
	DryRun bool
	// Number of files processed concurrently. Defaults to 1.
	Jobs int
}

func (c Config) toCLI() *cli.Config {
	cfg := &cli.Config{
		Root:       c.Root,
		Extensions: c.Extensions,
		Excludes:   c.Excludes,
		Hidden:     c.Hidden,
		Mode:       c.Mode,
		DryRun:     c.DryRun,
		Jobs:       c.Jobs,
		Atomic:     true,
	}
	if cfg.Root == "" {
		cfg.Root = cli.DefaultRoot
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".ts"}
	}
	if cfg.Mode == "" {
		cfg.Mode = cli.DefaultMode
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}
	return cfg
}

// RewriteString rewrites every matching catch block in content and returns
// the result with the number of blocks rewritten.
func RewriteString(content string, config Config) (string, int, error) {
	mode, err := rewrite.ParseMode(config.Mode)
	if err != nil {
		return "", 0, err
	}
	out, blocks := rewrite.Rewrite(content, mode)
	return out, blocks, nil
}

// FixDir rewrites the files under config.Root and returns the paths that were
// fixed. Files that could not be processed do not stop the run; their errors
// are combined into the returned *multierror.Error.
func FixDir(config Config) ([]string, error) {
	app, err := New(config.toCLI())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catchfix app: %w", err)
	}

	summary, err := app.processFiles()
	if err != nil {
		return summary.Fixed, err
	}

	var result *multierror.Error
	for _, failure := range summary.Failed {
		result = multierror.Append(result, fmt.Errorf("%s: %w", failure.Path, failure.Err))
	}
	return summary.Fixed, result.ErrorOrNil()
}
