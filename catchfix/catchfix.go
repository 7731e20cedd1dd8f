package catchfix

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sokinpui/catchfix/cli"
	"github.com/sokinpui/catchfix/internal/diff"
	"github.com/sokinpui/catchfix/internal/fs"
	"github.com/sokinpui/catchfix/internal/markdown"
	"github.com/sokinpui/catchfix/internal/rewrite"
	"github.com/sokinpui/catchfix/internal/source"
	"github.com/sokinpui/catchfix/model"
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// ResultCallback receives each file's result as soon as it is processed.
type ResultCallback func(result model.FileResult)

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	mode             rewrite.Mode
	logger           *zap.Logger
	sourceProvider   *source.SourceProvider
	progressCallback ProgressUpdate
	resultCallback   ResultCallback
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance.
func New(cfg *cli.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	mode, err := rewrite.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:            cfg,
		mode:           mode,
		logger:         zap.NewNop(),
		sourceProvider: source.New(),
	}, nil
}

// SetLogger replaces the default no-op logger.
func (a *App) SetLogger(logger *zap.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// SetResultCallback sets a function to be called once per processed file.
// Calls are serialized even when files are processed concurrently.
func (a *App) SetResultCallback(cb ResultCallback) {
	a.resultCallback = cb
}

// Execute executes the main application logic based on parsed flags.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	if a.cfg.Stdin {
		return a.processSource()
	}
	return a.processFiles()
}

// processFiles discovers candidate files under the configured root and
// rewrites each of them.
func (a *App) processFiles() (model.Summary, error) {
	paths, err := fs.Discover(a.cfg.Root, a.cfg.Extensions, a.cfg.Excludes, a.cfg.Hidden)
	if err != nil {
		return model.Summary{DryRun: a.cfg.DryRun}, fmt.Errorf("failed to discover files: %w", err)
	}
	a.logger.Debug("Discovered files",
		zap.String("root", a.cfg.Root),
		zap.Strings("extensions", a.cfg.Extensions),
		zap.Int("count", len(paths)))

	summary, err := a.processPaths(paths)
	if len(paths) == 0 {
		summary.Message = fmt.Sprintf("No matching files found under '%s'.", a.cfg.Root)
	}
	return summary, err
}

// processPaths rewrites every path, with up to cfg.Jobs files in flight.
// Without fail-fast, a file that cannot be processed is recorded in the
// summary and the rest continue.
func (a *App) processPaths(paths []string) (model.Summary, error) {
	total := len(paths)
	results := make([]model.FileResult, total)
	done := make([]bool, total)

	var mu sync.Mutex
	completed := 0
	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(a.cfg.Jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			result := a.processFile(path)

			mu.Lock()
			results[i] = result
			done[i] = true
			completed++
			if a.resultCallback != nil {
				a.resultCallback(result)
			}
			if a.progressCallback != nil {
				a.progressCallback(completed, total)
			}
			mu.Unlock()

			if result.Err != nil && a.cfg.FailFast {
				return result.Err
			}
			return nil
		})
	}
	err := g.Wait()

	summary := model.Summary{Scanned: completed, DryRun: a.cfg.DryRun}
	for i, result := range results {
		if !done[i] {
			continue
		}
		switch {
		case result.Err != nil:
			summary.Failed = append(summary.Failed, model.FileFailure{Path: result.Path, Err: result.Err})
		case result.Fixed:
			summary.Fixed = append(summary.Fixed, result.Path)
			summary.Blocks += result.Blocks
		}
	}
	return summary, err
}

// processFile reads, rewrites and (unless dry-running) writes back one file.
func (a *App) processFile(path string) model.FileResult {
	result := model.FileResult{Path: path}

	original, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("failed to read '%s': %w", path, err)
		return result
	}

	rewritten, blocks, err := RewriteContent(path, original, a.mode)
	if err != nil {
		result.Err = err
		return result
	}
	result.Blocks = blocks
	a.logger.Debug("Scanned file", zap.String("path", path), zap.Int("blocks", blocks))
	if blocks == 0 {
		return result
	}

	if a.cfg.DryRun {
		d, err := diff.Unified(path, string(original), string(rewritten))
		if err != nil {
			result.Err = fmt.Errorf("failed to diff '%s': %w", path, err)
			return result
		}
		result.Diff = d
		result.Fixed = d != ""
		return result
	}

	written, err := fs.UpdateFile(path, original, rewritten, a.cfg.Atomic)
	if err != nil {
		result.Err = err
		return result
	}
	a.logger.Debug("Wrote file", zap.String("path", path), zap.Bool("atomic", a.cfg.Atomic))
	result.Fixed = written
	return result
}

// processSource rewrites content from stdin or the clipboard.
func (a *App) processSource() (model.Summary, error) {
	content, origin, err := a.sourceProvider.GetContent()
	if err != nil {
		return model.Summary{}, err
	}
	if content == "" {
		return model.Summary{Message: "Source is empty. Nothing to process."}, nil
	}

	rewritten, blocks := rewrite.Rewrite(content, a.mode)
	if err := a.sourceProvider.PutContent(rewritten, origin); err != nil {
		return model.Summary{}, err
	}
	return model.Summary{
		Blocks:  blocks,
		Message: fmt.Sprintf("Rewrote %d catch block(s).", blocks),
	}, nil
}

// RewriteContent rewrites a file's content. Markdown documents only have
// their TypeScript code fences rewritten.
func RewriteContent(path string, content []byte, mode rewrite.Mode) ([]byte, int, error) {
	rewriteText := func(s string) (string, int) {
		return rewrite.Rewrite(s, mode)
	}

	if markdown.IsMarkdown(path) {
		out, blocks, err := markdown.Rewrite(content, rewriteText)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to parse markdown '%s': %w", path, err)
		}
		return out, blocks, nil
	}

	out, blocks := rewriteText(string(content))
	if blocks == 0 {
		return content, 0, nil
	}
	return []byte(out), blocks, nil
}
