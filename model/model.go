package model

// FileResult is the outcome of processing a single file.
type FileResult struct {
	Path   string
	Blocks int    // Number of catch blocks rewritten.
	Fixed  bool   // True if the content changed (and was written unless dry-run).
	Diff   string // Unified diff, only populated in dry-run mode.
	Err    error
}

// FileFailure pairs a path with the error that stopped it from being processed.
type FileFailure struct {
	Path string
	Err  error
}

// Summary holds the results of an operation for display.
type Summary struct {
	Scanned int
	Fixed   []string
	Failed  []FileFailure
	Blocks  int
	DryRun  bool
	Message string
}
