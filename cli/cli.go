package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/sokinpui/catchfix/internal/fs"
	"github.com/sokinpui/catchfix/internal/rewrite"
)

const (
	DefaultRoot = "src"
	DefaultMode = "shallow"
)

// Config holds all the command-line flag values.
type Config struct {
	Root       string
	Extensions []string
	Excludes   []string
	Hidden     bool
	Mode       string
	DryRun     bool
	Atomic     bool
	Jobs       int
	FailFast   bool
	Stdin      bool
	TUI        bool
	Verbose    bool
	ConfigFile string
}

// fileConfig mirrors Config for the optional YAML file. Pointers distinguish
// "unset" from zero values.
type fileConfig struct {
	Root       *string  `yaml:"root"`
	Extensions []string `yaml:"extensions"`
	Excludes   []string `yaml:"exclude"`
	Hidden     *bool    `yaml:"hidden"`
	Mode       *string  `yaml:"mode"`
	DryRun     *bool    `yaml:"dry_run"`
	Atomic     *bool    `yaml:"atomic"`
	Jobs       *int     `yaml:"jobs"`
	FailFast   *bool    `yaml:"fail_fast"`
	Verbose    *bool    `yaml:"verbose"`
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses args (without the program name) into a Config.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("catchfix", pflag.ContinueOnError)
	// Errors are returned to the caller for printing.
	flags.SetOutput(io.Discard)

	// Define flags
	flags.StringVarP(&cfg.Root, "root", "d", DefaultRoot, "Directory to scan recursively.")
	flags.StringSliceVarP(&cfg.Extensions, "extension", "e", []string{"ts"}, "File extensions to process (e.g., 'ts', 'tsx'). 'md' rewrites TypeScript fences in markdown.")
	flags.StringSliceVarP(&cfg.Excludes, "exclude", "x", []string{}, "Glob patterns, relative to the root, of files to skip (e.g., 'node_modules/**').")
	flags.BoolVar(&cfg.Hidden, "hidden", false, "Also scan dot-files and files under dot-directories.")
	flags.StringVarP(&cfg.Mode, "mode", "m", DefaultMode, "How a catch block's end is found: 'shallow' (first closing brace) or 'balanced' (matching brace).")
	flags.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Print a diff of what would change without writing files.")
	flags.BoolVar(&cfg.Atomic, "atomic", true, "Write through a temporary file and rename it over the original.")
	flags.IntVarP(&cfg.Jobs, "jobs", "j", 1, "Number of files to process concurrently.")
	flags.BoolVar(&cfg.FailFast, "fail-fast", false, "Abort on the first file that cannot be read or written.")
	flags.BoolVar(&cfg.Stdin, "stdin", false, "Rewrite content from stdin (pipe) or clipboard instead of files.")
	flags.BoolVar(&cfg.TUI, "tui", false, "Show a spinner while running and a styled summary.")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug logging on stderr.")
	flags.StringVarP(&cfg.ConfigFile, "config", "c", "", "YAML file with default values for the flags above.")

	flags.Usage = func() {
		fmt.Println("Usage: catchfix [flags]")
		fmt.Println("\nRewrite `catch (error: any)` blocks to `catch (error: unknown)` with an explicit message binding.")
		fmt.Println("\nExample: catchfix -d src -e ts -e tsx -x 'generated/**'")
		fmt.Println("\nFlags:")
		fmt.Print(flags.FlagUsages())
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if cfg.ConfigFile != "" {
		if err := applyConfigFile(cfg, flags); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Extensions = fs.NormalizeExtensions(cfg.Extensions)
	return cfg, nil
}

// Validate checks values that flags cannot constrain on their own.
func (c *Config) Validate() error {
	if _, err := rewrite.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Jobs < 1 {
		return fmt.Errorf("error: --jobs must be at least 1, got %d", c.Jobs)
	}
	if len(fs.NormalizeExtensions(c.Extensions)) == 0 && !c.Stdin {
		return errors.New("error: at least one --extension is required")
	}
	// Mutually exclusive output modes
	if c.TUI && (c.DryRun || c.Stdin) {
		return errors.New("error: --tui cannot be combined with --dry-run or --stdin")
	}
	return nil
}

// applyConfigFile fills in every value from the YAML file whose flag was not
// set explicitly on the command line.
func applyConfigFile(cfg *Config, flags *pflag.FlagSet) error {
	data, err := os.ReadFile(cfg.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", cfg.ConfigFile, err)
	}

	unset := func(name string) bool { return !flags.Changed(name) }

	if fc.Root != nil && unset("root") {
		cfg.Root = *fc.Root
	}
	if fc.Extensions != nil && unset("extension") {
		cfg.Extensions = fc.Extensions
	}
	if fc.Excludes != nil && unset("exclude") {
		cfg.Excludes = fc.Excludes
	}
	if fc.Hidden != nil && unset("hidden") {
		cfg.Hidden = *fc.Hidden
	}
	if fc.Mode != nil && unset("mode") {
		cfg.Mode = *fc.Mode
	}
	if fc.DryRun != nil && unset("dry-run") {
		cfg.DryRun = *fc.DryRun
	}
	if fc.Atomic != nil && unset("atomic") {
		cfg.Atomic = *fc.Atomic
	}
	if fc.Jobs != nil && unset("jobs") {
		cfg.Jobs = *fc.Jobs
	}
	if fc.FailFast != nil && unset("fail-fast") {
		cfg.FailFast = *fc.FailFast
	}
	if fc.Verbose != nil && unset("verbose") {
		cfg.Verbose = *fc.Verbose
	}
	return nil
}
