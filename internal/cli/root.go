package cli

import (
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cratesup/cratesup/internal/infra/ident"
	"github.com/cratesup/cratesup/internal/platform"
)

type RootOptions struct {
	ListOnly    bool
	DryRun      bool
	Git         bool
	Ask         bool
	Exclude     []string
	Root        string
	Jobs        int
	NoLocked    bool
	Verbose     bool
	Concurrency int
	Timeout     time.Duration
	JSONOutput  bool
	LogLevel    string
	LogFormat   string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &RootOptions{
		LogLevel:  envDefault("CRATESUP_LOG_LEVEL", "warn"),
		LogFormat: envDefault("CRATESUP_LOG_FORMAT", "text"),
	}
	cmd := &cobra.Command{
		Use:   "cratesup",
		Short: "List and update cargo-installed binary crates",
		Long: `cratesup resolves the latest available version of every binary crate
recorded in cargo's install manifest and updates the outdated ones.

Registry crates are checked against the sparse index; crates installed
with --git are checked against their remote HEAD when --git is given.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := platform.ConfigureLogger(opts.LogLevel, opts.LogFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if runID, err := ident.NewRunIDGenerator().NewID(); err == nil {
				logger = platform.RunLogger(logger, runID)
			}
			opts.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.ListOnly, "list", "l", false, "Print installed packages and available updates without installing")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Alias for --list")
	cmd.Flags().BoolVarP(&opts.Git, "git", "g", false, "Include packages installed with --git")
	cmd.Flags().BoolVarP(&opts.Ask, "ask", "a", false, "Ask before installing packages")
	cmd.Flags().StringSliceVarP(&opts.Exclude, "exclude", "e", nil, "Comma separated list of packages to skip")
	cmd.Flags().StringVar(&opts.Root, "root", "", "Override the cargo install root")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Parallel build jobs passed to cargo install")
	cmd.Flags().BoolVar(&opts.NoLocked, "no-locked", false, "Don't pass --locked to cargo install")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Pass --verbose to cargo install")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", runtime.NumCPU(), "Parallel version resolutions")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Per-package resolution timeout")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Emit JSON output")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", opts.LogFormat, "Log format (text, json)")

	return cmd
}

func envDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
