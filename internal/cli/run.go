package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cratesup/cratesup/internal/app/locate"
	"github.com/cratesup/cratesup/internal/app/manifest"
	"github.com/cratesup/cratesup/internal/app/plan"
	"github.com/cratesup/cratesup/internal/app/resolve"
	"github.com/cratesup/cratesup/internal/app/update"
	"github.com/cratesup/cratesup/internal/domain"
	"github.com/cratesup/cratesup/internal/infra/cargocli"
	"github.com/cratesup/cratesup/internal/infra/cargoconfig"
	"github.com/cratesup/cratesup/internal/infra/cratesfile"
	"github.com/cratesup/cratesup/internal/infra/filesystem"
	"github.com/cratesup/cratesup/internal/infra/gitremote"
	"github.com/cratesup/cratesup/internal/infra/registry"
)

func run(cmd *cobra.Command, opts *RootOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	logger := opts.logger

	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	locator := locate.NewService(cargoconfig.Store{}, filesystem.Prober{})
	root, err := locator.Resolve(ctx, locate.Options{
		Override:       opts.Root,
		InstallRootEnv: os.Getenv("CARGO_INSTALL_ROOT"),
		CargoHomeEnv:   os.Getenv("CARGO_HOME"),
		HomeDir:        home,
	})
	if err != nil {
		return err
	}
	logger.Debug("resolved install root", "root", root)

	packages, err := manifest.NewService(cratesfile.Store{}).Read(ctx, root)
	if err != nil {
		return err
	}
	packages = filterPackages(packages, opts)
	logger.Debug("read install manifest", "packages", len(packages))

	if len(packages) == 0 {
		if opts.JSONOutput {
			return writeReport(out, root, nil, nil)
		}
		fmt.Fprintln(out, "no packages installed")
		return nil
	}

	resolver := resolve.NewService(registry.NewClient(registry.DefaultIndexURL, nil), gitremote.Client{})
	var outcomes []resolve.Outcome
	spin := spinnerEnabled(out, opts.JSONOutput)
	_ = withSpinner(ctx, out, spin, "checking for updates", func() error {
		outcomes = resolver.ResolveAll(ctx, packages, resolve.Options{
			Concurrency: opts.Concurrency,
			Timeout:     opts.Timeout,
		})
		return nil
	})
	decisions := plan.Build(outcomes)
	updates := plan.Updates(decisions)

	// On interrupt the finished resolutions are still worth reporting;
	// unfinished ones carry the context error and classify unknown.
	if err := ctx.Err(); err != nil {
		if opts.JSONOutput {
			_ = writeReport(out, root, decisions, nil)
		} else {
			newRenderer(out, false).renderDecisions(out, decisions)
		}
		return err
	}

	listOnly := opts.ListOnly || opts.DryRun
	if listOnly {
		if opts.JSONOutput {
			return writeReport(out, root, decisions, nil)
		}
		newRenderer(out, false).renderDecisions(out, decisions)
		return nil
	}

	if !opts.JSONOutput {
		newRenderer(out, false).renderDecisions(out, decisions)
	}
	if len(updates) == 0 {
		if opts.JSONOutput {
			return writeReport(out, root, decisions, nil)
		}
		fmt.Fprintln(out, "all packages are up to date")
		return nil
	}

	// Cargo's build output and the prompt go to stderr under --json so
	// stdout stays parseable.
	passthrough := out
	if opts.JSONOutput {
		passthrough = cmd.ErrOrStderr()
	}
	installer := &cargocli.Installer{Stdout: passthrough, Stderr: cmd.ErrOrStderr()}
	confirmer := stdinConfirmer{in: cmd.InOrStdin(), out: passthrough}
	service := update.NewService(installer, confirmer)

	return runInstalls(ctx, out, service, root, decisions, updates, opts)
}

// runInstalls drives the executor over the updatable decisions and writes
// the final report. A declined confirmation still emits the JSON report so
// machine consumers always get the decisions.
func runInstalls(ctx context.Context, out io.Writer, service *update.Service, root string, decisions, updates []plan.Decision, opts *RootOptions) error {
	pending := make([]domain.Package, 0, len(updates))
	for _, decision := range updates {
		pending = append(pending, decision.Package)
	}

	results, err := service.Apply(ctx, pending, update.Options{
		Ask: opts.Ask,
		Install: update.InstallOptions{
			Jobs:    opts.Jobs,
			Locked:  !opts.NoLocked,
			Verbose: opts.Verbose,
		},
	})
	if err != nil {
		if errors.Is(err, update.ErrDeclined) && opts.JSONOutput {
			if writeErr := writeReport(out, root, decisions, nil); writeErr != nil {
				return writeErr
			}
		}
		return err
	}

	if opts.JSONOutput {
		if writeErr := writeReport(out, root, decisions, results); writeErr != nil {
			return writeErr
		}
	} else {
		newRenderer(out, false).renderResults(out, results)
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return ExitError{
			Code:    ExitInternal,
			Kind:    KindInstall,
			Message: fmt.Sprintf("%d of %d updates failed", failed, len(results)),
		}
	}
	return nil
}

// filterPackages drops excluded names and, unless --git was given, every
// git-sourced package. Unknown sources stay in so the report can surface
// them.
func filterPackages(packages []domain.Package, opts *RootOptions) []domain.Package {
	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, name := range opts.Exclude {
		name = strings.TrimSpace(name)
		if name != "" {
			excluded[name] = struct{}{}
		}
	}

	kept := packages[:0:0]
	for _, pkg := range packages {
		if _, skip := excluded[pkg.Name]; skip {
			continue
		}
		if pkg.Source == domain.SourceGit && !opts.Git {
			continue
		}
		kept = append(kept, pkg)
	}
	return kept
}
