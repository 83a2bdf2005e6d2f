package cargocli

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/cratesup/cratesup/internal/app/update"
	"github.com/cratesup/cratesup/internal/domain"
)

// Installer runs `cargo install` for one package at a time. Output streams
// straight through so the user sees cargo's own build progress.
type Installer struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r *Installer) Install(ctx context.Context, pkg domain.Package, opts update.InstallOptions) error {
	cmd := exec.CommandContext(ctx, "cargo", installArgs(pkg, opts)...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cargo install %s: %w", pkg.Name, err)
	}
	return nil
}

func installArgs(pkg domain.Package, opts update.InstallOptions) []string {
	args := []string{"install"}
	if opts.Jobs > 0 {
		args = append(args, "--jobs", strconv.Itoa(opts.Jobs))
	}
	if opts.Locked {
		args = append(args, "--locked")
	}
	if opts.Verbose {
		args = append(args, "--verbose")
	}
	if pkg.Source == domain.SourceGit {
		args = append(args, "--git", pkg.RepoURL)
	}
	return append(args, pkg.Name)
}
