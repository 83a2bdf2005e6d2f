package locate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Options carries the already-resolved environment inputs so the service
// never reads ambient process state itself.
type Options struct {
	// Override is the explicit --root flag value; it wins over everything.
	Override string
	// InstallRootEnv is $CARGO_INSTALL_ROOT.
	InstallRootEnv string
	// CargoHomeEnv is $CARGO_HOME.
	CargoHomeEnv string
	// HomeDir is the user home directory.
	HomeDir string
}

type Service struct {
	config ConfigStore
	probe  Prober
}

func NewService(config ConfigStore, probe Prober) *Service {
	return &Service{config: config, probe: probe}
}

// Resolve determines the install root: explicit override, then the
// `install.root` key of the cargo config, then $CARGO_INSTALL_ROOT, then
// the cargo home itself. A relative configured root is joined onto the
// home directory. The result must be an existing directory.
func (s *Service) Resolve(ctx context.Context, opts Options) (string, error) {
	cargoHome := strings.TrimSpace(opts.CargoHomeEnv)
	if cargoHome == "" {
		if strings.TrimSpace(opts.HomeDir) == "" {
			return "", ErrNoHomeDir
		}
		cargoHome = filepath.Join(opts.HomeDir, ".cargo")
	}

	root := strings.TrimSpace(opts.Override)

	if root == "" {
		configured, err := s.config.InstallRoot(ctx, cargoHome)
		if err != nil {
			return "", err
		}
		if configured != "" {
			if !filepath.IsAbs(configured) {
				configured = filepath.Join(opts.HomeDir, configured)
			}
			root = configured
		}
	}

	if root == "" {
		root = strings.TrimSpace(opts.InstallRootEnv)
	}
	if root == "" {
		root = cargoHome
	}

	isDir, err := s.probe.IsDir(ctx, root)
	if err != nil {
		return "", err
	}
	if !isDir {
		return "", fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	return root, nil
}
