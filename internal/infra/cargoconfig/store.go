package cargoconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Store reads the cargo global configuration file. Cargo accepts both
// `config.toml` and the legacy extension-less `config` name.
type Store struct{}

type fileConfig struct {
	Install installConfig `toml:"install"`
}

type installConfig struct {
	Root string `toml:"root"`
}

// InstallRoot returns the `install.root` value from the cargo config under
// cargoHome, or "" when the config or the key is absent.
func (Store) InstallRoot(ctx context.Context, cargoHome string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, path, err := readConfig(cargoHome)
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", nil
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("parse cargo config %s: %w", path, err)
	}

	return strings.TrimSpace(cfg.Install.Root), nil
}

func readConfig(cargoHome string) ([]byte, string, error) {
	for _, name := range []string{"config.toml", "config"} {
		path := filepath.Join(cargoHome, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("read cargo config %s: %w", path, err)
		}
	}
	return nil, "", nil
}
