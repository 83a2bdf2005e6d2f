package cratesfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const FileName = ".crates.toml"

// Store reads the raw install manifest cargo maintains at
// `<root>/.crates.toml`. Entry keys are left unparsed; the manifest
// service owns their grammar.
type Store struct{}

type manifestFile struct {
	V1 map[string][]string `toml:"v1"`
}

// Load returns the `[v1]` entry table and whether the manifest file exists
// at all. A root with no manifest means nothing was cargo-installed there.
func (Store) Load(ctx context.Context, root string) (map[string][]string, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var file manifestFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, true, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if file.V1 == nil {
		// A bare `[v1]` header decodes to a nil map, but it is a valid
		// empty table: cargo leaves it behind after the last uninstall.
		if !hasV1Table(data) {
			return nil, true, fmt.Errorf("parse manifest %s: missing [v1] table", path)
		}
		file.V1 = map[string][]string{}
	}

	return file.V1, true, nil
}

func hasV1Table(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	_, ok := raw["v1"]
	return ok
}
