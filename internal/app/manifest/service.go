package manifest

import (
	"context"
	"fmt"
	"sort"

	"github.com/cratesup/cratesup/internal/domain"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Read parses the install manifest under root into an immutable package
// snapshot, sorted by name. A missing manifest file means nothing is
// installed and yields an empty set; a malformed one aborts the run.
func (s *Service) Read(ctx context.Context, root string) ([]domain.Package, error) {
	entries, found, err := s.store.Load(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestInvalid, err)
	}
	if !found {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(entries))
	packages := make([]domain.Package, 0, len(entries))
	for entry, bins := range entries {
		pkg, err := domain.ParsePackage(entry, bins)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrManifestInvalid, err)
		}
		if _, dup := seen[pkg.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePackage, pkg.Name)
		}
		seen[pkg.Name] = struct{}{}
		packages = append(packages, pkg)
	}

	sort.Slice(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})
	return packages, nil
}
