package resolve

import (
	"context"

	"github.com/cratesup/cratesup/internal/domain"
)

type RegistryClient interface {
	// Versions lists the published versions of a crate. indexURL is the
	// registry recorded in the manifest for that crate; empty means the
	// default registry.
	Versions(ctx context.Context, name, indexURL string) ([]domain.RegistryVersion, error)
}

type SourceControlClient interface {
	HeadRevision(ctx context.Context, repoURL string) (string, error)
}
