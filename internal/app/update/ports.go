package update

import (
	"context"

	"github.com/cratesup/cratesup/internal/domain"
)

type Installer interface {
	Install(ctx context.Context, pkg domain.Package, opts InstallOptions) error
}

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}
