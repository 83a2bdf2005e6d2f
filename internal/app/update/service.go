package update

import (
	"context"

	"github.com/cratesup/cratesup/internal/domain"
)

type Service struct {
	installer Installer
	confirmer Confirmer
}

func NewService(installer Installer, confirmer Confirmer) *Service {
	return &Service{installer: installer, confirmer: confirmer}
}

// Apply installs the pending packages one at a time. Installs are strictly
// sequential: concurrent cargo invocations against one install root are
// not assumed safe. With Ask set, the caller is expected to have shown the
// pending list already; a single confirmation covers the whole batch, and
// declining returns ErrDeclined before anything runs. An install failure
// is recorded in its Result and does not stop the remaining installs;
// only cancellation cuts the batch short.
func (s *Service) Apply(ctx context.Context, pending []domain.Package, opts Options) ([]Result, error) {
	if len(pending) == 0 {
		return nil, nil
	}

	if opts.Ask {
		confirmed, err := s.confirmer.Confirm(ctx, "Install updates?")
		if err != nil {
			return nil, err
		}
		if !confirmed {
			return nil, ErrDeclined
		}
	}

	results := make([]Result, 0, len(pending))
	for _, pkg := range pending {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		err := s.installer.Install(ctx, pkg, opts.Install)
		results = append(results, Result{Name: pkg.Name, Err: err})
	}
	return results, nil
}
