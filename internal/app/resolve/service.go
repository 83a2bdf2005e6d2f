package resolve

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cratesup/cratesup/internal/domain"
)

type Service struct {
	registry RegistryClient
	source   SourceControlClient
}

func NewService(registry RegistryClient, source SourceControlClient) *Service {
	return &Service{registry: registry, source: source}
}

// ResolveAll fetches upstream info for every package on a bounded worker
// pool. Each package writes only its own outcome slot; the returned slice
// preserves input order and always has one entry per input package, error
// or not. Cancellation leaves the outcomes of unfinished packages carrying
// the context error so partial results remain reportable.
func (s *Service) ResolveAll(ctx context.Context, packages []domain.Package, opts Options) []Outcome {
	outcomes := make([]Outcome, len(packages))

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var group errgroup.Group
	group.SetLimit(concurrency)
	for i, pkg := range packages {
		group.Go(func() error {
			outcomes[i] = s.resolveOne(ctx, pkg, opts)
			return nil
		})
	}
	_ = group.Wait()

	return outcomes
}

func (s *Service) resolveOne(ctx context.Context, pkg domain.Package, opts Options) Outcome {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outcome := Outcome{Package: pkg}
	switch pkg.Source {
	case domain.SourceRegistry:
		outcome.Upstream, outcome.Err = s.latestRegistry(callCtx, pkg)
	case domain.SourceGit:
		var revision string
		revision, outcome.Err = s.source.HeadRevision(callCtx, pkg.RepoURL)
		outcome.Upstream = domain.Upstream{Revision: revision}
	default:
		outcome.Err = fmt.Errorf("%w: %s", ErrUnsupportedSource, pkg.Source)
	}
	return outcome
}

func (s *Service) latestRegistry(ctx context.Context, pkg domain.Package) (domain.Upstream, error) {
	versions, err := s.registry.Versions(ctx, pkg.Name, pkg.RegistryURL)
	if err != nil {
		return domain.Upstream{}, err
	}

	latest, err := LatestVersion(versions, pkg.Version)
	if err != nil {
		return domain.Upstream{}, fmt.Errorf("crate %s: %w", pkg.Name, err)
	}
	return domain.Upstream{Version: latest}, nil
}

// LatestVersion picks the highest non-yanked version by semver precedence.
// Pre-releases are only candidates when the installed version is itself a
// pre-release, so a stable install never drifts to a pre-release.
func LatestVersion(versions []domain.RegistryVersion, installed string) (string, error) {
	allowPrerelease := installed != "" && domain.IsPrerelease(installed)

	best := ""
	for _, v := range versions {
		if v.Yanked {
			continue
		}
		normalized, err := domain.NormalizeVersion(v.Vers)
		if err != nil {
			continue
		}
		if !allowPrerelease && domain.IsPrerelease(normalized) {
			continue
		}
		if best == "" || domain.CompareVersions(normalized, best) > 0 {
			best = normalized
		}
	}

	if best == "" {
		return "", ErrNoCandidateVersions
	}
	return best, nil
}
