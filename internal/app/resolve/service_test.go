package resolve

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cratesup/cratesup/internal/domain"
)

type fakeRegistry struct {
	mu        sync.Mutex
	versions  map[string][]domain.RegistryVersion
	errs      map[string]error
	delay     map[string]time.Duration
	calls     []string
	indexURLs map[string]string
}

func (f *fakeRegistry) Versions(ctx context.Context, name, indexURL string) ([]domain.RegistryVersion, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	if f.indexURLs == nil {
		f.indexURLs = make(map[string]string)
	}
	f.indexURLs[name] = indexURL
	delay := f.delay[name]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	return f.versions[name], nil
}

type fakeSource struct {
	revisions map[string]string
	errs      map[string]error
}

func (f *fakeSource) HeadRevision(ctx context.Context, repoURL string) (string, error) {
	if err := f.errs[repoURL]; err != nil {
		return "", err
	}
	return f.revisions[repoURL], nil
}

func registryPackage(name, version string) domain.Package {
	normalized, _ := domain.NormalizeVersion(version)
	return domain.Package{
		Name:       name,
		RawVersion: version,
		Version:    normalized,
		Source:     domain.SourceRegistry,
	}
}

func TestResolveAllRegistry(t *testing.T) {
	registry := &fakeRegistry{versions: map[string][]domain.RegistryVersion{
		"pkga": {{Vers: "1.2.0"}, {Vers: "1.3.0"}},
	}}
	svc := NewService(registry, &fakeSource{})

	outcomes := svc.ResolveAll(context.Background(), []domain.Package{registryPackage("pkga", "1.2.0")}, Options{})
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Err != nil {
		t.Fatalf("unexpected error: %v", outcomes[0].Err)
	}
	if outcomes[0].Upstream.Version != "v1.3.0" {
		t.Fatalf("expected latest v1.3.0, got %q", outcomes[0].Upstream.Version)
	}
}

func TestResolveAllPassesRecordedRegistryURL(t *testing.T) {
	registry := &fakeRegistry{versions: map[string][]domain.RegistryVersion{
		"pkga": {{Vers: "1.0.0"}},
	}}
	svc := NewService(registry, &fakeSource{})

	pkg := registryPackage("pkga", "1.0.0")
	pkg.RegistryURL = "https://my.registry/index"
	outcomes := svc.ResolveAll(context.Background(), []domain.Package{pkg}, Options{})
	if outcomes[0].Err != nil {
		t.Fatalf("unexpected error: %v", outcomes[0].Err)
	}
	if registry.indexURLs["pkga"] != "https://my.registry/index" {
		t.Fatalf("recorded registry URL not forwarded, got %q", registry.indexURLs["pkga"])
	}
}

func TestResolveAllGit(t *testing.T) {
	source := &fakeSource{revisions: map[string]string{"https://host/r": "def456"}}
	svc := NewService(&fakeRegistry{}, source)

	pkg := domain.Package{Name: "tool", Source: domain.SourceGit, RepoURL: "https://host/r", Revision: "abc123"}
	outcomes := svc.ResolveAll(context.Background(), []domain.Package{pkg}, Options{})
	if outcomes[0].Err != nil {
		t.Fatalf("unexpected error: %v", outcomes[0].Err)
	}
	if outcomes[0].Upstream.Revision != "def456" {
		t.Fatalf("expected def456, got %q", outcomes[0].Upstream.Revision)
	}
}

func TestResolveAllIsolatesFailures(t *testing.T) {
	netErr := errors.New("network down")
	registry := &fakeRegistry{
		versions: map[string][]domain.RegistryVersion{
			"good": {{Vers: "2.0.0"}},
		},
		errs: map[string]error{"bad": netErr},
	}
	svc := NewService(registry, &fakeSource{})

	outcomes := svc.ResolveAll(context.Background(), []domain.Package{
		registryPackage("bad", "1.0.0"),
		registryPackage("good", "2.0.0"),
	}, Options{Concurrency: 2})

	if !errors.Is(outcomes[0].Err, netErr) {
		t.Fatalf("expected isolated failure for bad, got %v", outcomes[0].Err)
	}
	if outcomes[1].Err != nil {
		t.Fatalf("good package should be unaffected, got %v", outcomes[1].Err)
	}
	if outcomes[1].Upstream.Version != "v2.0.0" {
		t.Fatalf("expected v2.0.0 for good, got %q", outcomes[1].Upstream.Version)
	}
}

func TestResolveAllUnsupportedSource(t *testing.T) {
	svc := NewService(&fakeRegistry{}, &fakeSource{})
	outcomes := svc.ResolveAll(context.Background(), []domain.Package{
		{Name: "odd", Source: domain.SourceUnknown},
	}, Options{})
	if !errors.Is(outcomes[0].Err, ErrUnsupportedSource) {
		t.Fatalf("expected ErrUnsupportedSource, got %v", outcomes[0].Err)
	}
}

func TestResolveAllTimeout(t *testing.T) {
	registry := &fakeRegistry{
		versions: map[string][]domain.RegistryVersion{"slow": {{Vers: "1.0.0"}}},
		delay:    map[string]time.Duration{"slow": time.Second},
	}
	svc := NewService(registry, &fakeSource{})

	outcomes := svc.ResolveAll(context.Background(), []domain.Package{registryPackage("slow", "0.9.0")}, Options{
		Timeout: 10 * time.Millisecond,
	})
	if !errors.Is(outcomes[0].Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", outcomes[0].Err)
	}
}

func TestResolveAllPreservesInputOrder(t *testing.T) {
	registry := &fakeRegistry{
		versions: map[string][]domain.RegistryVersion{
			"a": {{Vers: "1.0.0"}},
			"b": {{Vers: "1.0.0"}},
			"c": {{Vers: "1.0.0"}},
		},
		delay: map[string]time.Duration{"a": 50 * time.Millisecond},
	}
	svc := NewService(registry, &fakeSource{})

	packages := []domain.Package{
		registryPackage("a", "1.0.0"),
		registryPackage("b", "1.0.0"),
		registryPackage("c", "1.0.0"),
	}
	outcomes := svc.ResolveAll(context.Background(), packages, Options{Concurrency: 3})
	for i, pkg := range packages {
		if outcomes[i].Package.Name != pkg.Name {
			t.Fatalf("slot %d: expected %q, got %q", i, pkg.Name, outcomes[i].Package.Name)
		}
	}
}

func TestLatestVersionSkipsYankedAndPrerelease(t *testing.T) {
	versions := []domain.RegistryVersion{
		{Vers: "1.0.0"},
		{Vers: "1.1.0", Yanked: true},
		{Vers: "1.2.0-rc.1"},
		{Vers: "1.0.5"},
	}

	latest, err := LatestVersion(versions, "v1.0.0")
	if err != nil {
		t.Fatalf("LatestVersion returned error: %v", err)
	}
	if latest != "v1.0.5" {
		t.Fatalf("expected v1.0.5, got %q", latest)
	}
}

func TestLatestVersionPrereleaseInstalled(t *testing.T) {
	versions := []domain.RegistryVersion{
		{Vers: "1.0.0"},
		{Vers: "1.2.0-rc.1"},
	}

	latest, err := LatestVersion(versions, "v1.1.0-beta.2")
	if err != nil {
		t.Fatalf("LatestVersion returned error: %v", err)
	}
	if latest != "v1.2.0-rc.1" {
		t.Fatalf("expected pre-release candidate for pre-release install, got %q", latest)
	}
}

func TestLatestVersionNoCandidates(t *testing.T) {
	versions := []domain.RegistryVersion{
		{Vers: "1.0.0", Yanked: true},
		{Vers: "garbage"},
	}
	if _, err := LatestVersion(versions, "v0.9.0"); !errors.Is(err, ErrNoCandidateVersions) {
		t.Fatalf("expected ErrNoCandidateVersions, got %v", err)
	}
}
