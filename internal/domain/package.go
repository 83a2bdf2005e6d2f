package domain

import (
	"fmt"
	"strings"
)

type SourceKind string

const (
	SourceRegistry SourceKind = "registry"
	SourceGit      SourceKind = "git"
	SourceUnknown  SourceKind = "unknown"
)

func (kind SourceKind) IsValid() bool {
	return kind == SourceRegistry || kind == SourceGit || kind == SourceUnknown
}

// Package is an installed binary crate as recorded in the install manifest.
// It is an immutable snapshot taken at manifest-read time.
type Package struct {
	Name       string
	RawVersion string
	// Version is the normalized "v"-prefixed semver form of RawVersion,
	// or empty when RawVersion does not parse.
	Version     string
	Source      SourceKind
	RegistryURL string
	RepoURL     string
	Revision    string
	Bins        []string
}

// Upstream holds the latest available value for a package, fetched fresh
// once per run. Exactly one of Version and Revision is set, matching the
// package source kind.
type Upstream struct {
	Version  string
	Revision string
}

// ParsePackage parses a `.crates.toml` entry key of the form
//
//	<name> <version> (<kind>+<url>)
//
// Git sources carry the installed revision in the URL fragment and an
// optional `?branch=...` query which is stripped. The "sparse" kind is the
// sparse-protocol spelling of a registry source. Unrecognized kinds map to
// SourceUnknown rather than failing, so the caller can still report them.
func ParsePackage(entry string, bins []string) (Package, error) {
	name, remainder, ok := strings.Cut(entry, " ")
	if !ok {
		return Package{}, fmt.Errorf("%w: missing version in %q", ErrMalformedEntry, entry)
	}
	version, source, ok := strings.Cut(remainder, " ")
	if !ok {
		return Package{}, fmt.Errorf("%w: missing source in %q", ErrMalformedEntry, entry)
	}

	source, ok = strings.CutPrefix(source, "(")
	if !ok {
		return Package{}, fmt.Errorf("%w: missing opening paren in %q", ErrMalformedEntry, entry)
	}
	source, ok = strings.CutSuffix(source, ")")
	if !ok {
		return Package{}, fmt.Errorf("%w: missing closing paren in %q", ErrMalformedEntry, entry)
	}
	kind, url, ok := strings.Cut(source, "+")
	if !ok {
		return Package{}, fmt.Errorf("%w: missing source kind in %q", ErrMalformedEntry, entry)
	}

	pkg := Package{
		Name:       name,
		RawVersion: version,
		Bins:       append([]string(nil), bins...),
	}

	switch kind {
	case "git":
		repoURL, revision, ok := strings.Cut(url, "#")
		if !ok {
			return Package{}, fmt.Errorf("%w: missing git revision in %q", ErrMalformedEntry, entry)
		}
		if trimmed, _, found := strings.Cut(repoURL, "?"); found {
			repoURL = trimmed
		}
		pkg.Source = SourceGit
		pkg.RepoURL = repoURL
		pkg.Revision = revision
	case "registry", "sparse":
		pkg.Source = SourceRegistry
		pkg.RegistryURL = url
		if normalized, err := NormalizeVersion(version); err == nil {
			pkg.Version = normalized
		}
	default:
		pkg.Source = SourceUnknown
	}

	return pkg, nil
}
