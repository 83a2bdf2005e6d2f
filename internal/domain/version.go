package domain

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// NormalizeVersion brings a crate version string into the "v"-prefixed form
// the semver package requires, validating it along the way.
func NormalizeVersion(value string) (string, error) {
	normalized := strings.TrimSpace(value)
	if !strings.HasPrefix(normalized, "v") {
		normalized = "v" + normalized
	}
	if !semver.IsValid(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, value)
	}
	return normalized, nil
}

func CompareVersions(a, b string) int {
	return semver.Compare(a, b)
}

func IsPrerelease(version string) bool {
	return semver.Prerelease(version) != ""
}

// DisplayVersion strips the normalization prefix for user-facing output.
func DisplayVersion(version string) string {
	return strings.TrimPrefix(version, "v")
}
