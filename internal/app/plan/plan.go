package plan

import (
	"sort"

	"github.com/cratesup/cratesup/internal/app/resolve"
	"github.com/cratesup/cratesup/internal/domain"
)

// Build classifies every outcome and orders the decisions by package name,
// so the report is deterministic no matter how resolutions interleaved.
func Build(outcomes []resolve.Outcome) []Decision {
	decisions := make([]Decision, 0, len(outcomes))
	for _, outcome := range outcomes {
		decisions = append(decisions, classify(outcome))
	}

	sort.Slice(decisions, func(i, j int) bool {
		return decisions[i].Name < decisions[j].Name
	})
	return decisions
}

// Updates filters the decisions down to the packages the executor should
// install, preserving order.
func Updates(decisions []Decision) []Decision {
	var updates []Decision
	for _, decision := range decisions {
		if decision.Class == ClassUpdatable {
			updates = append(updates, decision)
		}
	}
	return updates
}

func classify(outcome resolve.Outcome) Decision {
	pkg := outcome.Package
	decision := Decision{
		Package: pkg,
		Name:    pkg.Name,
		Source:  pkg.Source,
	}

	switch pkg.Source {
	case domain.SourceGit:
		decision.Installed = pkg.Revision
	default:
		decision.Installed = pkg.RawVersion
	}

	if outcome.Err != nil {
		decision.Class = ClassUnknown
		decision.Reason = outcome.Err.Error()
		return decision
	}

	switch pkg.Source {
	case domain.SourceGit:
		decision.Available = outcome.Upstream.Revision
		// Revisions have identity, not order: any difference is an update.
		if outcome.Upstream.Revision == pkg.Revision {
			decision.Class = ClassUpToDate
		} else {
			decision.Class = ClassUpdatable
		}
	case domain.SourceRegistry:
		decision.Available = domain.DisplayVersion(outcome.Upstream.Version)
		if pkg.Version == "" {
			decision.Class = ClassUnknown
			decision.Reason = "installed version is not valid semver: " + pkg.RawVersion
			return decision
		}
		switch cmp := domain.CompareVersions(outcome.Upstream.Version, pkg.Version); {
		case cmp > 0:
			decision.Class = ClassUpdatable
		case cmp == 0:
			decision.Class = ClassUpToDate
		default:
			decision.Class = ClassUnknown
			decision.Reason = "installed version is newer than the registry latest"
		}
	default:
		decision.Class = ClassUnknown
		decision.Reason = "unsupported package source: " + string(pkg.Source)
	}

	return decision
}
