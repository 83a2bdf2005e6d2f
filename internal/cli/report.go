package cli

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/cratesup/cratesup/internal/app/plan"
	"github.com/cratesup/cratesup/internal/app/update"
)

type packageReport struct {
	Name      string `json:"name"`
	Source    string `json:"source"`
	Installed string `json:"installed,omitempty"`
	Available string `json:"available,omitempty"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

type installReport struct {
	Name  string `json:"name"`
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type runReport struct {
	Root     string          `json:"root"`
	Packages []packageReport `json:"packages"`
	Installs []installReport `json:"installs,omitempty"`
}

func writeReport(w io.Writer, root string, decisions []plan.Decision, results []update.Result) error {
	report := runReport{
		Root:     root,
		Packages: make([]packageReport, 0, len(decisions)),
	}
	for _, decision := range decisions {
		report.Packages = append(report.Packages, packageReport{
			Name:      decision.Name,
			Source:    string(decision.Source),
			Installed: decision.Installed,
			Available: decision.Available,
			Status:    string(decision.Class),
			Reason:    decision.Reason,
		})
	}
	for _, result := range results {
		entry := installReport{Name: result.Name, Ok: result.Err == nil}
		if result.Err != nil {
			entry.Error = result.Err.Error()
		}
		report.Installs = append(report.Installs, entry)
	}
	return json.MarshalWrite(w, report, jsontext.WithIndent("  "))
}
