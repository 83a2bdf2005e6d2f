package plan

import "github.com/cratesup/cratesup/internal/domain"

type Class string

const (
	ClassUpToDate  Class = "current"
	ClassUpdatable Class = "update"
	ClassUnknown   Class = "unknown"
)

// Decision is the classified fate of one installed package. Installed and
// Available hold display values: registry versions without the "v" prefix,
// git revisions verbatim.
type Decision struct {
	Package   domain.Package
	Name      string
	Source    domain.SourceKind
	Installed string
	Available string
	Class     Class
	Reason    string
}
