package resolve

import (
	"time"

	"github.com/cratesup/cratesup/internal/domain"
)

const DefaultTimeout = 30 * time.Second

// Outcome is the labeled result of one package resolution. Failures stay
// inside their own slot so one package can never abort the batch.
type Outcome struct {
	Package  domain.Package
	Upstream domain.Upstream
	Err      error
}

type Options struct {
	// Concurrency bounds the resolver worker pool; <= 0 means one worker.
	Concurrency int
	// Timeout applies per resolution call; <= 0 uses DefaultTimeout.
	Timeout time.Duration
}
