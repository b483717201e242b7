package bench

import (
	"context"
	"errors"

	"primebench/internal/config"
	"primebench/internal/transform"
)

// ErrResourceExhausted is returned when the input and output series would
// not fit in the configured memory budget.
var ErrResourceExhausted = errors.New("insufficient memory")

// Re-exported so callers can classify run failures without importing the
// packages that produce them.
var (
	ErrInvalidConfig = config.ErrInvalid
	ErrWorkerSpawn   = transform.ErrWorkerSpawn
	ErrWorkerJoin    = transform.ErrWorkerJoin
)

// Process exit statuses, one per failure site.
const (
	ExitOK                = 0
	ExitInvalidConfig     = 1
	ExitResourceExhausted = 2
	ExitWorkerSpawn       = 3
	ExitWorkerJoin        = 4
	ExitInterrupted       = 130
)

// ExitCode maps a run error to the process exit status. A cancelled run
// (SIGINT or SIGTERM) maps to 130. Errors outside the taxonomy map to 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrResourceExhausted):
		return ExitResourceExhausted
	case errors.Is(err, ErrWorkerSpawn):
		return ExitWorkerSpawn
	case errors.Is(err, ErrWorkerJoin):
		return ExitWorkerJoin
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitInvalidConfig
	}
}
