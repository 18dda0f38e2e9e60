package catalog

import (
	"context"

	"tcorea.dev/internal/models"
)

// State is the outcome of one catalog load
type State int

const (
	StatePending State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Result is what a single view knows about the catalog
type Result struct {
	State   State
	Catalog *models.ProjectList
	Message string
	Err     error
}

// Ready reports whether the catalog loaded
func (r Result) Ready() bool {
	return r.State == StateReady
}

// Projects returns the loaded records, nil unless ready
func (r Result) Projects() []models.Project {
	if r.State != StateReady || r.Catalog == nil {
		return nil
	}
	return r.Catalog.Projects
}

// Load performs exactly one fetch against src. On failure the result carries
// message and no partial data.
func Load(ctx context.Context, src Source, message string) Result {
	list, err := src.Fetch(ctx)
	if err != nil {
		return Result{State: StateFailed, Message: message, Err: err}
	}
	return Result{State: StateReady, Catalog: list}
}
