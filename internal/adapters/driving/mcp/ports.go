package mcp

import (
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Index answers record lookups.
	Index driving.IndexService

	// Sync exposes the run history.
	Sync driving.SyncOrchestrator
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingIndexService
	}
	// Sync is optional; without it the runs resource is empty
	return nil
}
