// Package tui provides the interactive archive browser. It is a driving
// adapter: every action goes through the index and sync ports.
package tui

import (
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driving"
)

// Ports aggregates the driving ports the browser uses.
type Ports struct {
	// Index answers lookups and rebuilds the index.
	Index driving.IndexService

	// Sync runs archive syncs in the background.
	Sync driving.SyncOrchestrator
}

// NewPorts creates a new Ports aggregate.
func NewPorts(index driving.IndexService, sync driving.SyncOrchestrator) *Ports {
	return &Ports{Index: index, Sync: sync}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Index == nil {
		return ErrMissingIndexService
	}
	if p.Sync == nil {
		return ErrMissingSyncOrchestrator
	}
	return nil
}
