// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. The sync orchestrator and the index
// service are the only writers of checkpoint and index state.
package services
