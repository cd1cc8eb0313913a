// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TokenProvider: Obtains the bearer token for the source API
//   - RecordSource: Streams batches of records from a cursor
//   - ArchiveStore: Writes records to, and scans, the on-disk archive
//   - CheckpointStore: Persists the sync cursor between invocations
//   - IndexStore: Persists the flat lookup index
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Run ledger. Without it, history is unavailable.
//   - SyncMetrics: Run metrics. Without it, nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
