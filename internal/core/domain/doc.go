// Package domain defines the core business entities for hsarchive.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A conversation payload as returned by the source API
//   - Cursor: The resumable position of a sync (page or month)
//   - Batch: One page of records produced by a fetcher
//   - IndexEntry: The flat lookup projection of an archived record
//   - SyncReport: The outcome of one sync invocation
//   - Settings: The explicit configuration object
//
// Partition keys are derived here (PartitionKey) because the rule is a pure
// function of a Record.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
