package driven

import "github.com/custodia-labs/helpscout-archive/internal/core/domain"

// SyncMetrics records run metrics.
type SyncMetrics interface {
	// ObserveBatch records one archived batch.
	ObserveBatch(batch *domain.Batch)

	// ObserveIndex records an index rebuild.
	ObserveIndex(report *domain.IndexReport)

	// ObserveRun records a finished run.
	ObserveRun(report *domain.SyncReport)
}
