package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

func TestHistoryCmd(t *testing.T) {
	started := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	orch := &mockSyncOrchestrator{runs: []domain.SyncReport{
		{RunID: "b", StartedAt: started.Add(time.Hour), Outcome: domain.OutcomeFetchFailed, Pages: 3, Records: 150, EndCursor: "4"},
		{RunID: "a", StartedAt: started, Outcome: domain.OutcomeDone, StopReason: domain.StopBatchLimit, Pages: 500, Records: 25000, EndCursor: "501"},
	}}
	withServices(t, &Services{Settings: domain.DefaultSettings(), Sync: orch})

	out, err := executeCommand(t, "history", "--limit", "5")

	require.NoError(t, err)
	assert.Equal(t, []int{5}, orch.limits)
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "fetch_failed")
	assert.Contains(t, out, "batch_limit")
	assert.Contains(t, out, "25000")
}

func TestHistoryCmd_DefaultLimit(t *testing.T) {
	orch := &mockSyncOrchestrator{}
	withServices(t, &Services{Settings: domain.DefaultSettings(), Sync: orch})

	out, err := executeCommand(t, "history")

	require.NoError(t, err)
	assert.Equal(t, []int{10}, orch.limits)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistoryCmd_Error(t *testing.T) {
	withServices(t, &Services{
		Settings: domain.DefaultSettings(),
		Sync:     &mockSyncOrchestrator{histErr: errors.New("database is locked")},
	})

	_, err := executeCommand(t, "history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}
