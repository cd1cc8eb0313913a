package services

import "time"

// BatchGovernor bounds the work done in one invocation: a ceiling on units
// (pages) and an optional wall-clock budget. Once exhausted the caller stops
// at the next resumable position and exits normally.
type BatchGovernor struct {
	maxUnits    int
	maxDuration time.Duration
	now         func() time.Time

	started time.Time
	units   int
}

// NewBatchGovernor creates a governor. maxDuration <= 0 disables the time budget.
func NewBatchGovernor(maxUnits int, maxDuration time.Duration) *BatchGovernor {
	return &BatchGovernor{
		maxUnits:    maxUnits,
		maxDuration: maxDuration,
		now:         time.Now,
	}
}

// Start resets the counters and starts the clock.
func (g *BatchGovernor) Start() {
	g.units = 0
	g.started = g.now()
}

// Record counts one completed unit.
func (g *BatchGovernor) Record() {
	g.units++
}

// Units returns the units recorded since Start.
func (g *BatchGovernor) Units() int {
	return g.units
}

// Exhausted reports whether the unit ceiling or the time budget has been reached.
func (g *BatchGovernor) Exhausted() bool {
	if g.maxUnits > 0 && g.units >= g.maxUnits {
		return true
	}
	return g.maxDuration > 0 && g.now().Sub(g.started) >= g.maxDuration
}
