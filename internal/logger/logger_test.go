package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects log output for the duration of a test.
func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestVerboseOnlyLevels(t *testing.T) {
	tests := []struct {
		name    string
		log     func()
		verbose bool
		want    string
	}{
		{name: "debug verbose", log: func() { Debug("page %d", 3) }, verbose: true, want: "[DEBUG] page 3\n"},
		{name: "debug quiet", log: func() { Debug("page %d", 3) }, verbose: false, want: ""},
		{name: "info verbose", log: func() { Info("archived %s", "x") }, verbose: true, want: "[INFO] archived x\n"},
		{name: "info quiet", log: func() { Info("archived %s", "x") }, verbose: false, want: ""},
		{name: "section verbose", log: func() { Section("Sync") }, verbose: true, want: "\n=== Sync ===\n"},
		{name: "section quiet", log: func() { Section("Sync") }, verbose: false, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.verbose)
			tt.log()
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWarnAndErrorAlwaysPrint(t *testing.T) {
	buf := capture(t, false)

	Warn("skipped record %s", "42")
	Error("checkpoint %s", "unreadable")

	assert.Equal(t, "[WARN] skipped record 42\n[ERROR] checkpoint unreadable\n", buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", i)
			Warn("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
		}()
	}
	wg.Wait()
}
