package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SeededValues(t *testing.T) {
	seed := map[string]any{"sync.batch_limit": int64(50)}
	store := NewConfigStore(seed)

	seed["sync.batch_limit"] = int64(1)
	assert.Equal(t, 50, store.GetInt("sync.batch_limit"), "seed map is copied")
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"api.base_url":     "https://api.helpscout.net/v2",
		"api.max_retries":  int64(5),
		"sync.batch_limit": 500,
		"metrics.enabled":  true,
		"api.statuses":     []any{"closed", 3, "active"},
		"paths.exclude":    []string{"tmp"},
		"api.timeout":      "30s",
	})

	assert.Equal(t, "https://api.helpscout.net/v2", store.GetString("api.base_url"))
	assert.Equal(t, 5, store.GetInt("api.max_retries"))
	assert.Equal(t, 500, store.GetInt("sync.batch_limit"))
	assert.True(t, store.GetBool("metrics.enabled"))
	assert.Equal(t, []string{"closed", "active"}, store.GetStringSlice("api.statuses"))
	assert.Equal(t, []string{"tmp"}, store.GetStringSlice("paths.exclude"))

	// Wrong types read as zero values.
	assert.Empty(t, store.GetString("api.max_retries"))
	assert.Zero(t, store.GetInt("api.timeout"))
	assert.False(t, store.GetBool("api.timeout"))
	assert.Nil(t, store.GetStringSlice("api.timeout"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_SetAndKeys(t *testing.T) {
	store := NewConfigStore(nil)
	assert.Empty(t, store.Keys())

	require.NoError(t, store.Set("sync.strategy", "window"))
	require.NoError(t, store.Set("api.timeout", "45s"))
	require.NoError(t, store.Set("sync.strategy", "page"))
	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	assert.Equal(t, []string{"api.timeout", "sync.strategy"}, store.Keys())
	assert.Equal(t, "page", store.GetString("sync.strategy"))
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore(nil)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("key", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("key")
			_ = store.Keys()
		}()
	}
	wg.Wait()

	_, ok := store.Get("key")
	assert.True(t, ok)
}
