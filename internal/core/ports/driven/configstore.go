package driven

// ConfigStore reads and writes the configuration file.
// Keys are dotted paths into nested tables, e.g. "sync.batch_limit".
// Typed getters return the zero value for missing or mistyped keys.
type ConfigStore interface {
	// Get returns the raw value and whether the key exists.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Keys returns every configured key, sorted.
	Keys() []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save writes the current values to storage.
	Save() error

	// Load re-reads values from storage.
	Load() error

	// Path returns where the configuration is stored.
	Path() string
}
