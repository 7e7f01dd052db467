package driven

// ConfigStore provides access to persisted settings.
// Keys use dot notation matching the file's table layout, e.g.
// "azdo.organization" for organization under [azdo].
type ConfigStore interface {
	// Get retrieves a value by key and reports whether it exists.
	Get(key string) (any, bool)

	// GetString returns "" if the key is missing or not a string.
	GetString(key string) string

	// GetInt returns 0 if the key is missing or not an integer.
	GetInt(key string) int

	// GetFloat returns 0 if the key is missing or not a number.
	GetFloat(key string) float64

	// Set stores a value and persists immediately.
	Set(key string, value any) error

	// Keys lists the stored keys in sorted order.
	Keys() []string

	// Path returns the backing file path.
	Path() string
}
