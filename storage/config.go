package storage

// Config holds storage initialization parameters.
type Config struct {
	Path string `json:"path,omitempty"` // FileStore root directory; empty selects an in-memory store.
}

// DefaultConfig returns the default storage configuration (in-memory).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
}

// New creates a Store from configuration. An empty Path yields an
// ephemeral in-memory store; anything else is a file-backed store rooted
// at Path.
func New(cfg *Config) (Store, error) {
	if cfg.Path == "" {
		return NewMemStore(), nil
	}
	return NewFileStore(cfg.Path), nil
}
