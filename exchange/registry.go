package exchange

import (
	"fmt"
	"sort"
	"sync"

	"github.com/studyloop/tutorchat/session"
)

// ServiceInfo describes a registered remote service profile.
type ServiceInfo struct {
	Name    string
	BaseURL string
}

// Registry manages named remote-service profiles with lazy client
// instantiation. Configs are stored at registration time; clients are
// created on first Get call, all sharing one session identity. Thread-safe
// for concurrent access.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]Config
	clients map[string]*Client
	session session.Identity
	opts    []Option
}

// NewRegistry creates an empty Registry. Options are applied to every
// client the registry instantiates.
func NewRegistry(ids session.Identity, opts ...Option) *Registry {
	return &Registry{
		configs: make(map[string]Config),
		clients: make(map[string]*Client),
		session: ids,
		opts:    opts,
	}
}

// Get retrieves a named service client, instantiating it lazily on first
// access.
func (r *Registry) Get(name string) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, registered := r.configs[name]
	if !registered {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}

	if c, exists := r.clients[name]; exists {
		return c, nil
	}

	c := NewClient(cfg, r.session, r.opts...)
	r.clients[name] = c
	return c, nil
}

// List returns information about all registered services, sorted by name.
func (r *Registry) List() []ServiceInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ServiceInfo, 0, len(r.configs))
	for name, cfg := range r.configs {
		infos = append(infos, ServiceInfo{Name: name, BaseURL: cfg.BaseURL})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})

	return infos
}

// Register adds a named service configuration to the registry.
// The client is not instantiated until Get is called.
func (r *Registry) Register(name string, cfg Config) error {
	if name == "" {
		return ErrEmptyServiceName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[name]; exists {
		return fmt.Errorf("%w: %s", ErrServiceExists, name)
	}

	r.configs[name] = cfg
	return nil
}

// Replace updates the configuration for an existing named service.
// Any cached client instance is invalidated; the next Get re-instantiates.
func (r *Registry) Replace(name string, cfg Config) error {
	if name == "" {
		return ErrEmptyServiceName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[name]; !exists {
		return fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}

	r.configs[name] = cfg
	delete(r.clients, name)
	return nil
}

// Unregister removes a named service from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[name]; !exists {
		return fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}

	delete(r.configs, name)
	delete(r.clients, name)
	return nil
}
