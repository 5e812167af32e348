package exchange_test

import (
	"errors"
	"testing"

	"github.com/studyloop/tutorchat/exchange"
	"github.com/studyloop/tutorchat/session"
	"github.com/studyloop/tutorchat/storage"
)

func newRegistry() *exchange.Registry {
	return exchange.NewRegistry(session.NewManager(storage.NewMemStore()))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := newRegistry()

	cfg := exchange.DefaultConfig()
	cfg.BaseURL = "https://tutor.example.com"
	if err := r.Register("default", cfg); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	client, err := r.Get("default")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if client == nil {
		t.Fatal("Get() returned nil client")
	}
}

func TestRegistry_Get_Caches(t *testing.T) {
	r := newRegistry()

	cfg := exchange.DefaultConfig()
	cfg.BaseURL = "https://tutor.example.com"
	if err := r.Register("default", cfg); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	first, err := r.Get("default")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := r.Get("default")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if first != second {
		t.Error("Get() should return the same lazily created client")
	}
}

func TestRegistry_Get_Unknown(t *testing.T) {
	r := newRegistry()

	_, err := r.Get("missing")
	if !errors.Is(err, exchange.ErrServiceNotFound) {
		t.Errorf("Get() error = %v, want ErrServiceNotFound", err)
	}
}

func TestRegistry_Register_EmptyName(t *testing.T) {
	r := newRegistry()

	err := r.Register("", exchange.DefaultConfig())
	if !errors.Is(err, exchange.ErrEmptyServiceName) {
		t.Errorf("Register() error = %v, want ErrEmptyServiceName", err)
	}
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := newRegistry()

	if err := r.Register("default", exchange.DefaultConfig()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	err := r.Register("default", exchange.DefaultConfig())
	if !errors.Is(err, exchange.ErrServiceExists) {
		t.Errorf("duplicate Register() error = %v, want ErrServiceExists", err)
	}
}

func TestRegistry_Replace_InvalidatesCachedClient(t *testing.T) {
	r := newRegistry()

	cfg := exchange.DefaultConfig()
	cfg.BaseURL = "https://prod.example.com"
	if err := r.Register("default", cfg); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	before, err := r.Get("default")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	cfg.BaseURL = "https://staging.example.com"
	if err := r.Replace("default", cfg); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	after, err := r.Get("default")
	if err != nil {
		t.Fatalf("Get() after Replace error = %v", err)
	}
	if before == after {
		t.Error("Replace() should invalidate the cached client")
	}
}

func TestRegistry_Replace_Unknown(t *testing.T) {
	r := newRegistry()

	err := r.Replace("missing", exchange.DefaultConfig())
	if !errors.Is(err, exchange.ErrServiceNotFound) {
		t.Errorf("Replace() error = %v, want ErrServiceNotFound", err)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := newRegistry()

	if err := r.Register("default", exchange.DefaultConfig()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Unregister("default"); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}

	if _, err := r.Get("default"); !errors.Is(err, exchange.ErrServiceNotFound) {
		t.Errorf("Get() after Unregister error = %v, want ErrServiceNotFound", err)
	}
}

func TestRegistry_List_Sorted(t *testing.T) {
	r := newRegistry()

	for _, name := range []string{"staging", "default", "beta"} {
		cfg := exchange.DefaultConfig()
		cfg.BaseURL = "https://" + name + ".example.com"
		if err := r.Register(name, cfg); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}

	infos := r.List()
	want := []string{"beta", "default", "staging"}
	if len(infos) != len(want) {
		t.Fatalf("List() returned %d services, want %d", len(infos), len(want))
	}
	for i, info := range infos {
		if info.Name != want[i] {
			t.Errorf("List()[%d].Name = %q, want %q", i, info.Name, want[i])
		}
	}
}
