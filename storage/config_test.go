package storage_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/studyloop/tutorchat/storage"
)

func TestConfig_Merge(t *testing.T) {
	cfg := storage.DefaultConfig()
	cfg.Merge(&storage.Config{Path: "/tmp/chat"})

	if cfg.Path != "/tmp/chat" {
		t.Errorf("Path = %q, want %q", cfg.Path, "/tmp/chat")
	}

	cfg.Merge(&storage.Config{})
	if cfg.Path != "/tmp/chat" {
		t.Error("Merge with zero source should not clear Path")
	}
}

func TestNew_EmptyPathIsInMemory(t *testing.T) {
	cfg := storage.DefaultConfig()
	store, err := storage.New(&cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != "v" {
		t.Errorf("Get() = %q, want %q", value, "v")
	}
}

func TestNew_PathIsFileBacked(t *testing.T) {
	root := t.TempDir()
	cfg := storage.Config{Path: root}

	store, err := storage.New(&cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	reopened := storage.NewFileStore(root)
	if _, err := reopened.Get(ctx, "k"); err != nil {
		t.Errorf("value should be visible through a new store over the same root: %v", err)
	}
}

func TestMemStore_GetMissing(t *testing.T) {
	store := storage.NewMemStore()

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}
}

func TestMemStore_RemoveMissing(t *testing.T) {
	store := storage.NewMemStore()

	if err := store.Remove(context.Background(), "missing"); err != nil {
		t.Errorf("Remove() of missing key error = %v, want nil", err)
	}
}

func TestMemStore_Concurrent(t *testing.T) {
	store := storage.NewMemStore()
	ctx := context.Background()
	const n = 100

	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = store.Set(ctx, "k", "v")
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Get(ctx, "k")
		}()
	}
	wg.Wait()
}
