package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/studyloop/tutorchat/storage"
)

func TestFileStore_Get_Missing(t *testing.T) {
	store := storage.NewFileStore(t.TempDir())

	_, err := store.Get(context.Background(), "chat/active_session")
	if !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}
}

func TestFileStore_SetAndGet(t *testing.T) {
	store := storage.NewFileStore(t.TempDir())

	if err := store.Set(context.Background(), "chat/active_session", "sess-123"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, err := store.Get(context.Background(), "chat/active_session")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != "sess-123" {
		t.Errorf("Get() = %q, want %q", value, "sess-123")
	}
}

func TestFileStore_Set_Overwrite(t *testing.T) {
	store := storage.NewFileStore(t.TempDir())
	ctx := context.Background()

	if err := store.Set(ctx, "chat/history", "[]"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, "chat/history", `[{"id":"r1"}]`); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	value, err := store.Get(ctx, "chat/history")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != `[{"id":"r1"}]` {
		t.Errorf("Get() = %q, want overwritten value", value)
	}
}

func TestFileStore_Set_CreatesNestedDirs(t *testing.T) {
	root := t.TempDir()
	store := storage.NewFileStore(root)

	if err := store.Set(context.Background(), "chat/drafts/current", "hello"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	path := filepath.Join(root, "chat", "drafts", "current")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}
	if string(data) != "hello" {
		t.Errorf("file content = %q, want %q", data, "hello")
	}
}

func TestFileStore_Set_NoPartialWrites(t *testing.T) {
	root := t.TempDir()
	store := storage.NewFileStore(root)

	if err := store.Set(context.Background(), "chat/history", "value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// The temp file used for the atomic rename must not linger.
	entries, err := os.ReadDir(filepath.Join(root, "chat"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if e.Name() != "history" {
			t.Errorf("unexpected leftover file %q", e.Name())
		}
	}
}

func TestFileStore_Remove(t *testing.T) {
	store := storage.NewFileStore(t.TempDir())
	ctx := context.Background()

	if err := store.Set(ctx, "chat/active_session", "sess-1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Remove(ctx, "chat/active_session"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, err := store.Get(ctx, "chat/active_session"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("Get() after Remove error = %v, want ErrKeyNotFound", err)
	}
}

func TestFileStore_Remove_Missing(t *testing.T) {
	store := storage.NewFileStore(t.TempDir())

	if err := store.Remove(context.Background(), "never/set"); err != nil {
		t.Errorf("Remove() of missing key error = %v, want nil", err)
	}
}

func TestFileStore_Remove_PrunesEmptyDirs(t *testing.T) {
	root := t.TempDir()
	store := storage.NewFileStore(root)
	ctx := context.Background()

	if err := store.Set(ctx, "chat/drafts/current", "x"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Remove(ctx, "chat/drafts/current"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "chat")); !os.IsNotExist(err) {
		t.Error("emptied directories should be pruned")
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	first := storage.NewFileStore(root)
	if err := first.Set(ctx, "chat/active_session", "sess-9"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	second := storage.NewFileStore(root)
	value, err := second.Get(ctx, "chat/active_session")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if value != "sess-9" {
		t.Errorf("Get() after reopen = %q, want %q", value, "sess-9")
	}
}
