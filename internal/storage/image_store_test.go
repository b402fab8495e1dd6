package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStoreSaveReturnsPublicPath(t *testing.T) {
	dir := t.TempDir()
	ds, err := NewDiskStore(dir, "/assets/img")
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}
	path, err := ds.Save(context.Background(), "band photo.JPG", "image/jpeg", strings.NewReader("data"), 4)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(path, "/assets/img/") {
		t.Fatalf("expected public prefix, got %q", path)
	}
	if !strings.HasSuffix(path, ".jpg") {
		t.Fatalf("expected normalized extension, got %q", path)
	}
	onDisk := filepath.Join(dir, strings.TrimPrefix(path, "/assets/img/"))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "data" {
		t.Fatalf("unexpected file contents: %q", data)
	}
}

func TestDiskStoreNamesDoNotCollide(t *testing.T) {
	ds, err := NewDiskStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}
	first, err := ds.Save(context.Background(), "a.png", "image/png", strings.NewReader("1"), 1)
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, err := ds.Save(context.Background(), "a.png", "image/png", strings.NewReader("2"), 1)
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if first == second {
		t.Fatalf("expected unique names for identical uploads")
	}
}

func TestDiskStoreRequiresBasePath(t *testing.T) {
	if _, err := NewDiskStore("  ", ""); err == nil {
		t.Fatalf("expected error for empty base path")
	}
}
