package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists an uploaded photo and returns the public path callers
// should store in album photo lists.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
}

// DiskStore writes uploads to a local directory served as static assets.
type DiskStore struct {
	basePath     string
	publicPrefix string
}

// NewDiskStore creates the upload directory if missing.
func NewDiskStore(basePath, publicPrefix string) (*DiskStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("image store base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	publicPrefix = strings.TrimRight(publicPrefix, "/")
	if publicPrefix == "" {
		publicPrefix = "/assets/img"
	}
	return &DiskStore{basePath: basePath, publicPrefix: publicPrefix}, nil
}

// Save writes the upload under a collision-free name.
func (d *DiskStore) Save(_ context.Context, filename, _ string, r io.Reader, _ int64) (string, error) {
	name := uniqueName(filename)
	target := filepath.Join(d.basePath, name)
	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return d.publicPrefix + "/" + name, nil
}

// uniqueName keeps only the original extension and replaces the rest with a
// random id so uploads cannot collide or traverse directories.
func uniqueName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	return uuid.NewString() + ext
}
