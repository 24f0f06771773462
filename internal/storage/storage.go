package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage receives the files of an exported site.
type Storage interface {
	// Save stores body at the site-relative path, e.g. "posts/hello/index.html".
	Save(ctx context.Context, path string, body []byte, contentType string) error
}

// LocalStorage writes files below a directory.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Save(ctx context.Context, path string, body []byte, contentType string) error {
	clean := filepath.Clean("/" + strings.TrimPrefix(path, "/"))
	target := filepath.Join(s.dir, filepath.FromSlash(clean))

	err := os.MkdirAll(filepath.Dir(target), 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	err = os.WriteFile(target, body, 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *LocalStorage) String() string {
	return s.dir
}
