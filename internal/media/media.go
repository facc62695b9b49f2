// Package media persists uploaded post images to local storage.
package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pa1nf0rce/yatube/pkg/config"
)

// Store writes uploaded images under a configured directory
type Store struct {
	dir string
}

// NewStore creates a media store rooted at the configured upload directory
func NewStore(cfg *config.MediaConfig) *Store {
	return &Store{dir: cfg.UploadDir}
}

// Save persists an uploaded image and returns its stored relative path.
// A nil header (no file submitted) yields an empty path, images being
// optional on posts.
func (s *Store) Save(header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", nil
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	// Random name keeps uploads from clobbering each other
	name := uuid.New().String() + filepath.Ext(header.Filename)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}
