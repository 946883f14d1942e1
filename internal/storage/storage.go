// Package storage abstracts the blob-storage collaborator product images are
// uploaded to.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Uploader stores an uploaded blob and returns the URL it will be served from.
type Uploader interface {
	Save(filename string, r io.Reader) (string, error)
}

// LocalUploader writes uploads to a directory on disk, served as static files.
type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader creates the upload directory if needed.
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalUploader{dir: dir, baseURL: baseURL}, nil
}

// Save writes the blob under the given filename and returns its public URL.
func (u *LocalUploader) Save(filename string, r io.Reader) (string, error) {
	path := filepath.Join(u.dir, filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return u.baseURL + "/" + filepath.Base(filename), nil
}
