// Package imagestore is the image sink: base64 payloads in, stable
// /images/... URL references out. Files live on local disk under a public
// directory that the HTTP layer serves statically.
package imagestore

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the public path under which stored images are served.
const URLPrefix = "/images/"

// Store writes and resolves creature images on local disk.
type Store struct {
	dir string
}

// New creates the backing directory when missing.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory, for static serving and cleanup.
func (s *Store) Dir() string {
	return s.dir
}

// Save decodes the base64 payload and writes it as <category>_<uuid>.png,
// returning the public URL reference. Fails only on malformed base64 or an
// unwritable disk.
func (s *Store) Save(b64, category string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("image payload is not valid base64: %w", err)
	}

	name := fmt.Sprintf("%s_%s.png", category, uuid.NewString())
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", name, err)
	}
	return URLPrefix + name, nil
}

// Read resolves a URL reference produced by Save back to raw bytes.
func (s *Store) Read(urlPath string) ([]byte, error) {
	name, err := s.fileName(urlPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", name, err)
	}
	return data, nil
}

// Remove deletes a stored image. Missing files are not an error.
func (s *Store) Remove(urlPath string) error {
	name, err := s.fileName(urlPath)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image %s: %w", name, err)
	}
	return nil
}

// fileName validates the reference and strips the URL prefix. Rejects
// anything that could escape the image directory.
func (s *Store) fileName(urlPath string) (string, error) {
	if !strings.HasPrefix(urlPath, URLPrefix) {
		return "", fmt.Errorf("not an image store reference: %s", urlPath)
	}
	name := strings.TrimPrefix(urlPath, URLPrefix)
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid image reference: %s", urlPath)
	}
	return name, nil
}
