package infra

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStorage saves uploads under a per-owner directory, where the owner is
// whatever record the file belongs to (an episode, a user, a patient). Files
// are renamed to a uuid to avoid collisions and path tricks in uploaded file
// names.
type FileStorage struct {
	basePath string
}

func NewFileStorage(basePath string) *FileStorage {
	return &FileStorage{basePath: basePath}
}

// Save writes the upload stream to basePath/<ownerID>/<uuid><ext> and
// returns the stored path relative to basePath.
func (s *FileStorage) Save(ownerID uuid.UUID, originalName string, r io.Reader) (string, error) {
	dir := filepath.Join(s.basePath, ownerID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext
	dst := filepath.Join(dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("storage: write file: %w", err)
	}

	return filepath.Join(ownerID.String(), name), nil
}

// Open returns a reader for a previously stored path.
func (s *FileStorage) Open(storedPath string) (*os.File, error) {
	full := filepath.Join(s.basePath, filepath.Clean("/"+storedPath))
	return os.Open(full)
}

// Remove deletes a previously stored file. A missing file is not an error;
// the database row is the source of truth and the disk may lag behind.
func (s *FileStorage) Remove(storedPath string) error {
	full := filepath.Join(s.basePath, filepath.Clean("/"+storedPath))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove file: %w", err)
	}
	return nil
}
