package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore persists uploaded PDF bytes on disk. Stored names are
// uuid-prefixed so concurrent uploads of the same filename never collide.
type FileStore struct {
	dir string
}

// NewFileStore creates the upload directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the upload directory.
func (fs *FileStore) Dir() string {
	return fs.dir
}

// Save writes r to a new file and returns the stored name and byte count.
func (fs *FileStore) Save(filename string, r io.Reader) (string, int64, error) {
	storedName := uuid.New().String() + "_" + sanitizeFilename(filename)

	f, err := os.Create(filepath.Join(fs.dir, storedName))
	if err != nil {
		return "", 0, fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("write upload file: %w", err)
	}

	return storedName, size, nil
}

// Path returns the absolute-ish path for a stored name. Legacy records
// carry an "uploads/<name>" path; only the base name is honored so a
// stale prefix can never escape the upload dir.
func (fs *FileStore) Path(storedName string) string {
	return filepath.Join(fs.dir, filepath.Base(storedName))
}

// Open opens a stored file for reading.
func (fs *FileStore) Open(storedName string) (*os.File, error) {
	return os.Open(fs.Path(storedName))
}

// Remove deletes a stored file. Returns true if a file was removed.
// A missing file is not an error: the DB record is the source of truth
// and a row whose file is already gone must still be deletable.
func (fs *FileStore) Remove(storedName string) (bool, error) {
	err := os.Remove(fs.Path(storedName))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("remove upload file: %w", err)
	}
	return true, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
