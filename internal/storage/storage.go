// Package storage keeps uploaded URL spreadsheets. Disk-backed for now; the
// interface is the seam for an object store.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrUnsupportedType = errors.New("unsupported file type")

type FileStore interface {
	Save(name string, r io.Reader) (path string, err error)
	Open(path string) (io.ReadCloser, error)
}

type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "create upload dir")
	}
	return &DiskStore{root: root}, nil
}

// Save writes the upload under a uuid-prefixed name so customer file names
// never collide. Only spreadsheet extensions are accepted.
func (s *DiskStore) Save(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".xlsx" && ext != ".xls" {
		return "", ErrUnsupportedType
	}

	stored := fmt.Sprintf("%s-%s", uuid.New().String(), filepath.Base(name))
	full := filepath.Join(s.root, stored)

	f, err := os.Create(full)
	if err != nil {
		return "", errors.Wrap(err, "create upload")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", errors.Wrap(err, "write upload")
	}
	return stored, nil
}

func (s *DiskStore) Open(path string) (io.ReadCloser, error) {
	// No path components allowed, the store is flat.
	if filepath.Base(path) != path {
		return nil, errors.Errorf("invalid stored path %q", path)
	}
	f, err := os.Open(filepath.Join(s.root, path))
	if err != nil {
		return nil, errors.Wrap(err, "open upload")
	}
	return f, nil
}
