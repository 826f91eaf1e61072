package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrBlobNotFound = errors.New("blob not found")

// LocalStorage keeps blobs as opaquely named files in a single flat
// directory. The directory is created on first write.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root}
}

func (s *LocalStorage) Save(ref string, r io.Reader) error {
	err := os.MkdirAll(s.root, 0755)
	if err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	f, err := os.Create(filepath.Join(s.root, ref))
	if err != nil {
		return fmt.Errorf("failed to create blob: %w", err)
	}

	_, err = io.Copy(f, r)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to write blob: %w", err)
	}

	return f.Close()
}

func (s *LocalStorage) Open(ref string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.root, ref))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *LocalStorage) Delete(ref string) error {
	err := os.Remove(filepath.Join(s.root, ref))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
