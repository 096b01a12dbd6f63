package blobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrBlobNotFound    = errors.New("blob not found")
	ErrInvalidFilename = errors.New("invalid blob filename")
)

type Config struct {
	Dir string
}

// DiskStore keeps receipt images as plain files under a single
// directory. Handles are bare filenames; anything path-like is rejected
// before touching the filesystem.
type DiskStore struct {
	dir string
}

func New(cfg Config) (*DiskStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &DiskStore{dir: cfg.Dir}, nil
}

func (s *DiskStore) Store(_ context.Context, filename string, content []byte) error {
	path, err := s.path(filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o640); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}

func (s *DiskStore) Read(_ context.Context, filename string) ([]byte, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return content, nil
}

func (s *DiskStore) Delete(_ context.Context, filename string) error {
	path, err := s.path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

func (s *DiskStore) Exists(_ context.Context, filename string) (bool, error) {
	path, err := s.path(filename)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat blob: %w", err)
	}
	return true, nil
}

func (s *DiskStore) path(filename string) (string, error) {
	if filename == "" || strings.ContainsAny(filename, `/\`) || filename != filepath.Base(filename) {
		return "", ErrInvalidFilename
	}
	return filepath.Join(s.dir, filename), nil
}
