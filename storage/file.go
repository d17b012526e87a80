package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lamorinda/sportsball/models"
)

// FileStorage keeps the snapshot as a single CSV file on disk.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Path() string {
	return s.path
}

// Save writes data to a temp file beside the target and renames it into place.
func (s *FileStorage) Save(ctx context.Context, data []byte) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return models.Snapshot{}, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return models.Snapshot{}, fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return models.Snapshot{}, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return models.Snapshot{}, fmt.Errorf("setting snapshot permissions: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return models.Snapshot{}, fmt.Errorf("replacing snapshot: %w", err)
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("stat snapshot: %w", err)
	}

	return newSnapshot(data, info.ModTime()), nil
}

func (s *FileStorage) Load(ctx context.Context) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Snapshot{}, models.ErrNoSnapshot
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("stat snapshot: %w", err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}

	return newSnapshot(data, info.ModTime()), nil
}

func (s *FileStorage) Close() error {
	return nil
}
